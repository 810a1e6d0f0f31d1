package main

import "github.com/gulfbridge/medscout/cmd"

func main() {
	cmd.Execute()
}
