package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [specialties-file]",
	Short: "Research multiple specialties in sequence",
	Long: `Runs the single-specialty flow for each entry of a specialties file (one
per line) or of the --specialties flag, in order. Produces one markdown
report per specialty plus an aggregate batch_summary.json. A specialty with
zero results is recorded as failed without stopping the batch.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		specialties, _ := cmd.Flags().GetStringSlice("specialties")
		if len(args) == 1 {
			fromFile, err := readSpecialtiesFile(args[0])
			if err != nil {
				log.Fatalf("cannot read specialties file: %s", err)
			}
			specialties = append(specialties, fromFile...)
		}
		if len(specialties) == 0 {
			log.Fatal("Please provide specialties via a file argument or --specialties")
		}

		outputDir, _ := cmd.Flags().GetString("output")
		runner := newRunner(outputDir)

		summary, err := runner.RunBatch(context.Background(), specialties)
		if err != nil {
			log.Printf("batch failed: %s", err)
			os.Exit(1)
		}

		fmt.Printf("\nSpecialties researched: %d (%d failed)\n", summary.Specialties, summary.Failures)
		fmt.Printf("Total companies: %d\n", summary.TotalCompanies)
		fmt.Printf("Total contacts: %d\n", summary.TotalContacts)
		fmt.Printf("Total FDA cleared: %d\n", summary.TotalFDA)
		fmt.Printf("Duration: %.1fs\n", summary.DurationSecs)

		if summary.TotalFailure() {
			os.Exit(1)
		}
	},
}

func readSpecialtiesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var specialties []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		specialties = append(specialties, line)
	}
	return specialties, scanner.Err()
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringSlice("specialties", nil, "Specialties to research (comma-separated or repeated)")
	batchCmd.Flags().StringP("output", "o", "", "Output directory for reports (default research_output/<timestamp>)")
}
