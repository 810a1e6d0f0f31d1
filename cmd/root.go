package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/gulfbridge/medscout/internal/utils"
)

var cfgFile string

const (
	LOGO = `                     _                    _   
  _ __ ___   ___  __| |___  ___ ___  _   _| |_ 
 | '_ ` + "`" + ` _ \ / _ \/ _` + "`" + ` / __|/ __/ _ \| | | | __|
 | | | | | |  __/ (_| \__ \ (_| (_) | |_| | |_ 
 |_| |_| |_|\___|\__,_|___/\___\___/ \__,_|\__|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "medscout",
	Short: "A medical equipment manufacturer research pipeline for Gulf-region business development.",
	Long: LOGO + `medscout discovers manufacturers for a medical equipment specialty, enriches
them with certification, FDA, and contact data, and upserts the results into
a Notion database for business-development outreach.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.medscout.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".medscout")
		viper.SetConfigType("yaml")
	}

	// BRAVE_API_KEY in the environment maps to brave.api_key and so on.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.medscout.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("brave.api_key", "")
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", "")
	viper.SetDefault("notion.api_key", "")
	viper.SetDefault("notion.database_id", "")
	viper.SetDefault("hunter.api_key", "")
	viper.SetDefault("apollo.api_key", "")
	viper.SetDefault("openfda.api_key", "")
	viper.SetDefault("research.max_companies", 10)
	viper.SetDefault("research.query_templates", []string{})
	viper.SetDefault("research.target_roles", []string{})
	viper.SetDefault("research.output_dir", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
