package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <specialty>",
	Short: "Research manufacturers for a single medical equipment specialty",
	Long: `Researches one specialty end to end: searches for manufacturers, scrapes
each candidate website, checks the FDA database, finds outreach contacts,
and exports every company to Notion. Writes a markdown report when done.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		outputDir, _ := cmd.Flags().GetString("output")
		runner := newRunner(outputDir)

		report, err := runner.ResearchSpecialty(context.Background(), args[0])
		if err != nil {
			log.Printf("research failed: %s", err)
			os.Exit(1)
		}

		fmt.Printf("\nSpecialty: %s\n", report.Specialty)
		fmt.Printf("Companies exported: %d (%d export failures)\n", report.CompanyCount, report.ExportFailures)
		fmt.Printf("Contacts found: %d\n", report.ContactsFound)
		fmt.Printf("FDA cleared: %d\n", report.FDACleared)
		if report.ReportPath != "" {
			fmt.Printf("Report: %s\n", report.ReportPath)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("output", "o", "", "Output directory for reports (default research_output/<timestamp>)")
}
