package cmd

import (
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/gulfbridge/medscout/pkg/ai"
	"github.com/gulfbridge/medscout/pkg/contacts"
	"github.com/gulfbridge/medscout/pkg/notion"
	"github.com/gulfbridge/medscout/pkg/openfda"
	"github.com/gulfbridge/medscout/pkg/research"
	"github.com/gulfbridge/medscout/pkg/scraper"
	"github.com/gulfbridge/medscout/pkg/search"
)

// newRunner wires every pipeline component from the resolved configuration.
// Missing required keys (search, database) are fatal here at startup;
// optional providers (Hunter, Apollo, openFDA key) degrade.
func newRunner(outputDir string) *research.Runner {
	braveKey := viper.GetString("brave.api_key")
	if braveKey == "" {
		log.Fatal("Please provide a Brave Search API key (brave.api_key in config or BRAVE_API_KEY)")
	}
	notionKey := viper.GetString("notion.api_key")
	if notionKey == "" {
		log.Fatal("Please provide a Notion API key (notion.api_key in config or NOTION_API_KEY)")
	}
	notionDB := viper.GetString("notion.database_id")
	if notionDB == "" {
		log.Fatal("Please provide a Notion database ID (notion.database_id in config or NOTION_DATABASE_ID)")
	}
	geminiKey := viper.GetString("gemini.api_key")
	if geminiKey == "" {
		log.Fatal("Please provide a Gemini API key (gemini.api_key in config or GEMINI_API_KEY)")
	}

	if outputDir == "" {
		outputDir = viper.GetString("research.output_dir")
	}
	if outputDir == "" {
		outputDir = filepath.Join("research_output", time.Now().Format("20060102_150405"))
	}

	cfg := research.Config{
		QueryTemplates: viper.GetStringSlice("research.query_templates"),
		TargetRoles:    viper.GetStringSlice("research.target_roles"),
		MaxCompanies:   viper.GetInt("research.max_companies"),
		OutputDir:      outputDir,
	}

	var providers []contacts.Provider
	if key := viper.GetString("hunter.api_key"); key != "" {
		providers = append(providers, contacts.NewHunter(key))
	}
	if key := viper.GetString("apollo.api_key"); key != "" {
		providers = append(providers, contacts.NewApollo(key))
	}

	return research.NewRunner(
		cfg,
		search.NewClient(braveKey, cfg.MaxCompanies),
		scraper.New(),
		openfda.NewClient(viper.GetString("openfda.api_key")),
		contacts.NewFinder(providers...),
		notion.NewClient(notionKey, notionDB),
		ai.NewSummarizer(geminiKey, viper.GetString("gemini.model")),
	)
}
