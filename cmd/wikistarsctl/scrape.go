package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wikistars5/wikistars5/internal/assistant"
	"github.com/wikistars5/wikistars5/internal/scraper"
)

var scrapeDescribe bool

var scrapeCmd = &cobra.Command{
	Use:       "scrape wikipedia|famousbirthdays NAME",
	Short:     "Look a figure up on an external source and print the draft",
	Long:      `Fetch a figure draft without saving it. Use the admin import endpoint to create the figure.`,
	Args:      cobra.MinimumNArgs(2),
	ValidArgs: []string{scraper.SourceWikipedia, scraper.SourceFamousBirthdays},
	RunE:      runScrape,
}

func init() {
	scrapeCmd.Flags().BoolVarP(&scrapeDescribe, "describe", "d", false, "Rewrite the description with the AI assistant")
}

func runScrape(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(false)
	if err != nil {
		return err
	}

	client := scraper.NewClient(e.cfg.Scraper, e.log)
	defer client.Close()

	threshold := e.cfg.Scraper.SimilarityThreshold
	var source scraper.Source
	switch args[0] {
	case scraper.SourceWikipedia:
		source = scraper.NewWikipedia(client, e.cfg.Scraper.WikipediaURL(), threshold, e.log)
	case scraper.SourceFamousBirthdays:
		source = scraper.NewFamousBirthdays(client, e.cfg.Scraper.FamousBirthdaysURL, threshold, e.log)
	default:
		return fmt.Errorf("unknown source %q", args[0])
	}

	ctx := cmd.Context()
	draft, err := source.Lookup(ctx, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	if scrapeDescribe {
		writer, err := assistant.New(ctx, e.cfg.Assistant, e.log)
		if err != nil {
			return err
		}
		if !writer.Enabled() {
			return fmt.Errorf("assistant is not configured (assistant.api_key)")
		}
		description, err := writer.Describe(ctx, draft)
		if err != nil {
			return err
		}
		draft.Figure.Description = description
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(draft)
}
