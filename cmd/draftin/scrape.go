package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/draftin/internal/prioritize"
)

var scrapeFull bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url|file>",
	Short: "Extract job details from a listing",
	Long:  "Fetches a listing URL or reads a saved HTML page and prints the extracted job details as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeFull, "full", false, "print the full description instead of a preview")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job, err := newScraper(cfg, logger).Scrape(ctx, args[0])
	if err != nil {
		return err
	}
	logger.Debug("scraped listing",
		"title", job.Title,
		"requirements", len(job.Requirements),
		"questions", len(job.ApplicationQuestions),
	)

	if !scrapeFull {
		job.Description = prioritize.TruncateWords(job.Description, prioritize.PreviewWords)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(job)
}
