package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/draftin/internal/prioritize"
	"github.com/amishk599/draftin/internal/store"
)

var (
	draftsLimit     int
	draftsOlderThan time.Duration
)

const draftPreviewSize = 60

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List saved drafts, newest first",
	RunE:  runDrafts,
}

var draftsShowCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Print one saved draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftsShow,
}

var draftsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete drafts older than a cutoff",
	RunE:  runDraftsPrune,
}

func init() {
	draftsCmd.Flags().IntVarP(&draftsLimit, "limit", "n", 20, "how many drafts to list (0 = all)")
	draftsPruneCmd.Flags().DurationVar(&draftsOlderThan, "older-than", 30*24*time.Hour, "delete drafts created before now minus this duration")
	draftsCmd.AddCommand(draftsShowCmd, draftsPruneCmd)
	rootCmd.AddCommand(draftsCmd)
}

func openStore() (*store.SQLiteStore, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return store.NewSQLiteStore(cfg.Store.Path)
}

func runDrafts(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	drafts, err := s.ListDrafts(draftsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(drafts) == 0 {
		fmt.Fprintln(out, "No drafts saved yet.")
		return nil
	}

	fmt.Fprintf(out, "%-8s  %-7s  %-16s  %-28s  %s\n", "ID", "Kind", "Created", "Job", "Prompt")
	fmt.Fprintln(out, strings.Repeat("─", 100))
	for _, d := range drafts {
		fmt.Fprintf(out, "%-8s  %-7s  %-16s  %-28s  %s\n",
			d.ID[:min(8, len(d.ID))],
			d.Kind,
			d.CreatedAt.Local().Format("2006-01-02 15:04"),
			prioritize.TruncateFixed(d.JobTitle, 25),
			prioritize.TruncateFixed(d.Prompt, draftPreviewSize),
		)
	}
	fmt.Fprintf(out, "\nShowing %d drafts\n", len(drafts))
	return nil
}

func runDraftsShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	drafts, err := s.ListDrafts(0)
	if err != nil {
		return err
	}
	for _, d := range drafts {
		if strings.HasPrefix(d.ID, args[0]) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  %s\n", d.Kind, d.JobTitle, d.JobURL)
			fmt.Fprintf(out, "Prompt: %s\n\n%s\n", d.Prompt, d.Content)
			return nil
		}
	}
	return fmt.Errorf("no draft with id %q", args[0])
}

func runDraftsPrune(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.Cleanup(draftsOlderThan)
	if err != nil {
		return err
	}
	logger.Info("pruned drafts", "deleted", n, "older_than", draftsOlderThan.String())
	return nil
}
