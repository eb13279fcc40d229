package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/draftin/internal/prioritize"
)

var (
	trimPolicy string
	trimLimit  int
)

var trimCmd = &cobra.Command{
	Use:   "trim <file|->",
	Short: "Run the content prioritizer on a file",
	Long: "Applies a trimming policy to a text file (or stdin with -) and prints the result.\n" +
		"Useful for checking what part of a description or résumé fits a budget.",
	Args: cobra.ExactArgs(1),
	RunE: runTrim,
}

func init() {
	trimCmd.Flags().StringVarP(&trimPolicy, "policy", "p", "sections", "policy: sections, fixed or words")
	trimCmd.Flags().IntVarP(&trimLimit, "limit", "n", prioritize.DescriptionBudget, "character budget (words for the words policy)")
	rootCmd.AddCommand(trimCmd)
}

func runTrim(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	policy, err := prioritize.ParsePolicy(trimPolicy, trimLimit)
	if err != nil {
		return err
	}

	var data []byte
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	text := string(data)
	trimmed := policy.Apply(text)
	logger.Debug("trimmed",
		"policy", policy.Name(),
		"limit", trimLimit,
		"before", len([]rune(text)),
		"after", len([]rune(trimmed)),
	)

	fmt.Fprintln(cmd.OutOrStdout(), trimmed)
	return nil
}
