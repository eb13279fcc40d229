package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/draftin/internal/ai"
	"github.com/amishk599/draftin/internal/model"
)

var messageFlags struct {
	recipient  string
	platform   string
	intent     string
	size       string
	regenerate string
	dryRun     bool
	notify     bool
}

var messageCmd = &cobra.Command{
	Use:   "message <url|file>",
	Short: "Draft an outreach message about a job",
	Long: "Scrapes the listing and drafts a message to someone about it, styled for the\n" +
		"platform (linkedin, email, twitter/x, whatsapp; anything else gets a professional tone).",
	Args: cobra.ExactArgs(1),
	RunE: runMessage,
}

func init() {
	f := messageCmd.Flags()
	f.StringVar(&messageFlags.recipient, "recipient", "", "who the message is for, e.g. \"Dana, Engineering Manager\"")
	f.StringVar(&messageFlags.platform, "platform", "", "where it will be sent: linkedin, email, twitter, whatsapp, ...")
	f.StringVar(&messageFlags.intent, "intent", "", "what the message should achieve")
	f.StringVarP(&messageFlags.size, "size", "s", "mid", "message size: small, mid or large")
	f.StringVar(&messageFlags.regenerate, "regenerate", "", "extra steer for the model")
	f.BoolVar(&messageFlags.dryRun, "dry-run", false, "print the prompt instead of calling the LLM")
	f.BoolVar(&messageFlags.notify, "notify", false, "send the finished draft to the configured notifier")
	for _, name := range []string{"recipient", "platform", "intent"} {
		_ = messageCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(messageCmd)
}

func runMessage(cmd *cobra.Command, args []string) error {
	size, err := model.ParseMessageSize(messageFlags.size)
	if err != nil {
		return err
	}

	interactive := isTerminal()
	logger := quietLogger(setupLogger(debug), interactive)

	env, err := setupDrafting(messageFlags.dryRun, logger)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job, err := env.scraper.Scrape(ctx, args[0])
	if err != nil {
		return err
	}

	draft, err := runDraft(ctx, cmd.OutOrStdout(), interactive, job, "Drafting message", messageFlags.regenerate,
		func(ctx context.Context, regenerate string) (model.Draft, error) {
			return env.drafter.GenerateMessage(ctx, ai.MessageRequest{
				Job:        job,
				Recipient:  messageFlags.recipient,
				Platform:   messageFlags.platform,
				Intent:     messageFlags.intent,
				Size:       size,
				Regenerate: regenerate,
			})
		})
	if err != nil {
		return err
	}
	return env.deliver(ctx, messageFlags.notify, draft)
}
