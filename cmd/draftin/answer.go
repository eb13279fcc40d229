package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/draftin/internal/ai"
	"github.com/amishk599/draftin/internal/applier"
	"github.com/amishk599/draftin/internal/filter"
	"github.com/amishk599/draftin/internal/model"
	"github.com/amishk599/draftin/internal/tui"
)

var answerFlags struct {
	question   int
	ask        string
	length     string
	regenerate string
	dryRun     bool
	all        bool
	notify     bool
}

var answerCmd = &cobra.Command{
	Use:   "answer <url|file>",
	Short: "Draft an answer to an application question",
	Long: "Scrapes the listing and drafts an answer to one of its application questions.\n" +
		"Without --question on a terminal, a picker lists the questions found on the page.\n" +
		"--ask answers a question that is not on the page; --all answers every question.",
	Args: cobra.ExactArgs(1),
	RunE: runAnswer,
}

func init() {
	f := answerCmd.Flags()
	f.IntVarP(&answerFlags.question, "question", "q", 0, "question number as listed by the picker or `scrape` (1-based)")
	f.StringVar(&answerFlags.ask, "ask", "", "answer this question instead of one from the page")
	f.StringVarP(&answerFlags.length, "length", "l", "medium", "answer length: small, medium or large")
	f.StringVar(&answerFlags.regenerate, "regenerate", "", "extra steer for the model, e.g. \"shorter, mention Go\"")
	f.BoolVar(&answerFlags.dryRun, "dry-run", false, "print the prompt instead of calling the LLM")
	f.BoolVar(&answerFlags.all, "all", false, "answer every question on the page")
	f.BoolVar(&answerFlags.notify, "notify", false, "send finished drafts to the configured notifier")
	answerCmd.MarkFlagsMutuallyExclusive("question", "ask", "all")
	rootCmd.AddCommand(answerCmd)
}

func runAnswer(cmd *cobra.Command, args []string) error {
	length, err := model.ParseAnswerLength(answerFlags.length)
	if err != nil {
		return err
	}

	interactive := isTerminal() && !answerFlags.all
	logger := quietLogger(setupLogger(debug), interactive)

	env, err := setupDrafting(answerFlags.dryRun, logger)
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

	out := cmd.OutOrStdout()
	question, all, err := chooseQuestion(job, interactive)
	if err != nil {
		return err
	}
	if all {
		report, err := applier.NewApplier(env.scraper, env.drafter, logger).Answer(ctx, job, applier.Options{
			Filter:     filter.NewKeywordFilter(env.cfg.Questions.Include, env.cfg.Questions.Exclude),
			Length:     length,
			Regenerate: answerFlags.regenerate,
		})
		printReport(out, report)
		if err != nil {
			return err
		}
		return env.deliver(ctx, answerFlags.notify, report.Drafts()...)
	}
	if question == "" {
		return nil
	}

	draft, err := runDraft(ctx, out, interactive, job, "Drafting answer", answerFlags.regenerate,
		func(ctx context.Context, regenerate string) (model.Draft, error) {
			return env.drafter.GenerateAnswer(ctx, ai.AnswerRequest{
				Job:        job,
				Question:   question,
				Length:     length,
				Regenerate: regenerate,
			})
		})
	if err != nil {
		return err
	}
	return env.deliver(ctx, answerFlags.notify, draft)
}

// chooseQuestion resolves which question to answer, or all of them. An
// empty question without all means the user quit the picker.
func chooseQuestion(job model.JobDetails, interactive bool) (question string, all bool, err error) {
	questions := job.ApplicationQuestions
	switch {
	case answerFlags.all:
		return "", true, nil
	case answerFlags.ask != "":
		return answerFlags.ask, false, nil
	case answerFlags.question != 0:
		if answerFlags.question < 1 || answerFlags.question > len(questions) {
			return "", false, fmt.Errorf("question %d out of range (listing has %d)", answerFlags.question, len(questions))
		}
		return questions[answerFlags.question-1], false, nil
	case len(questions) == 0:
		return "", false, fmt.Errorf("%w; pass the question with --ask", applier.ErrNoQuestions)
	case len(questions) == 1:
		return questions[0], false, nil
	case !interactive:
		return "", false, fmt.Errorf("listing has %d questions; pass --question N or --all", len(questions))
	}

	picked, err := tui.RunQuestionPicker(questions)
	if err != nil {
		return "", false, err
	}
	if picked.All {
		return "", true, nil
	}
	if picked.Index < 0 {
		return "", false, nil
	}
	return questions[picked.Index], false, nil
}

func printReport(out io.Writer, report applier.Report) {
	for _, res := range report.Results {
		fmt.Fprintf(out, "## %d. %s\n\n", res.Index+1, res.Question)
		if res.Err != nil {
			fmt.Fprintf(out, "(failed: %v)\n\n", res.Err)
			continue
		}
		fmt.Fprintf(out, "%s\n\n", res.Draft.Content)
	}
}
