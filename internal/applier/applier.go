// Package applier runs the scrape-then-draft pipeline for every application
// question on a listing.
package applier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amishk599/draftin/internal/ai"
	"github.com/amishk599/draftin/internal/model"
)

// ErrNoQuestions is returned when the listing has no application questions
// to answer.
var ErrNoQuestions = errors.New("no application questions found")

// AnswerDrafter drafts one application answer.
type AnswerDrafter interface {
	GenerateAnswer(ctx context.Context, req ai.AnswerRequest) (model.Draft, error)
}

// QuestionFilter decides whether a question is worth drafting.
type QuestionFilter interface {
	Match(question string) bool
}

// Options select which questions to answer and how.
type Options struct {
	Questions []int // zero-based; empty means all
	// Filter narrows "all" down. Explicitly chosen questions skip it.
	Filter     QuestionFilter
	Length     model.AnswerLength
	Regenerate string
}

// Result is the outcome for one question.
type Result struct {
	Index    int
	Question string
	Draft    model.Draft
	Err      error
}

// Report is the outcome of one run.
type Report struct {
	Job     model.JobDetails
	Results []Result
}

// Failed counts results that carry an error.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Drafts returns the successful drafts in question order.
func (r Report) Drafts() []model.Draft {
	var drafts []model.Draft
	for _, res := range r.Results {
		if res.Err == nil {
			drafts = append(drafts, res.Draft)
		}
	}
	return drafts
}

// Applier owns the full pipeline for a listing:
// scrape → select questions → draft each answer.
type Applier struct {
	scraper model.PageScraper
	drafter AnswerDrafter
	logger  *slog.Logger
}

// NewApplier creates an applier wired with all its dependencies.
func NewApplier(scraper model.PageScraper, drafter AnswerDrafter, logger *slog.Logger) *Applier {
	return &Applier{
		scraper: scraper,
		drafter: drafter,
		logger:  logger,
	}
}

// Run scrapes source and answers the selected questions. It fails when the
// scrape fails or when Answer does.
func (a *Applier) Run(ctx context.Context, source string, opts Options) (Report, error) {
	job, err := a.scraper.Scrape(ctx, source)
	if err != nil {
		return Report{}, fmt.Errorf("applying to %s: %w", source, err)
	}
	report, err := a.Answer(ctx, job, opts)
	if err != nil {
		return report, fmt.Errorf("applying to %s: %w", source, err)
	}
	return report, nil
}

// Answer drafts an answer for every selected question of an already scraped
// job. A failing question is recorded and the run moves on; Answer itself
// fails only when nothing can be drafted or every question fails.
func (a *Applier) Answer(ctx context.Context, job model.JobDetails, opts Options) (Report, error) {
	report := Report{Job: job}

	indices, err := selectQuestions(job.ApplicationQuestions, opts.Questions)
	if err != nil {
		return report, err
	}
	if len(opts.Questions) == 0 && opts.Filter != nil {
		indices = a.filter(job.ApplicationQuestions, indices, opts.Filter)
		if len(indices) == 0 {
			return report, fmt.Errorf("every question was filtered out: %w", ErrNoQuestions)
		}
	}

	for _, i := range indices {
		question := job.ApplicationQuestions[i]
		draft, err := a.drafter.GenerateAnswer(ctx, ai.AnswerRequest{
			Job:        job,
			Question:   question,
			Length:     opts.Length,
			Regenerate: opts.Regenerate,
		})
		report.Results = append(report.Results, Result{Index: i, Question: question, Draft: draft, Err: err})

		if err != nil {
			// Every later question would fail the same way.
			if errors.Is(err, model.ErrNoResume) || ctx.Err() != nil {
				return report, err
			}
			a.logger.Warn("failed to draft answer",
				"question", i+1,
				"error", err,
			)
		}
	}

	failed := report.Failed()
	a.logger.Info("drafted answers",
		"job", job.Title,
		"questions", len(indices),
		"drafted", len(indices)-failed,
		"failed", failed,
	)

	if failed == len(indices) {
		return report, fmt.Errorf("all %d questions failed: %w", failed, report.Results[0].Err)
	}
	return report, nil
}

func (a *Applier) filter(questions []string, indices []int, f QuestionFilter) []int {
	kept := indices[:0]
	for _, i := range indices {
		if f.Match(questions[i]) {
			kept = append(kept, i)
			continue
		}
		a.logger.Debug("skipping filtered question", "question", i+1, "text", questions[i])
	}
	return kept
}

// selectQuestions resolves the requested indices against the scraped
// questions. An empty selection means all of them.
func selectQuestions(questions []string, want []int) ([]int, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if len(want) == 0 {
		all := make([]int, len(questions))
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	for _, i := range want {
		if i < 0 || i >= len(questions) {
			return nil, fmt.Errorf("question %d out of range (listing has %d)", i+1, len(questions))
		}
	}
	return want, nil
}
