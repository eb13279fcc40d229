package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/draftin/internal/model"
	"github.com/amishk599/draftin/internal/prioritize"
)

// ProfileSource supplies the résumé and instructions for a draft.
type ProfileSource interface {
	Inputs() (resume, instructions string, err error)
}

// Options are the generation parameters sent with every request.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// AnswerRequest asks for an answer to one application question.
type AnswerRequest struct {
	Job        model.JobDetails
	Question   string
	Length     model.AnswerLength
	Regenerate string // optional steer for a second attempt
}

// MessageRequest asks for an outreach message about a job.
type MessageRequest struct {
	Job        model.JobDetails
	Recipient  string
	Platform   string
	Intent     string
	Size       model.MessageSize
	Regenerate string
}

// Drafter builds bounded prompts from a job and the stored profile and asks
// the LLM for a draft.
type Drafter struct {
	provider LLMProvider
	profiles ProfileSource
	drafts   model.DraftStore
	budgets  prioritize.Budgets
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
}

// NewDrafter creates a Drafter. drafts may be nil to skip saving.
func NewDrafter(provider LLMProvider, profiles ProfileSource, drafts model.DraftStore, budgets prioritize.Budgets, opts Options, logger *slog.Logger) *Drafter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Drafter{
		provider: provider,
		profiles: profiles,
		drafts:   drafts,
		budgets:  budgets,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// promptInputs is the bounded view of a job and profile that templates see.
type promptInputs struct {
	Job          model.JobDetails
	Resume       string
	Instructions string

	Question  string
	Recipient string
	Platform  string
	Intent    string
}

// GenerateAnswer drafts an answer to req.Question.
func (d *Drafter) GenerateAnswer(ctx context.Context, req AnswerRequest) (model.Draft, error) {
	if strings.TrimSpace(req.Question) == "" {
		return model.Draft{}, fmt.Errorf("question: %w", model.ErrMissingField)
	}

	in, err := d.prepare(req.Job)
	if err != nil {
		return model.Draft{}, err
	}

	system, err := render(AnswerSystemTemplate, struct {
		LengthInstruction string
		Regenerate        string
	}{req.Length.Instruction(), req.Regenerate})
	if err != nil {
		return model.Draft{}, err
	}
	in.Question = req.Question
	user, err := render(AnswerUserTemplate, in)
	if err != nil {
		return model.Draft{}, err
	}

	return d.complete(ctx, model.DraftAnswer, req.Job, req.Question, system, user)
}

// GenerateMessage drafts an outreach message to req.Recipient.
func (d *Drafter) GenerateMessage(ctx context.Context, req MessageRequest) (model.Draft, error) {
	for _, f := range []struct{ name, value string }{
		{"recipient", req.Recipient},
		{"platform", req.Platform},
		{"intent", req.Intent},
	} {
		if strings.TrimSpace(f.value) == "" {
			return model.Draft{}, fmt.Errorf("%s: %w", f.name, model.ErrMissingField)
		}
	}

	in, err := d.prepare(req.Job)
	if err != nil {
		return model.Draft{}, err
	}

	system, err := render(MessageSystemTemplate, struct {
		SizeInstruction     string
		PlatformInstruction string
		Regenerate          string
	}{req.Size.Instruction(), PlatformInstruction(req.Platform), req.Regenerate})
	if err != nil {
		return model.Draft{}, err
	}
	in.Recipient, in.Platform, in.Intent = req.Recipient, req.Platform, req.Intent
	user, err := render(MessageUserTemplate, in)
	if err != nil {
		return model.Draft{}, err
	}

	return d.complete(ctx, model.DraftMessage, req.Job, req.Intent, system, user)
}

// prepare loads the profile and applies the configured budgets to every
// long field.
func (d *Drafter) prepare(job model.JobDetails) (promptInputs, error) {
	resume, instructions, err := d.profiles.Inputs()
	if err != nil {
		return promptInputs{}, fmt.Errorf("load profile: %w", err)
	}
	if strings.TrimSpace(resume) == "" && strings.TrimSpace(instructions) == "" {
		return promptInputs{}, model.ErrNoResume
	}

	bounded := job
	bounded.Description = d.budgets.Description.Apply(job.Description)
	bounded.Requirements = prioritize.Requirements(job.Requirements, d.budgets.MaxRequirements)

	in := promptInputs{
		Job:          bounded,
		Resume:       d.budgets.Resume.Apply(resume),
		Instructions: d.budgets.Instructions.Apply(instructions),
	}

	d.logger.Debug("prompt inputs bounded",
		"description", fmt.Sprintf("%d->%d", runeLen(job.Description), runeLen(in.Job.Description)),
		"requirements", fmt.Sprintf("%d->%d", len(job.Requirements), len(in.Job.Requirements)),
		"resume", fmt.Sprintf("%d->%d", runeLen(resume), runeLen(in.Resume)),
		"instructions", fmt.Sprintf("%d->%d", runeLen(instructions), runeLen(in.Instructions)),
	)
	return in, nil
}

func (d *Drafter) complete(ctx context.Context, kind model.DraftKind, job model.JobDetails, prompt, system, user string) (model.Draft, error) {
	req := ChatRequest{
		Model: d.opts.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: d.opts.Temperature,
		MaxTokens:   d.opts.MaxTokens,
	}

	content, err := d.provider.Complete(ctx, req)
	if err != nil {
		return model.Draft{}, fmt.Errorf("llm complete: %w", err)
	}

	draft := model.Draft{
		ID:        uuid.NewString(),
		Kind:      kind,
		JobTitle:  job.Title,
		JobURL:    job.URL,
		Prompt:    prompt,
		Content:   strings.TrimSpace(content),
		CreatedAt: d.now(),
	}

	if d.drafts != nil {
		if err := d.drafts.SaveDraft(draft); err != nil {
			d.logger.Warn("failed to save draft", "id", draft.ID, "error", err)
		}
	}
	return draft, nil
}

// PlatformInstruction returns the style instruction for a message platform.
// Matching is case-insensitive; unknown platforms get a professional tone.
func PlatformInstruction(platform string) string {
	p := strings.ToLower(strings.TrimSpace(platform))
	switch {
	case strings.Contains(p, "linkedin"):
		return "Write in a professional LinkedIn message style."
	case strings.Contains(p, "email"):
		return "Write in a formal email format with a subject line."
	case strings.Contains(p, "twitter") || hasWord(p, "x"):
		return "Write in a concise Twitter style."
	case strings.Contains(p, "whatsapp") || strings.Contains(p, "message"):
		return "Write in a conversational messaging style."
	default:
		return "Write in a professional tone."
	}
}

// hasWord reports whether w appears in s as a whole word, so "x" matches
// "X" or "x dm" but not "text".
func hasWord(s, w string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '/' || r == ',' || r == '.' || r == '-'
	}) {
		if f == w {
			return true
		}
	}
	return false
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func runeLen(s string) int {
	return len([]rune(s))
}
