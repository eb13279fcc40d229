package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/draftin/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes each draft to the given logger as a structured message.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each draft via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each draft. It never fails.
func (n *LogNotifier) Notify(_ context.Context, drafts []model.Draft) error {
	for _, d := range drafts {
		n.logger.Info("draft ready",
			"id", d.ID,
			"kind", d.Kind,
			"job", d.JobTitle,
			"url", d.JobURL,
			"prompt", d.Prompt,
			"chars", len([]rune(d.Content)),
		)
	}
	return nil
}
