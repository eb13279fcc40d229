package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/amishk599/draftin/internal/model"
	"github.com/amishk599/draftin/internal/prioritize"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// Block Kit limits.
const (
	slackHeaderMax  = 150
	slackSectionMax = 3000
)

// SlackNotifier sends drafts to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	pause      time.Duration // between messages
}

// NewSlackNotifier returns a notifier that posts each draft to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		pause:      500 * time.Millisecond,
	}
}

// Notify sends each draft as a separate Slack message using Block Kit.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(ctx context.Context, drafts []model.Draft) error {
	if len(drafts) == 0 {
		return nil
	}

	failures := 0
	for i, d := range drafts {
		if i > 0 {
			if err := sleep(ctx, s.pause); err != nil {
				return err
			}
		}

		if err := s.sendMessage(ctx, d); err != nil {
			s.logger.Error("slack notification failed", "id", d.ID, "job", d.JobTitle, "error", err)
			failures++
		}
	}

	sent := len(drafts) - failures
	if failures == len(drafts) {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", sent, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(ctx context.Context, d model.Draft) error {
	body, err := json.Marshal(buildPayload(d))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(ctx, body)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}

	if status == http.StatusTooManyRequests {
		if retryAfter <= 0 {
			retryAfter = time.Second
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after", retryAfter)
		if err := sleep(ctx, retryAfter); err != nil {
			return err
		}

		status, _, err = s.post(ctx, body)
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", status)
		}
		s.logger.Info("slack message sent", "id", d.ID, "job", d.JobTitle, "retried", true)
		return nil
	}

	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	s.logger.Info("slack message sent", "id", d.ID, "job", d.JobTitle)
	return nil
}

func (s *SlackNotifier) post(ctx context.Context, body []byte) (int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, model.ParseRetryAfter(resp.Header.Get("Retry-After")), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

// SendTestMessage sends a sample draft to verify the integration works.
func SendTestMessage(ctx context.Context, n model.Notifier) error {
	sample := model.Draft{
		ID:        "test-001",
		Kind:      model.DraftAnswer,
		JobTitle:  "Draftin Test",
		JobURL:    "https://example.com/jobs/test",
		Prompt:    "Is the integration working?",
		Content:   "Yes. If you can read this, drafts will arrive here.",
		CreatedAt: time.Now(),
	}
	return n.Notify(ctx, []model.Draft{sample})
}

func kindLabel(k model.DraftKind) (title, promptLabel string) {
	if k == model.DraftMessage {
		return "Message", "Intent"
	}
	return "Answer", "Question"
}

func buildPayload(d model.Draft) slackPayload {
	title, promptLabel := kindLabel(d.Kind)

	created := "Just now"
	if !d.CreatedAt.IsZero() {
		created = d.CreatedAt.Format(time.RFC1123)
	}

	// Truncation appends an ellipsis outside the limit, so leave room for it.
	header := prioritize.TruncateFixed("📝 "+title+": "+d.JobTitle, slackHeaderMax-len(prioritize.Ellipsis))
	content := prioritize.TruncateFixed(d.Content, slackSectionMax-len(prioritize.Ellipsis))

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: header},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*" + promptLabel + ":*\n" + d.Prompt},
				{Type: "mrkdwn", Text: "*Created:*\n" + created},
			},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: content},
		},
	}

	if d.JobURL != "" {
		blocks = append(blocks, slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "Open Listing"},
					URL:   d.JobURL,
					Style: "primary",
				},
			},
		})
	}
	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{Blocks: blocks}
}
