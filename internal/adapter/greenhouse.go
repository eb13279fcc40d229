package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/amishk599/draftin/internal/model"
	"github.com/amishk599/draftin/internal/scrape"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob is the Greenhouse single-job response with questions=true.
type greenhouseJob struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	AbsoluteURL string               `json:"absolute_url"`
	Content     string               `json:"content"` // entity-escaped HTML
	Questions   []greenhouseQuestion `json:"questions"`
}

type greenhouseQuestion struct {
	Label    string            `json:"label"`
	Required bool              `json:"required"`
	Fields   []greenhouseField `json:"fields"`
}

type greenhouseField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// GreenhouseAdapter reads a listing hosted on Greenhouse through the public
// boards API instead of scraping the page.
type GreenhouseAdapter struct {
	client *http.Client
}

// NewGreenhouseAdapter creates a new adapter for Greenhouse-hosted listings.
func NewGreenhouseAdapter(client *http.Client) *GreenhouseAdapter {
	return &GreenhouseAdapter{client: client}
}

// Match reports whether u is a Greenhouse job page:
// boards.greenhouse.io/{board}/jobs/{id} or job-boards.greenhouse.io/....
func (a *GreenhouseAdapter) Match(u *url.URL) bool {
	_, _, ok := greenhouseIDs(u)
	return ok
}

func greenhouseIDs(u *url.URL) (board, jobID string, ok bool) {
	if u.Host != "boards.greenhouse.io" && u.Host != "job-boards.greenhouse.io" {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 3 || parts[1] != "jobs" || parts[0] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[0], parts[2], true
}

// Scrape fetches the job and its application questions and normalizes them
// into JobDetails.
func (a *GreenhouseAdapter) Scrape(ctx context.Context, source string) (model.JobDetails, error) {
	u, err := url.Parse(source)
	if err != nil {
		return model.JobDetails{}, fmt.Errorf("greenhouse: %w", err)
	}
	board, jobID, ok := greenhouseIDs(u)
	if !ok {
		return model.JobDetails{}, fmt.Errorf("greenhouse: not a job URL: %s", source)
	}

	apiURL := fmt.Sprintf("%s/%s/jobs/%s?questions=true", greenhouseBaseURL, board, jobID)
	var gj greenhouseJob
	if err := getJSON(ctx, a.client, apiURL, &gj); err != nil {
		return model.JobDetails{}, fmt.Errorf("greenhouse fetch for %s/%s: %w", board, jobID, err)
	}

	desc, err := scrape.DescriptionFromHTML(gj.Content)
	if err != nil {
		return model.JobDetails{}, fmt.Errorf("greenhouse %s/%s: %w", board, jobID, err)
	}

	jobURL := gj.AbsoluteURL
	if jobURL == "" {
		jobURL = source
	}

	return model.JobDetails{
		Title:                strings.TrimSpace(gj.Title),
		Description:          desc,
		Requirements:         scrape.RequirementsFromDescription(desc),
		URL:                  jobURL,
		ApplicationQuestions: essayQuestions(gj.Questions),
	}, nil
}

// essayQuestions keeps questions answered in free text. Contact fields,
// uploads and select boxes are not drafting material.
func essayQuestions(questions []greenhouseQuestion) []string {
	out := []string{}
	for _, q := range questions {
		for _, f := range q.Fields {
			if f.Type == "textarea" {
				out = append(out, strings.TrimSpace(q.Label))
				break
			}
		}
	}
	return out
}
