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

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverPosting is the Lever single-posting response.
type leverPosting struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	Description string      `json:"description"`
	Lists       []leverList `json:"lists"`
	Additional  string      `json:"additional"`
	HostedURL   string      `json:"hostedUrl"`
}

// leverList is a titled bullet list; Content holds <li> items.
type leverList struct {
	Text    string `json:"text"`
	Content string `json:"content"`
}

// LeverAdapter reads a listing hosted on Lever through the public postings API.
type LeverAdapter struct {
	client *http.Client
}

// NewLeverAdapter creates a new adapter for Lever-hosted listings.
func NewLeverAdapter(client *http.Client) *LeverAdapter {
	return &LeverAdapter{client: client}
}

// Match reports whether u is a Lever posting: jobs.lever.co/{company}/{id}[/apply].
func (a *LeverAdapter) Match(u *url.URL) bool {
	_, _, ok := leverIDs(u)
	return ok
}

func leverIDs(u *url.URL) (company, postingID string, ok bool) {
	if u.Host != "jobs.lever.co" {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Scrape fetches the posting and normalizes it into JobDetails. Lever does
// not publish custom application questions, so none are returned.
func (a *LeverAdapter) Scrape(ctx context.Context, source string) (model.JobDetails, error) {
	u, err := url.Parse(source)
	if err != nil {
		return model.JobDetails{}, fmt.Errorf("lever: %w", err)
	}
	company, postingID, ok := leverIDs(u)
	if !ok {
		return model.JobDetails{}, fmt.Errorf("lever: not a posting URL: %s", source)
	}

	apiURL := fmt.Sprintf("%s/%s/%s", leverBaseURL, company, postingID)
	var lp leverPosting
	if err := getJSON(ctx, a.client, apiURL, &lp); err != nil {
		return model.JobDetails{}, fmt.Errorf("lever fetch for %s/%s: %w", company, postingID, err)
	}

	// Rebuild one document so lists become headed sections.
	var b strings.Builder
	b.WriteString(lp.Description)
	for _, l := range lp.Lists {
		fmt.Fprintf(&b, "<h3>%s</h3><ul>%s</ul>", l.Text, l.Content)
	}
	b.WriteString(lp.Additional)

	desc, err := scrape.DescriptionFromHTML(b.String())
	if err != nil {
		return model.JobDetails{}, fmt.Errorf("lever %s/%s: %w", company, postingID, err)
	}

	jobURL := lp.HostedURL
	if jobURL == "" {
		jobURL = source
	}

	return model.JobDetails{
		Title:                strings.TrimSpace(lp.Text),
		Description:          desc,
		Requirements:         scrape.RequirementsFromDescription(desc),
		URL:                  jobURL,
		ApplicationQuestions: []string{},
	}, nil
}
