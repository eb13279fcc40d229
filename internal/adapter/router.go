// Package adapter reads job listings hosted on applicant tracking systems
// through their public APIs, falling back to page scraping for everything else.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/amishk599/draftin/internal/model"
)

// Source is a PageScraper for the listing URLs it recognizes.
type Source interface {
	model.PageScraper
	Match(u *url.URL) bool
}

var _ model.PageScraper = (*Router)(nil)

// Router sends each listing to the first Source that matches its URL, and
// everything else (other hosts, local files) to the fallback scraper.
type Router struct {
	sources  []Source
	fallback model.PageScraper
	logger   *slog.Logger
}

// NewRouter creates a router over sources, tried in order.
func NewRouter(fallback model.PageScraper, logger *slog.Logger, sources ...Source) *Router {
	return &Router{
		sources:  sources,
		fallback: fallback,
		logger:   logger,
	}
}

// Scrape implements model.PageScraper.
func (r *Router) Scrape(ctx context.Context, source string) (model.JobDetails, error) {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		for _, s := range r.sources {
			if s.Match(u) {
				r.logger.Debug("using ats api", "source", fmt.Sprintf("%T", s), "url", source)
				return s.Scrape(ctx, source)
			}
		}
	}
	return r.fallback.Scrape(ctx, source)
}

// getJSON GETs url and decodes a 200 response into v. Other statuses become
// *model.HTTPError.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: model.ParseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
