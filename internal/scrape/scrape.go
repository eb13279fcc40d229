// Package scrape turns a job listing page into model.JobDetails.
package scrape

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/draftin/internal/model"
)

var _ model.PageScraper = (*Scraper)(nil)

const defaultUserAgent = "Mozilla/5.0 (compatible; draftin)"

// maxPageBytes caps how much of a listing page is read.
var maxPageBytes = 5 << 20

// Scraper loads a listing page from a URL or a saved HTML file and parses it.
type Scraper struct {
	selectors Selectors
	client    *http.Client
	userAgent string
}

// NewScraper creates a scraper. Empty selector fields fall back to
// DefaultSelectors; an empty userAgent uses a generic one.
func NewScraper(selectors Selectors, client *http.Client, userAgent string) *Scraper {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Scraper{
		selectors: selectors.Merge(DefaultSelectors()),
		client:    client,
		userAgent: userAgent,
	}
}

// Scrape fetches source (http/https URL or file path) and extracts job details.
func (s *Scraper) Scrape(ctx context.Context, source string) (model.JobDetails, error) {
	var (
		body    string
		pageURL string
		err     error
	)
	if isURL(source) {
		body, err = s.fetch(ctx, source)
		pageURL = source
	} else {
		body, err = readFile(source)
		pageURL = fileURL(source)
	}
	if err != nil {
		return model.JobDetails{}, err
	}
	return Parse(body, pageURL, s.selectors)
}

func (s *Scraper) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("scrape %s: %w", url, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("scrape %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("scrape %s: %w", url, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: model.ParseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		})
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxPageBytes)+1))
	if err != nil {
		return "", fmt.Errorf("scrape %s: read body: %w", url, err)
	}
	if len(data) > maxPageBytes {
		return "", fmt.Errorf("scrape %s: page larger than %d bytes", url, maxPageBytes)
	}
	return string(data), nil
}

// Parse extracts job details from page HTML. Missing elements leave their
// fields empty; only unparseable HTML is an error.
func Parse(page, pageURL string, sel Selectors) (model.JobDetails, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return model.JobDetails{}, fmt.Errorf("parse page HTML: %w", err)
	}

	details := model.JobDetails{
		URL:                  canonicalURL(doc, pageURL),
		Requirements:         []string{},
		ApplicationQuestions: []string{},
	}

	if title := doc.Find(sel.Title).First(); title.Length() > 0 {
		details.Title = strings.TrimSpace(title.Text())
	}

	if desc := doc.Find(sel.Description).First(); desc.Length() > 0 {
		details.Description = paragraphs(desc)
	}

	doc.Find(sel.SkillsContainer).First().Find(sel.SkillItem).Each(func(_ int, s *goquery.Selection) {
		if skill := strings.TrimSpace(s.Text()); skill != "" {
			details.Requirements = append(details.Requirements, skill)
		}
	})

	if site := doc.Find(sel.Website).First(); site.Length() > 0 {
		details.WebsiteURL = normalizeWebsite(strings.TrimSpace(site.Text()))
	}

	doc.Find(sel.QuestionsModal).First().Find(sel.QuestionLabel).Each(func(_ int, label *goquery.Selection) {
		if q := strings.TrimSpace(label.Find(sel.QuestionText).First().Text()); q != "" {
			details.ApplicationQuestions = append(details.ApplicationQuestions, q)
		}
	})

	return details, nil
}

// DescriptionFromHTML flattens an HTML fragment, such as the description an
// ATS API returns, the same way Parse flattens a description element.
// Entity-escaped markup is unescaped first.
func DescriptionFromHTML(fragment string) (string, error) {
	if strings.Contains(fragment, "&lt;") {
		fragment = html.UnescapeString(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse description HTML: %w", err)
	}
	return paragraphs(doc.Find("body")), nil
}

// RequirementsFromDescription returns the bullets of every section whose
// heading names requirements or qualifications. Used when a source has no
// structured skill list.
func RequirementsFromDescription(desc string) []string {
	reqs := []string{}
	for _, section := range strings.Split(desc, "\n\n") {
		lines := strings.Split(section, "\n")
		heading := strings.ToLower(lines[0])
		if !strings.Contains(heading, "requirement") && !strings.Contains(heading, "qualification") {
			continue
		}
		for _, line := range lines[1:] {
			if item, ok := strings.CutPrefix(line, "• "); ok {
				reqs = append(reqs, item)
			}
		}
	}
	return reqs
}

const blockSelector = "h1, h2, h3, h4, h5, h6, p, li"

// paragraphs flattens a description element into blank-line-separated
// sections. A heading opens a section, the paragraph right after a heading
// joins it, and list items are appended to the current section as bullets.
// Elements without block children yield their collapsed text.
func paragraphs(root *goquery.Selection) string {
	blocks := root.Find(blockSelector)
	if blocks.Length() == 0 {
		return collapse(root.Text())
	}

	var sections []string
	headingOpen := false
	blocks.Each(func(_ int, s *goquery.Selection) {
		// Nested blocks (p inside li) are covered by their outer item.
		if s.ParentsUntilSelection(root).Filter("li").Length() > 0 {
			return
		}
		text := collapse(s.Text())
		if text == "" {
			return
		}
		last := len(sections) - 1
		switch tag := goquery.NodeName(s); {
		case strings.HasPrefix(tag, "h"):
			sections = append(sections, text)
			headingOpen = true
		case tag == "li" && last >= 0:
			sections[last] += "\n• " + text
			headingOpen = false
		case tag == "li":
			sections = append(sections, "• "+text)
		case headingOpen:
			sections[last] += "\n" + text
			headingOpen = false
		default:
			sections = append(sections, text)
		}
	})
	return strings.Join(sections, "\n\n")
}

// collapse trims text and squeezes inner whitespace runs to single spaces.
func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func normalizeWebsite(site string) string {
	if site == "" || strings.HasPrefix(site, "http") {
		return site
	}
	return "https://" + site
}

// canonicalURL prefers the page's own canonical or og:url link, which is
// what a saved page needs to point back at the live listing.
func canonicalURL(doc *goquery.Document, fallback string) string {
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok && href != "" {
		return href
	}
	if content, ok := doc.Find(`meta[property="og:url"]`).First().Attr("content"); ok && content != "" {
		return content
	}
	return fallback
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read page file: %w", err)
	}
	return string(data), nil
}

func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return "file://" + filepath.ToSlash(abs)
}
