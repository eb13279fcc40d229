package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/draftin/internal/model"
)

const listingHTML = `<!doctype html>
<html><head>
<link rel="canonical" href="https://jobs.example.com/jobs/42-backend-engineer">
</head><body>
<h1>  Backend Engineer </h1>
<div class="styles_description__36q7q">
  <p>We build   payments infrastructure.</p>
  <h3>Responsibilities</h3>
  <ul><li>Design APIs</li><li><p>Own on-call</p></li></ul>
  <h3>About the role</h3>
  <p>Small team, big scope.</p>
</div>
<dl><dd class="styles_skillPillTags__Zv_Uv"><span>Go</span><span> PostgreSQL </span><span></span></dd></dl>
<button class="styles_websiteLink___Rnfc">acme.io</button>
<div data-test="JobApplication-Modal">
  <div class="mb-2"><label><span class="text-dark-aaaa text-md font-medium">Why do you want to join?</span></label></div>
  <div class="mb-2"><label><span class="other">ignored</span></label></div>
  <div class="mb-2"><label><span class="text-dark-aaaa text-md font-medium">Describe a hard bug.</span></label></div>
</div>
</body></html>`

func TestParse_ExtractsAllFields(t *testing.T) {
	got, err := Parse(listingHTML, "file:///tmp/page.html", DefaultSelectors())
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", got.Title)
	assert.Equal(t, "https://jobs.example.com/jobs/42-backend-engineer", got.URL)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, got.Requirements)
	assert.Equal(t, "https://acme.io", got.WebsiteURL)
	assert.Equal(t, []string{"Why do you want to join?", "Describe a hard bug."}, got.ApplicationQuestions)
}

func TestParse_DescriptionKeepsSections(t *testing.T) {
	got, err := Parse(listingHTML, "", DefaultSelectors())
	require.NoError(t, err)

	want := strings.Join([]string{
		"We build payments infrastructure.",
		"Responsibilities\n• Design APIs\n• Own on-call",
		"About the role\nSmall team, big scope.",
	}, "\n\n")
	assert.Equal(t, want, got.Description)
}

func TestParse_PlainDescription(t *testing.T) {
	html := `<div class="styles_description__36q7q">  just   text here </div>`

	got, err := Parse(html, "u", DefaultSelectors())
	require.NoError(t, err)
	assert.Equal(t, "just text here", got.Description)
}

func TestParse_MissingElementsLeaveEmptyFields(t *testing.T) {
	got, err := Parse(`<html><body><p>nothing here</p></body></html>`, "https://x.test/job", DefaultSelectors())
	require.NoError(t, err)

	assert.Equal(t, "https://x.test/job", got.URL)
	assert.Empty(t, got.Title)
	assert.Empty(t, got.Description)
	assert.Empty(t, got.Requirements)
	assert.NotNil(t, got.Requirements)
	assert.Empty(t, got.ApplicationQuestions)
}

func TestParse_WebsiteWithScheme(t *testing.T) {
	html := `<a class="styles_websiteLink___Rnfc">http://acme.io</a>`

	got, err := Parse(html, "", DefaultSelectors())
	require.NoError(t, err)
	assert.Equal(t, "http://acme.io", got.WebsiteURL)
}

func TestSelectors_Merge(t *testing.T) {
	s := Selectors{Title: "h2.job-title"}.Merge(DefaultSelectors())

	assert.Equal(t, "h2.job-title", s.Title)
	assert.Equal(t, DefaultSelectors().Description, s.Description)
}

func TestScrape_FromURL(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<h1>Remote SRE</h1>`))
	}))
	defer srv.Close()

	s := NewScraper(Selectors{}, srv.Client(), "test-agent")
	got, err := s.Scrape(context.Background(), srv.URL+"/jobs/1")
	require.NoError(t, err)

	assert.Equal(t, "Remote SRE", got.Title)
	assert.Equal(t, srv.URL+"/jobs/1", got.URL)
	assert.Equal(t, "test-agent", gotUA)
}

func TestScrape_RejectsOversizedPage(t *testing.T) {
	old := maxPageBytes
	maxPageBytes = 64
	t.Cleanup(func() { maxPageBytes = old })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<h1>Big</h1>" + strings.Repeat("<p>filler</p>", 100)))
	}))
	defer srv.Close()

	s := NewScraper(Selectors{}, srv.Client(), "")
	_, err := s.Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than 64 bytes")
}

func TestScrape_HTTPErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewScraper(Selectors{}, srv.Client(), "")
	_, err := s.Scrape(context.Background(), srv.URL)
	require.Error(t, err)

	var httpErr *model.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Equal(t, "30s", httpErr.RetryAfter.String())
}

func TestScrape_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.html")
	require.NoError(t, os.WriteFile(path, []byte(`<h1>Data Engineer</h1>`), 0644))

	s := NewScraper(Selectors{}, http.DefaultClient, "")
	got, err := s.Scrape(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Data Engineer", got.Title)
	assert.True(t, strings.HasPrefix(got.URL, "file://"), "URL = %q", got.URL)
}

func TestScrape_MissingFile(t *testing.T) {
	s := NewScraper(Selectors{}, http.DefaultClient, "")
	_, err := s.Scrape(context.Background(), filepath.Join(t.TempDir(), "nope.html"))
	assert.Error(t, err)
}

func TestDescriptionFromHTML_Escaped(t *testing.T) {
	got, err := DescriptionFromHTML("&lt;p&gt;Hello &amp;amp; welcome&lt;/p&gt;&lt;h3&gt;Requirements&lt;/h3&gt;&lt;ul&gt;&lt;li&gt;Go&lt;/li&gt;&lt;/ul&gt;")
	require.NoError(t, err)
	assert.Equal(t, "Hello & welcome\n\nRequirements\n• Go", got)
}

func TestRequirementsFromDescription(t *testing.T) {
	desc := "Intro\n\nResponsibilities\n• Ship\n\nMinimum Qualifications\n• 3 years of Go\n• SQL\n\nRequirements\n• On-call"
	assert.Equal(t, []string{"3 years of Go", "SQL", "On-call"}, RequirementsFromDescription(desc))
	assert.Empty(t, RequirementsFromDescription("no sections here"))
}
