package model

import (
	"context"
	"strings"
	"time"
)

// JobDetails is what the scraper pulls off a single job listing page.
type JobDetails struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Requirements         []string `json:"requirements"`
	URL                  string   `json:"url"`
	WebsiteURL           string   `json:"websiteUrl"`
	ApplicationQuestions []string `json:"applicationQuestions"`
}

// Profile is the user's résumé, split the way they enter it.
type Profile struct {
	AboutMe                string `json:"aboutMe" yaml:"about_me"`
	ProfessionalExperience string `json:"professionalExperience" yaml:"professional_experience"`
	Projects               string `json:"projects" yaml:"projects"`
	Skills                 string `json:"skills" yaml:"skills"`
	AdditionalInstructions string `json:"additionalInstructions" yaml:"additional_instructions"`
}

// ResumeContent joins the résumé sections into the single block sent to the
// LLM. It is empty when every section is blank.
func (p Profile) ResumeContent() string {
	if strings.TrimSpace(p.AboutMe+p.ProfessionalExperience+p.Projects+p.Skills) == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("About Me:\n" + p.AboutMe)
	b.WriteString("\n\nProfessional Experience:\n" + p.ProfessionalExperience)
	b.WriteString("\n\nProjects:\n" + p.Projects)
	b.WriteString("\n\nSkills:\n" + p.Skills)
	return strings.TrimSpace(b.String())
}

// DraftKind says which generator produced a draft.
type DraftKind string

const (
	DraftAnswer  DraftKind = "answer"
	DraftMessage DraftKind = "message"
)

// Draft is one generated answer or message, kept for later reference.
type Draft struct {
	ID        string
	Kind      DraftKind
	JobTitle  string
	JobURL    string
	Prompt    string // the application question or the message intent
	Content   string
	CreatedAt time.Time
}

// KVStore is a string key-value store for locally persisted settings.
type KVStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// DraftStore keeps generated drafts.
type DraftStore interface {
	SaveDraft(d Draft) error
	ListDrafts(limit int) ([]Draft, error)
}

// PageScraper extracts job details from a listing URL or a saved page.
type PageScraper interface {
	Scrape(ctx context.Context, source string) (JobDetails, error)
}

// Notifier delivers finished drafts somewhere the user will see them.
type Notifier interface {
	Notify(ctx context.Context, drafts []Draft) error
}
