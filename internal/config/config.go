package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/draftin/internal/prioritize"
	"github.com/amishk599/draftin/internal/scrape"
)

// Config is the root configuration for draftin.
type Config struct {
	AI           AIConfig
	Store        StoreConfig
	RateLimit    RateLimitConfig
	Retry        RetryConfig
	Budgets      prioritize.Budgets
	Scrape       ScrapeConfig
	Questions    QuestionsConfig
	Notification NotificationConfig
}

// AIConfig controls the OpenAI-compatible drafting backend.
type AIConfig struct {
	Enabled     bool
	BaseURL     string        // defaults to https://api.openai.com/v1
	Model       string        // OpenAI model identifier, e.g. "gpt-4"
	APIKey      string        // expanded from env var by Load
	Timeout     time.Duration // per-request timeout
	Temperature float64
	MaxTokens   int
}

// StoreConfig says where profile settings and drafts are kept.
type StoreConfig struct {
	Path string
}

// RateLimitConfig bounds how fast drafts are requested from the LLM API.
type RateLimitConfig struct {
	RequestsPerMinute float64
	Burst             int
}

// RetryConfig controls retries of transient LLM failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// ScrapeConfig overrides the job page selectors and request identity.
type ScrapeConfig struct {
	Selectors scrape.Selectors
	UserAgent string
	Timeout   time.Duration
	// ATSAPI reads Greenhouse and Lever listings through their public APIs.
	ATSAPI bool
}

// QuestionsConfig narrows which questions "answer --all" drafts.
type QuestionsConfig struct {
	Include []string `yaml:"include"` // empty means every question
	Exclude []string `yaml:"exclude"`
}

// NotificationConfig controls where drafts are sent with --notify.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

const slackWebhookPrefix = "https://hooks.slack.com/"

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultModel         = "gpt-4"
	defaultStorePath     = "draftin.db"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	AI           rawAIConfig        `yaml:"ai"`
	Store        StoreConfig        `yaml:"store"`
	RateLimit    rawRateLimitConfig `yaml:"rate_limit"`
	Retry        rawRetryConfig     `yaml:"retry"`
	Budgets      rawBudgetsConfig   `yaml:"budgets"`
	Scrape       rawScrapeConfig    `yaml:"scrape"`
	Questions    QuestionsConfig    `yaml:"questions"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawAIConfig struct {
	Enabled     *bool    `yaml:"enabled"`
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	APIKey      string   `yaml:"api_key"`
	Timeout     string   `yaml:"timeout"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

type rawRateLimitConfig struct {
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
	Burst             int     `yaml:"burst"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawPolicyConfig struct {
	Policy string `yaml:"policy"`
	Limit  int    `yaml:"limit"`
}

type rawBudgetsConfig struct {
	Description     rawPolicyConfig `yaml:"description"`
	Resume          rawPolicyConfig `yaml:"resume"`
	Instructions    rawPolicyConfig `yaml:"instructions"`
	MaxRequirements int             `yaml:"max_requirements"`
}

type rawScrapeConfig struct {
	Selectors scrape.Selectors `yaml:"selectors"`
	UserAgent string           `yaml:"user_agent"`
	Timeout   string           `yaml:"timeout"`
	ATSAPI    *bool            `yaml:"ats_api"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Default returns the configuration used when no config file exists. The API
// key comes from OPENAI_API_KEY.
func Default() (*Config, error) {
	return Parse([]byte("ai:\n  api_key: ${OPENAI_API_KEY}\n"))
}

// Parse builds a Config from YAML bytes, expanding ${ENV} references first.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	// Unknown keys are errors so a misplaced setting is not silently dropped.
	var raw rawConfig
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	aiTimeout, err := parseDuration("ai.timeout", raw.AI.Timeout, 60*time.Second)
	if err != nil {
		return nil, err
	}
	baseDelay, err := parseDuration("retry.base_delay", raw.Retry.BaseDelay, 2*time.Second)
	if err != nil {
		return nil, err
	}
	scrapeTimeout, err := parseDuration("scrape.timeout", raw.Scrape.Timeout, 30*time.Second)
	if err != nil {
		return nil, err
	}

	budgets, err := buildBudgets(raw.Budgets)
	if err != nil {
		return nil, err
	}

	aiEnabled := true
	if raw.AI.Enabled != nil {
		aiEnabled = *raw.AI.Enabled
	}

	aiBaseURL := raw.AI.BaseURL
	if aiBaseURL == "" {
		aiBaseURL = defaultOpenAIBaseURL
	}

	model := raw.AI.Model
	if model == "" {
		model = defaultModel
	}

	temperature := 0.7
	if raw.AI.Temperature != nil {
		temperature = *raw.AI.Temperature
	}

	maxTokens := raw.AI.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	maxRetries := 2
	if raw.Retry.MaxRetries != nil {
		maxRetries = *raw.Retry.MaxRetries
	}

	rpm := raw.RateLimit.RequestsPerMinute
	if rpm == 0 {
		rpm = 20
	}
	burst := raw.RateLimit.Burst
	if burst == 0 {
		burst = 3
	}

	notification := raw.Notification
	if notification.Type == "" {
		notification.Type = "log"
	}

	storePath := raw.Store.Path
	if storePath == "" {
		storePath = defaultStorePath
	}

	cfg := &Config{
		AI: AIConfig{
			Enabled:     aiEnabled,
			BaseURL:     aiBaseURL,
			Model:       model,
			APIKey:      raw.AI.APIKey,
			Timeout:     aiTimeout,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		},
		Store: StoreConfig{Path: storePath},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: rpm,
			Burst:             burst,
		},
		Retry: RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  baseDelay,
		},
		Budgets: budgets,
		Scrape: ScrapeConfig{
			Selectors: raw.Scrape.Selectors.Merge(scrape.DefaultSelectors()),
			UserAgent: raw.Scrape.UserAgent,
			Timeout:   scrapeTimeout,
			ATSAPI:    raw.Scrape.ATSAPI == nil || *raw.Scrape.ATSAPI,
		},
		Questions:    raw.Questions,
		Notification: notification,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(field, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	return d, nil
}

// buildBudgets overlays configured policies onto prioritize.DefaultBudgets.
func buildBudgets(raw rawBudgetsConfig) (prioritize.Budgets, error) {
	b := prioritize.DefaultBudgets()

	fields := []struct {
		name string
		raw  rawPolicyConfig
		dst  *prioritize.Policy
	}{
		{"budgets.description", raw.Description, &b.Description},
		{"budgets.resume", raw.Resume, &b.Resume},
		{"budgets.instructions", raw.Instructions, &b.Instructions},
	}
	for _, f := range fields {
		if f.raw.Policy == "" && f.raw.Limit == 0 {
			continue
		}
		kind := f.raw.Policy
		if kind == "" {
			kind = (*f.dst).Name()
		}
		if f.raw.Limit <= 0 {
			return b, fmt.Errorf("%s.limit must be positive, got %d", f.name, f.raw.Limit)
		}
		p, err := prioritize.ParsePolicy(kind, f.raw.Limit)
		if err != nil {
			return b, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = p
	}

	if raw.MaxRequirements != 0 {
		b.MaxRequirements = raw.MaxRequirements
	}
	return b, nil
}

// Check reports whether the AI backend can be called. It is checked only by
// commands that draft, so scraping and profile editing work without a key.
func (c AIConfig) Check() error {
	if !c.Enabled {
		return nil
	}
	if c.APIKey == "" {
		return fmt.Errorf("ai.api_key is required when ai.enabled is true (set OPENAI_API_KEY)")
	}
	if c.Model == "" {
		return fmt.Errorf("ai.model is required when ai.enabled is true")
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2, got %v", cfg.AI.Temperature)
	}
	if cfg.AI.MaxTokens < 1 || cfg.AI.MaxTokens > 4096 {
		return fmt.Errorf("ai.max_tokens must be between 1 and 4096, got %d", cfg.AI.MaxTokens)
	}
	if cfg.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
	}
	if cfg.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must not be negative, got %v", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.RateLimit.Burst < 1 {
		return fmt.Errorf("rate_limit.burst must be at least 1, got %d", cfg.RateLimit.Burst)
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Budgets.MaxRequirements < 1 {
		return fmt.Errorf("budgets.max_requirements must be at least 1, got %d", cfg.Budgets.MaxRequirements)
	}
	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackWebhookPrefix) {
			return fmt.Errorf("notification.webhook_url must start with %s", slackWebhookPrefix)
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}
	return nil
}
