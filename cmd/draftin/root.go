package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amishk599/draftin/internal/adapter"
	"github.com/amishk599/draftin/internal/ai"
	"github.com/amishk599/draftin/internal/config"
	"github.com/amishk599/draftin/internal/model"
	"github.com/amishk599/draftin/internal/notifier"
	"github.com/amishk599/draftin/internal/ratelimit"
	"github.com/amishk599/draftin/internal/retry"
	"github.com/amishk599/draftin/internal/scrape"
	"github.com/amishk599/draftin/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "draftin",
	Short: "Draft job application answers and outreach messages",
	Long: "Draftin scrapes a job listing, trims it and your résumé to fit a prompt budget,\n" +
		"and asks an LLM to draft application answers or outreach messages.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: DRAFTIN_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > DRAFTIN_CONFIG env var > "./config.yaml".
// A missing default file falls back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if path == "" {
		if env := os.Getenv("DRAFTIN_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = "config.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default()
	}
	return cfg, err
}

// setupLogger writes to stderr so stdout stays clean for drafts and JSON.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// quietLogger is used while a TUI owns the terminal; log lines would corrupt it.
func quietLogger(logger *slog.Logger, interactive bool) *slog.Logger {
	if interactive && !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// newScraper reads Greenhouse and Lever listings through their APIs when
// enabled and scrapes every other page.
func newScraper(cfg *config.Config, logger *slog.Logger) model.PageScraper {
	client := &http.Client{Timeout: cfg.Scrape.Timeout}
	pages := scrape.NewScraper(cfg.Scrape.Selectors, client, cfg.Scrape.UserAgent)
	if !cfg.Scrape.ATSAPI {
		return pages
	}
	return adapter.NewRouter(pages, logger,
		adapter.NewGreenhouseAdapter(client),
		adapter.NewLeverAdapter(client),
	)
}

// setupProvider builds the LLM chain: OpenAI, rate limited, retried.
// Dry runs and ai.enabled=false never touch the network.
func setupProvider(cfg *config.Config, dryRun bool, logger *slog.Logger) (ai.LLMProvider, error) {
	if dryRun || !cfg.AI.Enabled {
		logger.Debug("using dry-run provider", "dry_run", dryRun, "ai_enabled", cfg.AI.Enabled)
		return ai.NewDryRunProvider(), nil
	}
	if err := cfg.AI.Check(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	var p ai.LLMProvider = ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, httpClient)
	p = ratelimit.NewRateLimitedProvider(p, ratelimit.NewLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))
	p = retry.NewRetryProvider(p, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)

	logger.Debug("llm provider configured",
		"base_url", cfg.AI.BaseURL,
		"model", cfg.AI.Model,
		"rpm", cfg.RateLimit.RequestsPerMinute,
		"max_retries", cfg.Retry.MaxRetries,
	)
	return p, nil
}

// setupNotifier picks the notifier from the configuration; validation already
// guarantees a usable Slack webhook.
func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	if cfg.Notification.Type == "slack" {
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, &http.Client{Timeout: 30 * time.Second}, logger)
	}
	return notifier.NewLogNotifier(logger)
}

// draftEnv is everything a drafting command needs; Close releases the store.
type draftEnv struct {
	cfg      *config.Config
	store    *store.SQLiteStore
	drafter  *ai.Drafter
	scraper  model.PageScraper
	notifier model.Notifier
	dryRun   bool
	logger   *slog.Logger
}

func (e *draftEnv) Close() error {
	return e.store.Close()
}

// deliver sends finished drafts to the notifier when asked to. Dry-run
// prompts are never sent.
func (e *draftEnv) deliver(ctx context.Context, enabled bool, drafts ...model.Draft) error {
	if !enabled || len(drafts) == 0 {
		return nil
	}
	if e.dryRun {
		e.logger.Debug("skipping notification for dry run")
		return nil
	}
	if err := e.notifier.Notify(ctx, drafts); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

func setupDrafting(dryRun bool, logger *slog.Logger) (*draftEnv, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	provider, err := setupProvider(cfg, dryRun, logger)
	if err != nil {
		return nil, err
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	opts := ai.Options{
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
	}
	// Dry-run drafts are not worth keeping.
	var drafts model.DraftStore = sqlStore
	if dryRun {
		drafts = store.NewMemoryStore()
	}
	drafter := ai.NewDrafter(provider, store.NewProfileRepo(sqlStore), drafts, cfg.Budgets, opts, logger)

	return &draftEnv{
		cfg:      cfg,
		store:    sqlStore,
		drafter:  drafter,
		scraper:  newScraper(cfg, logger),
		notifier: setupNotifier(cfg, logger),
		dryRun:   dryRun,
		logger:   logger,
	}, nil
}
