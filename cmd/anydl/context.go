package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"anydl/internal/backend"
	"anydl/internal/config"
	"anydl/internal/history"
	"anydl/internal/logging"
	"anydl/internal/retrieval"
	"anydl/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// loggerValue returns the file-backed CLI logger, falling back to stderr
// when the log directory cannot be opened.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger, _ = logging.NewFromConfig(nil)
		}
		c.logger = logger
	})
	return c.logger
}

// openHistory returns nil without error when history is disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.HistoryDBPath(), cfg.History.MaxEntries)
	if err != nil {
		return nil, services.Wrap(services.ErrUnknown, "history", "open store", err)
	}
	return store, nil
}

// withOrchestrator builds an orchestrator wired to history (when enabled) and
// closes the history store after fn returns.
func (c *commandContext) withOrchestrator(fn func(*retrieval.Orchestrator, *history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger := c.loggerValue()

	store, err := c.openHistory()
	if err != nil {
		logger.Warn("submission history unavailable", logging.Error(err))
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	var opts []retrieval.Option
	if store != nil {
		opts = append(opts, retrieval.WithRecorder(store))
	}
	return fn(retrieval.NewConfigured(cfg, logger, opts...), store)
}

func (c *commandContext) prober() *backend.Prober {
	return backend.NewConfiguredProber(c.configValue(), c.loggerValue())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// submissionFailure carries the user-facing message for a failed submission
// while keeping the classified error reachable via errors.Is.
type submissionFailure struct {
	message string
	err     error
}

func (f *submissionFailure) Error() string { return f.message }

func (f *submissionFailure) Unwrap() error { return f.err }

func newSubmissionFailure(err error, baseURL string) error {
	if err == nil {
		return nil
	}
	var existing *submissionFailure
	if errors.As(err, &existing) {
		return err
	}
	return &submissionFailure{message: services.UserMessage(err, baseURL), err: err}
}
