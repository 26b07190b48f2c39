package backend

import (
	"log/slog"

	"anydl/internal/config"
)

// NewConfiguredClient returns a submission client using the configured base
// address and submit wait bound.
func NewConfiguredClient(cfg *config.Config, logger *slog.Logger) *Client {
	return NewClient(Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.SubmitTimeout(),
		Logger:  logger,
	})
}

// NewConfiguredFetcher returns a media fetcher using the fetch wait bound and
// size cap from cfg.
func NewConfiguredFetcher(cfg *config.Config, logger *slog.Logger) *Fetcher {
	return NewFetcher(Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.FetchTimeout(),
		Logger:  logger,
	}, cfg.MaxMediaBytes())
}

// NewConfiguredProber returns a health prober using the health wait bound.
func NewConfiguredProber(cfg *config.Config, logger *slog.Logger) *Prober {
	return NewProber(Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.HealthTimeout(),
		Logger:  logger,
	})
}
