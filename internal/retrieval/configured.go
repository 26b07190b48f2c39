package retrieval

import (
	"log/slog"

	"anydl/internal/backend"
	"anydl/internal/config"
)

// NewConfigured wires an Orchestrator to the backend named in cfg.
func NewConfigured(cfg *config.Config, logger *slog.Logger, opts ...Option) *Orchestrator {
	base := []Option{WithLogger(logger)}
	return New(
		backend.NewConfiguredClient(cfg, logger),
		backend.NewConfiguredFetcher(cfg, logger),
		append(base, opts...)...,
	)
}
