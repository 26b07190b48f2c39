package preflight

import (
	"context"

	"anydl/internal/backend"
	"anydl/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// HealthProber reads the backend health endpoint.
type HealthProber interface {
	Probe(ctx context.Context) (*backend.HealthStatus, bool)
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, prober HealthProber) []Result {
	if cfg == nil {
		return nil
	}

	results := CheckBackend(ctx, cfg.Backend.BaseURL, prober)
	results = append(results, CheckOutputDirectory("Output directory", cfg.Output.Dir))
	if cfg.History.Enabled {
		results = append(results, CheckOutputDirectory("State directory", cfg.Paths.StateDir))
	}
	return results
}
