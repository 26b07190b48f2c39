package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"anydl/internal/logging"
)

// Prober queries GET /health. It is advisory only.
type Prober struct {
	baseURL string
	client  HTTPDoer
	logger  *slog.Logger
}

// NewProber constructs a health prober.
func NewProber(opts Options) *Prober {
	return &Prober{
		baseURL: trimBase(opts.BaseURL),
		client:  opts.doer(),
		logger:  logging.NewComponentLogger(opts.Logger, "health"),
	}
}

// Probe returns the backend's cookie status, or (nil, false) when the backend
// is offline or answered with something unreadable.
func (p *Prober) Probe(ctx context.Context) (*HealthStatus, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		p.logger.Debug("health probe request invalid", logging.Error(err))
		return nil, false
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("health probe failed", logging.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Debug("health probe rejected", logging.Int("status", resp.StatusCode))
		return nil, false
	}

	var body healthBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		p.logger.Debug("health probe body unreadable", logging.Error(err))
		return nil, false
	}
	return &HealthStatus{
		CookiesState:   body.Cookies.Status,
		CookiesMessage: body.Cookies.Message,
	}, true
}
