package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"anydl/internal/logging"
	"anydl/internal/services"
)

const userAgent = "anydl/0.1.0"

// HTTPDoer describes the HTTP client used to talk to the backend.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures one of the backend callers. Each caller owns its own
// wait bound: a total bound for Client and Prober, an inactivity bound for
// Fetcher. Doer overrides the default *http.Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Doer    HTTPDoer
	Logger  *slog.Logger
}

func (o Options) doer() HTTPDoer {
	if o.Doer != nil {
		return o.Doer
	}
	return &http.Client{Timeout: o.Timeout}
}

func trimBase(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// Client submits download requests to the backend.
type Client struct {
	baseURL string
	client  HTTPDoer
	logger  *slog.Logger
}

// NewClient constructs a submission client.
func NewClient(opts Options) *Client {
	return &Client{
		baseURL: trimBase(opts.BaseURL),
		client:  opts.doer(),
		logger:  logging.NewComponentLogger(opts.Logger, "backend"),
	}
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit issues POST /download once. Failures are always
// *services.SubmissionError values tagged with one of the services markers.
func (c *Client) Submit(ctx context.Context, rawURL string) (*DownloadResponse, error) {
	logger := logging.WithContext(ctx, c.logger)

	body, err := json.Marshal(DownloadRequest{URL: rawURL})
	if err != nil {
		return nil, services.NewSubmissionError(services.ErrUnknown, 0, "", fmt.Errorf("encode download request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/download", bytes.NewReader(body))
	if err != nil {
		return nil, services.NewSubmissionError(services.ErrUnknown, 0, "", fmt.Errorf("build download request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", rid)
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("download request failed", logging.Error(err), slog.Duration("elapsed", time.Since(started)))
		return nil, services.NewSubmissionError(classifyTransport(err), 0, "", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("read download response failed", logging.Error(err), logging.Int("status", resp.StatusCode))
		return nil, services.NewSubmissionError(classifyTransport(err), resp.StatusCode, "", err)
	}

	logger.Debug("download response received",
		logging.Int("status", resp.StatusCode),
		logging.Int("bytes", len(payload)),
		slog.Duration("elapsed", time.Since(started)),
	)

	switch resp.StatusCode {
	case http.StatusOK:
		var decoded DownloadResponse
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return nil, services.NewSubmissionError(services.ErrUnknown, resp.StatusCode, "", fmt.Errorf("decode download response: %w", err))
		}
		return &decoded, nil
	case http.StatusUnprocessableEntity:
		detail := errorDetail(payload, "Invalid URL or request.")
		return nil, services.NewSubmissionError(services.ErrValidation, resp.StatusCode, detail, nil)
	default:
		detail := errorDetail(payload, strings.TrimSpace(string(payload)))
		return nil, services.NewSubmissionError(services.ErrBackend, resp.StatusCode, detail, nil)
	}
}
