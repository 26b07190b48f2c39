package backend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"anydl/internal/logging"
)

var errStalled = errors.New("no data received within the fetch timeout")

// Fetcher retrieves media bytes for a single resource locator.
//
// The wait bound is an inactivity bound: a transfer fails only when the
// response headers or the next body bytes take longer than Timeout to
// arrive. Total transfer time is unbounded.
type Fetcher struct {
	baseURL  string
	client   HTTPDoer
	stall    time.Duration
	maxBytes int64
	logger   *slog.Logger
}

// NewFetcher constructs a media fetcher. maxBytes caps the body size; zero
// means unlimited.
func NewFetcher(opts Options, maxBytes int64) *Fetcher {
	if maxBytes < 0 {
		maxBytes = 0
	}
	client := opts.Doer
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		baseURL:  trimBase(opts.BaseURL),
		client:   client,
		stall:    opts.Timeout,
		maxBytes: maxBytes,
		logger:   logging.NewComponentLogger(opts.Logger, "fetcher"),
	}
}

// URLFor joins the base address and locator verbatim. A locator without a
// leading slash yields a malformed URL, which Fetch reports as a failure.
func (f *Fetcher) URLFor(locator string) string {
	return f.baseURL + locator
}

// Fetch performs one GET for locator and returns the body on 200. Every
// other outcome, including an empty body, returns (nil, false). Fetch never
// retries and never returns an error.
func (f *Fetcher) Fetch(ctx context.Context, locator string) ([]byte, bool) {
	logger := logging.WithContext(ctx, f.logger).With(logging.String("locator", locator))

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	var watchdog *time.Timer
	if f.stall > 0 {
		watchdog = time.AfterFunc(f.stall, func() { cancel(errStalled) })
		defer watchdog.Stop()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URLFor(locator), nil)
	if err != nil {
		logger.Warn("media fetch skipped: invalid locator", logging.Error(err))
		return nil, false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Warn("media fetch failed", logging.Error(fetchCause(ctx, err)))
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		logger.Warn("media fetch rejected", logging.Int("status", resp.StatusCode))
		return nil, false
	}

	var reader io.Reader = resp.Body
	if watchdog != nil {
		reader = &activityReader{r: reader, timer: watchdog, stall: f.stall}
	}
	if f.maxBytes > 0 {
		reader = io.LimitReader(reader, f.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		logger.Warn("media transfer interrupted", logging.Error(fetchCause(ctx, err)), logging.Int("received", len(data)))
		return nil, false
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		logger.Warn("media exceeds size limit", logging.Int64("limit_bytes", f.maxBytes))
		return nil, false
	}
	if len(data) == 0 {
		logger.Warn("media fetch returned empty body")
		return nil, false
	}

	logger.Debug("media fetched", logging.Int("bytes", len(data)))
	return data, true
}

// activityReader pushes the stall deadline back whenever bytes arrive.
type activityReader struct {
	r     io.Reader
	timer *time.Timer
	stall time.Duration
}

func (a *activityReader) Read(p []byte) (int, error) {
	n, err := a.r.Read(p)
	if n > 0 {
		a.timer.Reset(a.stall)
	}
	return n, err
}

func fetchCause(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); errors.Is(cause, errStalled) {
		return cause
	}
	return err
}
