package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"anydl/internal/backend"
	"anydl/internal/history"
	"anydl/internal/logging"
	"anydl/internal/media"
	"anydl/internal/services"
)

// DefaultMessage is shown when the backend omits a success message.
const DefaultMessage = "Done!"

// Submitter performs the single download submission call.
type Submitter interface {
	Submit(ctx context.Context, rawURL string) (*backend.DownloadResponse, error)
}

// MediaFetcher retrieves bytes for one locator and builds its direct link.
type MediaFetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, bool)
	URLFor(locator string) string
}

// Recorder receives one history entry per submission attempt.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (int64, error)
}

// Orchestrator turns a user-supplied URL into a batch of fetchable items.
type Orchestrator struct {
	submitter Submitter
	fetcher   MediaFetcher
	recorder  Recorder
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

// Option customises the Orchestrator.
type Option func(*Orchestrator)

// WithRecorder stores submission metadata after every attempt.
func WithRecorder(recorder Recorder) Option {
	return func(o *Orchestrator) {
		if recorder != nil {
			o.recorder = recorder
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logging.NewComponentLogger(logger, "retrieval")
		}
	}
}

// WithRequestIDs overrides request ID generation (primarily for tests).
func WithRequestIDs(fn func() string) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// New constructs an Orchestrator.
func New(submitter Submitter, fetcher MediaFetcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		submitter: submitter,
		fetcher:   fetcher,
		logger:    logging.NewComponentLogger(nil, "retrieval"),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit validates rawURL locally, submits it once, and normalizes the
// response into a Batch. Empty or malformed input never reaches the network.
func (o *Orchestrator) Submit(ctx context.Context, rawURL string) (*Batch, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, services.NewSubmissionError(services.ErrEmptyInput, 0, "", nil)
	}

	requestID := o.newID()
	ctx = services.WithRequestID(ctx, requestID)
	logger := logging.WithContext(ctx, o.logger)

	if !isSubmittableURL(trimmed) {
		err := services.NewSubmissionError(services.ErrValidation, 0, "Invalid URL", nil)
		o.record(ctx, failureEntry(requestID, trimmed, err))
		return nil, err
	}

	logger.Info("submitting download request", logging.String("url", trimmed))
	resp, err := o.submitter.Submit(ctx, trimmed)
	if err != nil {
		logger.Warn("download submission failed",
			logging.String("url", trimmed),
			logging.String("kind", services.KindName(err)),
			logging.Error(err),
		)
		o.record(ctx, failureEntry(requestID, trimmed, err))
		return nil, err
	}

	batch := o.buildBatch(ctx, requestID, resp)
	logger.Info("download request completed",
		logging.Int("items", len(batch.Items)),
		slog.Bool("collection", batch.IsCollection),
	)
	o.record(ctx, history.Entry{
		RequestID:     requestID,
		URL:           trimmed,
		Outcome:       history.OutcomeOK,
		IsCollection:  batch.IsCollection,
		Title:         batch.Title(),
		ItemCount:     len(batch.Items),
		DeclaredCount: batch.DeclaredCount,
		Platform:      batch.Platform,
	})
	return batch, nil
}

// Handle returns a standalone handle for a locator outside any submission.
func (o *Orchestrator) Handle(locator string) Handle {
	return Handle{
		Item:    media.Item{Locator: locator, Filename: media.DefaultFilename},
		fetcher: o.fetcher,
	}
}

func (o *Orchestrator) buildBatch(ctx context.Context, requestID string, resp *backend.DownloadResponse) *Batch {
	message := strings.TrimSpace(resp.Message)
	if message == "" {
		message = DefaultMessage
	}
	batch := &Batch{
		Message:   message,
		RequestID: requestID,
	}

	payload := media.DecodePayload(resp.Data)
	switch p := payload.(type) {
	case media.SingleVideo:
		batch.Platform = p.Platform
	case media.Playlist:
		batch.IsCollection = true
		batch.CollectionTitle = p.Title
		batch.DeclaredCount = p.DeclaredCount
		if p.Truncated() {
			logging.WithContext(ctx, o.logger).Warn("playlist sequences disagree; extra entries dropped",
				logging.Int("declared", p.DeclaredCount),
				logging.Int("filenames", len(p.Filenames)),
				logging.Int("locators", len(p.Locators)),
			)
		}
	}

	items := media.Items(payload)
	batch.Items = make([]Handle, len(items))
	for i, item := range items {
		batch.Items[i] = Handle{Item: item, requestID: requestID, fetcher: o.fetcher}
	}
	return batch
}

func (o *Orchestrator) record(ctx context.Context, entry history.Entry) {
	if o.recorder == nil {
		return
	}
	entry.CreatedAt = o.now()
	if _, err := o.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WithContext(ctx, o.logger).Warn("history record failed", logging.Error(err))
	}
}

func failureEntry(requestID, rawURL string, err error) history.Entry {
	entry := history.Entry{
		RequestID: requestID,
		URL:       rawURL,
		Outcome:   services.KindName(err),
	}
	var subErr *services.SubmissionError
	if errors.As(err, &subErr) {
		entry.StatusCode = subErr.StatusCode
		entry.Detail = subErr.Detail
	}
	return entry
}

func isSubmittableURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return false
	}
	return parsed.Host != ""
}
