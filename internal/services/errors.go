package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrEmptyInput  = errors.New("empty input")
	ErrValidation  = errors.New("validation error")
	ErrBackend     = errors.New("backend error")
	ErrUnreachable = errors.New("backend unreachable")
	ErrTimeout     = errors.New("timeout")
	ErrUnknown     = errors.New("unexpected error")
)

// SubmissionError describes a failed submission. Kind is one of the sentinel
// markers above so callers can branch with errors.Is; StatusCode and Detail
// are populated when the backend answered.
type SubmissionError struct {
	Kind       error
	StatusCode int
	Detail     string
	Err        error
}

func (e *SubmissionError) Error() string {
	kind := e.Kind
	if kind == nil {
		kind = ErrUnknown
	}
	parts := []string{kind.Error()}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.StatusCode))
	}
	if detail := strings.TrimSpace(e.Detail); detail != "" {
		parts = append(parts, detail)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *SubmissionError) Unwrap() []error {
	kind := e.Kind
	if kind == nil {
		kind = ErrUnknown
	}
	if e.Err == nil {
		return []error{kind}
	}
	return []error{kind, e.Err}
}

// NewSubmissionError builds a SubmissionError tagged with marker.
func NewSubmissionError(marker error, status int, detail string, err error) *SubmissionError {
	if marker == nil {
		marker = ErrUnknown
	}
	return &SubmissionError{Kind: marker, StatusCode: status, Detail: detail, Err: err}
}

// Wrap builds an error message that includes operation context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrUnknown
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindName returns a stable short name for the error class, used as the
// outcome column in submission history.
func KindName(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrBackend):
		return "backend"
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "unknown"
	}
}

// UserMessage renders err as the line shown to the person who submitted the
// URL. baseURL is included when the backend could not be reached.
func UserMessage(err error, baseURL string) string {
	if err == nil {
		return ""
	}
	var subErr *SubmissionError
	detail := ""
	status := 0
	if errors.As(err, &subErr) {
		detail = strings.TrimSpace(subErr.Detail)
		status = subErr.StatusCode
	}
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "Please enter a video URL."
	case errors.Is(err, ErrValidation):
		if detail == "" {
			detail = "Invalid URL or request."
		}
		return "Validation error: " + detail
	case errors.Is(err, ErrBackend):
		if detail == "" {
			detail = http.StatusText(status)
		}
		return fmt.Sprintf("Download failed (%d): %s", status, detail)
	case errors.Is(err, ErrUnreachable):
		return fmt.Sprintf("Cannot reach the API at %s. Make sure the backend is running.", baseURL)
	case errors.Is(err, ErrTimeout):
		return "Request timed out. The video may be very large, try again."
	default:
		cause := err
		if subErr != nil && subErr.Err != nil {
			cause = subErr.Err
		}
		return fmt.Sprintf("Unexpected error: %v", cause)
	}
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
