package services_test

import (
	"errors"
	"strings"
	"testing"

	"anydl/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrUnknown, "decode", "download response", base)
	if !errors.Is(err, services.ErrUnknown) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"decode", "download response", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestSubmissionErrorMatchesMarkerAndCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := error(services.NewSubmissionError(services.ErrUnreachable, 0, "", cause))

	if !errors.Is(err, services.ErrUnreachable) {
		t.Fatalf("expected unreachable marker, got %v", err)
	}
	if errors.Is(err, services.ErrTimeout) {
		t.Fatal("unreachable must not match timeout")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}

	var subErr *services.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatal("expected errors.As to find SubmissionError")
	}
}

func TestKindName(t *testing.T) {
	cases := map[string]error{
		"ok":          nil,
		"empty_input": services.NewSubmissionError(services.ErrEmptyInput, 0, "", nil),
		"validation":  services.NewSubmissionError(services.ErrValidation, 422, "Invalid URL", nil),
		"backend":     services.NewSubmissionError(services.ErrBackend, 500, "boom", nil),
		"unreachable": services.NewSubmissionError(services.ErrUnreachable, 0, "", nil),
		"timeout":     services.NewSubmissionError(services.ErrTimeout, 0, "", nil),
		"unknown":     errors.New("other"),
	}
	for want, err := range cases {
		if got := services.KindName(err); got != want {
			t.Errorf("KindName(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{services.NewSubmissionError(services.ErrEmptyInput, 0, "", nil), "Please enter a video URL."},
		{services.NewSubmissionError(services.ErrValidation, 422, "Invalid URL", nil), "Validation error: Invalid URL"},
		{services.NewSubmissionError(services.ErrValidation, 422, "", nil), "Validation error: Invalid URL or request."},
		{services.NewSubmissionError(services.ErrBackend, 502, "upstream gone", nil), "Download failed (502): upstream gone"},
		{services.NewSubmissionError(services.ErrBackend, 503, "", nil), "Download failed (503): Service Unavailable"},
		{services.NewSubmissionError(services.ErrUnreachable, 0, "", nil), "Cannot reach the API at http://localhost:8000."},
		{services.NewSubmissionError(services.ErrTimeout, 0, "", nil), "Request timed out."},
		{services.NewSubmissionError(services.ErrUnknown, 0, "", errors.New("bad json")), "Unexpected error: bad json"},
	}
	for _, tc := range cases {
		got := services.UserMessage(tc.err, "http://localhost:8000")
		if !strings.HasPrefix(got, tc.want) {
			t.Errorf("UserMessage(%v) = %q, want prefix %q", tc.err, got, tc.want)
		}
	}
	if services.UserMessage(nil, "") != "" {
		t.Fatal("expected empty message for nil error")
	}
}
