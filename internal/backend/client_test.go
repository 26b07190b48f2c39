package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anydl/internal/backend"
	"anydl/internal/services"
)

func TestClientSubmitSuccess(t *testing.T) {
	t.Parallel()

	var gotURL, gotRequestID, gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		var body backend.DownloadRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotURL = body.URL
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":"Done!","data":{"video_title":"Clip","filename":"clip.mp4","download_url":"/files/clip.mp4","platform":"youtube"}}`))
	}))
	defer server.Close()

	client := backend.NewClient(backend.Options{BaseURL: server.URL + "/", Timeout: 5 * time.Second})
	ctx := services.WithRequestID(context.Background(), "req-1")
	resp, err := client.Submit(ctx, "https://example.com/v/1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/download" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotURL != "https://example.com/v/1" {
		t.Fatalf("unexpected url in body %q", gotURL)
	}
	if gotRequestID != "req-1" {
		t.Fatalf("expected request id header, got %q", gotRequestID)
	}
	if resp.Message != "Done!" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if resp.Data["download_url"] != "/files/clip.mp4" {
		t.Fatalf("unexpected data %#v", resp.Data)
	}
	if client.BaseURL() != server.URL {
		t.Fatalf("expected trailing slash trimmed, got %q", client.BaseURL())
	}
}

func TestClientSubmitClassifiesStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   error
		wantDetail string
	}{
		{name: "validation detail", status: http.StatusUnprocessableEntity, body: `{"detail":"Invalid URL"}`, wantKind: services.ErrValidation, wantDetail: "Invalid URL"},
		{name: "validation default", status: http.StatusUnprocessableEntity, body: `{}`, wantKind: services.ErrValidation, wantDetail: "Invalid URL or request."},
		{name: "validation list", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"field required"},{"msg":"bad scheme"}]}`, wantKind: services.ErrValidation, wantDetail: "field required; bad scheme"},
		{name: "backend json", status: http.StatusBadGateway, body: `{"detail":"extractor crashed"}`, wantKind: services.ErrBackend, wantDetail: "extractor crashed"},
		{name: "backend plain text", status: http.StatusInternalServerError, body: "Internal Server Error\n", wantKind: services.ErrBackend, wantDetail: "Internal Server Error"},
		{name: "undecodable success", status: http.StatusOK, body: "<html>", wantKind: services.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := backend.NewClient(backend.Options{BaseURL: server.URL, Timeout: 5 * time.Second})
			_, err := client.Submit(context.Background(), "https://example.com/v/1")
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("expected %v, got %v", tt.wantKind, err)
			}
			var subErr *services.SubmissionError
			if !errors.As(err, &subErr) {
				t.Fatalf("expected SubmissionError, got %T", err)
			}
			if subErr.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, subErr.StatusCode)
			}
			if tt.wantDetail != "" && subErr.Detail != tt.wantDetail {
				t.Fatalf("expected detail %q, got %q", tt.wantDetail, subErr.Detail)
			}
		})
	}
}

func TestClientSubmitUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	client := backend.NewClient(backend.Options{BaseURL: addr, Timeout: 5 * time.Second})
	_, err := client.Submit(context.Background(), "https://example.com/v/1")
	if !errors.Is(err, services.ErrUnreachable) {
		t.Fatalf("expected unreachable, got %v", err)
	}
}

func TestClientSubmitTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := backend.NewClient(backend.Options{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Submit(context.Background(), "https://example.com/v/1")
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

type recordingDoer struct {
	requests []*http.Request
	err      error
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.requests = append(d.requests, req)
	return nil, d.err
}

func TestClientSubmitUnknownTransportFailure(t *testing.T) {
	t.Parallel()

	doer := &recordingDoer{err: errors.New("tls: handshake failure")}
	client := backend.NewClient(backend.Options{BaseURL: "http://backend.invalid", Doer: doer})
	_, err := client.Submit(context.Background(), "https://example.com/v/1")
	if !errors.Is(err, services.ErrUnknown) {
		t.Fatalf("expected unknown, got %v", err)
	}
	if len(doer.requests) != 1 {
		t.Fatalf("expected exactly one attempt, got %d", len(doer.requests))
	}
	if got := doer.requests[0].URL.String(); got != "http://backend.invalid/download" {
		t.Fatalf("unexpected request url %q", got)
	}
}
