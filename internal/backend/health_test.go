package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anydl/internal/backend"
)

func TestProberReportsCookieStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","cookies":{"status":"valid","message":"Cookies loaded"}}`))
	}))
	defer server.Close()

	prober := backend.NewProber(backend.Options{BaseURL: server.URL, Timeout: time.Second})
	status, ok := prober.Probe(context.Background())
	if !ok {
		t.Fatal("expected backend online")
	}
	if status.CookiesState != "valid" || status.CookiesMessage != "Cookies loaded" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestProberOffline(t *testing.T) {
	t.Parallel()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	garbled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer garbled.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	for name, base := range map[string]string{"status": failing.URL, "body": garbled.URL, "closed": closedURL} {
		prober := backend.NewProber(backend.Options{BaseURL: base, Timeout: time.Second})
		if status, ok := prober.Probe(context.Background()); ok || status != nil {
			t.Fatalf("%s: expected offline, got %+v", name, status)
		}
	}
}
