package retrieval_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"anydl/internal/backend"
	"anydl/internal/retrieval"
)

func threeItemBody(prefix string) string {
	return fmt.Sprintf(`{"data":{"type":"playlist","playlist_title":"Three","video_count":3,`+
		`"filenames":["one.mp4","two.mp4","three.mp4"],`+
		`"download_urls":["%[1]s/one.mp4","%[1]s/two.mp4","%[1]s/three.mp4"]}}`, prefix)
}

func TestResolveIsolatesItemFailures(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t, threeItemBody("/files"), map[string]string{
		"/files/one.mp4":   "1",
		"/files/three.mp4": "3",
	})
	batch, err := fb.orchestrator().Submit(context.Background(), "https://example.com/list")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var callbacks atomic.Int32
	results := batch.Resolve(context.Background(), retrieval.ResolveOptions{
		Concurrency: 1,
		OnResolved:  func(retrieval.Resolved) { callbacks.Add(1) },
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].OK || string(results[0].Bytes) != "1" {
		t.Fatalf("item 1: unexpected %+v", results[0])
	}
	if results[1].OK || results[1].Bytes != nil {
		t.Fatalf("item 2: expected absent bytes, got %+v", results[1])
	}
	if results[1].DirectURL != fb.server.URL+"/files/two.mp4" {
		t.Fatalf("item 2: unexpected direct url %q", results[1].DirectURL)
	}
	if !results[2].OK || string(results[2].Bytes) != "3" {
		t.Fatalf("item 3: unexpected %+v", results[2])
	}
	if callbacks.Load() != 3 {
		t.Fatalf("expected 3 callbacks, got %d", callbacks.Load())
	}
}

func TestResolveConcurrentKeepsOrdinalOrder(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	delays := map[string]time.Duration{
		"/media/one.mp4":   120 * time.Millisecond,
		"/media/two.mp4":   60 * time.Millisecond,
		"/media/three.mp4": 0,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/download", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(threeItemBody("/media")))
	})
	mux.HandleFunc("/media/", func(w http.ResponseWriter, r *http.Request) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if current <= old || peak.CompareAndSwap(old, current) {
				break
			}
		}
		time.Sleep(delays[r.URL.Path])
		_, _ = w.Write([]byte(strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/media/"), ".mp4")))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	opts := backend.Options{BaseURL: server.URL, Timeout: 5 * time.Second}
	orch := retrieval.New(backend.NewClient(opts), backend.NewFetcher(opts, 0))
	batch, err := orch.Submit(context.Background(), "https://example.com/list")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var mu sync.Mutex
	var finished []int
	results := batch.Resolve(context.Background(), retrieval.ResolveOptions{
		Concurrency: 3,
		OnResolved: func(r retrieval.Resolved) {
			mu.Lock()
			finished = append(finished, r.Item.Ordinal)
			mu.Unlock()
		},
	})

	for i, want := range []string{"one", "two", "three"} {
		if results[i].Item.Ordinal != i || string(results[i].Bytes) != want {
			t.Fatalf("result %d: expected %q, got ordinal %d bytes %q", i, want, results[i].Item.Ordinal, results[i].Bytes)
		}
	}
	if peak.Load() < 2 {
		t.Fatalf("expected concurrent fetches, peak was %d", peak.Load())
	}
	if len(finished) != 3 || finished[0] != 2 {
		t.Fatalf("expected fastest item to finish first, got %v", finished)
	}
}

func TestResolveCanceledContextMarksItemsAbsent(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t, threeItemBody("/files"), map[string]string{
		"/files/one.mp4": "1", "/files/two.mp4": "2", "/files/three.mp4": "3",
	})
	batch, err := fb.orchestrator().Submit(context.Background(), "https://example.com/list")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := batch.Resolve(ctx, retrieval.ResolveOptions{Concurrency: 2, RatePerSecond: 1})
	for i, r := range results {
		if r.OK {
			t.Fatalf("result %d: expected absent after cancel", i)
		}
		if r.DirectURL == "" {
			t.Fatalf("result %d: expected direct url fallback", i)
		}
	}
}

func TestBatchSelectKeepsOrdinalOrder(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t, threeItemBody("/files"), nil)
	batch, err := fb.orchestrator().Submit(context.Background(), "https://example.com/list")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	selected, err := batch.Select(2, 0, 2)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selected.Items) != 2 || selected.Items[0].Item.Ordinal != 0 || selected.Items[1].Item.Ordinal != 2 {
		t.Fatalf("unexpected selection %+v", selected.Items)
	}
	if len(batch.Items) != 3 {
		t.Fatal("expected original batch untouched")
	}
	if _, err := selected.Select(1); err == nil {
		t.Fatal("expected error selecting an ordinal no longer in the batch")
	}
	if _, err := batch.Select(5); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestEachReportsBatchIndex(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t, threeItemBody("/files"), map[string]string{
		"/files/one.mp4": "1", "/files/three.mp4": "3",
	})
	batch, err := fb.orchestrator().Submit(context.Background(), "https://example.com/list")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	selected, err := batch.Select(2, 1)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	var mu sync.Mutex
	seen := map[int]retrieval.Resolved{}
	selected.Each(context.Background(), retrieval.ResolveOptions{Concurrency: 2}, func(i int, r retrieval.Resolved) {
		mu.Lock()
		defer mu.Unlock()
		seen[i] = r
	})

	if len(seen) != 2 {
		t.Fatalf("expected 2 callbacks, got %d", len(seen))
	}
	if seen[0].Item.Ordinal != 1 || seen[0].OK {
		t.Fatalf("index 0: expected absent ordinal 1, got %+v", seen[0])
	}
	if seen[1].Item.Ordinal != 2 || !seen[1].OK || string(seen[1].Bytes) != "3" {
		t.Fatalf("index 1: expected ordinal 2 with bytes, got %+v", seen[1])
	}
}
