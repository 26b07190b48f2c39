package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// FakeBackend is an in-process stand-in for the fetch-and-transcode service.
type FakeBackend struct {
	Server *httptest.Server

	mu           sync.Mutex
	status       int
	body         any
	files        map[string][]byte
	handlers     map[string]http.HandlerFunc
	health       any
	submissions  atomic.Int32
	fetches      atomic.Int32
	submittedURL []string
}

// NewFakeBackend starts a backend that answers POST /download with an empty
// single-video payload until configured otherwise.
func NewFakeBackend(t testing.TB) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{
		status:   http.StatusOK,
		body:     map[string]any{"status": "success", "data": map[string]any{}},
		files:    map[string][]byte{},
		handlers: map[string]http.HandlerFunc{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /download", fb.handleDownload)
	mux.HandleFunc("GET /health", fb.handleHealth)
	mux.HandleFunc("GET /", fb.handleFile)
	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Server.Close)
	return fb
}

// URL returns the backend base address.
func (fb *FakeBackend) URL() string {
	return fb.Server.URL
}

// RespondWith sets the status and JSON body for POST /download. A string body
// is written verbatim.
func (fb *FakeBackend) RespondWith(status int, body any) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.status = status
	fb.body = body
}

// ServeFile registers bytes for GET locator.
func (fb *FakeBackend) ServeFile(locator string, data []byte) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.files[locator] = data
}

// HandleFile registers a custom handler for GET locator. It takes precedence
// over ServeFile.
func (fb *FakeBackend) HandleFile(locator string, handler http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.handlers[locator] = handler
}

// SetHealth sets the GET /health body. nil makes the endpoint fail.
func (fb *FakeBackend) SetHealth(body any) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.health = body
}

// Submissions reports how many POST /download calls were received.
func (fb *FakeBackend) Submissions() int {
	return int(fb.submissions.Load())
}

// Fetches reports how many media GETs were received.
func (fb *FakeBackend) Fetches() int {
	return int(fb.fetches.Load())
}

// SubmittedURLs returns the url field of every submission, in arrival order.
func (fb *FakeBackend) SubmittedURLs() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.submittedURL...)
}

func (fb *FakeBackend) handleDownload(w http.ResponseWriter, r *http.Request) {
	fb.submissions.Add(1)
	var req struct {
		URL string `json:"url"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	fb.mu.Lock()
	fb.submittedURL = append(fb.submittedURL, req.URL)
	status, body := fb.status, fb.body
	fb.mu.Unlock()

	writeBody(w, status, body)
}

func (fb *FakeBackend) handleHealth(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	body := fb.health
	fb.mu.Unlock()
	if body == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	writeBody(w, http.StatusOK, body)
}

func (fb *FakeBackend) handleFile(w http.ResponseWriter, r *http.Request) {
	fb.fetches.Add(1)
	fb.mu.Lock()
	handler := fb.handlers[r.URL.Path]
	data, ok := fb.files[r.URL.Path]
	fb.mu.Unlock()
	if handler != nil {
		handler(w, r)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	_, _ = w.Write(data)
}

func writeBody(w http.ResponseWriter, status int, body any) {
	if text, ok := body.(string); ok {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(text))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
