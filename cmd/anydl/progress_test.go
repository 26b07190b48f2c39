package main

import (
	"bytes"
	"strings"
	"testing"

	"anydl/internal/retrieval"
)

func TestSaveProgressDisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	p := newSaveProgress(&buf, 5, false)
	p.observe(retrieval.Resolved{})
	p.finish()
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	single := newSaveProgress(&buf, 1, true)
	single.observe(retrieval.Resolved{})
	single.finish()
	if buf.Len() != 0 {
		t.Fatalf("expected single item to skip the bar, got %q", buf.String())
	}
}

func TestSaveProgressCounts(t *testing.T) {
	var buf bytes.Buffer
	p := newSaveProgress(&buf, 3, true)
	p.observe(retrieval.Resolved{OK: true})
	if !strings.Contains(buf.String(), "Fetching") {
		t.Fatalf("expected description in output, got %q", buf.String())
	}
	p.observe(retrieval.Resolved{})
	p.observe(retrieval.Resolved{OK: true})
	p.finish()
}
