package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"anydl/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Backend API", statusError, "offline", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Backend API:", "[ERROR] offline")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	plain := renderStatusLine("Backend API", statusOK, "online", false)
	got := renderStatusLine("Backend API", statusOK, "online", true)
	if want := text.FgGreen.Sprint(plain); got != want {
		t.Fatalf("expected green line\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderTableClipsOnlyBoundedColumns(t *testing.T) {
	longTitle := strings.Repeat("t", 80)
	link := "http://localhost:8000/files/" + strings.Repeat("x", 80) + ".mp4?a=1&b=2"
	out := renderTable(
		[]tableColumn{col("#").right(), col("Title").clip(20), col("Link")},
		[][]string{{"1", longTitle, link}, {"2"}},
		"", "total",
	)
	if strings.Contains(out, longTitle) {
		t.Fatalf("expected long title to be clipped\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("t", 19)+"…") {
		t.Fatalf("expected ellipsis on clipped title\n%s", out)
	}
	if !strings.Contains(out, link) {
		t.Fatalf("expected link to stay whole\n%s", out)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "total") {
		t.Fatalf("expected header and footer\n%s", out)
	}
	if renderTable(nil, nil) != "" {
		t.Fatal("expected empty output without columns")
	}
}

func TestWriteJSONKeepsLinksLiteral(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	if err := writeJSON(cmd, map[string]string{"link": "http://h/f?a=1&b=2"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "a=1&b=2") {
		t.Fatalf("expected literal ampersand, got %s", buf.String())
	}
}

func TestPreflightLines(t *testing.T) {
	results := []preflight.Result{
		{Name: "Backend API", Passed: true, Detail: "online (http://localhost:8000)"},
		{Name: "Cookies", Passed: true, Detail: "missing: no cookies.txt"},
		{Name: "Output directory", Detail: "/nope (error: does not exist)"},
	}
	lines := preflightLines(results, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[OK] online") {
		t.Fatalf("expected ok backend line, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[WARN] missing") {
		t.Fatalf("expected cookie warning, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[ERROR]") {
		t.Fatalf("expected directory error, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "Output directory") {
		t.Fatalf("expected problems summary, got %q", lines[3])
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestShouldColorizeHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if shouldColorize(os.Stdout) {
		t.Fatal("expected NO_COLOR to disable color")
	}
}

func TestParseItemSelection(t *testing.T) {
	got, err := parseItemSelection(" 1, 3 ,")
	if err != nil {
		t.Fatalf("parseItemSelection: %v", err)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("unexpected ordinals %v", got)
	}
	for _, bad := range []string{"0", "a", "-2"} {
		if _, err := parseItemSelection(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
