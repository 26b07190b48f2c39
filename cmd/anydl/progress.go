package main

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"anydl/internal/retrieval"
)

// saveProgress counts finished fetches on w. A disabled progress is a no-op
// so --json output and non-TTY runs stay clean.
type saveProgress struct {
	bar *progressbar.ProgressBar
}

func newSaveProgress(w io.Writer, total int, enabled bool) *saveProgress {
	if !enabled || total < 2 {
		return &saveProgress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Fetching"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	return &saveProgress{bar: bar}
}

func (p *saveProgress) observe(retrieval.Resolved) {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

func (p *saveProgress) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}
