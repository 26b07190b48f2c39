package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"anydl/internal/config"
	"anydl/internal/fileutil"
	"anydl/internal/history"
	"anydl/internal/logging"
	"anydl/internal/media"
	"anydl/internal/preflight"
	"anydl/internal/retrieval"
	"anydl/internal/services"
	"anydl/internal/textutil"
)

type getOptions struct {
	save        bool
	outputDir   string
	items       string
	concurrency int
	overwrite   bool
	json        bool
}

type itemView struct {
	Ordinal   int    `json:"ordinal"`
	Title     string `json:"title"`
	Filename  string `json:"filename"`
	Locator   string `json:"resource_locator"`
	DirectURL string `json:"direct_url"`
	Available *bool  `json:"available,omitempty"`
	Bytes     int    `json:"bytes,omitempty"`
	SavedPath string `json:"saved_path,omitempty"`
}

type batchView struct {
	RequestID       string     `json:"request_id"`
	Message         string     `json:"message"`
	IsCollection    bool       `json:"is_collection"`
	CollectionTitle string     `json:"collection_title,omitempty"`
	DeclaredCount   int        `json:"declared_count,omitempty"`
	ListedCount     int        `json:"listed_count"`
	Platform        string     `json:"platform,omitempty"`
	Items           []itemView `json:"items"`
}

func newGetCommand(ctx *commandContext) *cobra.Command {
	var opts getOptions

	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Submit a video or playlist URL and list (or save) the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withOrchestrator(func(orch *retrieval.Orchestrator, store *history.Store) error {
				return runGet(cmd, ctx, orch, store, args[0], opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.save, "save", "s", false, "Fetch every item and write it to the output directory")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "Output directory (defaults to output.dir)")
	cmd.Flags().StringVar(&opts.items, "items", "", "Comma-separated item numbers to keep, e.g. 1,3")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Simultaneous fetches when saving (defaults to output.concurrency)")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace existing files instead of adding a numeric suffix")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output as JSON")
	return cmd
}

func runGet(cmd *cobra.Command, ctx *commandContext, orch *retrieval.Orchestrator, store *history.Store, rawURL string, opts getOptions) error {
	cfg := ctx.configValue()
	out := cmd.OutOrStdout()

	ordinals, err := parseItemSelection(opts.items)
	if err != nil {
		return err
	}

	outputDir := cfg.Output.Dir
	if strings.TrimSpace(opts.outputDir) != "" {
		outputDir, err = config.ExpandPath(opts.outputDir)
		if err != nil {
			return fmt.Errorf("resolve output directory: %w", err)
		}
	}
	if opts.save {
		if check := preflight.CheckOutputDirectory("Output directory", outputDir); !check.Passed {
			return fmt.Errorf("output directory unusable: %s", check.Detail)
		}
	}

	batch, err := orch.Submit(cmd.Context(), rawURL)
	if err != nil {
		return newSubmissionFailure(err, cfg.Backend.BaseURL)
	}
	listed := len(batch.Items)
	if len(ordinals) > 0 {
		batch, err = batch.Select(ordinals...)
		if err != nil {
			return err
		}
	}

	view := newBatchView(batch, listed)
	if opts.save {
		concurrency := opts.concurrency
		if concurrency <= 0 {
			concurrency = cfg.Output.Concurrency
		}
		progress := newSaveProgress(cmd.ErrOrStderr(), len(batch.Items), !opts.json && shouldColorize(cmd.ErrOrStderr()))
		saved, err := saveBatch(cmd.Context(), batch, &view, saveTarget{
			dir:         outputDir,
			overwrite:   opts.overwrite || cfg.Output.Overwrite,
			concurrency: concurrency,
			rate:        cfg.Output.RatePerSecond,
			progress:    progress,
		})
		if err != nil {
			return err
		}
		if store != nil {
			if err := store.MarkSaved(context.WithoutCancel(cmd.Context()), batch.RequestID, saved); err != nil {
				ctx.loggerValue().Warn("history update failed", logging.Error(err))
			}
		}
	}

	if opts.json {
		return writeJSON(cmd, view)
	}
	renderBatch(out, view, opts.save, shouldColorize(out))
	return nil
}

// newBatchView renders batch; listed is the item count before any --items
// selection narrowed it.
func newBatchView(batch *retrieval.Batch, listed int) batchView {
	view := batchView{
		ListedCount:     listed,
		RequestID:       batch.RequestID,
		Message:         batch.Message,
		IsCollection:    batch.IsCollection,
		CollectionTitle: batch.CollectionTitle,
		DeclaredCount:   batch.DeclaredCount,
		Platform:        batch.Platform,
		Items:           make([]itemView, len(batch.Items)),
	}
	for i, handle := range batch.Items {
		view.Items[i] = itemView{
			Ordinal:   handle.Item.Ordinal,
			Title:     handle.Item.DisplayTitle(),
			Filename:  handle.Item.Filename,
			Locator:   handle.Item.Locator,
			DirectURL: handle.DirectURL(),
		}
	}
	return view
}

type saveTarget struct {
	dir         string
	overwrite   bool
	concurrency int
	rate        float64
	progress    *saveProgress
}

// saveBatch fetches every item and writes each available one under
// target.dir as soon as it arrives, so only in-flight items are held in
// memory. Unavailable items are reported in view, never as errors.
func saveBatch(ctx context.Context, batch *retrieval.Batch, view *batchView, target saveTarget) (int, error) {
	if err := os.MkdirAll(target.dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}
	lock, err := fileutil.LockDir(target.dir)
	if err != nil {
		return 0, err
	}
	defer lock.Unlock()

	opts := retrieval.ResolveOptions{
		Concurrency:   target.concurrency,
		RatePerSecond: target.rate,
	}
	if target.progress != nil {
		opts.OnResolved = target.progress.observe
		defer target.progress.finish()
	}

	targets := fileutil.NewTargetSet(target.dir, target.overwrite)
	var (
		mu       sync.Mutex
		saved    int
		firstErr error
	)
	batch.Each(ctx, opts, func(i int, result retrieval.Resolved) {
		available := result.OK
		view.Items[i].Available = &available
		if !result.OK {
			return
		}
		name := textutil.SafeFileName(result.Item.Filename, media.DefaultFilename)
		path, err := targets.Claim(name)
		if err == nil {
			err = fileutil.WriteFileAtomic(path, result.Bytes, 0o644)
		}
		if err != nil {
			err = services.Wrap(services.ErrUnknown, "save", name, err)
		}

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		view.Items[i].Bytes = len(result.Bytes)
		view.Items[i].SavedPath = path
		saved++
	})
	return saved, firstErr
}

func renderBatch(out io.Writer, view batchView, saved bool, colorize bool) {
	fmt.Fprintln(out, renderStatusLine("Result", statusOK, view.Message, colorize))
	if view.IsCollection {
		fmt.Fprintln(out, renderStatusLine("Playlist", statusInfo, fmt.Sprintf("%s (%d videos)", view.CollectionTitle, view.DeclaredCount), colorize))
		if view.DeclaredCount != view.ListedCount {
			fmt.Fprintln(out, renderStatusLine("Items", statusWarn, fmt.Sprintf("%d listed", view.ListedCount), colorize))
		}
		if len(view.Items) != view.ListedCount {
			fmt.Fprintln(out, renderStatusLine("Selected", statusInfo, fmt.Sprintf("%d of %d", len(view.Items), view.ListedCount), colorize))
		}
	} else if len(view.Items) == 1 {
		fmt.Fprintln(out, renderStatusLine("Title", statusInfo, view.Items[0].Title, colorize))
		if view.Platform != "" {
			fmt.Fprintln(out, renderStatusLine("Platform", statusInfo, view.Platform, colorize))
		}
	}
	fmt.Fprintln(out)

	if !saved {
		rows := make([][]string, 0, len(view.Items))
		for _, item := range view.Items {
			rows = append(rows, []string{strconv.Itoa(item.Ordinal + 1), item.Title, item.Filename, item.DirectURL})
		}
		fmt.Fprintln(out, renderTable(
			[]tableColumn{col("#").right(), col("Title").clip(48), col("Filename").clip(40), col("Link")},
			rows,
		))
		return
	}

	rows := make([][]string, 0, len(view.Items))
	savedCount, total := 0, uint64(0)
	for _, item := range view.Items {
		status, size, location := "unavailable", "-", item.DirectURL
		if item.Available != nil && *item.Available && item.SavedPath != "" {
			status = "saved"
			size = humanize.Bytes(uint64(item.Bytes))
			location = item.SavedPath
			savedCount++
			total += uint64(item.Bytes)
		}
		rows = append(rows, []string{strconv.Itoa(item.Ordinal + 1), item.Title, status, size, location})
	}
	fmt.Fprintln(out, renderTable(
		[]tableColumn{col("#").right(), col("Title").clip(48), col("Status"), col("Size").right(), col("Location")},
		rows,
		"", "", fmt.Sprintf("%d of %d saved", savedCount, len(view.Items)), humanize.Bytes(total),
	))
}

// parseItemSelection turns "1,3" into zero-based ordinals.
func parseItemSelection(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ordinals := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid item number %q (use 1-based numbers like 1,3)", part)
		}
		ordinals = append(ordinals, n-1)
	}
	return ordinals, nil
}
