package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"anydl/internal/config"
	"anydl/internal/fileutil"
	"anydl/internal/history"
	"anydl/internal/media"
	"anydl/internal/retrieval"
	"anydl/internal/textutil"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "fetch <locator>",
		Short: "Fetch a single item by its resource locator",
		Long: "Fetch re-downloads one item using the resource locator printed by\n" +
			"`anydl get --json`. Use -o - to write the bytes to stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withOrchestrator(func(orch *retrieval.Orchestrator, _ *history.Store) error {
				handle := orch.Handle(args[0])
				data, ok := handle.Fetch(cmd.Context())
				if !ok {
					return fmt.Errorf("media unavailable; direct link: %s", handle.DirectURL())
				}

				if outputPath == "-" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}

				target, err := resolveFetchTarget(ctx.configValue(), args[0], outputPath)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
				if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
					return fmt.Errorf("save %s: %w", target, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", target, humanize.Bytes(uint64(len(data))))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (defaults to the locator's name in output.dir)")
	return cmd
}

func resolveFetchTarget(cfg *config.Config, locator, outputPath string) (string, error) {
	if strings.TrimSpace(outputPath) != "" {
		return config.ExpandPath(outputPath)
	}
	base := locator
	if idx := strings.IndexAny(base, "?#"); idx >= 0 {
		base = base[:idx]
	}
	name := textutil.SafeFileName(path.Base(base), media.DefaultFilename)
	return fileutil.ResolveTarget(cfg.Output.Dir, name, cfg.Output.Overwrite)
}
