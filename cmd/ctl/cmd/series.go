package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/preload"
	"github.com/spf13/cobra"
)

// NewSeriesCmd preloads a directory of DICOM files and renders every frame
func NewSeriesCmd(ctx context.Context, st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series <dir>",
		Short: "render every frame of a directory",
		Long:  "Preloads the DICOM files of a directory in the background, sharing LUTs between frames, and writes one PNG per frame.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", dir, err)
			}
			var paths []string
			for _, e := range entries {
				if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
					continue
				}
				paths = append(paths, filepath.Join(dir, e.Name()))
			}
			slices.Sort(paths)

			outDir, _ := cmd.Flags().GetString("out")
			if outDir == "" {
				outDir = dir
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", outDir, err)
			}

			workers := st.cfg.Preload.Workers
			if cmd.Flags().Changed("workers") {
				workers, _ = cmd.Flags().GetInt("workers")
			}
			opts := st.cfg.RenderOptions()
			mgr := preload.NewManager(preload.FileLoader(st.rd, opts...), workers)
			defer mgr.Stop()

			results := mgr.Start(ctx, filepath.Base(dir), paths).Wait()
			written := 0
			for _, res := range results {
				if res.Err != nil {
					slog.WarnContext(ctx, "skipping", slog.String("path", res.Path), slog.Any("error", res.Err))
					continue
				}
				base := strings.TrimSuffix(filepath.Base(res.Path), filepath.Ext(res.Path))
				for i, fr := range res.Frames {
					out, err := st.rd.Render(fr.Image, opts...)
					if err != nil {
						slog.WarnContext(ctx, "render failed", slog.String("path", res.Path), slog.Int("frame", i), slog.Any("error", err))
						continue
					}
					if err := writePNG(filepath.Join(outDir, fmt.Sprintf("%s_%03d.png", base, i)), out); err != nil {
						return err
					}
					written++
				}
			}
			stats := st.rd.Cache().Stats()
			slog.InfoContext(ctx, "series rendered",
				slog.Int("files", len(paths)),
				slog.Int("frames", written),
				slog.Int64("lutHits", stats.Hits),
				slog.Int64("lutBuilds", stats.Builds))
			return ctx.Err()
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("out", "o", "", "output directory (default: the series directory)")
	pf.Int("workers", 0, "files decoded concurrently (default from config)")
	return cmd
}
