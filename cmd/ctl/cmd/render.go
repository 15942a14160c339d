package cmd

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/jpfielding/dicomlut.go/pkg/raster"
	"github.com/jpfielding/dicomlut.go/pkg/render"
	"github.com/spf13/cobra"
)

// NewRenderCmd renders one frame to a PNG
func NewRenderCmd(ctx context.Context, st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "render a frame to PNG",
		Long:  "Runs the modality, VOI and presentation LUTs over a frame and writes an 8 bit PNG.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fetch(ctx, cmd)
			if err != nil {
				return err
			}
			img, err := frameImage(cmd, f)
			if err != nil {
				return err
			}
			opts, err := st.options(cmd, img)
			if err != nil {
				return err
			}
			out, tables, err := st.rd.RenderWithTables(img, opts...)
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "rendered",
				slog.String("window", fmt.Sprintf("W:%g L:%g", tables.Window.Width, tables.Window.Level)),
				slog.String("shape", tables.Window.Shape.String()),
				slog.String("unit", img.PixelValueUnit()))

			outPath, _ := cmd.Flags().GetString("out")
			if outPath == "" {
				outPath = "frame.png"
			}
			return writePNG(outPath, out)
		},
	}
	fetchFlags(cmd)
	windowFlags(cmd)
	cmd.PersistentFlags().StringP("out", "o", "", "output PNG path (default frame.png)")
	return cmd
}

func writePNG(path string, r raster.Raster) error {
	im, err := raster.ToImage(r)
	if err != nil {
		return fmt.Errorf("%w: %v", render.ErrUnsupportedPixelFormat, err)
	}
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(fh, im); err != nil {
		fh.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return fh.Close()
}
