package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/raster"
	"github.com/jpfielding/dicomlut.go/pkg/render"
	"github.com/spf13/cobra"
)

// NewStatsCmd prints the statistics, presets and histograms of a frame
func NewStatsCmd(ctx context.Context, st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "print pixel statistics and presets",
		Long:  "Prints the stored and modality value ranges, the pixel value unit, the window presets and histograms of a frame.",
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
			o := render.NewOptions(opts...)
			ps := o.Presentation
			bins, _ := cmd.Flags().GetInt("bins")

			r := img.Raster()
			fmt.Printf("Modality: %s\n", img.Modality())
			fmt.Printf("Photometric: %s\n", img.PhotometricInterpretation())
			fmt.Printf("Raster: %dx%dx%d %s\n", r.Width(), r.Height(), r.Bands(), r.Kind())
			fmt.Printf("Bits: allocated=%d stored=%d signed=%v\n", img.BitsAllocated(), img.BitsStored(), img.Signed())
			if s, ok := img.Statistics(o.PixelPadding); ok {
				fmt.Printf("Stored range: [%g, %g]\n", s.Min, s.Max)
			}
			intercept, slope := img.Rescale(ps)
			fmt.Printf("Rescale: slope=%g intercept=%g\n", slope, intercept)
			fmt.Printf("Modality range: [%g, %g] %s\n", img.MinValue(ps, o.PixelPadding), img.MaxValue(ps, o.PixelPadding), img.PixelValueUnit())
			fmt.Printf("Full dynamic: W:%g L:%g\n", img.FullDynamicWidth(ps, o.PixelPadding), img.FullDynamicCenter(ps, o.PixelPadding))

			fmt.Println("\n=== Presets ===")
			for _, p := range img.Presets(o.PixelPadding) {
				fmt.Println(p)
			}
			for _, p := range st.cfg.CustomPresets() {
				fmt.Println(p)
			}
			var shapes []string
			for _, s := range img.LutShapes(o.PixelPadding) {
				shapes = append(shapes, s.String())
			}
			fmt.Printf("Shapes: %s\n", strings.Join(shapes, ", "))

			fmt.Println("\n=== Modality histogram ===")
			lo, hi := img.MinValue(ps, o.PixelPadding), img.MaxValue(ps, o.PixelPadding)
			printHistogram(img.Histogram(ps, o.PixelPadding, bins), lo, hi)

			out, err := st.rd.Render(img, opts...)
			if err != nil {
				return err
			}
			if out.Kind() == raster.Integer8 {
				fmt.Println("\n=== Display histogram ===")
				printHistogram(raster.Histogram(raster.Samples(out, nil), bins, 0, 255), 0, 255)
			}
			return nil
		},
	}
	fetchFlags(cmd)
	windowFlags(cmd)
	cmd.PersistentFlags().Int("bins", 16, "histogram bins")
	return cmd
}

func printHistogram(counts []float64, lo, hi float64) {
	if len(counts) == 0 {
		fmt.Println("(empty)")
		return
	}
	peak := 0.0
	for _, c := range counts {
		peak = max(peak, c)
	}
	step := (hi - lo) / float64(len(counts))
	for i, c := range counts {
		bar := 0
		if peak > 0 {
			bar = int(40 * c / peak)
		}
		fmt.Printf("%10.1f %8d %s\n", lo+float64(i)*step, int(c), strings.Repeat("#", bar))
	}
}
