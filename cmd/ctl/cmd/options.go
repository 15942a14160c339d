package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/dcmio"
	"github.com/jpfielding/dicomlut.go/pkg/lut"
	"github.com/jpfielding/dicomlut.go/pkg/render"
	"github.com/spf13/cobra"
)

// windowFlags registers the windowing flags read by options
func windowFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.Int("frame", 0, "frame index")
	pf.Float64("window", 0, "window width")
	pf.Float64("level", 0, "window center")
	pf.Float64("level-min", 0, "lower bound of the window domain (needs --level-max)")
	pf.Float64("level-max", 0, "upper bound of the window domain")
	pf.String("preset", "", "named preset from the image or the config")
	pf.String("shape", "", "VOI LUT function ("+strings.Join(shapeNames(), "|")+")")
	pf.Bool("inverse", false, "invert the grayscale")
	pf.Bool("fill-outside", false, "extend the VOI LUT over the allocated range")
	pf.Bool("pixel-padding", true, "exclude pixel padding values")
	pf.String("presentation", "", "DICOM presentation state file to apply")
}

func shapeNames() []string {
	var names []string
	for _, f := range lut.Functions() {
		names = append(names, f.String())
	}
	return names
}

// frameImage picks the requested frame of f
func frameImage(cmd *cobra.Command, f *dcmio.File) (*render.Image, error) {
	idx, _ := cmd.Flags().GetInt("frame")
	if idx < 0 || idx >= len(f.Frames) {
		return nil, fmt.Errorf("frame index %d out of bounds (0-%d)", idx, len(f.Frames)-1)
	}
	return render.NewImage(f.Dataset, f.Frames[idx]), nil
}

// options layers the config render section, then the flags the user set
func (st *state) options(cmd *cobra.Command, img *render.Image) ([]render.Option, error) {
	fl := cmd.Flags()
	opts := st.cfg.RenderOptions()
	padding := st.cfg.Render.PixelPadding
	if fl.Changed("pixel-padding") {
		padding, _ = fl.GetBool("pixel-padding")
		opts = append(opts, render.WithPixelPadding(padding))
	}
	if fl.Changed("inverse") {
		v, _ := fl.GetBool("inverse")
		opts = append(opts, render.WithInverse(v))
	}
	if fl.Changed("fill-outside") {
		v, _ := fl.GetBool("fill-outside")
		opts = append(opts, render.WithFillOutside(v))
	}

	name := st.cfg.Render.Preset
	if fl.Changed("preset") {
		name, _ = fl.GetString("preset")
	}
	if name != "" {
		p, ok := st.findPreset(img, padding, name)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", name)
		}
		opts = append(opts, render.WithPreset(p))
	}

	if fl.Changed("window") {
		w, _ := fl.GetFloat64("window")
		opts = append(opts, render.WithWindow(w))
	}
	if fl.Changed("level") {
		l, _ := fl.GetFloat64("level")
		opts = append(opts, render.WithLevel(l))
	}
	if fl.Changed("level-min") && fl.Changed("level-max") {
		lo, _ := fl.GetFloat64("level-min")
		hi, _ := fl.GetFloat64("level-max")
		opts = append(opts, render.WithLevelBounds(lo, hi))
	}
	if fl.Changed("shape") {
		s, _ := fl.GetString("shape")
		f, ok := lut.ParseFunction(s)
		if !ok || f == lut.Sequence {
			return nil, fmt.Errorf("unknown shape %q", s)
		}
		opts = append(opts, render.WithShape(lut.NewShape(f)))
	}

	if path, _ := fl.GetString("presentation"); path != "" {
		pr, err := dcmio.ReadFile(path)
		if pr == nil || (err != nil && !errors.Is(err, dcmio.ErrNoPixelData)) {
			return nil, fmt.Errorf("presentation state: %w", err)
		}
		opts = append(opts, render.WithPresentationState(render.PresentationStateFromDataset(pr.Dataset)))
	}
	return opts, nil
}

// findPreset looks the image presets up first, then the configured ones
func (st *state) findPreset(img *render.Image, padding bool, name string) (render.Preset, bool) {
	if p, ok := img.FindPreset(padding, name); ok {
		return p, true
	}
	for _, p := range st.cfg.CustomPresets() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return render.Preset{}, false
}
