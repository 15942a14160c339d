package render

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/jpfielding/dicomlut.go/pkg/lut"
	"github.com/jpfielding/dicomlut.go/pkg/raster"
)

var (
	// ErrUnsupportedPixelFormat is returned for sample types the pipeline has no path for
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")
	// ErrNoRaster is returned when the image has no decoded samples
	ErrNoRaster = errors.New("image has no raster")
)

// Window is the resolved windowing of a render
type Window struct {
	Width    float64
	Level    float64
	MinLevel float64
	MaxLevel float64
	Shape    lut.Shape
}

// Tables exposes the intermediate tables of a render; nil tables were not applied
type Tables struct {
	Window         Window
	Modality       *lut.Table
	ModalityParams lut.ModalityParams
	VOI            *lut.Table
	VOIParams      lut.VOIParams
	Presentation   *lut.Table
}

// Renderer runs the display pipeline. It keeps no per render state; tables are
// shared through its cache.
type Renderer struct {
	cache *lut.Cache
}

// NewRenderer creates a Renderer over cache, a fresh one when nil
func NewRenderer(cache *lut.Cache) *Renderer {
	if cache == nil {
		cache = lut.NewCache()
	}
	return &Renderer{cache: cache}
}

// Cache returns the table cache shared by renders
func (rd *Renderer) Cache() *lut.Cache {
	return rd.cache
}

// ResolveWindow picks window, level and shape one at a time: the explicit option,
// else the default preset's. The domain is widened to the modality output extremes,
// never narrowed.
func (rd *Renderer) ResolveWindow(img *Image, o *Options) Window {
	ps := o.Presentation
	p := img.DefaultPreset(o.PixelPadding)
	w := Window{Width: p.Window, Level: p.Level, Shape: p.Shape}
	if o.Window != nil {
		if *o.Window > 0 {
			w.Width = *o.Window
		} else {
			slog.Warn("ignoring non positive window", slog.Float64("window", *o.Window))
		}
	}
	if o.Level != nil {
		w.Level = *o.Level
	}
	if o.Shape != nil {
		w.Shape = *o.Shape
	}

	minValue, maxValue := img.MinValue(ps, o.PixelPadding), img.MaxValue(ps, o.PixelPadding)
	if o.LevelMin != nil && o.LevelMax != nil {
		w.MinLevel = math.Min(*o.LevelMin, minValue)
		w.MaxLevel = math.Max(*o.LevelMax, maxValue)
	} else {
		w.MinLevel = math.Min(w.Level-w.Width/2, minValue)
		w.MaxLevel = math.Max(w.Level+w.Width/2, maxValue)
	}
	return w
}

// Render produces the display raster of img. The input raster is never modified.
func (rd *Renderer) Render(img *Image, opts ...Option) (raster.Raster, error) {
	out, _, err := rd.render(img, NewOptions(opts...))
	return out, err
}

// RenderWithTables is Render also returning the tables that were applied
func (rd *Renderer) RenderWithTables(img *Image, opts ...Option) (raster.Raster, Tables, error) {
	return rd.render(img, NewOptions(opts...))
}

// Tables returns the tables Render would apply, without rendering
func (rd *Renderer) Tables(img *Image, opts ...Option) (Tables, error) {
	o := NewOptions(opts...)
	p, err := pathFor(img.Raster())
	if err != nil {
		return Tables{}, err
	}
	if p == widePath {
		return Tables{Window: rd.ResolveWindow(img, o)}, nil
	}
	return rd.tables(img, o), nil
}

// numeric path of a render
type path int

const (
	// tablePath runs the Modality, VOI and Presentation LUTs
	tablePath path = iota
	// widePath rescales linearly to 8 bits
	widePath
)

// pathFor is the only place the sample kind is switched on
func pathFor(r raster.Raster) (path, error) {
	if r == nil {
		return 0, ErrNoRaster
	}
	switch k := r.Kind(); k {
	case raster.Integer8, raster.Integer16:
		return tablePath, nil
	case raster.Integer32, raster.Float32, raster.Float64:
		return widePath, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, k)
	}
}

func (rd *Renderer) render(img *Image, o *Options) (raster.Raster, Tables, error) {
	p, err := pathFor(img.Raster())
	if err != nil {
		return nil, Tables{}, err
	}
	if p == widePath {
		w := rd.ResolveWindow(img, o)
		return rd.renderWide(img, o, w), Tables{Window: w}, nil
	}
	return rd.renderTables(img, o)
}

// tables resolves every table of the byte/short path
func (rd *Renderer) tables(img *Image, o *Options) Tables {
	ps := o.Presentation
	var t Tables
	t.ModalityParams, _ = img.ModalityParams(ps, o.PixelPadding, o.Inverse)
	t.Modality = img.ModalityLookup(rd.cache, ps, o.PixelPadding, o.Inverse)
	if !img.IsMonochrome() && !o.ColorWindowing {
		return t
	}
	t.Window = rd.ResolveWindow(img, o)
	prLUT := ps.presentationLUT()
	if prLUT == nil || t.Window.Shape.Function == lut.Sequence {
		t.VOIParams = img.VOIParams(o, t.Window)
		t.VOI = img.VOILookup(rd.cache, o, t.Window)
	}
	if prLUT != nil {
		p := lut.PresentationParams{SequenceID: lut.SequenceID(prLUT), OutputBits: lut.DefaultOutputBits}
		t.Presentation = rd.cache.GetOrBuild(p, func() *lut.Table {
			return lut.BuildPresentation(p, prLUT)
		})
	}
	return t
}

func (rd *Renderer) renderTables(img *Image, o *Options) (raster.Raster, Tables, error) {
	t := rd.tables(img, o)
	out := img.Raster()
	for _, step := range []struct {
		name  string
		table *lut.Table
	}{
		{"modality", t.Modality},
		{"voi", t.VOI},
		{"presentation", t.Presentation},
	} {
		if step.table == nil {
			continue
		}
		next, err := step.table.Apply(out)
		if err != nil {
			return nil, t, fmt.Errorf("apply %s lut: %w", step.name, err)
		}
		out = next
	}
	return out, t, nil
}

// renderWide rescales 32 bit and float samples straight to 8 bits without a table,
// stretching the widened level domain over the output
func (rd *Renderer) renderWide(img *Image, o *Options, w Window) raster.Raster {
	intercept, slope := img.Rescale(o.Presentation)
	low, high := w.MinLevel, w.MaxLevel
	span := math.Max(high-low, 1)
	scale := 255 / span
	offset := 255 - scale*high

	inverse := img.InversePresentation(o.Presentation) != o.Inverse

	r := img.Raster()
	out := raster.NewPlane[uint8](r.Width(), r.Height(), r.Bands())
	for i := range out.Pix {
		v := r.Float(i)*slope + intercept
		y := math.Round(scale*v + offset)
		if math.IsNaN(y) {
			continue
		}
		y = math.Max(0, math.Min(255, y))
		if inverse {
			y = 255 - y
		}
		out.Pix[i] = uint8(y)
	}
	return out
}
