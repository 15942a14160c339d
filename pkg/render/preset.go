package render

import (
	"fmt"
	"math"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
	"github.com/jpfielding/dicomlut.go/pkg/lut"
)

// PresetSource tells where a preset came from
type PresetSource int

const (
	FromDataset PresetSource = iota
	FromVOILUTSequence
	Auto
	ModalityDefault
	Custom
)

func (s PresetSource) String() string {
	switch s {
	case FromDataset:
		return "dataset"
	case FromVOILUTSequence:
		return "voi-lut-sequence"
	case Auto:
		return "auto"
	case ModalityDefault:
		return "modality-default"
	default:
		return "custom"
	}
}

// Preset is a named window, level and shape
type Preset struct {
	Name   string
	Window float64
	Level  float64
	Shape  lut.Shape
	Source PresetSource
}

func (p Preset) String() string {
	return fmt.Sprintf("%s [%s] W:%g L:%g %s", p.Name, p.Source, p.Window, p.Level, p.Shape)
}

type presetKey struct {
	window, level float64
	fn            lut.Function
	id            string
}

func (p Preset) key() presetKey {
	return presetKey{p.Window, p.Level, p.Shape.Function, p.Shape.ID()}
}

// Presets lists the window presets of the image, first one being the default:
// dataset windows (with the VOI LUT Function shape), VOI LUT Sequence items, the
// full dynamic range, then the modality defaults. Duplicates are dropped.
func (img *Image) Presets(pixelPadding bool) []Preset {
	presets, _ := img.presets[paddingIndex(pixelPadding)].load(func() ([]Preset, bool) {
		return img.buildPresets(pixelPadding), true
	})
	return presets
}

// DefaultPreset is the first preset; there is always at least the auto preset
func (img *Image) DefaultPreset(pixelPadding bool) Preset {
	return img.Presets(pixelPadding)[0]
}

// FindPreset returns the preset with the given name
func (img *Image) FindPreset(pixelPadding bool, name string) (Preset, bool) {
	for _, p := range img.Presets(pixelPadding) {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

func (img *Image) buildPresets(pixelPadding bool) []Preset {
	var out []Preset
	seen := map[presetKey]bool{}
	add := func(p Preset) {
		if p.Window <= 0 || seen[p.key()] {
			return
		}
		seen[p.key()] = true
		out = append(out, p)
	}

	shape := lut.NewShape(lut.Linear)
	if img.voi.VOILUTFunction != "" {
		if f, ok := lut.ParseFunction(img.voi.VOILUTFunction); ok && f != lut.Sequence {
			shape = lut.NewShape(f)
		}
	}
	for i, w := range img.voi.Windows {
		name := w.Explanation
		if name == "" {
			name = fmt.Sprintf("[Dataset] %d", i+1)
		}
		add(Preset{Name: name, Window: w.Width, Level: w.Center, Shape: shape, Source: FromDataset})
	}

	for i := range img.voi.LUTs {
		l := &img.voi.LUTs[i]
		n := len(l.Data)
		name := l.Explanation
		if name == "" {
			name = fmt.Sprintf("[VOI LUT] %d", i+1)
		}
		add(Preset{
			Name:   name,
			Window: float64(n),
			Level:  float64(l.FirstMapped()) + float64(n)/2,
			Shape:  lut.SequenceShape(l),
			Source: FromVOILUTSequence,
		})
	}

	add(Preset{
		Name:   "Auto Level",
		// a flat image still gets a one value wide window
		Window: math.Max(img.FullDynamicWidth(nil, pixelPadding), 1),
		Level:  img.FullDynamicCenter(nil, pixelPadding),
		Shape:  lut.NewShape(lut.Linear),
		Source: Auto,
	})

	for _, w := range modalityDefaults(img.modality) {
		add(Preset{Name: w.Explanation, Window: w.Width, Level: w.Center, Shape: lut.NewShape(lut.Linear), Source: ModalityDefault})
	}
	return out
}

func modalityDefaults(modality string) []module.WindowLevel {
	switch modality {
	case "CT":
		return module.NewVOILUTModuleForCT().Windows
	default:
		return nil
	}
}

// LutShapes lists the shapes offered for the image: those of its presets first,
// then every built in function
func (img *Image) LutShapes(pixelPadding bool) []lut.Shape {
	shapes, _ := img.shapes[paddingIndex(pixelPadding)].load(func() ([]lut.Shape, bool) {
		var out []lut.Shape
		seen := map[presetKey]bool{}
		add := func(s lut.Shape) {
			k := presetKey{fn: s.Function, id: s.ID()}
			if !seen[k] {
				seen[k] = true
				out = append(out, s)
			}
		}
		for _, p := range img.Presets(pixelPadding) {
			add(p.Shape)
		}
		for _, f := range lut.Functions() {
			add(lut.NewShape(f))
		}
		return out, true
	})
	return shapes
}
