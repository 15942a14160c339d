package render

import (
	"github.com/jpfielding/dicomlut.go/pkg/lut"
)

// Options is the windowing configuration of a single render
type Options struct {
	Window *float64
	Level  *float64
	// LevelMin/LevelMax pin the window domain when both are set
	LevelMin *float64
	LevelMax *float64
	Shape    *lut.Shape

	FillOutside    bool
	PixelPadding   bool
	Inverse        bool
	ColorWindowing bool
	Presentation   *PresentationState
}

// Option configures a render
type Option func(*Options)

// NewOptions applies opts over the defaults: pixel padding on, everything else off
func NewOptions(opts ...Option) *Options {
	o := &Options{PixelPadding: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithWindowLevel sets an explicit window width and center
func WithWindowLevel(window, level float64) Option {
	return func(o *Options) {
		o.Window = &window
		o.Level = &level
	}
}

// WithWindow sets the window width, keeping the default level
func WithWindow(window float64) Option {
	return func(o *Options) {
		o.Window = &window
	}
}

// WithLevel sets the window center, keeping the default width
func WithLevel(level float64) Option {
	return func(o *Options) {
		o.Level = &level
	}
}

// WithLevelBounds pins the window domain
func WithLevelBounds(levelMin, levelMax float64) Option {
	return func(o *Options) {
		o.LevelMin = &levelMin
		o.LevelMax = &levelMax
	}
}

// WithShape selects the VOI response curve
func WithShape(s lut.Shape) Option {
	return func(o *Options) {
		o.Shape = &s
	}
}

// WithPixelPadding toggles pixel padding exclusion
func WithPixelPadding(enabled bool) Option {
	return func(o *Options) {
		o.PixelPadding = enabled
	}
}

// WithInverse flips the grayscale on top of the photometric interpretation
func WithInverse(enabled bool) Option {
	return func(o *Options) {
		o.Inverse = enabled
	}
}

// WithFillOutside extends the VOI LUT over the whole allocated range
func WithFillOutside(enabled bool) Option {
	return func(o *Options) {
		o.FillOutside = enabled
	}
}

// WithColorWindowing applies the VOI LUT to non monochrome images too
func WithColorWindowing(enabled bool) Option {
	return func(o *Options) {
		o.ColorWindowing = enabled
	}
}

// WithPresentationState applies presentation state overrides
func WithPresentationState(ps *PresentationState) Option {
	return func(o *Options) {
		o.Presentation = ps
	}
}

// WithPreset applies the window, level and shape of p
func WithPreset(p Preset) Option {
	return func(o *Options) {
		WithWindowLevel(p.Window, p.Level)(o)
		WithShape(p.Shape)(o)
	}
}
