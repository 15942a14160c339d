// Package raster holds the sample planes the pixel pipeline reads and produces.
//
// A Plane is a row-major, band-interleaved buffer of one sample type. Rasters are
// treated as immutable by the pipeline: every transform returns a new Plane.
package raster

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Sample is any numeric type a Plane can hold
type Sample interface {
	constraints.Integer | constraints.Float
}

// Kind classifies a raster by the storage width of its samples
type Kind int

const (
	Unknown Kind = iota
	Integer8
	Integer16
	Integer32
	Float32
	Float64
)

func (k Kind) String() string {
	switch k {
	case Integer8:
		return "int8"
	case Integer16:
		return "int16"
	case Integer32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// Raster is the read side shared by every Plane instantiation
type Raster interface {
	Width() int
	Height() int
	Bands() int
	// Len is Width*Height*Bands
	Len() int
	Kind() Kind
	// Signed reports whether the sample type can hold negative values
	Signed() bool
	// BitDepth is the native width of the sample type
	BitDepth() int
	// Float returns the sample at flat index i
	Float(i int) float64

	scan(exclude *Range) (lo, hi float64, n int)
}

// Plane is a width x height x bands buffer of T
type Plane[T Sample] struct {
	W, H, B int
	Pix     []T
}

// NewPlane allocates a zeroed plane
func NewPlane[T Sample](width, height, bands int) *Plane[T] {
	if bands <= 0 {
		bands = 1
	}
	return &Plane[T]{W: width, H: height, B: bands, Pix: make([]T, width*height*bands)}
}

// FromSlice wraps pix without copying; len(pix) must equal width*height*bands
func FromSlice[T Sample](width, height, bands int, pix []T) (*Plane[T], error) {
	if bands <= 0 {
		bands = 1
	}
	if width < 0 || height < 0 || len(pix) != width*height*bands {
		return nil, fmt.Errorf("plane %dx%dx%d needs %d samples, got %d", width, height, bands, width*height*bands, len(pix))
	}
	return &Plane[T]{W: width, H: height, B: bands, Pix: pix}, nil
}

func (p *Plane[T]) Width() int  { return p.W }
func (p *Plane[T]) Height() int { return p.H }
func (p *Plane[T]) Bands() int  { return p.B }
func (p *Plane[T]) Len() int    { return len(p.Pix) }

func (p *Plane[T]) Float(i int) float64 { return float64(p.Pix[i]) }

// At returns the sample at (x, y) in band b; out of bounds reads return zero
func (p *Plane[T]) At(x, y, b int) T {
	if x < 0 || x >= p.W || y < 0 || y >= p.H || b < 0 || b >= p.B {
		var zero T
		return zero
	}
	return p.Pix[(y*p.W+x)*p.B+b]
}

// Set writes the sample at (x, y) in band b; out of bounds writes are ignored
func (p *Plane[T]) Set(x, y, b int, v T) {
	if x < 0 || x >= p.W || y < 0 || y >= p.H || b < 0 || b >= p.B {
		return
	}
	p.Pix[(y*p.W+x)*p.B+b] = v
}

// Clone returns a deep copy
func (p *Plane[T]) Clone() *Plane[T] {
	c := &Plane[T]{W: p.W, H: p.H, B: p.B, Pix: make([]T, len(p.Pix))}
	copy(c.Pix, p.Pix)
	return c
}

func (p *Plane[T]) Kind() Kind {
	return KindOf[T]()
}

func (p *Plane[T]) Signed() bool {
	var zero T
	return zero-1 < zero
}

func (p *Plane[T]) BitDepth() int {
	switch any(*new(T)).(type) {
	case int8, uint8:
		return 8
	case int16, uint16:
		return 16
	case int32, uint32, float32:
		return 32
	default:
		return 64
	}
}

// KindOf maps a sample type to its Kind; int8 and 64 bit integers are Unknown
func KindOf[T Sample]() Kind {
	switch any(*new(T)).(type) {
	case uint8:
		return Integer8
	case int16, uint16:
		return Integer16
	case int32, uint32:
		return Integer32
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		return Unknown
	}
}
