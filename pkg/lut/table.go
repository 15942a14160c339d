// Package lut builds and caches the lookup tables of the DICOM grayscale pipeline:
// the Modality LUT (stored value to real world value) and the VOI LUT (real world
// value to display value).
//
// Tables are immutable once built and are shared between renders through a Cache.
package lut

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jpfielding/dicomlut.go/pkg/raster"
)

// ErrUnsupportedInput is returned when a table is applied to a raster it cannot index
var ErrUnsupportedInput = errors.New("lut: unsupported input raster")

// DataType is the storage width of table entries
type DataType int

const (
	Byte DataType = iota
	Short
	Int
)

func (d DataType) String() string {
	switch d {
	case Byte:
		return "byte"
	case Short:
		return "short"
	default:
		return "int"
	}
}

// dataTypeFor picks the narrowest type holding bits bit entries
func dataTypeFor(bits int) DataType {
	switch {
	case bits <= 8:
		return Byte
	case bits <= 16:
		return Short
	default:
		return Int
	}
}

// Table maps the integer inputs [Offset, Offset+Len) to output values
type Table struct {
	offset   int
	dataType DataType
	signed   bool
	// range of the output type, used for padding and inversion
	outMin, outMax int
	data           []int32
}

func newTable(data []int32, offset int, dt DataType, signed bool, outMin, outMax int) *Table {
	return &Table{offset: offset, dataType: dt, signed: signed, outMin: outMin, outMax: outMax, data: data}
}

func (t *Table) Offset() int        { return t.offset }
func (t *Table) Len() int           { return len(t.data) }
func (t *Table) DataType() DataType { return t.dataType }
func (t *Table) Signed() bool       { return t.signed }

// OutputRange is the range of the output type, not of the stored entries
func (t *Table) OutputRange() (int, int) { return t.outMin, t.outMax }

// Contains reports whether v is inside the table domain
func (t *Table) Contains(v int) bool {
	return v >= t.offset && v < t.offset+len(t.data)
}

// Lookup maps v, clamping inputs outside the domain to the first or last entry
func (t *Table) Lookup(v int) int32 {
	i := v - t.offset
	if i < 0 {
		i = 0
	} else if i >= len(t.data) {
		i = len(t.data) - 1
	}
	return t.data[i]
}

// Entries returns a copy of the table data
func (t *Table) Entries() []int32 {
	out := make([]int32, len(t.data))
	copy(out, t.data)
	return out
}

// MinMax returns the smallest and largest stored entries
func (t *Table) MinMax() (lo, hi int32) {
	if len(t.data) == 0 {
		return 0, 0
	}
	lo, hi = t.data[0], t.data[0]
	for _, v := range t.data[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// MarshalJSON dumps the table for diagnostics
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Offset   int     `json:"offset"`
		DataType string  `json:"dataType"`
		Signed   bool    `json:"signed"`
		Entries  int     `json:"entries"`
		Data     []int32 `json:"data"`
	}{t.offset, t.dataType.String(), t.signed, len(t.data), t.data})
}

// Apply maps every sample of in through the table and returns a new plane whose
// sample type follows the table data type. in is not modified.
func (t *Table) Apply(in raster.Raster) (raster.Raster, error) {
	switch p := in.(type) {
	case *raster.Plane[uint8]:
		return applyFrom(t, p), nil
	case *raster.Plane[int16]:
		return applyFrom(t, p), nil
	case *raster.Plane[uint16]:
		return applyFrom(t, p), nil
	case *raster.Plane[int32]:
		return applyFrom(t, p), nil
	case *raster.Plane[uint32]:
		return applyFrom(t, p), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, in.Kind())
}

func applyFrom[T raster.Sample](t *Table, in *raster.Plane[T]) raster.Raster {
	switch {
	case t.dataType == Byte && !t.signed:
		return applyTo[T, uint8](t, in)
	case t.dataType != Int && t.signed:
		return applyTo[T, int16](t, in)
	case t.dataType != Int:
		return applyTo[T, uint16](t, in)
	default:
		return applyTo[T, int32](t, in)
	}
}

func applyTo[T, O raster.Sample](t *Table, in *raster.Plane[T]) *raster.Plane[O] {
	out := raster.NewPlane[O](in.W, in.H, in.B)
	for i, v := range in.Pix {
		out.Pix[i] = O(t.Lookup(int(v)))
	}
	return out
}

// valueRange returns the range of a bits wide integer
func valueRange(bits int, signed bool) (int, int) {
	if signed {
		return -(1 << (bits - 1)), (1 << (bits - 1)) - 1
	}
	return 0, (1 << bits) - 1
}

// ValueRange is the inclusive range of a bits wide signed or unsigned integer
func ValueRange(bits int, signed bool) (int, int) {
	return valueRange(clampInt(bits, 1, 32), signed)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
