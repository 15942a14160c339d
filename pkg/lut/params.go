package lut

import (
	"math"
	"math/bits"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
	"github.com/jpfielding/dicomlut.go/pkg/util"
)

// Key identifies a table in the Cache. Keys compare by value; only the parameter
// structs of this package implement it.
type Key interface {
	lutKey()
}

// NullInt is an optional int that stays comparable
type NullInt struct {
	Int   int
	Valid bool
}

// Some wraps a present value
func Some(v int) NullInt {
	return NullInt{Int: v, Valid: true}
}

// ModalityParams fully determine a Modality LUT
type ModalityParams struct {
	Intercept float64
	Slope     float64
	// PixelPadding applies Padding/PaddingLimit to the table
	PixelPadding   bool
	Padding        NullInt
	PaddingLimit   NullInt
	BitsStored     int
	InputSigned    bool
	OutputSigned   bool
	OutputBits     int
	InversePadding bool
	// SequenceID is set when the table comes from a Modality LUT Sequence
	SequenceID string
}

func (ModalityParams) lutKey() {}

// IsIdentity reports whether the parameters describe no transform at all
func (p ModalityParams) IsIdentity() bool {
	return p.SequenceID == "" && p.Slope == 1 && p.Intercept == 0 && !p.padded()
}

func (p ModalityParams) padded() bool {
	return p.PixelPadding && p.Padding.Valid
}

// Transform applies the rescale to a single stored value
func (p ModalityParams) Transform(v float64) float64 {
	return v*p.Slope + p.Intercept
}

// RescaleOutput sizes the output of a rescale ramp whose transformed extremes are lo and hi.
//
// The output is signed when lo is negative or the input is signed; signed outputs use
// at least 9 bits. The width starts at the bit length of the dynamic range and grows
// until both extremes are representable.
func RescaleOutput(lo, hi float64, inputSigned bool) (signed bool, outBits int) {
	lo, hi = math.Round(lo), math.Round(hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	signed = lo < 0 || inputSigned
	outBits = max(1, bits.Len(uint(hi-lo)))
	if signed && outBits <= 8 {
		outBits = 9
	}
	for outBits < 32 {
		mn, mx := valueRange(outBits, signed)
		if float64(mn) <= lo && float64(mx) >= hi {
			break
		}
		outBits++
	}
	return signed, outBits
}

// VOIParams fully determine a VOI LUT
type VOIParams struct {
	Window float64
	Level  float64
	// window domain, widened to the data extremes by the caller
	MinLevel, MaxLevel int
	// range of every storable modality output value
	MinAllocated, MaxAllocated int
	FillOutside                bool
	Function                   Function
	// SequenceID identifies the VOI LUT Sequence item of a Sequence shape
	SequenceID string
	OutputBits int
	Inverse    bool
}

func (VOIParams) lutKey() {}

// Domain returns the inclusive input range of the table. With FillOutside it spans
// the allocated range, stretched to the window domain when that reaches further.
func (p VOIParams) Domain() (int, int) {
	if p.FillOutside {
		return min(p.MinAllocated, p.MinLevel), max(p.MaxAllocated, p.MaxLevel)
	}
	return p.MinLevel, p.MaxLevel
}

// PresentationParams identify a Presentation LUT table
type PresentationParams struct {
	SequenceID string
	OutputBits int
}

func (PresentationParams) lutKey() {}

// SequenceID derives a stable identifier for a LUT Sequence item
func SequenceID(l *module.LUT) string {
	if l == nil {
		return ""
	}
	return util.HashUUID(struct {
		Descriptor [3]int
		Data       []int
	}{l.Descriptor, l.Data})
}
