package lut

import (
	"math"
	"testing"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
	"github.com/jpfielding/dicomlut.go/pkg/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildModality_Identity(t *testing.T) {
	p := ModalityParams{Slope: 1, Intercept: 0, BitsStored: 12, OutputBits: 12}
	assert.True(t, p.IsIdentity())
	assert.Nil(t, BuildModality(p, nil))

	// a padding value that is not applied keeps the identity
	p.Padding = Some(0)
	assert.Nil(t, BuildModality(p, nil))

	p.PixelPadding = true
	assert.NotNil(t, BuildModality(p, nil))
}

func TestBuildModality_WideStored(t *testing.T) {
	p := ModalityParams{Slope: 2, BitsStored: 20, OutputBits: 21}
	assert.Nil(t, BuildModality(p, nil))
}

func TestBuildModality_CT12Bit(t *testing.T) {
	signed, outBits := RescaleOutput(0*1-1024, 4095*1-1024, false)
	require.True(t, signed)
	p := ModalityParams{Slope: 1, Intercept: -1024, BitsStored: 12, OutputSigned: signed, OutputBits: outBits}
	tbl := BuildModality(p, nil)
	require.NotNil(t, tbl)

	assert.Equal(t, 0, tbl.Offset())
	assert.Equal(t, 4096, tbl.Len())
	assert.Equal(t, Short, tbl.DataType())
	assert.True(t, tbl.Signed())
	lo, hi := tbl.MinMax()
	assert.Equal(t, int32(-1024), lo)
	assert.Equal(t, int32(3071), hi)
}

func TestRescaleOutput(t *testing.T) {
	tests := []struct {
		name        string
		lo, hi      float64
		inputSigned bool
		signed      bool
		bits        int
	}{
		{"unsigned 8 bit", 0, 255, false, false, 8},
		{"unsigned widened to max", 1000, 1010, false, false, 10},
		{"negative forces signed", -10, 100, false, true, 9},
		{"signed input", 0, 100, true, true, 9},
		{"ct", -1024, 3071, false, true, 13},
		{"negative slope swaps", 3071, -1024, false, true, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, bits := RescaleOutput(tt.lo, tt.hi, tt.inputSigned)
			assert.Equal(t, tt.signed, signed)
			assert.Equal(t, tt.bits, bits)
			mn, mx := ValueRange(bits, signed)
			assert.LessOrEqual(t, float64(mn), math.Min(tt.lo, tt.hi))
			assert.GreaterOrEqual(t, float64(mx), math.Max(tt.lo, tt.hi))
		})
	}
}

func TestBuildModality_RoundTrip(t *testing.T) {
	tests := []struct {
		slope, intercept float64
		signed           bool
	}{
		{0.5, 10, false},
		{2.5, -1024, false},
		{-1, 4095, false},
		{1.25, 100, true},
	}
	for _, tt := range tests {
		inMin, inMax := ValueRange(12, tt.signed)
		p := ModalityParams{Slope: tt.slope, Intercept: tt.intercept, BitsStored: 12, InputSigned: tt.signed}
		p.OutputSigned, p.OutputBits = RescaleOutput(p.Transform(float64(inMin)), p.Transform(float64(inMax)), tt.signed)
		tbl := BuildModality(p, nil)
		require.NotNil(t, tbl)
		// ±1 output code, scaled back to stored units
		tolerance := math.Max(1, 1/math.Abs(tt.slope))
		for v := inMin; v <= inMax; v += 7 {
			back := (float64(tbl.Lookup(v)) - tt.intercept) / tt.slope
			assert.InDelta(t, float64(v), back, tolerance, "slope %v value %d", tt.slope, v)
		}
	}
}

func TestBuildModality_Padding(t *testing.T) {
	base := ModalityParams{
		Slope: 1, Intercept: -1024, BitsStored: 16, InputSigned: true,
		PixelPadding: true, Padding: Some(-2000), PaddingLimit: Some(-1500),
	}
	base.OutputSigned, base.OutputBits = RescaleOutput(-3024, 31743, true)

	tbl := BuildModality(base, nil)
	require.NotNil(t, tbl)
	outMin, outMax := tbl.OutputRange()
	assert.Equal(t, int32(outMin), tbl.Lookup(-2000))
	assert.Equal(t, int32(outMin), tbl.Lookup(-1750))
	assert.Equal(t, int32(outMin), tbl.Lookup(-1500))
	assert.Equal(t, int32(-1499-1024), tbl.Lookup(-1499))

	inv := base
	inv.InversePadding = true
	tbl = BuildModality(inv, nil)
	assert.Equal(t, int32(outMax), tbl.Lookup(-1750))

	// limit on the other side of the value
	swapped := base
	swapped.Padding, swapped.PaddingLimit = Some(-1500), Some(-2000)
	tbl = BuildModality(swapped, nil)
	assert.Equal(t, int32(outMin), tbl.Lookup(-2000))
}

func TestBuildModality_Sequence(t *testing.T) {
	l := &module.LUT{Descriptor: [3]int{4, 10, 16}, Data: []int{100, 200, 300, 65535}}
	p := ModalityParams{Slope: 1, BitsStored: 12, SequenceID: SequenceID(l)}
	require.False(t, p.IsIdentity())

	tbl := BuildModality(p, l)
	require.NotNil(t, tbl)
	assert.Equal(t, 10, tbl.Offset())
	assert.Equal(t, Short, tbl.DataType())
	assert.False(t, tbl.Signed())
	assert.Equal(t, int32(300), tbl.Lookup(12))
	assert.Equal(t, int32(65535), tbl.Lookup(13))
	assert.Equal(t, int32(100), tbl.Lookup(0), "clamped below the domain")

	assert.True(t, SequenceCovers(l, 10, 13))
	assert.False(t, SequenceCovers(l, 9, 13))
	assert.False(t, SequenceCovers(l, 10, 14))
}

func TestTable_Apply(t *testing.T) {
	p := ModalityParams{Slope: 1, Intercept: -1024, BitsStored: 12}
	p.OutputSigned, p.OutputBits = RescaleOutput(-1024, 3071, false)
	tbl := BuildModality(p, nil)

	in, err := raster.FromSlice(3, 1, 1, []uint16{0, 1024, 4095})
	require.NoError(t, err)
	out, err := tbl.Apply(in)
	require.NoError(t, err)
	got, ok := out.(*raster.Plane[int16])
	require.True(t, ok)
	assert.Equal(t, []int16{-1024, 0, 3071}, got.Pix)
	assert.Equal(t, []uint16{0, 1024, 4095}, in.Pix, "input untouched")

	_, err = tbl.Apply(raster.NewPlane[float32](1, 1, 1))
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}
