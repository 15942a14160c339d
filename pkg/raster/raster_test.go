package raster

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Integer8, KindOf[uint8]())
	assert.Equal(t, Integer16, KindOf[int16]())
	assert.Equal(t, Integer16, KindOf[uint16]())
	assert.Equal(t, Integer32, KindOf[int32]())
	assert.Equal(t, Integer32, KindOf[uint32]())
	assert.Equal(t, Float32, KindOf[float32]())
	assert.Equal(t, Float64, KindOf[float64]())
	assert.Equal(t, Unknown, KindOf[int8]())
	assert.Equal(t, Unknown, KindOf[int64]())
}

func TestPlane_SignedAndDepth(t *testing.T) {
	assert.True(t, NewPlane[int16](1, 1, 1).Signed())
	assert.False(t, NewPlane[uint16](1, 1, 1).Signed())
	assert.True(t, NewPlane[float32](1, 1, 1).Signed())
	assert.Equal(t, 8, NewPlane[uint8](1, 1, 1).BitDepth())
	assert.Equal(t, 16, NewPlane[int16](1, 1, 1).BitDepth())
	assert.Equal(t, 32, NewPlane[float32](1, 1, 1).BitDepth())
}

func TestPlane_AtSetClone(t *testing.T) {
	p := NewPlane[uint16](3, 2, 1)
	p.Set(2, 1, 0, 42)
	p.Set(5, 5, 0, 99) // ignored
	assert.Equal(t, uint16(42), p.At(2, 1, 0))
	assert.Equal(t, uint16(0), p.At(-1, 0, 0))

	c := p.Clone()
	c.Set(2, 1, 0, 7)
	assert.Equal(t, uint16(42), p.At(2, 1, 0), "clone must not alias")
}

func TestFromSlice(t *testing.T) {
	_, err := FromSlice(2, 2, 1, []int16{1, 2, 3})
	assert.Error(t, err)
	p, err := FromSlice(2, 1, 1, []int16{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
}

func TestComputeStatistics(t *testing.T) {
	tests := []struct {
		name    string
		r       Raster
		exclude *Range
		want    Statistics
		ok      bool
	}{
		{"nil", nil, nil, Statistics{}, false},
		{"empty", NewPlane[int16](0, 0, 1), nil, Statistics{}, false},
		{"8 bit bypass", mustPlane(t, 2, 1, []uint8{10, 20}), nil, Statistics{Min: 0, Max: 255}, true},
		{"signed", mustPlane(t, 3, 1, []int16{-5, 0, 12}), nil, Statistics{Min: -5, Max: 12}, true},
		{"flat nudge", mustPlane(t, 2, 2, []uint16{7, 7, 7, 7}), nil, Statistics{Min: 7, Max: 8}, true},
		{"exclude padding", mustPlane(t, 4, 1, []int16{-2000, -2000, 10, 50}), &Range{Lo: -2000, Hi: -1000}, Statistics{Min: 10, Max: 50}, true},
		{"all excluded", mustPlane(t, 2, 1, []int16{-2000, -1500}), &Range{Lo: -2000, Hi: -1000}, Statistics{Min: -2000, Max: -1500}, true},
		{"float", mustPlane(t, 2, 1, []float32{-1.5, 2.25}), nil, Statistics{Min: -1.5, Max: 2.25}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeStatistics(tt.r, tt.exclude)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeStatistics_Idempotent(t *testing.T) {
	p := NewPlane[int16](300, 130, 1) // spans several tiles
	for i := range p.Pix {
		p.Pix[i] = int16(i%4096 - 1024)
	}
	a, ok := ComputeStatistics(p, nil)
	require.True(t, ok)
	b, _ := ComputeStatistics(p, nil)
	assert.Equal(t, a, b)
	assert.Equal(t, Statistics{Min: -1024, Max: 3071}, a)
}

func TestComputeStatistics_NaN(t *testing.T) {
	p := mustPlane(t, 3, 1, []float64{math.NaN(), 1, 3})
	got, ok := ComputeStatistics(p, nil)
	require.True(t, ok)
	assert.Equal(t, Statistics{Min: 1, Max: 3}, got)
}

func TestHistogram(t *testing.T) {
	counts := Histogram([]float64{0, 1, 2, 3, 4, 10, -1}, 2, 0, 4)
	require.Len(t, counts, 2)
	assert.Equal(t, []float64{2, 3}, counts)

	assert.Nil(t, Histogram([]float64{1}, 4, 5, 5))
	assert.Nil(t, Histogram([]float64{1}, 0, 0, 5))
}

func TestSamples(t *testing.T) {
	p := mustPlane(t, 2, 1, []uint16{10, 20})
	assert.Equal(t, []float64{19, 39}, Samples(p, func(v float64) float64 { return v*2 - 1 }))
	assert.Equal(t, []float64{10, 20}, Samples(p, nil))
}

func TestToImage(t *testing.T) {
	gray, err := ToImage(mustPlane(t, 2, 1, []uint8{0, 200}))
	require.NoError(t, err)
	require.IsType(t, &image.Gray{}, gray)
	assert.Equal(t, uint8(200), gray.(*image.Gray).GrayAt(1, 0).Y)

	p := NewPlane[uint8](1, 1, 3)
	copy(p.Pix, []uint8{10, 20, 30})
	img, err := ToImage(p)
	require.NoError(t, err)
	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{10 * 0x101, 20 * 0x101, 30 * 0x101, 0xFFFF}, []uint32{r, g, b, a})

	_, err = ToImage(NewPlane[int16](1, 1, 1))
	assert.Error(t, err)
}

func mustPlane[T Sample](t *testing.T, w, h int, pix []T) *Plane[T] {
	t.Helper()
	p, err := FromSlice(w, h, 1, pix)
	require.NoError(t, err)
	return p
}
