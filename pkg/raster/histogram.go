package raster

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram counts values into bins equal-width bins spanning [lo, hi].
// Values outside the range are ignored; hi itself falls into the last bin.
func Histogram(values []float64, bins int, lo, hi float64) []float64 {
	if bins <= 0 || !(hi > lo) {
		return nil
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram needs the last divider strictly above the largest value
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	x := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= lo && v <= hi {
			x = append(x, v)
		}
	}
	slices.Sort(x)
	return stat.Histogram(nil, dividers, x, nil)
}

// Samples copies every sample of r into a float slice, optionally mapped through fn
func Samples(r Raster, fn func(float64) float64) []float64 {
	out := make([]float64, r.Len())
	for i := range out {
		v := r.Float(i)
		if fn != nil {
			v = fn(v)
		}
		out[i] = v
	}
	return out
}
