package raster

import (
	"math"
)

// tileRows is the number of rows scanned per tile
const tileRows = 64

// Range is an inclusive [Lo, Hi] interval of sample values
type Range struct {
	Lo, Hi float64
}

// NewRange orders a and b
func NewRange(a, b float64) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Lo: a, Hi: b}
}

// Contains reports whether v lies in the inclusive range
func (r Range) Contains(v float64) bool {
	return v >= r.Lo && v <= r.Hi
}

// Statistics are the raw sample extremes of a raster
type Statistics struct {
	Min float64
	Max float64
}

// ComputeStatistics scans r for its extreme sample values across all bands.
//
// Integer8 rasters report [0,255] without scanning. Samples inside exclude are
// skipped; when every sample is excluded the unexcluded extremes are used. A flat
// raster reports Max = Min+1. ok is false for a nil or empty raster.
func ComputeStatistics(r Raster, exclude *Range) (Statistics, bool) {
	if r == nil || r.Len() == 0 {
		return Statistics{}, false
	}
	if r.Kind() == Integer8 {
		return Statistics{Min: 0, Max: 255}, true
	}
	lo, hi, n := r.scan(exclude)
	if n == 0 && exclude != nil {
		lo, hi, n = r.scan(nil)
	}
	if n == 0 {
		// only NaN samples
		return Statistics{}, false
	}
	if lo == hi {
		hi = lo + 1
	}
	return Statistics{Min: lo, Max: hi}, true
}

// scan walks the plane in row tiles, counting the samples that took part
func (p *Plane[T]) scan(exclude *Range) (lo, hi float64, n int) {
	lo, hi = math.Inf(1), math.Inf(-1)
	stride := p.W * p.B
	for y0 := 0; y0 < p.H; y0 += tileRows {
		y1 := min(y0+tileRows, p.H)
		for _, s := range p.Pix[y0*stride : y1*stride] {
			v := float64(s)
			if math.IsNaN(v) || (exclude != nil && exclude.Contains(v)) {
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
			n++
		}
	}
	return lo, hi, n
}
