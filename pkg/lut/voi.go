package lut

import (
	"log/slog"
	"math"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
)

// DefaultOutputBits is the display depth of a VOI LUT
const DefaultOutputBits = 8

// BuildVOI builds a VOI LUT over p.Domain(), mapping it to [0, 2^OutputBits-1]
// through the response curve of p.Function. seq supplies the table of a Sequence
// shape and is ignored otherwise. Returns nil for a non positive window or an
// empty domain.
func BuildVOI(p VOIParams, seq *module.LUT) *Table {
	lo, hi := p.Domain()
	if p.Window <= 0 || hi < lo {
		return nil
	}
	outBits := p.OutputBits
	if outBits <= 0 {
		outBits = DefaultOutputBits
	}
	outBits = clampInt(outBits, 1, 16)
	outMin, outMax := valueRange(outBits, false)
	span := float64(outMax - outMin)

	curve := func(v float64) float64 {
		return Curve(p.Function, Normalize(p.Function, v, p.Level, p.Window))
	}
	if p.Function == Sequence && seq != nil && len(seq.Data) > 0 {
		curve = sequenceCurve(seq, p.Level, p.Window)
	}

	data := make([]int32, hi-lo+1)
	for i := range data {
		v := int(math.Round(curve(float64(lo+i))*span)) + outMin
		if p.Inverse {
			v = outMax + outMin - v
		}
		data[i] = int32(v)
	}
	slog.Debug("built voi lut",
		slog.Float64("window", p.Window),
		slog.Float64("level", p.Level),
		slog.String("shape", p.Function.String()),
		slog.Int("min", lo),
		slog.Int("max", hi),
		slog.Bool("inverse", p.Inverse))
	return newTable(data, lo, dataTypeFor(outBits), false, outMin, outMax)
}

// sequenceCurve stretches the table entries evenly across the window
func sequenceCurve(seq *module.LUT, level, window float64) func(float64) float64 {
	n := len(seq.Data)
	_, top := valueRange(clampInt(seq.Bits(), 1, 16), false)
	return func(v float64) float64 {
		x := clamp01(Normalize(LinearExact, v, level, window))
		idx := int(math.Round(x * float64(n-1)))
		return clamp01(float64(seq.Data[idx]) / float64(top))
	}
}
