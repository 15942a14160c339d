package lut

import (
	"math"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
)

// BuildPresentation rescales a Presentation LUT Sequence item to OutputBits (8 when unset).
// Inputs outside the item clamp to its first or last entry.
func BuildPresentation(p PresentationParams, l *module.LUT) *Table {
	if l == nil || len(l.Data) == 0 {
		return nil
	}
	outBits := p.OutputBits
	if outBits <= 0 {
		outBits = DefaultOutputBits
	}
	outBits = clampInt(outBits, 1, 16)
	_, outMax := valueRange(outBits, false)
	_, inMax := valueRange(clampInt(l.Bits(), 1, 16), false)
	scale := float64(outMax) / float64(inMax)

	data := make([]int32, len(l.Data))
	for i, v := range l.Data {
		data[i] = int32(clampInt(int(math.Round(float64(v)*scale)), 0, outMax))
	}
	return newTable(data, l.FirstMapped(), dataTypeFor(outBits), false, 0, outMax)
}
