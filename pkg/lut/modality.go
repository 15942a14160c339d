package lut

import (
	"log/slog"
	"math"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
)

// maxStoredBits is the widest stored sample a Modality LUT is built for
const maxStoredBits = 16

// BuildModality builds the Modality LUT for p.
//
// seq, when non-nil, is a Modality LUT Sequence item already checked against the
// image range and is copied verbatim. Otherwise a rescale ramp covers every code
// representable in BitsStored. Returns nil for the identity transform and for
// samples wider than 16 bits.
func BuildModality(p ModalityParams, seq *module.LUT) *Table {
	if p.BitsStored > maxStoredBits {
		return nil
	}
	var t *Table
	if seq != nil {
		t = fromSequence(seq)
	} else {
		if p.IsIdentity() {
			return nil
		}
		t = rescaleRamp(p)
	}
	if p.padded() {
		applyPadding(t, p)
	}
	slog.Debug("built modality lut",
		slog.Int("offset", t.offset),
		slog.Int("entries", len(t.data)),
		slog.String("type", t.dataType.String()),
		slog.Bool("signed", t.signed))
	return t
}

// SequenceCovers reports whether raw sample values [lo, hi] all index into l
func SequenceCovers(l *module.LUT, lo, hi float64) bool {
	first := float64(l.FirstMapped())
	return lo >= first && hi < first+float64(len(l.Data))
}

// fromSequence copies a LUT Sequence item; its output is always unsigned
func fromSequence(l *module.LUT) *Table {
	outBits := clampInt(l.Bits(), 1, 16)
	data := make([]int32, len(l.Data))
	for i, v := range l.Data {
		data[i] = int32(v)
	}
	outMin, outMax := valueRange(outBits, false)
	return newTable(data, l.FirstMapped(), dataTypeFor(outBits), false, outMin, outMax)
}

func rescaleRamp(p ModalityParams) *Table {
	bitsStored := clampInt(p.BitsStored, 1, maxStoredBits)
	outBits := clampInt(p.OutputBits, 1, 32)
	if p.OutputSigned && outBits < 2 {
		outBits = 2
	}
	outMin, outMax := valueRange(outBits, p.OutputSigned)
	inMin, inMax := valueRange(bitsStored, p.InputSigned)

	data := make([]int32, inMax-inMin+1)
	for i := range data {
		v := math.Round(p.Transform(float64(i + inMin)))
		data[i] = int32(math.Max(float64(outMin), math.Min(float64(outMax), v)))
	}
	return newTable(data, inMin, dataTypeFor(outBits), p.OutputSigned, outMin, outMax)
}

// applyPadding pushes the padding codes to the output extremity: the minimum, or
// the maximum when the grayscale is inverted
func applyPadding(t *Table, p ModalityParams) {
	lo, hi := p.Padding.Int, p.Padding.Int
	if p.PaddingLimit.Valid {
		lo, hi = min(lo, p.PaddingLimit.Int), max(hi, p.PaddingLimit.Int)
	}
	start := max(lo-t.offset, 0)
	end := min(hi-t.offset, len(t.data)-1)
	if start > end {
		return
	}
	fill := int32(t.outMin)
	if p.InversePadding {
		fill = int32(t.outMax)
	}
	for i := start; i <= end; i++ {
		t.data[i] = fill
	}
}
