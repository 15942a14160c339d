// Package render turns stored DICOM samples into displayable 8 bit rasters.
//
// An Image snapshots the pixel module tags of a dataset next to its decoded raster
// and memoizes what is derived from the samples (statistics, presets, shapes). A
// Renderer runs the Modality LUT, the VOI LUT and the Presentation LUT over an Image,
// sharing tables between renders through a lut.Cache.
package render

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/jpfielding/dicomlut.go/pkg/dicom"
	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
	"github.com/jpfielding/dicomlut.go/pkg/lut"
	"github.com/jpfielding/dicomlut.go/pkg/raster"
)

// Image is a decoded frame with the attributes the pipeline needs.
// It is safe for concurrent use; nothing is mutated after NewImage besides the memos.
type Image struct {
	ds     *dicom.Dataset
	raster raster.Raster

	modality          string
	photometric       string
	bitsAllocated     int
	bitsStored        int
	signed            bool
	intercept, slope  float64
	padding           lut.NullInt
	paddingLimit      lut.NullInt
	presentationShape string
	modalityLUT       *module.LUT
	voi               *module.VOILUTModule
	unit              string

	raw      memo[raster.Statistics]
	padStats memo[raster.Statistics]
	// indexed by pixel padding
	presets [2]memo[[]Preset]
	shapes  [2]memo[[]lut.Shape]

	// *module.LUT to its lut.SequenceID
	seqIDs sync.Map

	paddedSeqWarned atomic.Bool
	uncoveredWarned atomic.Bool
}

// NewImage snapshots ds and pairs it with r. Missing tags fall back to: bits allocated
// from the raster sample width (8 without a raster), bits stored = bits allocated,
// unsigned, identity rescale, MONOCHROME2.
func NewImage(ds *dicom.Dataset, r raster.Raster) *Image {
	img := &Image{ds: ds, raster: r}
	img.modality = dicom.GetModality(ds)

	img.photometric = dicom.GetPhotometricInterpretation(ds)
	if img.photometric == "" {
		img.photometric = dicom.Monochrome2
	}

	var ok bool
	if img.bitsAllocated, ok = dicom.GetBitsAllocated(ds); !ok {
		img.bitsAllocated = 8
		if r != nil {
			img.bitsAllocated = r.BitDepth()
		}
	}
	if img.bitsStored, ok = dicom.GetBitsStored(ds); !ok || img.bitsStored > img.bitsAllocated {
		img.bitsStored = img.bitsAllocated
	}
	img.signed = dicom.GetPixelRepresentation(ds) == 1
	img.intercept, img.slope = dicom.GetRescale(ds)

	if v, hasValue, limit, hasLimit := dicom.GetPixelPadding(ds, img.signed, img.bitsStored); hasValue {
		img.padding = lut.Some(v)
		if hasLimit {
			img.paddingLimit = lut.Some(limit)
		}
	}
	img.presentationShape = dicom.GetPresentationLUTShape(ds)
	img.modalityLUT = dicom.ReadModalityLUTModule(ds).LUT
	img.voi = dicom.ReadVOILUTModule(ds)
	img.unit = dicom.GetPixelValueUnit(ds)
	return img
}

func (img *Image) Dataset() *dicom.Dataset                 { return img.ds }
func (img *Image) Raster() raster.Raster                   { return img.raster }
func (img *Image) Modality() string                        { return img.modality }
func (img *Image) PhotometricInterpretation() string       { return img.photometric }
func (img *Image) BitsAllocated() int                      { return img.bitsAllocated }
func (img *Image) Signed() bool                            { return img.signed }
func (img *Image) Padding() (value, limit lut.NullInt)     { return img.padding, img.paddingLimit }
func (img *Image) VOILUTModule() *module.VOILUTModule      { return img.voi }
func (img *Image) ModalityLUTSequence() *module.LUT        { return img.modalityLUT }

// PixelValueUnit is the unit of modality output values, "" when unknown
func (img *Image) PixelValueUnit() string { return img.unit }

// IsMonochrome reports MONOCHROME1 or MONOCHROME2
func (img *Image) IsMonochrome() bool {
	return img.photometric == dicom.Monochrome1 || img.photometric == dicom.Monochrome2
}

// BitsStored is the stored depth used for LUT sizing: bits allocated replaces it
// when the samples do not fit the declared range
func (img *Image) BitsStored() int {
	raw, ok := img.rawStatistics()
	if !ok {
		return img.bitsStored
	}
	lo, hi := lut.ValueRange(img.bitsStored, img.signed)
	if raw.Min < float64(lo) || raw.Max > float64(hi) {
		return img.bitsAllocated
	}
	return img.bitsStored
}

// Rescale returns the intercept and slope with presentation state overrides applied
func (img *Image) Rescale(ps *PresentationState) (intercept, slope float64) {
	intercept, slope = img.intercept, img.slope
	if ps != nil {
		if ps.RescaleIntercept != nil {
			intercept = *ps.RescaleIntercept
		}
		if ps.RescaleSlope != nil && *ps.RescaleSlope != 0 {
			slope = *ps.RescaleSlope
		}
	}
	return
}

// InversePresentation reports an inverted grayscale: a presentation LUT shape of
// INVERSE (the presentation state's first), else MONOCHROME1
func (img *Image) InversePresentation(ps *PresentationState) bool {
	if s, ok := ps.shape(); ok {
		return s == "INVERSE"
	}
	if img.presentationShape != "" {
		return img.presentationShape == "INVERSE"
	}
	return img.photometric == dicom.Monochrome1
}

func (img *Image) padded(pixelPadding bool) bool {
	return pixelPadding && img.padding.Valid && img.IsMonochrome()
}

func (img *Image) paddingRange() raster.Range {
	lo, hi := img.padding.Int, img.padding.Int
	if img.paddingLimit.Valid {
		lo, hi = min(lo, img.paddingLimit.Int), max(hi, img.paddingLimit.Int)
	}
	return raster.NewRange(float64(lo), float64(hi))
}

func paddingIndex(pixelPadding bool) int {
	if pixelPadding {
		return 1
	}
	return 0
}

func (img *Image) rawStatistics() (raster.Statistics, bool) {
	return img.raw.load(func() (raster.Statistics, bool) {
		return raster.ComputeStatistics(img.raster, nil)
	})
}

// Statistics returns the raw sample extremes, padding excluded when requested.
// ok is false when the image has no samples.
func (img *Image) Statistics(pixelPadding bool) (raster.Statistics, bool) {
	if !img.padded(pixelPadding) {
		return img.rawStatistics()
	}
	return img.padStats.load(func() (raster.Statistics, bool) {
		exclude := img.paddingRange()
		return raster.ComputeStatistics(img.raster, &exclude)
	})
}

// sampleRange is the statistics, or the stored range when there are no samples
func (img *Image) sampleRange(pixelPadding bool) (float64, float64) {
	if s, ok := img.Statistics(pixelPadding); ok {
		return s.Min, s.Max
	}
	lo, hi := lut.ValueRange(img.bitsStored, img.signed)
	return float64(lo), float64(hi)
}

// modalityState is the resolved input of the Modality LUT builder
type modalityState struct {
	params lut.ModalityParams
	seq    *module.LUT
}

func (img *Image) modalityState(ps *PresentationState, pixelPadding, inverse bool) modalityState {
	seq := img.modalityLUT
	if ps != nil && ps.ModalityLUT != nil {
		seq = ps.ModalityLUT
	}
	padded := img.padded(pixelPadding)
	if seq != nil {
		rawMin, rawMax := img.sampleRange(false)
		switch {
		case padded:
			warnOnce(&img.paddedSeqWarned, "cannot apply modality lut sequence with pixel padding, using rescale")
			seq = nil
		case !lut.SequenceCovers(seq, rawMin, rawMax):
			warnOnce(&img.uncoveredWarned, "pixel values outside the modality lut sequence, using rescale",
				slog.Float64("min", rawMin), slog.Float64("max", rawMax),
				slog.Int("first", seq.FirstMapped()), slog.Int("entries", len(seq.Data)))
			seq = nil
		}
	}

	intercept, slope := img.Rescale(ps)
	p := lut.ModalityParams{
		Intercept:    intercept,
		Slope:        slope,
		PixelPadding: padded,
		BitsStored:   img.BitsStored(),
		InputSigned:  img.signed,
	}
	if padded {
		p.Padding, p.PaddingLimit = img.padding, img.paddingLimit
		p.InversePadding = img.InversePresentation(ps) != inverse
	}
	if seq != nil {
		p.SequenceID = img.sequenceID(seq)
		p.OutputBits = seq.Bits()
	} else {
		lo, hi := img.sampleRange(pixelPadding)
		p.OutputSigned, p.OutputBits = lut.RescaleOutput(p.Transform(lo), p.Transform(hi), img.signed)
	}
	return modalityState{params: p, seq: seq}
}

func warnOnce(done *atomic.Bool, msg string, attrs ...any) {
	if done.CompareAndSwap(false, true) {
		slog.Warn(msg, attrs...)
	}
}

// sequenceID hashes each sequence item once per image
func (img *Image) sequenceID(seq *module.LUT) string {
	if id, ok := img.seqIDs.Load(seq); ok {
		return id.(string)
	}
	id, _ := img.seqIDs.LoadOrStore(seq, lut.SequenceID(seq))
	return id.(string)
}

// ModalityParams returns the Modality LUT parameters and the sequence item (nil for a rescale)
func (img *Image) ModalityParams(ps *PresentationState, pixelPadding, inverse bool) (lut.ModalityParams, *module.LUT) {
	ms := img.modalityState(ps, pixelPadding, inverse)
	return ms.params, ms.seq
}

// ModalityLookup returns the cached Modality LUT, nil for the identity
func (img *Image) ModalityLookup(c *lut.Cache, ps *PresentationState, pixelPadding, inverse bool) *lut.Table {
	ms := img.modalityState(ps, pixelPadding, inverse)
	if ms.seq == nil && ms.params.IsIdentity() {
		return nil
	}
	return c.GetOrBuild(ms.params, func() *lut.Table {
		return lut.BuildModality(ms.params, ms.seq)
	})
}

// toModality maps one stored value to its modality output
func (ms modalityState) toModality(v float64) float64 {
	if ms.seq != nil && len(ms.seq.Data) > 0 {
		i := int(v) - ms.seq.FirstMapped()
		i = max(0, min(i, len(ms.seq.Data)-1))
		return float64(ms.seq.Data[i])
	}
	return ms.params.Transform(v)
}

// MinValue is the smallest modality output of the samples; slopes may be negative
// so both extremes are mapped
func (img *Image) MinValue(ps *PresentationState, pixelPadding bool) float64 {
	lo, _ := img.modalityRange(ps, pixelPadding)
	return lo
}

// MaxValue is the largest modality output of the samples
func (img *Image) MaxValue(ps *PresentationState, pixelPadding bool) float64 {
	_, hi := img.modalityRange(ps, pixelPadding)
	return hi
}

func (img *Image) modalityRange(ps *PresentationState, pixelPadding bool) (float64, float64) {
	ms := img.modalityState(ps, pixelPadding, false)
	rawMin, rawMax := img.sampleRange(pixelPadding)
	a, b := ms.toModality(rawMin), ms.toModality(rawMax)
	return math.Min(a, b), math.Max(a, b)
}

// ModalityOutputSigned reports whether modality outputs can be negative
func (img *Image) ModalityOutputSigned(ps *PresentationState, pixelPadding bool) bool {
	return img.MinValue(ps, pixelPadding) < 0 || img.signed
}

// AllocatedRange is the range of every storable modality output for the allocated depth
func (img *Image) AllocatedRange(ps *PresentationState, pixelPadding bool) (int, int) {
	bits := min(img.bitsAllocated, 16)
	return lut.ValueRange(bits, img.ModalityOutputSigned(ps, pixelPadding))
}

// FullDynamicWidth is the window covering every modality output
func (img *Image) FullDynamicWidth(ps *PresentationState, pixelPadding bool) float64 {
	lo, hi := img.modalityRange(ps, pixelPadding)
	return hi - lo
}

// FullDynamicCenter is the level of the full dynamic window
func (img *Image) FullDynamicCenter(ps *PresentationState, pixelPadding bool) float64 {
	lo, hi := img.modalityRange(ps, pixelPadding)
	return lo + (hi-lo)/2
}

// Histogram counts the modality outputs of every non padding sample into bins
func (img *Image) Histogram(ps *PresentationState, pixelPadding bool, bins int) []float64 {
	if img.raster == nil || img.raster.Len() == 0 {
		return nil
	}
	ms := img.modalityState(ps, pixelPadding, false)
	padded := img.padded(pixelPadding)
	exclude := img.paddingRange()
	values := make([]float64, 0, img.raster.Len())
	for i := 0; i < img.raster.Len(); i++ {
		v := img.raster.Float(i)
		if padded && exclude.Contains(v) {
			continue
		}
		values = append(values, ms.toModality(v))
	}
	lo, hi := img.modalityRange(ps, pixelPadding)
	return raster.Histogram(values, bins, lo, hi)
}

// VOIParams resolves the VOI LUT parameters of window w under o
func (img *Image) VOIParams(o *Options, w Window) lut.VOIParams {
	ps := o.Presentation
	fill := o.FillOutside
	if padding, _ := img.Padding(); padding.Valid && img.IsMonochrome() {
		// padding codes sit outside the window, the table has to reach them
		fill = true
	}
	minAllocated, maxAllocated := img.AllocatedRange(ps, o.PixelPadding)
	// no modality output lies past the allocated range or the data extremes, and
	// lookups clamp to the table edges
	minValue, maxValue := img.modalityRange(ps, o.PixelPadding)
	minLevel := math.Max(w.MinLevel, math.Min(float64(minAllocated), math.Floor(minValue)))
	maxLevel := math.Min(w.MaxLevel, math.Max(float64(maxAllocated), math.Ceil(maxValue)))
	return lut.VOIParams{
		Window:       w.Width,
		Level:        w.Level,
		MinLevel:     int(math.Floor(minLevel)),
		MaxLevel:     int(math.Ceil(maxLevel)),
		MinAllocated: minAllocated,
		MaxAllocated: maxAllocated,
		FillOutside:  fill,
		Function:     w.Shape.Function,
		SequenceID:   w.Shape.ID(),
		OutputBits:   lut.DefaultOutputBits,
		Inverse:      img.InversePresentation(ps) != o.Inverse,
	}
}

// VOILookup returns the cached VOI LUT of window w, nil for a non positive window
func (img *Image) VOILookup(c *lut.Cache, o *Options, w Window) *lut.Table {
	p := img.VOIParams(o, w)
	return c.GetOrBuild(p, func() *lut.Table {
		return lut.BuildVOI(p, w.Shape.LUT)
	})
}
