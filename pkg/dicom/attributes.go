package dicom

import (
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
)

// Photometric interpretations the pipeline distinguishes
const (
	Monochrome1  = "MONOCHROME1"
	Monochrome2  = "MONOCHROME2"
	PaletteColor = "PALETTE COLOR"
	RGB          = "RGB"
)

// LookupInt returns the first integer value of t
func LookupInt(ds *Dataset, t Tag) (int, bool) {
	if elem, ok := ds.FindElement(t); ok {
		return elem.GetInt()
	}
	return 0, false
}

// LookupFloat returns the first numeric value of t, parsing DS/IS strings
func LookupFloat(ds *Dataset, t Tag) (float64, bool) {
	if elem, ok := ds.FindElement(t); ok {
		return elem.GetFloat()
	}
	return 0, false
}

// LookupString returns the trimmed string value of t, false when absent or blank
func LookupString(ds *Dataset, t Tag) (string, bool) {
	if elem, ok := ds.FindElement(t); ok {
		if s, ok := elem.GetString(); ok {
			s = strings.TrimSpace(s)
			return s, s != ""
		}
	}
	return "", false
}

// GetModality returns the modality string from the dataset
func GetModality(ds *Dataset) string {
	s, _ := LookupString(ds, tag.Modality)
	return s
}

// GetRows returns the number of rows in the image
func GetRows(ds *Dataset) int {
	v, _ := LookupInt(ds, tag.Rows)
	return v
}

// GetColumns returns the number of columns in the image
func GetColumns(ds *Dataset) int {
	v, _ := LookupInt(ds, tag.Columns)
	return v
}

// GetNumberOfFrames returns the number of frames in the image
func GetNumberOfFrames(ds *Dataset) int {
	if v, ok := LookupInt(ds, tag.NumberOfFrames); ok && v > 0 {
		return v
	}
	return 1 // Default to 1 if not specified
}

// GetSamplesPerPixel returns the samples per pixel, 1 when absent
func GetSamplesPerPixel(ds *Dataset) int {
	if v, ok := LookupInt(ds, tag.SamplesPerPixel); ok && v > 0 {
		return v
	}
	return 1
}

// GetBitsAllocated returns the bits allocated per sample and whether the tag was usable
func GetBitsAllocated(ds *Dataset) (int, bool) {
	if v, ok := LookupInt(ds, tag.BitsAllocated); ok && v > 0 {
		return v, true
	}
	return 0, false
}

// GetBitsStored returns the bits stored per sample and whether the tag was usable
func GetBitsStored(ds *Dataset) (int, bool) {
	if v, ok := LookupInt(ds, tag.BitsStored); ok && v > 0 {
		return v, true
	}
	return 0, false
}

// GetPixelRepresentation returns 0 for unsigned, 1 for signed
func GetPixelRepresentation(ds *Dataset) int {
	if v, ok := LookupInt(ds, tag.PixelRepresentation); ok {
		return v
	}
	return 0 // Default to unsigned
}

// GetPhotometricInterpretation returns the upper-cased photometric interpretation, "" when absent
func GetPhotometricInterpretation(ds *Dataset) string {
	s, _ := LookupString(ds, tag.PhotometricInterpretation)
	return strings.ToUpper(s)
}

// GetRescale returns the rescale intercept and slope from the dataset.
// Missing or unparsable values default to 0 and 1.
func GetRescale(ds *Dataset) (intercept, slope float64) {
	intercept, slope = 0, 1
	if v, ok := LookupFloat(ds, tag.RescaleIntercept); ok {
		intercept = v
	}
	if v, ok := LookupFloat(ds, tag.RescaleSlope); ok && v != 0 {
		slope = v
	}
	return
}

// GetPixelPadding returns the pixel padding value and optional range limit.
//
// Padding values are read as stored; signed images carry them as two's complement
// so they are sign extended against bitsStored when signed is true.
func GetPixelPadding(ds *Dataset, signed bool, bitsStored int) (value int, hasValue bool, limit int, hasLimit bool) {
	value, hasValue = LookupInt(ds, tag.PixelPaddingValue)
	limit, hasLimit = LookupInt(ds, tag.PixelPaddingRangeLimit)
	if signed {
		value = SignExtend(value, bitsStored)
		limit = SignExtend(limit, bitsStored)
	}
	return
}

// GetPixelValueUnit resolves the unit of modality output values:
// Rescale Type, then Units (PET), then HU for CT. SC and OT have no unit.
func GetPixelValueUnit(ds *Dataset) string {
	modality := GetModality(ds)
	if modality == "SC" || modality == "OT" {
		return ""
	}
	if s, ok := LookupString(ds, tag.RescaleType); ok {
		return s
	}
	if s, ok := LookupString(ds, tag.Units); ok {
		return s
	}
	if modality == "CT" {
		return "HU"
	}
	return ""
}

// GetPresentationLUTShape returns IDENTITY, INVERSE or ""
func GetPresentationLUTShape(ds *Dataset) string {
	s, _ := LookupString(ds, tag.PresentationLUTShape)
	return strings.ToUpper(s)
}

// SignExtend interprets the low bits of v as a two's complement number
func SignExtend(v, bits int) int {
	if bits <= 0 || bits >= 32 {
		return v
	}
	mask := (1 << bits) - 1
	v &= mask
	if v&(1<<(bits-1)) != 0 {
		v -= 1 << bits
	}
	return v
}
