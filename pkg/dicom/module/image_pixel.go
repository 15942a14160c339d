package module

import (
	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
)

// ImagePixelModule represents the Image Pixel Module attributes the pipeline reads
// Per DICOM Part 3 Section C.7.6.3
type ImagePixelModule struct {
	Rows                      int
	Columns                   int
	SamplesPerPixel           int
	PhotometricInterpretation string
	BitsAllocated             int
	BitsStored                int
	PixelRepresentation       int // 0=unsigned, 1=signed

	// Pixel Padding Value and optional Range Limit (C.7.5.1.1.2)
	PixelPaddingValue      *int
	PixelPaddingRangeLimit *int
}

// NewImagePixelModule creates a single sample MONOCHROME2 module
func NewImagePixelModule(rows, cols, bitsAllocated, bitsStored int, signed bool) *ImagePixelModule {
	rep := 0
	if signed {
		rep = 1
	}
	return &ImagePixelModule{
		Rows:                      rows,
		Columns:                   cols,
		SamplesPerPixel:           1,
		PhotometricInterpretation: "MONOCHROME2",
		BitsAllocated:             bitsAllocated,
		BitsStored:                bitsStored,
		PixelRepresentation:       rep,
	}
}

// SetPadding sets the padding value and, when limit is non-nil, the padding range limit
func (m *ImagePixelModule) SetPadding(value int, limit *int) {
	m.PixelPaddingValue = &value
	m.PixelPaddingRangeLimit = limit
}

// ToTags converts the module to DICOM tag elements
func (m *ImagePixelModule) ToTags() []IODElement {
	elements := []IODElement{
		{Tag: tag.Rows, Value: m.Rows},
		{Tag: tag.Columns, Value: m.Columns},
		{Tag: tag.SamplesPerPixel, Value: m.SamplesPerPixel},
		{Tag: tag.PhotometricInterpretation, Value: m.PhotometricInterpretation},
		{Tag: tag.BitsAllocated, Value: m.BitsAllocated},
		{Tag: tag.BitsStored, Value: m.BitsStored},
		{Tag: tag.HighBit, Value: m.BitsStored - 1},
		{Tag: tag.PixelRepresentation, Value: m.PixelRepresentation},
	}
	if m.PixelPaddingValue != nil {
		elements = append(elements, IODElement{Tag: tag.PixelPaddingValue, Value: *m.PixelPaddingValue})
		if m.PixelPaddingRangeLimit != nil {
			elements = append(elements, IODElement{Tag: tag.PixelPaddingRangeLimit, Value: *m.PixelPaddingRangeLimit})
		}
	}
	return elements
}
