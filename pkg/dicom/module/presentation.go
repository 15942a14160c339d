package module

import (
	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
)

// PresentationStateModule carries the display overrides of a Grayscale Softcopy Presentation State
// Per DICOM Part 3 Sections C.11.6 (Softcopy Presentation LUT) and C.11.1 (Modality LUT)
type PresentationStateModule struct {
	// Overrides of the referenced image rescale, nil to keep the image values
	RescaleIntercept *float64
	RescaleSlope     *float64

	// IDENTITY or INVERSE, ignored when LUT is set
	PresentationLUTShape string
	// Optional: Presentation LUT Sequence
	LUT *LUT
}

// ToTags converts the module to DICOM tag elements
func (m *PresentationStateModule) ToTags() []IODElement {
	var elements []IODElement
	if m.RescaleIntercept != nil {
		elements = append(elements, IODElement{Tag: tag.RescaleIntercept, Value: formatDS(*m.RescaleIntercept)})
	}
	if m.RescaleSlope != nil {
		elements = append(elements, IODElement{Tag: tag.RescaleSlope, Value: formatDS(*m.RescaleSlope)})
	}
	if m.LUT != nil {
		elements = append(elements, IODElement{Tag: tag.PresentationLUTSequence, Value: []Item{m.LUT.toItem()}})
	} else if m.PresentationLUTShape != "" {
		elements = append(elements, IODElement{Tag: tag.PresentationLUTShape, Value: m.PresentationLUTShape})
	}
	return elements
}
