package module

import (
	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
)

// ModalityLUTModule represents the Modality LUT Module
// Per DICOM Part 3 Section C.11.1
// Either a rescale (slope/intercept) or an explicit LUT, never both
type ModalityLUTModule struct {
	RescaleIntercept float64
	RescaleSlope     float64
	RescaleType      string // HU, OD, US...

	// Optional: Modality LUT Sequence, takes precedence over rescale when present
	LUT *LUT
}

// NewModalityLUTModule creates an identity rescale
func NewModalityLUTModule() *ModalityLUTModule {
	return &ModalityLUTModule{RescaleSlope: 1}
}

// NewModalityLUTModuleForCT creates the usual 12-bit CT rescale to Hounsfield units
func NewModalityLUTModuleForCT() *ModalityLUTModule {
	return &ModalityLUTModule{RescaleIntercept: -1024, RescaleSlope: 1, RescaleType: "HU"}
}

// ToTags converts the module to DICOM tag elements
func (m *ModalityLUTModule) ToTags() []IODElement {
	if m.LUT != nil {
		return []IODElement{{Tag: tag.ModalityLUTSequence, Value: []Item{m.LUT.toItem()}}}
	}
	elements := []IODElement{
		{Tag: tag.RescaleIntercept, Value: formatDS(m.RescaleIntercept)},
		{Tag: tag.RescaleSlope, Value: formatDS(m.RescaleSlope)},
	}
	if m.RescaleType != "" {
		elements = append(elements, IODElement{Tag: tag.RescaleType, Value: m.RescaleType})
	}
	return elements
}
