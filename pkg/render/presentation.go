package render

import (
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/dicom"
	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
)

// PresentationState carries the display overrides a softcopy presentation state applies
// on top of an image. nil fields keep the image values.
type PresentationState struct {
	RescaleIntercept *float64
	RescaleSlope     *float64
	// IDENTITY or INVERSE
	PresentationLUTShape string
	// ModalityLUT replaces the image Modality LUT Sequence
	ModalityLUT *module.LUT
	// LUT is the Presentation LUT applied last
	LUT *module.LUT
}

// PresentationStateFromDataset reads the overrides of a presentation state dataset
func PresentationStateFromDataset(ds *dicom.Dataset) *PresentationState {
	m := dicom.ReadPresentationState(ds)
	return &PresentationState{
		RescaleIntercept:     m.RescaleIntercept,
		RescaleSlope:         m.RescaleSlope,
		PresentationLUTShape: m.PresentationLUTShape,
		ModalityLUT:          dicom.ReadModalityLUTModule(ds).LUT,
		LUT:                  m.LUT,
	}
}

func (ps *PresentationState) shape() (string, bool) {
	if ps == nil || ps.PresentationLUTShape == "" {
		return "", false
	}
	return strings.ToUpper(ps.PresentationLUTShape), true
}

func (ps *PresentationState) presentationLUT() *module.LUT {
	if ps == nil {
		return nil
	}
	return ps.LUT
}
