package module

import (
	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
)

// LUT is one item of a Modality, VOI or Presentation LUT Sequence
// Per DICOM Part 3 Section C.11.1.1.1
type LUT struct {
	// LUT Descriptor: [number of entries, first input value mapped, bits per entry]
	Descriptor [3]int
	// LUT Data - the actual lookup table values
	Data []int
	// Optional explanation
	Explanation string
	// Modality LUT Type (HU, OD, US...), only meaningful in a Modality LUT Sequence
	Type string
}

// Entries returns the number of table entries; a descriptor value of 0 means 65536
func (l *LUT) Entries() int {
	if l.Descriptor[0] == 0 {
		return 1 << 16
	}
	return l.Descriptor[0]
}

// FirstMapped returns the first stored value mapped by the table
func (l *LUT) FirstMapped() int {
	return l.Descriptor[1]
}

// Bits returns the bit depth of table entries (8 or 16 in practice)
func (l *LUT) Bits() int {
	if l.Descriptor[2] <= 0 {
		return 16
	}
	return l.Descriptor[2]
}

func (l *LUT) toItem() Item {
	item := Item{
		{Tag: tag.LUTDescriptor, Value: []int{l.Descriptor[0], l.Descriptor[1], l.Descriptor[2]}},
		{Tag: tag.LUTData, Value: l.Data},
	}
	if l.Explanation != "" {
		item = append(item, IODElement{Tag: tag.LUTExplanation, Value: l.Explanation})
	}
	if l.Type != "" {
		item = append(item, IODElement{Tag: tag.ModalityLUTType, Value: l.Type})
	}
	return item
}
