// Package tag defines the DICOM tags consumed by the pixel pipeline
package tag

// Tag represents a DICOM tag with Group and Element
type Tag struct {
	Group   uint16
	Element uint16
}

// New creates a new Tag
func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

// IsPrivate returns true if this is a private tag (odd group number)
func (t Tag) IsPrivate() bool {
	return t.Group%2 == 1
}

// File Meta Information (Group 0002)
var (
	MediaStorageSOPClassUID    = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID = Tag{0x0002, 0x0003}
	TransferSyntaxUID          = Tag{0x0002, 0x0010}
)

// Identification
var (
	SOPClassUID       = Tag{0x0008, 0x0016}
	SOPInstanceUID    = Tag{0x0008, 0x0018}
	Modality          = Tag{0x0008, 0x0060}
	SeriesInstanceUID = Tag{0x0020, 0x000E}
	InstanceNumber    = Tag{0x0020, 0x0013}
)

// Image Pixel Module (Group 0028)
var (
	SamplesPerPixel           = Tag{0x0028, 0x0002}
	PhotometricInterpretation = Tag{0x0028, 0x0004} // CS - MONOCHROME1, MONOCHROME2, PALETTE COLOR, RGB...
	NumberOfFrames            = Tag{0x0028, 0x0008}
	Rows                      = Tag{0x0028, 0x0010}
	Columns                   = Tag{0x0028, 0x0011}
	BitsAllocated             = Tag{0x0028, 0x0100}
	BitsStored                = Tag{0x0028, 0x0101}
	HighBit                   = Tag{0x0028, 0x0102}
	PixelRepresentation       = Tag{0x0028, 0x0103} // US - 0=unsigned, 1=two's complement
	PixelPaddingValue         = Tag{0x0028, 0x0120} // US/SS
	PixelPaddingRangeLimit    = Tag{0x0028, 0x0121} // US/SS
	PixelData                 = Tag{0x7FE0, 0x0010}
)

// Modality LUT and VOI LUT Modules
var (
	WindowCenter                 = Tag{0x0028, 0x1050}
	WindowWidth                  = Tag{0x0028, 0x1051}
	RescaleIntercept             = Tag{0x0028, 0x1052}
	RescaleSlope                 = Tag{0x0028, 0x1053}
	RescaleType                  = Tag{0x0028, 0x1054} // LO - HU, OD, US...
	WindowCenterWidthExplanation = Tag{0x0028, 0x1055}
	VOILUTFunction               = Tag{0x0028, 0x1056} // CS - LINEAR, LINEAR_EXACT, SIGMOID
	ModalityLUTSequence          = Tag{0x0028, 0x3000}
	LUTDescriptor                = Tag{0x0028, 0x3002} // US/SS - entries\first mapped\bits
	LUTExplanation               = Tag{0x0028, 0x3003}
	ModalityLUTType              = Tag{0x0028, 0x3004}
	LUTData                      = Tag{0x0028, 0x3006}
	VOILUTSequence               = Tag{0x0028, 0x3010}
	Units                        = Tag{0x0054, 0x1001} // CS - PET units
)

// Presentation State
var (
	PresentationLUTSequence = Tag{0x2050, 0x0010}
	PresentationLUTShape    = Tag{0x2050, 0x0020} // CS - IDENTITY, INVERSE
)

// LookupName returns a human-readable name for the tags known to this package
func (t Tag) LookupName() string {
	switch t {
	case MediaStorageSOPClassUID:
		return "MediaStorageSOPClassUID"
	case MediaStorageSOPInstanceUID:
		return "MediaStorageSOPInstanceUID"
	case TransferSyntaxUID:
		return "TransferSyntaxUID"
	case SOPClassUID:
		return "SOPClassUID"
	case SOPInstanceUID:
		return "SOPInstanceUID"
	case Modality:
		return "Modality"
	case SeriesInstanceUID:
		return "SeriesInstanceUID"
	case InstanceNumber:
		return "InstanceNumber"
	case SamplesPerPixel:
		return "SamplesPerPixel"
	case PhotometricInterpretation:
		return "PhotometricInterpretation"
	case NumberOfFrames:
		return "NumberOfFrames"
	case Rows:
		return "Rows"
	case Columns:
		return "Columns"
	case BitsAllocated:
		return "BitsAllocated"
	case BitsStored:
		return "BitsStored"
	case HighBit:
		return "HighBit"
	case PixelRepresentation:
		return "PixelRepresentation"
	case PixelPaddingValue:
		return "PixelPaddingValue"
	case PixelPaddingRangeLimit:
		return "PixelPaddingRangeLimit"
	case PixelData:
		return "PixelData"
	case WindowCenter:
		return "WindowCenter"
	case WindowWidth:
		return "WindowWidth"
	case RescaleIntercept:
		return "RescaleIntercept"
	case RescaleSlope:
		return "RescaleSlope"
	case RescaleType:
		return "RescaleType"
	case WindowCenterWidthExplanation:
		return "WindowCenterWidthExplanation"
	case VOILUTFunction:
		return "VOILUTFunction"
	case ModalityLUTSequence:
		return "ModalityLUTSequence"
	case LUTDescriptor:
		return "LUTDescriptor"
	case LUTExplanation:
		return "LUTExplanation"
	case ModalityLUTType:
		return "ModalityLUTType"
	case LUTData:
		return "LUTData"
	case VOILUTSequence:
		return "VOILUTSequence"
	case Units:
		return "Units"
	case PresentationLUTSequence:
		return "PresentationLUTSequence"
	case PresentationLUTShape:
		return "PresentationLUTShape"
	default:
		return ""
	}
}

// VR returns the value representation used when building elements for t
func (t Tag) VR() string {
	switch t {
	case MediaStorageSOPClassUID, MediaStorageSOPInstanceUID, TransferSyntaxUID,
		SOPClassUID, SOPInstanceUID, SeriesInstanceUID:
		return "UI"
	case Modality, PhotometricInterpretation, VOILUTFunction, PresentationLUTShape, Units:
		return "CS"
	case InstanceNumber, NumberOfFrames:
		return "IS"
	case SamplesPerPixel, Rows, Columns, BitsAllocated, BitsStored, HighBit, PixelRepresentation,
		PixelPaddingValue, PixelPaddingRangeLimit, LUTDescriptor:
		return "US"
	case WindowCenter, WindowWidth, RescaleIntercept, RescaleSlope:
		return "DS"
	case RescaleType, WindowCenterWidthExplanation, LUTExplanation, ModalityLUTType:
		return "LO"
	case ModalityLUTSequence, VOILUTSequence, PresentationLUTSequence:
		return "SQ"
	case LUTData:
		return "OW"
	case PixelData:
		return "OW"
	default:
		return "UN"
	}
}
