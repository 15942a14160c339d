package module

import (
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
)

// VOILUTModule represents the VOI LUT (Value of Interest Lookup Table) Module
// Per DICOM Part 3 Section C.11.2
// Provides window/level and optional LUT-based transformations for display
type VOILUTModule struct {
	// Linear Window/Level (most common)
	// Multiple windows supported for different viewing presets
	Windows []WindowLevel

	// Optional: LUT-based transformation (VOI LUT Sequence)
	// Used when linear transformation is insufficient
	LUTs []LUT

	// VOI LUT Function - how to interpret window values
	// LINEAR (default), SIGMOID, or LINEAR_EXACT
	VOILUTFunction string
}

// WindowLevel represents a single window/level preset
type WindowLevel struct {
	Center      float64 // Window center value
	Width       float64 // Window width value
	Explanation string  // Optional description (e.g., "BONE", "SOFT TISSUE")
}

// NewVOILUTModule creates a VOILUTModule with default CT soft tissue window
func NewVOILUTModule() *VOILUTModule {
	return &VOILUTModule{
		Windows: []WindowLevel{
			{Center: 40, Width: 400, Explanation: "SOFT_TISSUE"},
		},
		VOILUTFunction: "LINEAR",
	}
}

// NewVOILUTModuleForCT creates presets for common CT viewing windows
func NewVOILUTModuleForCT() *VOILUTModule {
	return &VOILUTModule{
		Windows: []WindowLevel{
			{Center: 40, Width: 400, Explanation: "SOFT_TISSUE"},
			{Center: 400, Width: 2000, Explanation: "BONE"},
			{Center: -600, Width: 1500, Explanation: "LUNG"},
			{Center: 50, Width: 350, Explanation: "BRAIN"},
		},
		VOILUTFunction: "LINEAR",
	}
}

// AddWindow adds a window/level preset
func (m *VOILUTModule) AddWindow(center, width float64, explanation string) {
	m.Windows = append(m.Windows, WindowLevel{
		Center:      center,
		Width:       width,
		Explanation: explanation,
	})
}

// SetWindow sets a single window (clears any existing windows)
func (m *VOILUTModule) SetWindow(center, width float64) {
	m.Windows = []WindowLevel{{Center: center, Width: width}}
}

// AddLUT appends a VOI LUT Sequence item
func (m *VOILUTModule) AddLUT(l LUT) {
	m.LUTs = append(m.LUTs, l)
}

// ToTags converts the module to DICOM tag elements
func (m *VOILUTModule) ToTags() []IODElement {
	var elements []IODElement

	if len(m.Windows) > 0 {
		centers := make([]float64, len(m.Windows))
		widths := make([]float64, len(m.Windows))
		explanations := make([]string, len(m.Windows))
		for i, w := range m.Windows {
			centers[i] = w.Center
			widths[i] = w.Width
			explanations[i] = w.Explanation
		}

		elements = append(elements,
			IODElement{Tag: tag.WindowCenter, Value: formatMultiDS(centers)},
			IODElement{Tag: tag.WindowWidth, Value: formatMultiDS(widths)},
		)

		// Window Center/Width Explanation is optional
		if hasExplanations(m.Windows) {
			elements = append(elements, IODElement{Tag: tag.WindowCenterWidthExplanation, Value: strings.Join(explanations, `\`)})
		}
	}

	if m.VOILUTFunction != "" && m.VOILUTFunction != "LINEAR" {
		elements = append(elements, IODElement{Tag: tag.VOILUTFunction, Value: m.VOILUTFunction})
	}

	if len(m.LUTs) > 0 {
		items := make([]Item, len(m.LUTs))
		for i := range m.LUTs {
			items[i] = m.LUTs[i].toItem()
		}
		elements = append(elements, IODElement{Tag: tag.VOILUTSequence, Value: items})
	}

	return elements
}

// hasExplanations checks if any window has an explanation
func hasExplanations(windows []WindowLevel) bool {
	for _, w := range windows {
		if w.Explanation != "" {
			return true
		}
	}
	return false
}
