package module

import (
	"fmt"
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
)

// Common module interfaces
type IODModule interface {
	ToTags() []IODElement
}

type IODElement struct {
	Tag   tag.Tag
	Value any
}

// Item is one sequence item; an IODElement whose Value is []Item becomes a sequence
type Item []IODElement

func formatDS(v float64) string {
	return fmt.Sprintf("%g", v)
}

func formatMultiDS(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatDS(v)
	}
	return strings.Join(parts, `\`)
}
