package dicom

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"
)

// sortedTags returns the dataset tags in (group, element) order
func (ds *Dataset) sortedTags() []Tag {
	keys := make([]Tag, 0, len(ds.Elements))
	for k := range ds.Elements {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Tag) int {
		if c := cmp.Compare(a.Group, b.Group); c != 0 {
			return c
		}
		return cmp.Compare(a.Element, b.Element)
	})
	return keys
}

// String returns one line per element, sorted by tag
func (ds *Dataset) String() string {
	if ds == nil {
		return "<nil>"
	}
	var b strings.Builder
	for _, k := range ds.sortedTags() {
		b.WriteString(ds.Elements[k].String())
		b.WriteString("\n")
	}
	return b.String()
}

// MarshalJSON returns a sorted array of elements instead of a map
func (ds *Dataset) MarshalJSON() ([]byte, error) {
	elements := make([]*Element, 0, len(ds.Elements))
	for _, k := range ds.sortedTags() {
		elements = append(elements, ds.Elements[k])
	}
	return json.Marshal(elements)
}

// MarshalJSON returns a flat object with the tag name alongside the value
func (elem *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Tag   string `json:"tag"`
		Name  string `json:"name,omitempty"`
		VR    string `json:"vr"`
		Value any    `json:"value"`
	}{
		Tag:   elem.Tag.String(),
		Name:  elem.Tag.LookupName(),
		VR:    elem.VR,
		Value: elem.Value,
	})
}
