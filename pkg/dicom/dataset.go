// Package dicom holds the attribute model the pixel pipeline reads its tags from.
//
// A Dataset is a flat map of elements; sequences are []*Dataset values. Values are
// stored the way a decoder hands them over (strings for text VRs with multiple values
// joined by a backslash, ints/floats or slices of them for binary VRs, raw little
// endian bytes for OW) and the typed accessors normalize them.
//
// Basic usage:
//
//	ds, _ := dicom.NewDataset(
//		dicom.WithElement(tag.BitsStored, 12),
//		dicom.WithElement(tag.RescaleIntercept, "-1024"),
//	)
//	intercept, slope := dicom.GetRescale(ds)
package dicom

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
)

// Tag alias to avoid duplication
type Tag = tag.Tag

// Dataset represents a DICOM dataset (or one sequence item)
type Dataset struct {
	Elements map[Tag]*Element
}

// Element represents a single DICOM element
type Element struct {
	Tag   Tag
	VR    string // Value Representation
	Value any    // Parsed value
}

// FindElement returns an element by tag
func (ds *Dataset) FindElement(t Tag) (*Element, bool) {
	if ds == nil {
		return nil, false
	}
	elem, ok := ds.Elements[t]
	return elem, ok
}

// GetString returns the raw string value of the element
func (elem *Element) GetString() (string, bool) {
	switch v := elem.Value.(type) {
	case string:
		return v, true
	case []string:
		return strings.Join(v, `\`), true
	}
	return "", false
}

// GetStrings splits multi-valued strings on the DICOM value delimiter
func (elem *Element) GetStrings() ([]string, bool) {
	s, ok := elem.GetString()
	if !ok {
		return nil, false
	}
	parts := strings.Split(s, `\`)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

// GetInt returns the first value of the element as an int
func (elem *Element) GetInt() (int, bool) {
	switch v := elem.Value.(type) {
	case int:
		return v, true
	case int16:
		return int(v), true
	case uint16:
		return int(v), true
	case int32:
		return int(v), true
	case uint32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		s := strings.TrimSpace(strings.SplitN(v, `\`, 2)[0])
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
	}
	if vs, ok := elem.GetInts(); ok && len(vs) > 0 {
		return vs[0], true
	}
	return 0, false
}

// GetInts returns a slice of ints from an element
func (elem *Element) GetInts() ([]int, bool) {
	switch v := elem.Value.(type) {
	case []int:
		return v, true
	case []uint16:
		res := make([]int, len(v))
		for i, val := range v {
			res[i] = int(val)
		}
		return res, true
	case []int16:
		res := make([]int, len(v))
		for i, val := range v {
			res[i] = int(val)
		}
		return res, true
	case []uint32:
		res := make([]int, len(v))
		for i, val := range v {
			res[i] = int(val)
		}
		return res, true
	case []byte:
		if len(v)%2 == 0 {
			res := make([]int, len(v)/2)
			for i := 0; i < len(res); i++ {
				res[i] = int(binary.LittleEndian.Uint16(v[i*2:]))
			}
			return res, true
		}
	case string, []string:
		parts, _ := elem.GetStrings()
		res := make([]int, 0, len(parts))
		for _, p := range parts {
			i, err := strconv.Atoi(p)
			if err != nil {
				return nil, false
			}
			res = append(res, i)
		}
		return res, true
	case int, uint16, int16, int32, uint32:
		i, _ := elem.GetInt()
		return []int{i}, true
	}
	return nil, false
}

// GetFloats returns a slice of float64s from an element, parsing DS strings
func (elem *Element) GetFloats() ([]float64, bool) {
	switch v := elem.Value.(type) {
	case []float32:
		res := make([]float64, len(v))
		for i, val := range v {
			res[i] = float64(val)
		}
		return res, true
	case []float64:
		return v, true
	case float32:
		return []float64{float64(v)}, true
	case float64:
		return []float64{v}, true
	case string, []string:
		parts, _ := elem.GetStrings()
		res := make([]float64, 0, len(parts))
		for _, p := range parts {
			if p == "" {
				continue
			}
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, false
			}
			res = append(res, f)
		}
		return res, len(res) > 0
	}
	if ints, ok := elem.GetInts(); ok {
		res := make([]float64, len(ints))
		for i, val := range ints {
			res[i] = float64(val)
		}
		return res, true
	}
	return nil, false
}

// GetFloat returns the first value of the element as a float64
func (elem *Element) GetFloat() (float64, bool) {
	fs, ok := elem.GetFloats()
	if !ok || len(fs) == 0 {
		return 0, false
	}
	return fs[0], true
}

// GetSequence returns the items of a sequence element
func (elem *Element) GetSequence() ([]*Dataset, bool) {
	seq, ok := elem.Value.([]*Dataset)
	return seq, ok
}

// String returns a string representation of the Element
func (elem *Element) String() string {
	name := elem.Tag.LookupName()
	if name != "" {
		name = " " + name
	}
	var val string
	switch v := elem.Value.(type) {
	case []*Dataset:
		val = fmt.Sprintf("Sequence (%d items)", len(v))
	case []byte:
		if len(v) > 20 {
			val = fmt.Sprintf("Binary Data (%d bytes)", len(v))
		} else {
			val = fmt.Sprintf("%v", v)
		}
	case []int:
		if len(v) > 10 {
			val = fmt.Sprintf("Array of %d values", len(v))
		} else {
			val = fmt.Sprintf("%v", v)
		}
	default:
		val = fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("[%s] %s%s: %s", elem.Tag, elem.VR, name, val)
}
