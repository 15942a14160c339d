package dicom

import (
	"log/slog"
	"strings"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
)

// ReadVOILUTModule collects window presets, VOI LUT items and the VOI LUT Function.
//
// Windows with a non-positive width are dropped; unequal center/width counts keep
// the shorter list. Returns an empty module when no VOI attributes are present.
func ReadVOILUTModule(ds *Dataset) *module.VOILUTModule {
	m := &module.VOILUTModule{}
	if fn, ok := LookupString(ds, tag.VOILUTFunction); ok {
		m.VOILUTFunction = strings.ToUpper(fn)
	}

	var centers, widths []float64
	var explanations []string
	if elem, ok := ds.FindElement(tag.WindowCenter); ok {
		centers, _ = elem.GetFloats()
	}
	if elem, ok := ds.FindElement(tag.WindowWidth); ok {
		widths, _ = elem.GetFloats()
	}
	if elem, ok := ds.FindElement(tag.WindowCenterWidthExplanation); ok {
		explanations, _ = elem.GetStrings()
	}
	n := min(len(centers), len(widths))
	if len(centers) != len(widths) {
		slog.Warn("window center and width counts differ",
			slog.Int("centers", len(centers)),
			slog.Int("widths", len(widths)))
	}
	for i := 0; i < n; i++ {
		if widths[i] <= 0 {
			continue
		}
		w := module.WindowLevel{Center: centers[i], Width: widths[i]}
		if i < len(explanations) {
			w.Explanation = explanations[i]
		}
		m.Windows = append(m.Windows, w)
	}

	for _, item := range GetSequenceItems(ds, tag.VOILUTSequence) {
		if l, ok := ReadLUT(item); ok {
			m.LUTs = append(m.LUTs, *l)
		}
	}
	return m
}

// ReadModalityLUTModule reads rescale attributes and the first usable Modality LUT Sequence item
func ReadModalityLUTModule(ds *Dataset) *module.ModalityLUTModule {
	m := module.NewModalityLUTModule()
	m.RescaleIntercept, m.RescaleSlope = GetRescale(ds)
	m.RescaleType, _ = LookupString(ds, tag.RescaleType)
	for _, item := range GetSequenceItems(ds, tag.ModalityLUTSequence) {
		if l, ok := ReadLUT(item); ok {
			m.LUT = l
			break
		}
	}
	return m
}

// ReadPresentationState reads the display overrides carried by a presentation state dataset
func ReadPresentationState(ds *Dataset) *module.PresentationStateModule {
	m := &module.PresentationStateModule{
		PresentationLUTShape: GetPresentationLUTShape(ds),
	}
	if v, ok := LookupFloat(ds, tag.RescaleIntercept); ok {
		m.RescaleIntercept = &v
	}
	if v, ok := LookupFloat(ds, tag.RescaleSlope); ok && v != 0 {
		m.RescaleSlope = &v
	}
	for _, item := range GetSequenceItems(ds, tag.PresentationLUTSequence) {
		if l, ok := ReadLUT(item); ok {
			m.LUT = l
			break
		}
	}
	return m
}

// ReadLUT reads a LUT Descriptor / LUT Data pair from a sequence item.
//
// The data is truncated or rejected against the descriptor entry count; 8 bit
// tables packed two entries per 16 bit word (OW) are unpacked.
func ReadLUT(item *Dataset) (*module.LUT, bool) {
	descElem, ok := item.FindElement(tag.LUTDescriptor)
	if !ok {
		return nil, false
	}
	desc, ok := descElem.GetInts()
	if !ok || len(desc) != 3 {
		slog.Warn("invalid LUT descriptor", slog.Int("values", len(desc)))
		return nil, false
	}
	dataElem, ok := item.FindElement(tag.LUTData)
	if !ok {
		return nil, false
	}
	l := &module.LUT{Descriptor: [3]int{desc[0], desc[1], desc[2]}}
	// first mapped value is US or SS depending on pixel representation
	if l.Descriptor[1] > 0x7FFF && descElem.VR == "SS" {
		l.Descriptor[1] = SignExtend(l.Descriptor[1], 16)
	}
	data, ok := dataElem.GetInts()
	if !ok {
		return nil, false
	}
	entries := l.Entries()
	if raw, isBytes := dataElem.Value.([]byte); isBytes && l.Bits() <= 8 && len(raw) >= entries {
		data = make([]int, entries)
		for i := range data {
			data[i] = int(raw[i])
		}
	}
	if len(data) < entries {
		slog.Warn("LUT data shorter than descriptor",
			slog.Int("entries", entries),
			slog.Int("data", len(data)))
		return nil, false
	}
	l.Data = data[:entries]
	if s, ok := LookupString(item, tag.LUTExplanation); ok {
		l.Explanation = s
	}
	if s, ok := LookupString(item, tag.ModalityLUTType); ok {
		l.Type = s
	}
	return l, true
}
