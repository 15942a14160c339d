// Package dcmio reads DICOM files with github.com/suyashkumar/dicom and hands the
// pipeline its own attribute model plus one raster per native frame.
//
// Encapsulated (compressed) pixel data is not decoded; such files still yield
// their dataset together with ErrEncapsulated so callers can report the attributes.
package dcmio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	sdicom "github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	stag "github.com/suyashkumar/dicom/pkg/tag"

	"github.com/jpfielding/dicomlut.go/pkg/dicom"
	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
	"github.com/jpfielding/dicomlut.go/pkg/raster"
)

var (
	// ErrEncapsulated is returned when the pixel data is compressed
	ErrEncapsulated = errors.New("encapsulated pixel data is not supported")
	// ErrNoPixelData is returned when the file has no usable pixel data element
	ErrNoPixelData = errors.New("no pixel data")
)

// File is a parsed DICOM file
type File struct {
	Dataset *dicom.Dataset
	Frames  []raster.Raster
}

// ReadFile parses the file at path
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return Read(f, info.Size())
}

// Read parses size bytes of DICOM from r
func Read(r io.Reader, size int64) (*File, error) {
	ds, err := sdicom.Parse(r, size, nil)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return Convert(ds)
}

// Convert maps a parsed dataset onto the pipeline model. The returned File carries
// the dataset even when the frames cannot be extracted.
func Convert(ds sdicom.Dataset) (*File, error) {
	out := &File{Dataset: convertElements(ds.Elements)}

	elem, err := ds.FindElementByTag(stag.PixelData)
	if err != nil {
		return out, ErrNoPixelData
	}
	info, ok := elem.Value.GetValue().(sdicom.PixelDataInfo)
	if !ok {
		return out, ErrNoPixelData
	}
	lay := layoutOf(out.Dataset)
	for i, fr := range info.Frames {
		if fr == nil {
			continue
		}
		if fr.Encapsulated {
			return out, ErrEncapsulated
		}
		r, err := toRaster(fr.NativeData, lay)
		if err != nil {
			return out, fmt.Errorf("frame %d: %w", i, err)
		}
		out.Frames = append(out.Frames, r)
	}
	if len(out.Frames) == 0 {
		return out, ErrNoPixelData
	}
	slog.Debug("parsed dicom",
		slog.Int("elements", len(out.Dataset.Elements)),
		slog.Int("frames", len(out.Frames)),
		slog.String("kind", out.Frames[0].Kind().String()))
	return out, nil
}

func convertElements(elems []*sdicom.Element) *dicom.Dataset {
	ds := &dicom.Dataset{Elements: make(map[dicom.Tag]*dicom.Element, len(elems))}
	for _, e := range elems {
		if e == nil || e.Value == nil {
			continue
		}
		t := tag.New(e.Tag.Group, e.Tag.Element)
		if t == tag.PixelData {
			continue
		}
		v, ok := convertValue(e.Value)
		if !ok {
			continue
		}
		vr := e.RawValueRepresentation
		if vr == "" {
			vr = t.VR()
		}
		ds.Elements[t] = &dicom.Element{Tag: t, VR: vr, Value: v}
	}
	return ds
}

func convertValue(v sdicom.Value) (any, bool) {
	switch v.ValueType() {
	case sdicom.Strings:
		ss, ok := v.GetValue().([]string)
		return ss, ok && len(ss) > 0
	case sdicom.Ints:
		is, ok := v.GetValue().([]int)
		if !ok || len(is) == 0 {
			return nil, false
		}
		if len(is) == 1 {
			return is[0], true
		}
		return is, true
	case sdicom.Floats:
		fs, ok := v.GetValue().([]float64)
		return fs, ok && len(fs) > 0
	case sdicom.Bytes:
		bs, ok := v.GetValue().([]byte)
		return bs, ok
	case sdicom.Sequences:
		items, ok := v.GetValue().([]*sdicom.SequenceItemValue)
		if !ok {
			return nil, false
		}
		seq := make([]*dicom.Dataset, 0, len(items))
		for _, item := range items {
			elems, _ := item.GetValue().([]*sdicom.Element)
			seq = append(seq, convertElements(elems))
		}
		return seq, true
	}
	return nil, false
}

type layout struct {
	width, height, bands int
	bitsStored           int
	signed               bool
}

func layoutOf(ds *dicom.Dataset) layout {
	l := layout{
		width:  dicom.GetColumns(ds),
		height: dicom.GetRows(ds),
		bands:  dicom.GetSamplesPerPixel(ds),
		signed: dicom.GetPixelRepresentation(ds) == 1,
	}
	l.bitsStored, _ = dicom.GetBitsStored(ds)
	return l
}

// toRaster copies a native frame into a plane. Signed samples are sign extended from
// bits stored; 8 bit signed data widens to int16.
func toRaster(nf frame.INativeFrame, l layout) (raster.Raster, error) {
	if nf == nil {
		return nil, ErrNoPixelData
	}
	w, h, b := l.width, l.height, l.bands
	if w <= 0 || h <= 0 {
		w, h = nf.Cols(), nf.Rows()
	}
	if b <= 0 {
		b = nf.SamplesPerPixel()
	}
	switch f := nf.(type) {
	case *frame.NativeFrame[uint8]:
		if l.signed {
			return signExtended[int16](w, h, b, f.RawData, l.bits(8))
		}
		return raster.FromSlice(w, h, b, append([]uint8(nil), f.RawData...))
	case *frame.NativeFrame[uint16]:
		if l.signed {
			return signExtended[int16](w, h, b, f.RawData, l.bits(16))
		}
		return raster.FromSlice(w, h, b, append([]uint16(nil), f.RawData...))
	case *frame.NativeFrame[int16]:
		return signExtended[int16](w, h, b, f.RawData, l.bits(16))
	case *frame.NativeFrame[uint32]:
		if l.signed {
			return signExtended[int32](w, h, b, f.RawData, l.bits(32))
		}
		return raster.FromSlice(w, h, b, append([]uint32(nil), f.RawData...))
	case *frame.NativeFrame[int32]:
		return signExtended[int32](w, h, b, f.RawData, l.bits(32))
	}
	return nil, fmt.Errorf("unsupported native frame %T with %d bits per sample", nf, nf.BitsPerSample())
}

func (l layout) bits(allocated int) int {
	if l.bitsStored <= 0 || l.bitsStored > allocated {
		return allocated
	}
	return l.bitsStored
}

func signExtended[T int16 | int32, S uint8 | uint16 | int16 | uint32 | int32](w, h, b int, src []S, bits int) (raster.Raster, error) {
	pix := make([]T, len(src))
	for i, v := range src {
		pix[i] = T(dicom.SignExtend(int(v), bits))
	}
	return raster.FromSlice(w, h, b, pix)
}
