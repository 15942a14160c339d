package dcmio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdicom "github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	stag "github.com/suyashkumar/dicom/pkg/tag"

	"github.com/jpfielding/dicomlut.go/pkg/dicom"
	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
	"github.com/jpfielding/dicomlut.go/pkg/raster"
)

func mustNewElement(t *testing.T, tg stag.Tag, v any) *sdicom.Element {
	t.Helper()
	e, err := sdicom.NewElement(tg, v)
	require.NoError(t, err)
	return e
}

func ctFile(t *testing.T, pixelRep int, pix []uint16) []byte {
	t.Helper()
	const width, height = 2, 2
	nf := frame.NewNativeFrame[uint16](16, height, width, width*height, 1)
	copy(nf.RawData, pix)
	ds := sdicom.Dataset{Elements: []*sdicom.Element{
		mustNewElement(t, stag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustNewElement(t, stag.SOPInstanceUID, []string{"1.2.3.4"}),
		mustNewElement(t, stag.SOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.2"}),
		mustNewElement(t, stag.Modality, []string{"CT"}),
		mustNewElement(t, stag.Rows, []int{height}),
		mustNewElement(t, stag.Columns, []int{width}),
		mustNewElement(t, stag.BitsAllocated, []int{16}),
		mustNewElement(t, stag.BitsStored, []int{12}),
		mustNewElement(t, stag.HighBit, []int{11}),
		mustNewElement(t, stag.PixelRepresentation, []int{pixelRep}),
		mustNewElement(t, stag.SamplesPerPixel, []int{1}),
		mustNewElement(t, stag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(t, stag.RescaleIntercept, []string{"-1024"}),
		mustNewElement(t, stag.RescaleSlope, []string{"1"}),
		mustNewElement(t, stag.WindowCenter, []string{"40"}),
		mustNewElement(t, stag.WindowWidth, []string{"400"}),
		mustNewElement(t, stag.PixelData, sdicom.PixelDataInfo{
			Frames: []*frame.Frame{{Encapsulated: false, NativeData: nf}},
		}),
	}}
	var buf bytes.Buffer
	require.NoError(t, sdicom.Write(&buf, ds))
	return buf.Bytes()
}

func TestRead_UnsignedCT(t *testing.T) {
	data := ctFile(t, 0, []uint16{0, 1024, 2048, 4095})
	f, err := Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, f.Frames, 1)

	assert.Equal(t, "CT", dicom.GetModality(f.Dataset))
	assert.Equal(t, 2, dicom.GetRows(f.Dataset))
	bs, ok := dicom.GetBitsStored(f.Dataset)
	require.True(t, ok)
	assert.Equal(t, 12, bs)
	intercept, slope := dicom.GetRescale(f.Dataset)
	assert.Equal(t, -1024.0, intercept)
	assert.Equal(t, 1.0, slope)
	voi := dicom.ReadVOILUTModule(f.Dataset)
	require.NotNil(t, voi)
	require.Len(t, voi.Windows, 1)
	assert.Equal(t, 400.0, voi.Windows[0].Width)

	p, ok := f.Frames[0].(*raster.Plane[uint16])
	require.True(t, ok, "got %T", f.Frames[0])
	assert.Equal(t, []uint16{0, 1024, 2048, 4095}, p.Pix)
	assert.Equal(t, 2, p.Width())
	assert.Equal(t, 2, p.Height())
}

func TestRead_SignedSignExtends(t *testing.T) {
	// 12 bit two's complement: 0xC18 is -1000, 0x3E8 is 1000
	data := ctFile(t, 1, []uint16{0x0C18, 0x03E8, 0, 0x0FFF})
	f, err := Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	p, ok := f.Frames[0].(*raster.Plane[int16])
	require.True(t, ok, "got %T", f.Frames[0])
	assert.Equal(t, []int16{-1000, 1000, 0, -1}, p.Pix)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ct.dcm")
	require.NoError(t, os.WriteFile(path, ctFile(t, 0, []uint16{1, 2, 3, 4}), 0o644))
	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, raster.Integer16, f.Frames[0].Kind())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.dcm"))
	assert.Error(t, err)
}

func TestConvert_NoPixelData(t *testing.T) {
	ds := sdicom.Dataset{Elements: []*sdicom.Element{
		mustNewElement(t, stag.Modality, []string{"MR"}),
	}}
	f, err := Convert(ds)
	assert.ErrorIs(t, err, ErrNoPixelData)
	require.NotNil(t, f)
	assert.Equal(t, "MR", dicom.GetModality(f.Dataset))
}

func TestConvert_Encapsulated(t *testing.T) {
	ds := sdicom.Dataset{Elements: []*sdicom.Element{
		mustNewElement(t, stag.Modality, []string{"CT"}),
		mustNewElement(t, stag.PixelData, sdicom.PixelDataInfo{
			Frames: []*frame.Frame{{Encapsulated: true}},
		}),
	}}
	f, err := Convert(ds)
	assert.ErrorIs(t, err, ErrEncapsulated)
	require.NotNil(t, f)
	assert.Empty(t, f.Frames)
}

func TestConvert_Sequences(t *testing.T) {
	item := []*sdicom.Element{
		mustNewElement(t, stag.LUTDescriptor, []int{4, 0, 8}),
		mustNewElement(t, stag.LUTData, []int{0, 10, 20, 30}),
	}
	ds := sdicom.Dataset{Elements: []*sdicom.Element{
		mustNewElement(t, stag.VOILUTSequence, [][]*sdicom.Element{item}),
	}}
	f, _ := Convert(ds)
	items := dicom.GetSequenceItems(f.Dataset, tag.VOILUTSequence)
	require.Len(t, items, 1)
	l, ok := dicom.ReadLUT(items[0])
	require.True(t, ok)
	assert.Equal(t, 4, l.Entries())
}
