package dicom

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jpfielding/dicomlut.go/pkg/dicom/module"
	"github.com/jpfielding/dicomlut.go/pkg/dicom/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElement_Accessors(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		ints   []int
		floats []float64
	}{
		{"int", 12, []int{12}, []float64{12}},
		{"uint16 slice", []uint16{1, 2}, []int{1, 2}, []float64{1, 2}},
		{"IS string", "3\\4", []int{3, 4}, []float64{3, 4}},
		{"DS string", " -1024.5 ", nil, []float64{-1024.5}},
		{"OW bytes", []byte{0x01, 0x00, 0xFF, 0xFF}, []int{1, 65535}, []float64{1, 65535}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elem := &Element{Tag: tag.WindowCenter, Value: tt.value}
			ints, ok := elem.GetInts()
			if tt.ints == nil {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, tt.ints, ints)
			}
			floats, ok := elem.GetFloats()
			require.True(t, ok)
			assert.Equal(t, tt.floats, floats)
		})
	}
}

func TestGetters_Defaults(t *testing.T) {
	ds := MustDataset()

	_, ok := GetBitsAllocated(ds)
	assert.False(t, ok)
	_, ok = GetBitsStored(ds)
	assert.False(t, ok)
	assert.Equal(t, 0, GetPixelRepresentation(ds))
	assert.Equal(t, 1, GetNumberOfFrames(ds))
	assert.Equal(t, 1, GetSamplesPerPixel(ds))
	assert.Equal(t, "", GetPhotometricInterpretation(ds))

	intercept, slope := GetRescale(ds)
	assert.Equal(t, 0.0, intercept)
	assert.Equal(t, 1.0, slope)
}

func TestGetRescale_ZeroSlopeIgnored(t *testing.T) {
	ds := MustDataset(
		WithElement(tag.RescaleSlope, "0"),
		WithElement(tag.RescaleIntercept, "-1024"),
	)
	intercept, slope := GetRescale(ds)
	assert.Equal(t, -1024.0, intercept)
	assert.Equal(t, 1.0, slope)
}

func TestGetPixelPadding_Signed(t *testing.T) {
	ds := MustDataset(
		WithElement(tag.PixelPaddingValue, 0xF830), // -2000 as 16 bit two's complement
		WithElement(tag.PixelPaddingRangeLimit, 0xFC18),
	)
	v, ok, limit, okLimit := GetPixelPadding(ds, true, 16)
	require.True(t, ok)
	require.True(t, okLimit)
	assert.Equal(t, -2000, v)
	assert.Equal(t, -1000, limit)

	v, _, _, _ = GetPixelPadding(ds, false, 16)
	assert.Equal(t, 0xF830, v)
}

func TestGetPixelValueUnit(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"ct default", []Option{WithElement(tag.Modality, "CT")}, "HU"},
		{"rescale type wins", []Option{WithElement(tag.Modality, "CT"), WithElement(tag.RescaleType, "US")}, "US"},
		{"pet units", []Option{WithElement(tag.Modality, "PT"), WithElement(tag.Units, "BQML")}, "BQML"},
		{"secondary capture", []Option{WithElement(tag.Modality, "SC"), WithElement(tag.RescaleType, "HU")}, ""},
		{"mr none", []Option{WithElement(tag.Modality, "MR")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetPixelValueUnit(MustDataset(tt.opts...)))
		})
	}
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, -1, SignExtend(0xFFF, 12))
	assert.Equal(t, 2047, SignExtend(2047, 12))
	assert.Equal(t, -2048, SignExtend(2048, 12))
	assert.Equal(t, 5, SignExtend(5, 32))
}

func TestWithModule_VOILUTRoundTrip(t *testing.T) {
	voi := module.NewVOILUTModuleForCT()
	voi.VOILUTFunction = "SIGMOID"
	voi.AddLUT(module.LUT{Descriptor: [3]int{4, 0, 8}, Data: []int{0, 64, 128, 255}, Explanation: "CURVE"})

	ds, err := NewDataset(WithModule(voi))
	require.NoError(t, err)

	got := ReadVOILUTModule(ds)
	assert.Equal(t, "SIGMOID", got.VOILUTFunction)
	require.Len(t, got.Windows, 4)
	assert.Equal(t, module.WindowLevel{Center: -600, Width: 1500, Explanation: "LUNG"}, got.Windows[2])
	require.Len(t, got.LUTs, 1)
	assert.Equal(t, []int{0, 64, 128, 255}, got.LUTs[0].Data)
	assert.Equal(t, "CURVE", got.LUTs[0].Explanation)
}

func TestReadVOILUTModule_SkipsInvalidWidth(t *testing.T) {
	ds := MustDataset(
		WithElement(tag.WindowCenter, `40\300\10`),
		WithElement(tag.WindowWidth, `400\0`),
	)
	got := ReadVOILUTModule(ds)
	require.Len(t, got.Windows, 1)
	assert.Equal(t, 400.0, got.Windows[0].Width)
}

func TestReadModalityLUTModule(t *testing.T) {
	ds := MustDataset(WithModule(module.NewModalityLUTModuleForCT()))
	m := ReadModalityLUTModule(ds)
	assert.Equal(t, -1024.0, m.RescaleIntercept)
	assert.Equal(t, 1.0, m.RescaleSlope)
	assert.Equal(t, "HU", m.RescaleType)
	assert.Nil(t, m.LUT)

	seq := &module.ModalityLUTModule{LUT: &module.LUT{Descriptor: [3]int{3, 10, 16}, Data: []int{100, 200, 300, 400}, Type: "OD"}}
	m = ReadModalityLUTModule(MustDataset(WithModule(seq)))
	require.NotNil(t, m.LUT)
	assert.Equal(t, []int{100, 200, 300}, m.LUT.Data, "data truncated to descriptor entries")
	assert.Equal(t, 10, m.LUT.FirstMapped())
	assert.Equal(t, "OD", m.LUT.Type)
}

func TestReadLUT_Rejects(t *testing.T) {
	short := MustDataset(
		WithElement(tag.LUTDescriptor, []int{10, 0, 16}),
		WithElement(tag.LUTData, []int{1, 2, 3}),
	)
	_, ok := ReadLUT(short)
	assert.False(t, ok)

	badDesc := MustDataset(
		WithElement(tag.LUTDescriptor, []int{10, 0}),
		WithElement(tag.LUTData, []int{1, 2, 3}),
	)
	_, ok = ReadLUT(badDesc)
	assert.False(t, ok)
}

func TestReadLUT_PackedBytes(t *testing.T) {
	item := MustDataset(
		WithElement(tag.LUTDescriptor, []int{4, 0, 8}),
		WithElement(tag.LUTData, []byte{0, 10, 20, 255}),
	)
	l, ok := ReadLUT(item)
	require.True(t, ok)
	assert.Equal(t, []int{0, 10, 20, 255}, l.Data)
}

func TestReadPresentationState(t *testing.T) {
	slope := 2.0
	ps := &module.PresentationStateModule{RescaleSlope: &slope, PresentationLUTShape: "INVERSE"}
	got := ReadPresentationState(MustDataset(WithModule(ps)))
	require.NotNil(t, got.RescaleSlope)
	assert.Equal(t, 2.0, *got.RescaleSlope)
	assert.Nil(t, got.RescaleIntercept)
	assert.Equal(t, "INVERSE", got.PresentationLUTShape)
}

func TestDataset_StringAndJSON(t *testing.T) {
	ds := MustDataset(
		WithElement(tag.Rows, 2),
		WithElement(tag.Modality, "CT"),
	)
	s := ds.String()
	assert.Less(t, strings.Index(s, "Modality"), strings.Index(s, "Rows"), "sorted by tag")

	raw, err := json.Marshal(ds)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":"Modality"`)
}

func TestWithElement_Nil(t *testing.T) {
	_, err := NewDataset(WithElement(tag.Rows, nil))
	assert.Error(t, err)
}
