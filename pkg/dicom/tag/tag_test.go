package tag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTag_String(t *testing.T) {
	assert.Equal(t, "(0028,1052)", RescaleIntercept.String())
	assert.Equal(t, "(7FE0,0010)", PixelData.String())
}

func TestTag_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(PixelPaddingValue)
	require.NoError(t, err)
	assert.Equal(t, `"(0028,0120)"`, string(raw))
}

func TestTag_LookupNameAndVR(t *testing.T) {
	tests := []struct {
		tag  Tag
		name string
		vr   string
	}{
		{BitsStored, "BitsStored", "US"},
		{RescaleSlope, "RescaleSlope", "DS"},
		{ModalityLUTSequence, "ModalityLUTSequence", "SQ"},
		{PresentationLUTShape, "PresentationLUTShape", "CS"},
		{New(0x0009, 0x0010), "", "UN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.tag.LookupName(), tt.tag.String())
		assert.Equal(t, tt.vr, tt.tag.VR(), tt.tag.String())
	}
	assert.True(t, New(0x0009, 0x0010).IsPrivate())
	assert.False(t, Modality.IsPrivate())
}

func TestTag_UnmarshalText(t *testing.T) {
	var tg Tag
	require.NoError(t, tg.UnmarshalText([]byte("(0028,1050)")))
	assert.Equal(t, WindowCenter, tg)
	require.NoError(t, tg.UnmarshalText([]byte("00281051")))
	assert.Equal(t, WindowWidth, tg)
	assert.Error(t, tg.UnmarshalText([]byte("nope")))
}
