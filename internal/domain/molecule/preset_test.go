package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreset_Radius(t *testing.T) {
	tests := []struct {
		preset Preset
		radius int
	}{
		{ECFP4, 2},
		{ECFP6, 3},
		{ECFP8, 4},
		{ECFP10, 5},
	}
	for _, tt := range tests {
		r, ok := tt.preset.Radius()
		assert.True(t, ok)
		assert.Equal(t, tt.radius, r, tt.preset.String())
	}
	_, ok := Preset("ECFP2").Radius()
	assert.False(t, ok)
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset(" ecfp6 ")
	require.NoError(t, err)
	assert.Equal(t, ECFP6, p)

	_, err = ParsePreset("FCFP4")
	assert.Error(t, err)
}

func TestPresetsAndBitLengths(t *testing.T) {
	assert.Equal(t, []Preset{ECFP4, ECFP6, ECFP8, ECFP10}, Presets())
	assert.True(t, IsSupportedBitLength(DefaultBitLength))
	assert.False(t, IsSupportedBitLength(2000))
	assert.Equal(t, ECFP4, DefaultPreset)
}

//Personal.AI order the ending
