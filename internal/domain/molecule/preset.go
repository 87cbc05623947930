package molecule

import (
	"strings"

	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// Preset names an ECFP family member; the digit is the environment diameter.
type Preset string

const (
	ECFP4  Preset = "ECFP4"
	ECFP6  Preset = "ECFP6"
	ECFP8  Preset = "ECFP8"
	ECFP10 Preset = "ECFP10"
)

var presetRadius = map[Preset]int{
	ECFP4:  2,
	ECFP6:  3,
	ECFP8:  4,
	ECFP10: 5,
}

// BitLengths are the supported fingerprint lengths.
var BitLengths = []int{512, 1024, 2048, 4096}

const (
	DefaultPreset    = ECFP4
	DefaultBitLength = 2048
)

// Presets returns the supported presets in ascending radius order.
func Presets() []Preset {
	return []Preset{ECFP4, ECFP6, ECFP8, ECFP10}
}

// Radius returns the Morgan radius for p.
func (p Preset) Radius() (int, bool) {
	r, ok := presetRadius[p]
	return r, ok
}

func (p Preset) IsValid() bool {
	_, ok := presetRadius[p]
	return ok
}

func (p Preset) String() string { return string(p) }

// ParsePreset accepts a preset name case-insensitively.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToUpper(strings.TrimSpace(s)))
	if p.IsValid() {
		return p, nil
	}
	return "", errors.New(errors.ErrCodeAnalysisParamsInvalid, "unsupported fingerprint preset: "+s)
}

// IsSupportedBitLength reports whether n is one of BitLengths.
func IsSupportedBitLength(n int) bool {
	for _, b := range BitLengths {
		if b == n {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
