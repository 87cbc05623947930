package activity

import (
	"fmt"

	"github.com/turtacn/SimilACTrail/internal/domain/molecule"
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// Selectable threshold values.
var (
	SimilarityThresholdOptions         = []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	ActivityDifferenceThresholdOptions = []float64{0.5, 1, 1.5, 2, 2.5, 3}
)

const (
	DefaultSimilarityThreshold         = 0.7
	DefaultActivityDifferenceThreshold = 1.0
)

// Parameters configures one analysis run.
type Parameters struct {
	Preset                      molecule.Preset `json:"preset" mapstructure:"preset"`
	BitLength                   int             `json:"bit_length" mapstructure:"bit_length"`
	SimilarityThreshold         float64         `json:"similarity_threshold" mapstructure:"similarity_threshold"`
	ActivityDifferenceThreshold float64         `json:"activity_difference_threshold" mapstructure:"activity_difference_threshold"`
	// Workers bounds the fan-out; values below 1 run sequentially.
	Workers int `json:"workers,omitempty" mapstructure:"workers"`
}

// DefaultParameters returns ECFP4, 2048 bits, 0.7 and 1.0.
func DefaultParameters() Parameters {
	return Parameters{
		Preset:                      molecule.DefaultPreset,
		BitLength:                   molecule.DefaultBitLength,
		SimilarityThreshold:         DefaultSimilarityThreshold,
		ActivityDifferenceThreshold: DefaultActivityDifferenceThreshold,
		Workers:                     1,
	}
}

// Validate checks every parameter against the selectable options.
func (p Parameters) Validate() error {
	if !p.Preset.IsValid() {
		return errors.New(errors.ErrCodeAnalysisParamsInvalid, "unsupported fingerprint preset").
			WithDetail(fmt.Sprintf("preset=%q", p.Preset))
	}
	if !molecule.IsSupportedBitLength(p.BitLength) {
		return errors.New(errors.ErrCodeAnalysisParamsInvalid, "unsupported bit length").
			WithDetail(fmt.Sprintf("bit_length=%d supported=%v", p.BitLength, molecule.BitLengths))
	}
	if !containsFloat(SimilarityThresholdOptions, p.SimilarityThreshold) {
		return errors.New(errors.ErrCodeAnalysisParamsInvalid, "unsupported similarity threshold").
			WithDetail(fmt.Sprintf("similarity_threshold=%v supported=%v", p.SimilarityThreshold, SimilarityThresholdOptions))
	}
	if !containsFloat(ActivityDifferenceThresholdOptions, p.ActivityDifferenceThreshold) {
		return errors.New(errors.ErrCodeAnalysisParamsInvalid, "unsupported activity difference threshold").
			WithDetail(fmt.Sprintf("activity_difference_threshold=%v supported=%v", p.ActivityDifferenceThreshold, ActivityDifferenceThresholdOptions))
	}
	return nil
}

// FingerprintConfig returns the Morgan configuration implied by the preset.
func (p Parameters) FingerprintConfig() molecule.FingerprintConfig {
	r, _ := p.Preset.Radius()
	return molecule.FingerprintConfig{Radius: r, NBits: p.BitLength}
}

func (p Parameters) workers() int {
	if p.Workers < 1 {
		return 1
	}
	return p.Workers
}

func containsFloat(options []float64, v float64) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
