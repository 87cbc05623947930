package molecule

import (
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// SimilarityCalculator scores two fingerprint vectors in [0, 1].
type SimilarityCalculator interface {
	Calculate(a, b *FingerprintVector) (float64, error)
	Name() string
}

// TanimotoCalculator implements Tanimoto similarity (Jaccard index over bits).
type TanimotoCalculator struct{}

// Calculate returns |A∧B| / |A∨B|, or 0 when neither vector has a set bit.
func (TanimotoCalculator) Calculate(a, b *FingerprintVector) (float64, error) {
	if err := checkComparable(a, b); err != nil {
		return 0, err
	}
	union := a.bits.UnionCardinality(b.bits)
	if union == 0 {
		return 0, nil
	}
	return float64(a.bits.IntersectionCardinality(b.bits)) / float64(union), nil
}

func (TanimotoCalculator) Name() string { return "tanimoto" }

// Tanimoto is shorthand for TanimotoCalculator{}.Calculate.
func Tanimoto(a, b *FingerprintVector) (float64, error) {
	return TanimotoCalculator{}.Calculate(a, b)
}

func checkComparable(a, b *FingerprintVector) error {
	if a == nil || b == nil {
		return errors.InvalidParam("fingerprint vector is nil")
	}
	if a.config != b.config {
		return errors.New(errors.ErrCodeFingerprintMismatch, "fingerprints were computed with different configurations").
			WithDetail(a.config.String() + " vs " + b.config.String())
	}
	return nil
}

//Personal.AI order the ending
