package molecule

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"

	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// FingerprintVector
// ─────────────────────────────────────────────────────────────────────────────

// FingerprintConfig identifies how a FingerprintVector was produced.  Vectors
// are only comparable when their configurations are equal.
type FingerprintConfig struct {
	Radius int `json:"radius"`
	NBits  int `json:"n_bits"`
}

func (c FingerprintConfig) String() string {
	return fmt.Sprintf("morgan(radius=%d,bits=%d)", c.Radius, c.NBits)
}

// Validate rejects a negative radius and a non-positive bit length.
func (c FingerprintConfig) Validate() error {
	if c.Radius < 0 {
		return errors.New(errors.ErrCodeFingerprintGenerationFailed, "radius must not be negative").
			WithDetail(fmt.Sprintf("radius=%d", c.Radius))
	}
	if c.NBits <= 0 {
		return errors.New(errors.ErrCodeFingerprintGenerationFailed, "bit length must be positive").
			WithDetail(fmt.Sprintf("bits=%d", c.NBits))
	}
	return nil
}

// FingerprintVector is a fixed-length bit vector.
type FingerprintVector struct {
	bits   *bitset.BitSet
	config FingerprintConfig
}

// NewFingerprintVector returns an all-zero vector for cfg.
func NewFingerprintVector(cfg FingerprintConfig) (*FingerprintVector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FingerprintVector{bits: bitset.New(uint(cfg.NBits)), config: cfg}, nil
}

func (v *FingerprintVector) Config() FingerprintConfig { return v.config }
func (v *FingerprintVector) Length() int               { return v.config.NBits }

// Count returns the number of set bits.
func (v *FingerprintVector) Count() int { return int(v.bits.Count()) }

// Test reports whether bit i is set.  Out-of-range indices report false.
func (v *FingerprintVector) Test(i int) bool {
	if i < 0 || i >= v.config.NBits {
		return false
	}
	return v.bits.Test(uint(i))
}

// Set sets bit i; out-of-range indices are ignored.
func (v *FingerprintVector) Set(i int) {
	if i < 0 || i >= v.config.NBits {
		return
	}
	v.bits.Set(uint(i))
}

// OnBits returns the indices of the set bits in ascending order.
func (v *FingerprintVector) OnBits() []int {
	out := make([]int, 0, v.bits.Count())
	for i, ok := v.bits.NextSet(0); ok; i, ok = v.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// Equal reports whether both vectors have the same configuration and bits.
func (v *FingerprintVector) Equal(o *FingerprintVector) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.config == o.config && v.bits.Equal(o.bits)
}

// ─────────────────────────────────────────────────────────────────────────────
// Morgan (circular) fingerprint
// ─────────────────────────────────────────────────────────────────────────────

// Fingerprint parses structure and computes its Morgan fingerprint.  An
// unparsable structure yields the MOL_001 parse error unchanged.
func Fingerprint(structure string, radius, nBits int) (*FingerprintVector, error) {
	cfg := FingerprintConfig{Radius: radius, NBits: nBits}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mol, err := ParseSMILES(structure)
	if err != nil {
		return nil, err
	}
	return MorganFingerprint(mol, cfg)
}

// MorganFingerprint computes an ECFP-style fingerprint of mol.
//
// Layer 0 hashes each atom's invariant; layer L hashes the atom's layer L-1
// identifier with the sorted (bond code, neighbour identifier) pairs.  An
// environment covering the same bond set as one already emitted is dropped.
// Each surviving identifier sets bit id mod NBits.
func MorganFingerprint(mol *Molecule, cfg FingerprintConfig) (*FingerprintVector, error) {
	fp, err := NewFingerprintVector(cfg)
	if err != nil {
		return nil, err
	}
	if mol == nil || mol.NumAtoms() == 0 {
		return nil, errors.New(errors.ErrCodeFingerprintGenerationFailed, "molecule has no atoms")
	}

	n := mol.NumAtoms()
	ids := make([]uint64, n)
	for i := range mol.Atoms {
		ids[i] = atomInvariant(mol, i)
		fp.setIdentifier(ids[i])
	}

	coverage := make([]*bitset.BitSet, n)
	for i := range coverage {
		coverage[i] = bitset.New(uint(mol.NumBonds()))
	}
	seen := make(map[string]bool)
	pairs := make([][2]uint64, 0, 8)

	for layer := 1; layer <= cfg.Radius; layer++ {
		next := make([]uint64, n)
		nextCoverage := make([]*bitset.BitSet, n)
		for i := 0; i < n; i++ {
			cov := coverage[i].Clone()
			pairs = pairs[:0]
			for _, nb := range mol.adjacency[i] {
				pairs = append(pairs, [2]uint64{mol.Bonds[nb.bond].Order.code(), ids[nb.atom]})
				cov.Set(uint(nb.bond))
				cov.InPlaceUnion(coverage[nb.atom])
			}
			sort.Slice(pairs, func(a, b int) bool {
				if pairs[a][0] != pairs[b][0] {
					return pairs[a][0] < pairs[b][0]
				}
				return pairs[a][1] < pairs[b][1]
			})

			vals := make([]uint64, 0, 2+2*len(pairs))
			vals = append(vals, uint64(layer), ids[i])
			for _, pr := range pairs {
				vals = append(vals, pr[0], pr[1])
			}
			next[i] = hashValues(vals...)
			nextCoverage[i] = cov
		}

		// Among atoms sharing a new bond set the smallest identifier wins,
		// which keeps the result independent of atom order.
		layerBest := make(map[string]uint64)
		for i := 0; i < n; i++ {
			if nextCoverage[i].Count() == 0 {
				continue
			}
			key := nextCoverage[i].String()
			if seen[key] {
				continue
			}
			if best, ok := layerBest[key]; !ok || next[i] < best {
				layerBest[key] = next[i]
			}
		}
		for key, id := range layerBest {
			seen[key] = true
			fp.setIdentifier(id)
		}
		ids, coverage = next, nextCoverage
	}
	return fp, nil
}

func (v *FingerprintVector) setIdentifier(id uint64) {
	v.bits.Set(uint(id % uint64(v.config.NBits)))
}

func atomInvariant(mol *Molecule, i int) uint64 {
	a := mol.Atoms[i]
	ring := uint64(0)
	if a.InRing {
		ring = 1
	}
	return hashValues(
		uint64(a.AtomicNumber),
		uint64(mol.Degree(i)+a.HCount),
		uint64(a.HCount),
		uint64(int64(a.Charge)),
		uint64(a.Isotope),
		ring,
	)
}

func hashValues(vals ...uint64) uint64 {
	buf := make([]byte, 0, 8*len(vals))
	for _, v := range vals {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}
	return xxhash.Sum64(buf)
}

//Personal.AI order the ending
