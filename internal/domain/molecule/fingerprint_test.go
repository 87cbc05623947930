package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SimilACTrail/pkg/errors"
)

func TestFingerprintConfig_Validate(t *testing.T) {
	assert.NoError(t, FingerprintConfig{Radius: 2, NBits: 2048}.Validate())
	assert.NoError(t, FingerprintConfig{Radius: 0, NBits: 1}.Validate())

	err := FingerprintConfig{Radius: -1, NBits: 2048}.Validate()
	assert.True(t, errors.IsCode(err, errors.ErrCodeFingerprintGenerationFailed))

	err = FingerprintConfig{Radius: 2, NBits: 0}.Validate()
	assert.True(t, errors.IsCode(err, errors.ErrCodeFingerprintGenerationFailed))
}

func TestFingerprintVector_Bits(t *testing.T) {
	v, err := NewFingerprintVector(FingerprintConfig{Radius: 2, NBits: 64})
	require.NoError(t, err)

	v.Set(3)
	v.Set(63)
	v.Set(64)
	v.Set(-1)

	assert.Equal(t, 2, v.Count())
	assert.True(t, v.Test(3))
	assert.False(t, v.Test(4))
	assert.False(t, v.Test(64))
	assert.Equal(t, []int{3, 63}, v.OnBits())
	assert.Equal(t, 64, v.Length())
}

func TestFingerprint_Deterministic(t *testing.T) {
	for _, smi := range []string{"CCO", "c1ccccc1O", "CC(=O)Nc1ccc(O)cc1", "[NH4+].[Cl-]"} {
		a, err := Fingerprint(smi, 2, 2048)
		require.NoError(t, err, smi)
		b, err := Fingerprint(smi, 2, 2048)
		require.NoError(t, err, smi)
		assert.True(t, a.Equal(b), smi)
		assert.Equal(t, a.OnBits(), b.OnBits(), smi)
	}
}

func TestFingerprint_BitCountBounds(t *testing.T) {
	tests := []string{"C", "CCO", "c1ccccc1", "CC(C)CC(C)(C)C", "OC(=O)c1ccccc1OC(C)=O"}
	for _, smi := range tests {
		mol, err := ParseSMILES(smi)
		require.NoError(t, err)
		for radius := 0; radius <= 5; radius++ {
			fp, err := MorganFingerprint(mol, FingerprintConfig{Radius: radius, NBits: 4096})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, fp.Count(), 1, smi)
			assert.LessOrEqual(t, fp.Count(), mol.NumAtoms()*(radius+1), smi)
		}
	}
}

func TestFingerprint_MethaneHasOnlyAtomLayer(t *testing.T) {
	fp, err := Fingerprint("C", 3, 2048)
	require.NoError(t, err)
	assert.Equal(t, 1, fp.Count())
}

func TestFingerprint_AtomOrderInvariant(t *testing.T) {
	pairs := [][2]string{
		{"CCO", "OCC"},
		{"CO", "OC"},
		{"c1ccccc1O", "Oc1ccccc1"},
		{"CC(=O)O", "OC(C)=O"},
		{"CCN(CC)CC", "N(CC)(CC)CC"},
	}
	for _, p := range pairs {
		for radius := 0; radius <= 3; radius++ {
			a, err := Fingerprint(p[0], radius, 2048)
			require.NoError(t, err)
			b, err := Fingerprint(p[1], radius, 2048)
			require.NoError(t, err)
			assert.True(t, a.Equal(b), "%s vs %s at radius %d", p[0], p[1], radius)
		}
	}
}

func TestFingerprint_KekuleAndAromaticSpellingsMatch(t *testing.T) {
	pairs := [][2]string{
		{"c1ccccc1", "C1=CC=CC=C1"},
		{"c1ccncc1", "C1=CC=NC=C1"},
		{"c1cc[nH]c1", "C1=CC=CN1"},
		{"Oc1ccccc1", "OC1=CC=CC=C1"},
	}
	for _, p := range pairs {
		a, err := Fingerprint(p[0], 2, 2048)
		require.NoError(t, err, p[0])
		b, err := Fingerprint(p[1], 2, 2048)
		require.NoError(t, err, p[1])
		sim, err := Tanimoto(a, b)
		require.NoError(t, err)
		assert.Equal(t, 1.0, sim, "%s vs %s", p[0], p[1])
	}
}

func TestFingerprint_RadiusZeroSeesOnlyAtoms(t *testing.T) {
	// Both chains contain two CH3 and two CH2 carbons.
	a, err := Fingerprint("CCCC", 0, 2048)
	require.NoError(t, err)
	b, err := Fingerprint("CC(CC)", 0, 2048)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestFingerprint_LargerRadiusIsSuperset(t *testing.T) {
	mol, err := ParseSMILES("CC(=O)Nc1ccc(O)cc1")
	require.NoError(t, err)
	small, err := MorganFingerprint(mol, FingerprintConfig{Radius: 1, NBits: 2048})
	require.NoError(t, err)
	large, err := MorganFingerprint(mol, FingerprintConfig{Radius: 3, NBits: 2048})
	require.NoError(t, err)
	for _, bit := range small.OnBits() {
		assert.True(t, large.Test(bit), "bit %d", bit)
	}
}

func TestFingerprint_InvalidStructure(t *testing.T) {
	fp, err := Fingerprint("invalid_smiles", 2, 2048)
	assert.Nil(t, fp)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeInvalidSMILES))

	fp, err = Fingerprint("CCO", 2, 0)
	assert.Nil(t, fp)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFingerprintGenerationFailed))
}

func TestMorganFingerprint_NilMolecule(t *testing.T) {
	_, err := MorganFingerprint(nil, FingerprintConfig{Radius: 2, NBits: 1024})
	assert.True(t, errors.IsCode(err, errors.ErrCodeFingerprintGenerationFailed))
}

//Personal.AI order the ending
