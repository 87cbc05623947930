package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SimilACTrail/internal/config"
	"github.com/turtacn/SimilACTrail/pkg/errors"
	atypes "github.com/turtacn/SimilACTrail/pkg/types/activity"
)

const datasetCSV = "ID,SMILES,pIC50\nA,CCO,5.0\nB,CCN,7.2\nC,invalid_smiles,3.0\n"

func writeDataset(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "compounds.csv")
	require.NoError(t, os.WriteFile(path, []byte(datasetCSV), 0o644))
	return dir, path
}

func TestAnalyzeCmd_WritesExports(t *testing.T) {
	dir, input := writeDataset(t)
	csvOut := filepath.Join(dir, "pairs.csv")
	pngOut := filepath.Join(dir, "map.png")

	out, _, err := execute(t, testFactory(t, &fakeFetcher{}, nil), "analyze",
		"--input", input, "--id-col", "ID", "--smiles-col", "SMILES", "--activity-col", "pIC50",
		"--csv-out", csvOut, "--png-out", pngOut)
	require.NoError(t, err)

	assert.Contains(t, out, "Fingerprint: ECFP4 (radius 2, 2048 bits)")
	assert.Contains(t, out, "Molecules:   2 (skipped 1)")
	assert.Contains(t, out, "Pairs:       1")
	assert.Contains(t, out, "Wrote "+csvOut)
	assert.Contains(t, out, "Wrote "+pngOut)

	data, err := os.ReadFile(csvOut)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Molecule ID 1,Molecule ID 2,Similarity,Activity_Difference,Quadrant", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "A,B,"))

	png, err := os.ReadFile(pngOut)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestAnalyzeCmd_JSONOutput(t *testing.T) {
	dir, input := writeDataset(t)

	out, _, err := execute(t, testFactory(t, &fakeFetcher{}, nil), "-o", "json", "analyze",
		"--input", input, "--id-col", "ID", "--smiles-col", "SMILES", "--activity-col", "pIC50",
		"--preset", "ecfp6", "--bits", "1024", "--sim-threshold", "0.5", "--activity-threshold", "2",
		"--csv-out", filepath.Join(dir, "pairs.csv"), "--png-out", "")
	require.NoError(t, err)

	var resp struct {
		atypes.AnalysisResponse
		Files []string `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ECFP6", resp.Parameters.Preset)
	assert.Equal(t, 3, resp.Parameters.Radius)
	assert.Equal(t, 1024, resp.Parameters.BitLength)
	assert.Equal(t, 0.5, resp.Parameters.SimilarityThreshold)
	assert.Equal(t, 2.0, resp.Parameters.ActivityDifferenceThreshold)
	require.Len(t, resp.Pairs, 1)
	assert.Equal(t, "A", resp.Pairs[0].MoleculeID1)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "malformed_structure", resp.Warnings[0].Kind)
	assert.Equal(t, []string{filepath.Join(dir, "pairs.csv")}, resp.Files)
}

func TestAnalyzeCmd_TableOutput(t *testing.T) {
	dir, input := writeDataset(t)

	out, _, err := execute(t, testFactory(t, &fakeFetcher{}, nil), "-o", "table", "analyze",
		"--input", input, "--id-col", "ID", "--smiles-col", "SMILES", "--activity-col", "pIC50",
		"--csv-out", "", "--png-out", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Molecule ID 1")
	assert.Contains(t, out, "Non-descript Zones")
	_, statErr := os.Stat(filepath.Join(dir, "activity_cliffs.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAnalyzeCmd_VerboseListsSkippedRecords(t *testing.T) {
	_, input := writeDataset(t)

	out, _, err := execute(t, testFactory(t, &fakeFetcher{}, nil), "-v", "analyze",
		"--input", input, "--id-col", "ID", "--smiles-col", "SMILES", "--activity-col", "pIC50",
		"--csv-out", "", "--png-out", "")
	require.NoError(t, err)
	assert.Contains(t, out, "[malformed_structure] row 2 (C)")
}

func TestAnalyzeCmd_Sample(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string][]byte{
		config.DefaultSampleDatasetURL: []byte("Molecule ChEMBL ID,Smiles,pIC50\nCHEMBL1,CCO,5\nCHEMBL2,CCCO,5.2\nCHEMBL3,c1ccccc1,8\n"),
	}}

	out, _, err := execute(t, testFactory(t, fetcher, nil), "-o", "json", "analyze",
		"--sample", "--csv-out", "", "--png-out", "")
	require.NoError(t, err)

	var resp atypes.AnalysisResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.Summary.Molecules)
	assert.Equal(t, 3, resp.Summary.Pairs)
}

func TestAnalyzeCmd_FlagErrors(t *testing.T) {
	_, input := writeDataset(t)
	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"no source", []string{"analyze"}, errors.CodeInvalidParam},
		{"both sources", []string{"analyze", "--sample", "--input", input}, errors.CodeInvalidParam},
		{"missing columns", []string{"analyze", "--input", input, "--smiles-col", "SMILES"}, errors.CodeInvalidParam},
		{"negative workers", []string{"analyze", "--sample", "--workers", "-1"}, errors.CodeInvalidParam},
		{"bad preset", []string{"analyze", "--input", input, "--id-col", "ID", "--smiles-col", "SMILES",
			"--activity-col", "pIC50", "--preset", "ECFP5", "--csv-out", "", "--png-out", ""}, errors.ErrCodeAnalysisParamsInvalid},
		{"missing column", []string{"analyze", "--input", input, "--id-col", "ID", "--smiles-col", "Structure",
			"--activity-col", "pIC50", "--csv-out", "", "--png-out", ""}, errors.ErrCodeColumnMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, testFactory(t, &fakeFetcher{}, nil), tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), err.Error())
		})
	}
}

func TestQuadrantLabel_MatchesMapPalette(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = saved })

	tests := []struct {
		label string
		code  string
	}{
		{"Activity Cliffs", "\x1b[31m"},
		{"Scaffold Hops", "\x1b[35m"},
		{"Smooth SAR Zones", "\x1b[32m"},
		{"Non-descript Zones", "\x1b[34m"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := quadrantLabel(tt.label)
			padded := tt.label + strings.Repeat(" ", 20-len(tt.label))
			assert.Equal(t, tt.code+padded+"\x1b[0m", got)
		})
	}
	assert.Equal(t, "Other               ", quadrantLabel("Other"))
}

func TestAnalyzeCmd_UnwritableOutput(t *testing.T) {
	dir, input := writeDataset(t)
	_, _, err := execute(t, testFactory(t, &fakeFetcher{}, nil), "analyze",
		"--input", input, "--id-col", "ID", "--smiles-col", "SMILES", "--activity-col", "pIC50",
		"--csv-out", filepath.Join(dir, "missing", "pairs.csv"), "--png-out", "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeExportFailed))
}

//Personal.AI order the ending
