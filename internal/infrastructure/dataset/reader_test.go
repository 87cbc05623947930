package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SimilACTrail/internal/domain/activity"
	"github.com/turtacn/SimilACTrail/pkg/errors"
	atypes "github.com/turtacn/SimilACTrail/pkg/types/activity"
)

var defaultCols = atypes.ColumnMapping{ID: "ID", Structure: "SMILES", Activity: "pIC50"}

func TestReadTable_Comma(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("ID,SMILES,pIC50\nA,CCO,5.0\nB,CCN,7.2\n"))
	require.NoError(t, err)
	assert.Equal(t, ',', tbl.Delimiter)
	assert.Equal(t, []string{"ID", "SMILES", "pIC50"}, tbl.Header)
	assert.Len(t, tbl.Rows, 2)
}

func TestReadTable_SemicolonFallback(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"single column header", "ID;SMILES;pIC50\nA;CCO;5.0\n"},
		{"comma parse fails", "ID;SMILES;pIC50\nA;CCO;5,0\nB;CCN;7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ReadTable(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, ';', tbl.Delimiter)
			assert.Equal(t, []string{"ID", "SMILES", "pIC50"}, tbl.Header)
		})
	}
}

func TestReadTable_BOMAndQuotes(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("\xEF\xBB\xBFID,SMILES,pIC50\n\"A, the first\",CCO,5\n"))
	require.NoError(t, err)
	assert.Equal(t, "ID", tbl.Header[0])
	assert.Equal(t, "A, the first", tbl.Rows[0][0])
}

func TestReadTable_Errors(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""))
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetEmpty))

	_, err = ReadTable(strings.NewReader("  \n\n"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetEmpty))

	_, err = ReadTable(strings.NewReader("a,b\n1,2,3\n4;5\n1;2;3\n"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetUnreadable))
}

func TestTable_ColumnIndex(t *testing.T) {
	tbl := &Table{Header: []string{"ID", " Smiles ", "pIC50", "smiles"}}

	i, err := tbl.ColumnIndex("smiles")
	require.NoError(t, err)
	assert.Equal(t, 3, i, "exact match wins")

	i, err = tbl.ColumnIndex("SMILES")
	require.NoError(t, err)
	assert.Equal(t, 1, i, "first case-insensitive match")

	_, err = tbl.ColumnIndex("Activity")
	assert.True(t, errors.IsCode(err, errors.ErrCodeColumnMissing))

	_, err = tbl.ColumnIndex("")
	assert.True(t, errors.IsCode(err, errors.ErrCodeColumnMissing))
}

func TestLoad_Records(t *testing.T) {
	input := "ID,SMILES,pIC50\nA,CCO,5.0\nB,CCN,7.2\nC,invalid_smiles,3.0\nD,CC,n/a\nE,CCC,\nF,CO,NaN\nG, CCCl ,1e1\n"
	recs, warns, err := Load(strings.NewReader(input), defaultCols)
	require.NoError(t, err)

	require.Len(t, recs, 4)
	assert.Equal(t, activity.CompoundRecord{Index: 0, ID: "A", Structure: "CCO", Activity: 5.0}, recs[0])
	assert.Equal(t, activity.CompoundRecord{Index: 2, ID: "C", Structure: "invalid_smiles", Activity: 3.0}, recs[2])
	assert.Equal(t, activity.CompoundRecord{Index: 6, ID: "G", Structure: "CCCl", Activity: 10}, recs[3])

	require.Len(t, warns, 3)
	for _, w := range warns {
		assert.Equal(t, activity.WarningMalformedRow, w.Kind)
	}
	assert.Equal(t, "D", warns[0].RecordID)
	assert.Equal(t, 3, warns[0].RecordIndex)
	assert.Equal(t, "F", warns[2].RecordID)
}

func TestLoad_MalformedRowWarningIsTrimmed(t *testing.T) {
	input := "ID,SMILES,pIC50\n  H1 , c1ccccc1 ,oops\n"
	recs, warns, err := Load(strings.NewReader(input), defaultCols)
	require.NoError(t, err)
	assert.Empty(t, recs)

	require.Len(t, warns, 1)
	assert.Equal(t, "H1", warns[0].RecordID)
	assert.Equal(t, "c1ccccc1", warns[0].Structure)
	assert.Equal(t, 0, warns[0].RecordIndex)
}

func TestLoad_ColumnErrors(t *testing.T) {
	_, _, err := Load(strings.NewReader("ID,SMILES\nA,CCO\n"), defaultCols)
	assert.True(t, errors.IsCode(err, errors.ErrCodeColumnMissing))

	_, _, err = Load(strings.NewReader("ID,SMILES,pIC50\n"), defaultCols)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetEmpty))
}

func TestLoad_CaseInsensitiveColumns(t *testing.T) {
	recs, _, err := Load(strings.NewReader("id;smiles;PIC50\nA;CCO;5\n"), defaultCols)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "A", recs[0].ID)
}

//Personal.AI order the ending
