// Package dataset reads the compound table: a delimited text file with a
// header row from which the identifier, structure and activity columns are
// selected by name.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/turtacn/SimilACTrail/internal/domain/activity"
	"github.com/turtacn/SimilACTrail/pkg/errors"
	atypes "github.com/turtacn/SimilACTrail/pkg/types/activity"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a parsed delimited file.
type Table struct {
	Header    []string
	Rows      [][]string
	Delimiter rune
}

// ReadTable parses r as comma-separated text, falling back to semicolons when
// the comma parse fails or yields a single header column containing ';'.
func ReadTable(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "read dataset")
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New(errors.ErrCodeDatasetEmpty, "dataset is empty")
	}

	t, commaErr := parseDelimited(raw, ',')
	if commaErr == nil && !(len(t.Header) == 1 && strings.Contains(t.Header[0], ";")) {
		return t, nil
	}
	t, err = parseDelimited(raw, ';')
	if err != nil {
		if commaErr == nil {
			commaErr = err
		}
		return nil, errors.Wrap(commaErr, errors.ErrCodeDatasetUnreadable, "dataset is neither comma- nor semicolon-separated")
	}
	return t, nil
}

func parseDelimited(raw []byte, delim rune) (*Table, error) {
	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = delim
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	return &Table{Header: rows[0], Rows: rows[1:], Delimiter: delim}, nil
}

// ColumnIndex finds a header by exact name, then case-insensitively after
// trimming whitespace.
func (t *Table) ColumnIndex(name string) (int, error) {
	if strings.TrimSpace(name) == "" {
		return -1, errors.New(errors.ErrCodeColumnMissing, "column not selected")
	}
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	want := strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i, nil
		}
	}
	return -1, errors.New(errors.ErrCodeColumnMissing, "column not found").
		WithDetail(fmt.Sprintf("column=%q available=%q", name, t.Header))
}

// Records maps every data row to a CompoundRecord.  Rows whose activity is
// missing or not a finite number are returned as malformed_row warnings.
func (t *Table) Records(cols atypes.ColumnMapping) ([]activity.CompoundRecord, []activity.Warning, error) {
	if len(t.Rows) == 0 {
		return nil, nil, errors.New(errors.ErrCodeDatasetEmpty, "dataset has a header but no rows")
	}
	idCol, err := t.ColumnIndex(cols.ID)
	if err != nil {
		return nil, nil, err
	}
	smiCol, err := t.ColumnIndex(cols.Structure)
	if err != nil {
		return nil, nil, err
	}
	actCol, err := t.ColumnIndex(cols.Activity)
	if err != nil {
		return nil, nil, err
	}

	records := make([]activity.CompoundRecord, 0, len(t.Rows))
	var warnings []activity.Warning
	for i, row := range t.Rows {
		id, smi, act := strings.TrimSpace(row[idCol]), strings.TrimSpace(row[smiCol]), row[actCol]
		v, perr := strconv.ParseFloat(strings.TrimSpace(act), 64)
		if perr != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			warnings = append(warnings, activity.Warning{
				Kind:        activity.WarningMalformedRow,
				RecordID:    id,
				RecordIndex: i,
				Structure:   smi,
				Message:     fmt.Sprintf("activity %q is not a finite number", act),
			})
			continue
		}
		records = append(records, activity.CompoundRecord{
			Index:     i,
			ID:        id,
			Structure: smi,
			Activity:  v,
		})
	}
	return records, warnings, nil
}

// Load reads r and maps it with cols in one step.
func Load(r io.Reader, cols atypes.ColumnMapping) ([]activity.CompoundRecord, []activity.Warning, error) {
	t, err := ReadTable(r)
	if err != nil {
		return nil, nil, err
	}
	return t.Records(cols)
}

//Personal.AI order the ending
