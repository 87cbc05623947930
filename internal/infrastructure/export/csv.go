// Package export writes analysis results as a CSV table and as a PNG
// similarity/activity map.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/turtacn/SimilACTrail/internal/domain/activity"
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// Default artifact file names.
const (
	DefaultCSVName = "activity_cliffs.csv"
	DefaultMapName = "SimilACTrail_Map.png"
)

// CSVHeader is the column order of the result table.
var CSVHeader = []string{"Molecule ID 1", "Molecule ID 2", "Similarity", "Activity_Difference", "Quadrant"}

// FormatFloat renders v with the shortest representation that parses back to
// the same float64.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes pairs in order with a header row.
func WriteCSV(w io.Writer, pairs []activity.PairResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "write CSV header")
	}
	row := make([]string, len(CSVHeader))
	for _, p := range pairs {
		row[0] = p.IDA
		row[1] = p.IDB
		row[2] = FormatFloat(p.Similarity)
		row[3] = FormatFloat(p.ActivityDifference)
		row[4] = p.Quadrant.String()
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, errors.ErrCodeExportFailed, "write CSV row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "flush CSV")
	}
	return nil
}

// ReadCSV parses a table produced by WriteCSV.  Record indices are not part
// of the table and are left zero.
func ReadCSV(r io.Reader) ([]activity.PairResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "read result CSV")
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeDatasetEmpty, "result CSV has no header")
	}
	for i, h := range CSVHeader {
		if rows[0][i] != h {
			return nil, errors.New(errors.ErrCodeDatasetUnreadable, "unexpected result CSV header").
				WithDetail(fmt.Sprintf("column %d is %q, want %q", i, rows[0][i], h))
		}
	}

	out := make([]activity.PairResult, 0, len(rows)-1)
	for n, row := range rows[1:] {
		sim, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, fmt.Sprintf("row %d: similarity", n+1))
		}
		diff, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, fmt.Sprintf("row %d: activity difference", n+1))
		}
		q, err := activity.ParseQuadrant(row[4])
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, fmt.Sprintf("row %d: quadrant", n+1))
		}
		out = append(out, activity.PairResult{
			IDA:                row[0],
			IDB:                row[1],
			Similarity:         sim,
			ActivityDifference: diff,
			Quadrant:           q,
		})
	}
	return out, nil
}

//Personal.AI order the ending
