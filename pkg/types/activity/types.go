// Package activity defines the request/response structures of an analysis
// run as seen by the CLI and the HTTP API.  No domain logic lives here; the
// application layer converts between these and the domain types.
package activity

import (
	"github.com/turtacn/SimilACTrail/pkg/types/common"
)

// ColumnMapping names the input-table columns holding each record field.
type ColumnMapping struct {
	ID        string `json:"id_column" form:"id_column"`
	Structure string `json:"smiles_column" form:"smiles_column"`
	Activity  string `json:"activity_column" form:"activity_column"`
}

// Parameters are the user-selected analysis settings.  Zero values mean
// "use the configured default".
type Parameters struct {
	Preset                      string  `json:"preset" form:"preset"`
	Radius                      int     `json:"radius,omitempty"`
	BitLength                   int     `json:"bit_length" form:"bit_length"`
	SimilarityThreshold         float64 `json:"similarity_threshold" form:"similarity_threshold"`
	ActivityDifferenceThreshold float64 `json:"activity_difference_threshold" form:"activity_difference_threshold"`
}

// Pair is one row of the result table.
type Pair struct {
	MoleculeID1        string  `json:"molecule_id_1"`
	MoleculeID2        string  `json:"molecule_id_2"`
	Similarity         float64 `json:"similarity"`
	ActivityDifference float64 `json:"activity_difference"`
	Quadrant           string  `json:"quadrant"`
}

// Stats describes the distribution of one pair metric.
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary aggregates a run.
type Summary struct {
	Molecules          int            `json:"molecules"`
	Skipped            int            `json:"skipped"`
	Pairs              int            `json:"pairs"`
	QuadrantCounts     map[string]int `json:"quadrant_counts"`
	Similarity         Stats          `json:"similarity"`
	ActivityDifference Stats          `json:"activity_difference"`
}

// Warning is a non-fatal problem recorded during a run.
type Warning struct {
	Kind        string `json:"kind"`
	RecordID    string `json:"record_id,omitempty"`
	RecordIndex int    `json:"record_index"`
	Structure   string `json:"structure,omitempty"`
	Message     string `json:"message"`
}

// Artifact locates an uploaded export.
type Artifact struct {
	Kind   string `json:"kind"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Size   int64  `json:"size"`
	URL    string `json:"url,omitempty"`
}

// AnalysisRequest is the JSON form of a run request.
type AnalysisRequest struct {
	Columns    ColumnMapping `json:"columns"`
	Parameters Parameters    `json:"parameters"`
	// Source is a local path, an https URL or an s3://bucket/key reference.
	Source string `json:"source,omitempty"`
	Sample bool   `json:"sample,omitempty"`
	Upload bool   `json:"upload,omitempty"`
}

// AnalysisResponse is the outcome of a run.
type AnalysisResponse struct {
	RunID      common.ID        `json:"run_id"`
	Source     string           `json:"source,omitempty"`
	Parameters Parameters       `json:"parameters"`
	Summary    Summary          `json:"summary"`
	Pairs      []Pair           `json:"pairs"`
	Warnings   []Warning        `json:"warnings"`
	Artifacts  []Artifact       `json:"artifacts,omitempty"`
	DurationMS int64            `json:"duration_ms"`
	CreatedAt  common.Timestamp `json:"created_at"`
}

// PresetOption describes one selectable fingerprint preset.
type PresetOption struct {
	Name   string `json:"name"`
	Radius int    `json:"radius"`
}

// Options lists every selectable parameter value and the defaults.
type Options struct {
	Presets                      []PresetOption `json:"presets"`
	BitLengths                   []int          `json:"bit_lengths"`
	SimilarityThresholds         []float64      `json:"similarity_thresholds"`
	ActivityDifferenceThresholds []float64      `json:"activity_difference_thresholds"`
	Defaults                     Parameters     `json:"defaults"`
}

//Personal.AI order the ending
