package activity

// CompoundRecord is one row of the input table.  Index is the 0-based data
// row it was read from; records are kept in ascending Index order.
type CompoundRecord struct {
	Index     int     `json:"index"`
	ID        string  `json:"id"`
	Structure string  `json:"structure"`
	Activity  float64 `json:"activity"`
}

// PairResult is the score and class of one unordered pair of valid records.
// IndexA is always less than IndexB.
type PairResult struct {
	IndexA             int      `json:"index_a"`
	IndexB             int      `json:"index_b"`
	IDA                string   `json:"id_a"`
	IDB                string   `json:"id_b"`
	Similarity         float64  `json:"similarity"`
	ActivityDifference float64  `json:"activity_difference"`
	Quadrant           Quadrant `json:"quadrant"`
}

// WarningKind classifies a non-fatal problem recorded during a run.
type WarningKind string

const (
	WarningMalformedStructure WarningKind = "malformed_structure"
	WarningMalformedRow       WarningKind = "malformed_row"
	WarningExternalResource   WarningKind = "external_resource"
)

// Warning is a non-fatal problem; the run continues without the affected item.
type Warning struct {
	Kind        WarningKind `json:"kind"`
	RecordID    string      `json:"record_id,omitempty"`
	RecordIndex int         `json:"record_index"`
	Structure   string      `json:"structure,omitempty"`
	Message     string      `json:"message"`
}

//Personal.AI order the ending
