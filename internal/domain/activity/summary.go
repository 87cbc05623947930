package activity

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats describes the distribution of one pair metric.  All fields are zero
// when there are no pairs; StdDev is the sample standard deviation and zero
// for a single pair.
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary aggregates a run.
type Summary struct {
	Molecules          int              `json:"molecules"`
	Skipped            int              `json:"skipped"`
	Pairs              int              `json:"pairs"`
	QuadrantCounts     map[Quadrant]int `json:"quadrant_counts"`
	Similarity         Stats            `json:"similarity"`
	ActivityDifference Stats            `json:"activity_difference"`
}

// Summarize computes counts and distribution statistics over pairs.
func Summarize(pairs []PairResult, molecules, skipped int) Summary {
	s := Summary{
		Molecules:      molecules,
		Skipped:        skipped,
		Pairs:          len(pairs),
		QuadrantCounts: make(map[Quadrant]int, 4),
	}
	for _, q := range Quadrants() {
		s.QuadrantCounts[q] = 0
	}
	if len(pairs) == 0 {
		return s
	}

	sims := make([]float64, len(pairs))
	diffs := make([]float64, len(pairs))
	for i, p := range pairs {
		sims[i] = p.Similarity
		diffs[i] = p.ActivityDifference
		s.QuadrantCounts[p.Quadrant]++
	}
	s.Similarity = describe(sims)
	s.ActivityDifference = describe(diffs)
	return s
}

func describe(x []float64) Stats {
	st := Stats{
		Mean: stat.Mean(x, nil),
		Min:  floats.Min(x),
		Max:  floats.Max(x),
	}
	if len(x) > 1 {
		st.StdDev = stat.StdDev(x, nil)
	}
	return st
}

//Personal.AI order the ending
