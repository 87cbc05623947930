package trail

import (
	"github.com/turtacn/SimilACTrail/internal/domain/activity"
	atypes "github.com/turtacn/SimilACTrail/pkg/types/activity"
)

func toParametersDTO(p activity.Parameters) atypes.Parameters {
	r, _ := p.Preset.Radius()
	return atypes.Parameters{
		Preset:                      p.Preset.String(),
		Radius:                      r,
		BitLength:                   p.BitLength,
		SimilarityThreshold:         p.SimilarityThreshold,
		ActivityDifferenceThreshold: p.ActivityDifferenceThreshold,
	}
}

func toPairDTOs(pairs []activity.PairResult) []atypes.Pair {
	out := make([]atypes.Pair, len(pairs))
	for i, p := range pairs {
		out[i] = atypes.Pair{
			MoleculeID1:        p.IDA,
			MoleculeID2:        p.IDB,
			Similarity:         p.Similarity,
			ActivityDifference: p.ActivityDifference,
			Quadrant:           p.Quadrant.String(),
		}
	}
	return out
}

// PairsFromDTO restores domain pairs from a response, e.g. to export a run
// computed by a remote server.  An unknown quadrant label is an error.
func PairsFromDTO(pairs []atypes.Pair) ([]activity.PairResult, error) {
	out := make([]activity.PairResult, len(pairs))
	for i, p := range pairs {
		q, err := activity.ParseQuadrant(p.Quadrant)
		if err != nil {
			return nil, err
		}
		out[i] = activity.PairResult{
			IndexA:             -1,
			IndexB:             -1,
			IDA:                p.MoleculeID1,
			IDB:                p.MoleculeID2,
			Similarity:         p.Similarity,
			ActivityDifference: p.ActivityDifference,
			Quadrant:           q,
		}
	}
	return out, nil
}

func toWarningDTOs(ws []activity.Warning) []atypes.Warning {
	out := make([]atypes.Warning, len(ws))
	for i, w := range ws {
		out[i] = atypes.Warning{
			Kind:        string(w.Kind),
			RecordID:    w.RecordID,
			RecordIndex: w.RecordIndex,
			Structure:   w.Structure,
			Message:     w.Message,
		}
	}
	return out
}

func toStatsDTO(s activity.Stats) atypes.Stats {
	return atypes.Stats{Mean: s.Mean, StdDev: s.StdDev, Min: s.Min, Max: s.Max}
}

// toSummaryDTO adds the rows dropped while reading the table to the
// structures the analyzer skipped.
func toSummaryDTO(s activity.Summary, malformedRows int) atypes.Summary {
	counts := make(map[string]int, len(s.QuadrantCounts))
	for q, n := range s.QuadrantCounts {
		counts[q.String()] = n
	}
	return atypes.Summary{
		Molecules:          s.Molecules,
		Skipped:            s.Skipped + malformedRows,
		Pairs:              s.Pairs,
		QuadrantCounts:     counts,
		Similarity:         toStatsDTO(s.Similarity),
		ActivityDifference: toStatsDTO(s.ActivityDifference),
	}
}

//Personal.AI order the ending
