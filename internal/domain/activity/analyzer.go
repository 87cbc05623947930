// Package activity enumerates compound pairs, scores them by fingerprint
// similarity and activity difference, and classifies each pair into an
// activity-landscape quadrant.
package activity

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/SimilACTrail/internal/domain/molecule"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// Result is the outcome of one analysis run.
type Result struct {
	Parameters Parameters   `json:"parameters"`
	Pairs      []PairResult `json:"pairs"`
	Warnings   []Warning    `json:"warnings"`
	Summary    Summary      `json:"summary"`
}

// Analyzer computes every pairwise result for a set of compound records.
type Analyzer struct {
	similarity molecule.SimilarityCalculator
	logger     logging.Logger
}

// NewAnalyzer returns an Analyzer using Tanimoto similarity.
func NewAnalyzer(logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Analyzer{
		similarity: molecule.TanimotoCalculator{},
		logger:     logger.Named("analyzer"),
	}
}

type fingerprintOutcome struct {
	fp  *molecule.FingerprintVector
	err error
}

// Analyze fingerprints each record once, then scores all i<j pairs of the
// records whose structure parsed.  Records with an unparsable structure are
// reported as warnings and take no part in any pair.  Results are ordered by
// IndexA then IndexB regardless of params.Workers.
func (a *Analyzer) Analyze(ctx context.Context, records []CompoundRecord, params Parameters) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	cfg := params.FingerprintConfig()
	workers := params.workers()

	outcomes := make([]fingerprintOutcome, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range records {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mol, err := molecule.ParseSMILES(records[i].Structure)
			if err != nil {
				outcomes[i].err = err
				return nil
			}
			outcomes[i].fp, outcomes[i].err = molecule.MorganFingerprint(mol, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAnalysisFailed, "fingerprinting cancelled")
	}

	var (
		valid    []int
		warnings []Warning
	)
	for i, out := range outcomes {
		if out.err != nil {
			w := Warning{
				Kind:        WarningMalformedStructure,
				RecordID:    records[i].ID,
				RecordIndex: records[i].Index,
				Structure:   records[i].Structure,
				Message:     out.err.Error(),
			}
			warnings = append(warnings, w)
			a.logger.Warn("compound excluded: invalid structure",
				logging.String("record_id", w.RecordID),
				logging.Int("record_index", w.RecordIndex),
				logging.String("structure", w.Structure),
				logging.Err(out.err))
			continue
		}
		valid = append(valid, i)
	}

	pairs, err := a.scorePairs(ctx, records, outcomes, valid, params, workers)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("analysis complete",
		logging.String("preset", params.Preset.String()),
		logging.Int("bit_length", params.BitLength),
		logging.Int("molecules", len(valid)),
		logging.Int("pairs", len(pairs)),
		logging.Int("skipped", len(warnings)))

	return &Result{
		Parameters: params,
		Pairs:      pairs,
		Warnings:   warnings,
		Summary:    Summarize(pairs, len(valid), len(warnings)),
	}, nil
}

// scorePairs fills a pre-sized slice; row r of the valid list owns the slots
// for all pairs (r, s) with s > r, so workers never share a slot.
func (a *Analyzer) scorePairs(ctx context.Context, records []CompoundRecord, outcomes []fingerprintOutcome,
	valid []int, params Parameters, workers int) ([]PairResult, error) {
	m := len(valid)
	if m < 2 {
		return []PairResult{}, nil
	}
	pairs := make([]PairResult, m*(m-1)/2)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for r := 0; r < m-1; r++ {
		r := r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			offset := r*(m-1) - r*(r-1)/2
			ri := valid[r]
			recA := records[ri]
			for s := r + 1; s < m; s++ {
				si := valid[s]
				recB := records[si]
				sim, err := a.similarity.Calculate(outcomes[ri].fp, outcomes[si].fp)
				if err != nil {
					return err
				}
				diff := math.Abs(recA.Activity - recB.Activity)
				pairs[offset+s-r-1] = PairResult{
					IndexA:             recA.Index,
					IndexB:             recB.Index,
					IDA:                recA.ID,
					IDB:                recB.ID,
					Similarity:         sim,
					ActivityDifference: diff,
					Quadrant:           Classify(sim, diff, params.SimilarityThreshold, params.ActivityDifferenceThreshold),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAnalysisFailed, fmt.Sprintf("scoring %d compounds", m))
	}
	return pairs, nil
}

//Personal.AI order the ending
