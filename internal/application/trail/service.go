// Package trail provides the application-level service for one SimilACTrail
// run: resolve the dataset, analyse it, render the exports and optionally
// upload them.  CLI commands and HTTP handlers call into this package and
// never touch the domain packages directly.
package trail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	"github.com/turtacn/SimilACTrail/internal/config"
	"github.com/turtacn/SimilACTrail/internal/domain/activity"
	"github.com/turtacn/SimilACTrail/internal/domain/molecule"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/dataset"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/export"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/fetch"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/storage/minio"
	"github.com/turtacn/SimilACTrail/pkg/errors"
	atypes "github.com/turtacn/SimilACTrail/pkg/types/activity"
	"github.com/turtacn/SimilACTrail/pkg/types/common"
)

// Service defines the application operations of SimilACTrail.
type Service interface {
	Analyze(ctx context.Context, input *AnalyzeInput) (*Run, error)
	Options() atypes.Options
}

// Exports selects which artifacts a run renders.
type Exports struct {
	CSV bool
	Map bool
}

// AnalyzeInput describes one run.  Exactly one dataset source is used, in
// this order: Data, Sample, Source.
type AnalyzeInput struct {
	// Data is an uploaded table; DataName labels it in the response.
	Data     []byte
	DataName string
	// Sample selects the configured sample dataset.
	Sample bool
	// Source is a local path, an http(s) URL or an s3://bucket/key URI.
	Source     string
	Columns    atypes.ColumnMapping
	Parameters atypes.Parameters
	Exports    Exports
	// Upload stores the rendered exports in object storage.
	Upload bool
}

// Run is the outcome of Analyze.  CSV and PNG are nil unless requested.
type Run struct {
	Response *atypes.AnalysisResponse
	Result   *activity.Result
	CSV      []byte
	PNG      []byte
}

// Deps are the collaborators of the service.  Fetcher is required; Store
// and Metrics may be nil.
type Deps struct {
	Analyzer *activity.Analyzer
	Fetcher  fetch.Fetcher
	Store    minio.ArtifactStore
	Metrics  *prometheus.AppMetrics
	Logger   logging.Logger
}

// Settings carry the configuration the service reads.
type Settings struct {
	Analysis config.AnalysisConfig
	Assets   config.AssetsConfig
	// AllowLocalFiles permits Source to name a file on the local filesystem.
	AllowLocalFiles bool
}

type serviceImpl struct {
	deps     Deps
	settings Settings
	logger   logging.Logger
	now      func() time.Time
}

// NewService wires a Service.
func NewService(deps Deps, settings Settings) (Service, error) {
	if deps.Fetcher == nil {
		return nil, errors.InvalidParam("fetcher is required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	if deps.Analyzer == nil {
		deps.Analyzer = activity.NewAnalyzer(deps.Logger)
	}
	return &serviceImpl{
		deps:     deps,
		settings: settings,
		logger:   deps.Logger.Named("trail"),
		now:      time.Now,
	}, nil
}

func (s *serviceImpl) Analyze(ctx context.Context, input *AnalyzeInput) (run *Run, err error) {
	if input == nil {
		return nil, errors.InvalidParam("analysis input is required")
	}
	start := s.now()
	runID := common.NewID()
	log := s.logger.With(logging.String("run_id", string(runID)))

	params, err := s.resolveParameters(input.Parameters)
	if err != nil {
		return nil, err
	}

	var (
		molecules      int
		quadrantCounts map[string]int
		skipped        map[string]int
	)
	defer func() {
		if s.deps.Metrics != nil {
			prometheus.RecordAnalysis(s.deps.Metrics, params.Preset.String(), molecules, quadrantCounts, skipped, s.now().Sub(start), err)
		}
		if err != nil {
			log.Warn("analysis failed", logging.Err(err))
		}
	}()

	data, sourceLabel, cols, err := s.resolveSource(ctx, input)
	if err != nil {
		return nil, err
	}

	records, rowWarnings, err := dataset.Load(bytes.NewReader(data), cols)
	if err != nil {
		return nil, err
	}
	for _, w := range rowWarnings {
		log.Warn("row skipped", logging.Int("record_index", w.RecordIndex), logging.String("record_id", w.RecordID), logging.String("reason", w.Message))
	}

	result, err := s.deps.Analyzer.Analyze(ctx, records, params)
	if err != nil {
		return nil, err
	}
	warnings := make([]activity.Warning, 0, len(rowWarnings)+len(result.Warnings)+1)
	warnings = append(warnings, rowWarnings...)
	warnings = append(warnings, result.Warnings...)

	run = &Run{Result: result}
	if input.Exports.CSV || input.Upload {
		var buf bytes.Buffer
		if err = export.WriteCSV(&buf, result.Pairs); err != nil {
			return nil, err
		}
		run.CSV = buf.Bytes()
	}
	if input.Exports.Map || input.Upload {
		opts := export.MapOptions{
			Preset:                      params.Preset.String(),
			SimilarityThreshold:         params.SimilarityThreshold,
			ActivityDifferenceThreshold: params.ActivityDifferenceThreshold,
		}
		logo, w := s.loadLogo(ctx)
		if w != nil {
			warnings = append(warnings, *w)
		}
		opts.Logo = logo
		var buf bytes.Buffer
		if err = export.RenderMap(&buf, result.Pairs, opts); err != nil {
			return nil, err
		}
		run.PNG = buf.Bytes()
	}

	var artifacts []atypes.Artifact
	if input.Upload {
		artifacts, err = s.upload(ctx, string(runID), run)
		if err != nil {
			return nil, err
		}
	}

	molecules = result.Summary.Molecules
	quadrantCounts = make(map[string]int, len(result.Summary.QuadrantCounts))
	for q, n := range result.Summary.QuadrantCounts {
		quadrantCounts[q.String()] = n
	}
	skipped = map[string]int{}
	for _, w := range warnings {
		if w.Kind != activity.WarningExternalResource {
			skipped[string(w.Kind)]++
		}
	}

	elapsed := s.now().Sub(start)
	run.Response = &atypes.AnalysisResponse{
		RunID:      runID,
		Source:     sourceLabel,
		Parameters: toParametersDTO(params),
		Summary:    toSummaryDTO(result.Summary, len(rowWarnings)),
		Pairs:      toPairDTOs(result.Pairs),
		Warnings:   toWarningDTOs(warnings),
		Artifacts:  artifacts,
		DurationMS: elapsed.Milliseconds(),
		CreatedAt:  common.Timestamp(start.UTC()),
	}
	log.Info("analysis finished",
		logging.String("source", sourceLabel),
		logging.String("fingerprint", params.FingerprintConfig().String()),
		logging.Int("molecules", molecules),
		logging.Int("pairs", len(result.Pairs)),
		logging.Int("warnings", len(warnings)),
		logging.Duration("elapsed", elapsed))
	return run, nil
}

// resolveParameters fills unset request fields from the configured
// defaults and validates the result.
func (s *serviceImpl) resolveParameters(in atypes.Parameters) (activity.Parameters, error) {
	params := s.settings.Analysis.Parameters()
	if in.Preset != "" {
		p, err := molecule.ParsePreset(in.Preset)
		if err != nil {
			return params, err
		}
		params.Preset = p
	}
	if in.BitLength != 0 {
		params.BitLength = in.BitLength
	}
	if in.SimilarityThreshold != 0 {
		params.SimilarityThreshold = in.SimilarityThreshold
	}
	if in.ActivityDifferenceThreshold != 0 {
		params.ActivityDifferenceThreshold = in.ActivityDifferenceThreshold
	}
	if err := params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}

func (s *serviceImpl) resolveSource(ctx context.Context, input *AnalyzeInput) ([]byte, string, atypes.ColumnMapping, error) {
	cols := input.Columns
	switch {
	case input.Data != nil:
		name := input.DataName
		if name == "" {
			name = "upload"
		}
		return input.Data, "upload:" + name, cols, nil

	case input.Sample:
		sc := s.settings.Assets.SampleColumns
		if cols.ID == "" {
			cols.ID = sc.ID
		}
		if cols.Structure == "" {
			cols.Structure = sc.Smiles
		}
		if cols.Activity == "" {
			cols.Activity = sc.Activity
		}
		data, err := s.fetch(ctx, s.settings.Assets.SampleDatasetURL)
		if err != nil {
			return nil, "", cols, err
		}
		return data, "sample", cols, nil

	case minio.IsS3URI(input.Source):
		if s.deps.Store == nil {
			return nil, "", cols, errors.New(errors.ErrCodeStorageFailed, "object storage is not enabled").
				WithDetail(fmt.Sprintf("source=%s", input.Source))
		}
		data, err := s.deps.Store.Get(ctx, input.Source)
		return data, input.Source, cols, err

	case isHTTPURL(input.Source):
		data, err := s.fetch(ctx, input.Source)
		return data, input.Source, cols, err

	case input.Source != "":
		if !s.settings.AllowLocalFiles {
			return nil, "", cols, errors.InvalidParam("source must be an http(s) or s3 URL")
		}
		data, err := os.ReadFile(input.Source)
		if err != nil {
			return nil, "", cols, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "read dataset file").
				WithDetail(fmt.Sprintf("path=%s", input.Source))
		}
		return data, input.Source, cols, nil
	}
	return nil, "", cols, errors.InvalidParam("no dataset: upload a file, pick the sample, or give a source")
}

func (s *serviceImpl) fetch(ctx context.Context, url string) ([]byte, error) {
	data, err := s.deps.Fetcher.Fetch(ctx, url)
	if s.deps.Metrics != nil {
		prometheus.RecordAssetFetch(s.deps.Metrics, err)
	}
	return data, err
}

// loadLogo never fails the run; problems come back as a warning and the map
// renders without the logo.
func (s *serviceImpl) loadLogo(ctx context.Context) (image.Image, *activity.Warning) {
	url := s.settings.Assets.LogoURL
	if url == "" {
		return nil, nil
	}
	data, err := s.fetch(ctx, url)
	if err == nil {
		var img image.Image
		if img, err = export.DecodeLogo(data); err == nil {
			return img, nil
		}
	}
	s.logger.Warn("map logo unavailable", logging.String("url", url), logging.Err(err))
	return nil, &activity.Warning{
		Kind:        activity.WarningExternalResource,
		RecordIndex: -1,
		Message:     fmt.Sprintf("logo %s: %v", url, err),
	}
}

func (s *serviceImpl) upload(ctx context.Context, runID string, run *Run) ([]atypes.Artifact, error) {
	if s.deps.Store == nil {
		return nil, errors.New(errors.ErrCodeStorageFailed, "object storage is not enabled")
	}
	items := []struct {
		kind, name, contentType string
		data                    []byte
	}{
		{"csv", export.DefaultCSVName, "text/csv", run.CSV},
		{"map", export.DefaultMapName, "image/png", run.PNG},
	}
	artifacts := make([]atypes.Artifact, 0, len(items))
	for _, it := range items {
		obj, err := s.deps.Store.PutArtifact(ctx, runID, it.name, it.data, it.contentType)
		if s.deps.Metrics != nil {
			prometheus.RecordArtifactUpload(s.deps.Metrics, it.kind, err)
		}
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, atypes.Artifact{Kind: it.kind, Bucket: obj.Bucket, Key: obj.Key, Size: obj.Size, URL: obj.URL})
	}
	return artifacts, nil
}

func (s *serviceImpl) Options() atypes.Options {
	return OptionsFor(s.settings.Analysis)
}

// OptionsFor lists the selectable parameter values with the defaults of a.
func OptionsFor(a config.AnalysisConfig) atypes.Options {
	presets := molecule.Presets()
	opts := atypes.Options{
		Presets:                      make([]atypes.PresetOption, 0, len(presets)),
		BitLengths:                   append([]int(nil), molecule.BitLengths...),
		SimilarityThresholds:         append([]float64(nil), activity.SimilarityThresholdOptions...),
		ActivityDifferenceThresholds: append([]float64(nil), activity.ActivityDifferenceThresholdOptions...),
		Defaults:                     toParametersDTO(a.Parameters()),
	}
	for _, p := range presets {
		r, _ := p.Radius()
		opts.Presets = append(opts.Presets, atypes.PresetOption{Name: p.String(), Radius: r})
	}
	return opts
}

func isHTTPURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

//Personal.AI order the ending
