package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllMetricsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.HTTPActiveRequests)
	assert.NotNil(t, m.AnalysisRunsTotal)
	assert.NotNil(t, m.AnalysisDuration)
	assert.NotNil(t, m.AnalysisPairsTotal)
	assert.NotNil(t, m.AnalysisSkippedRecords)
	assert.NotNil(t, m.ArtifactUploadsTotal)
	assert.NotNil(t, m.AssetFetchTotal)
}

func TestNewAppMetrics_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	m1 := NewAppMetrics(c)
	m2 := NewAppMetrics(c)

	m1.AnalysisRunsTotal.WithLabelValues("success").Inc()
	m2.AnalysisRunsTotal.WithLabelValues("success").Inc()

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_analysis_runs_total{status="success"} 2`)
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "POST", "/api/v1/analyses", 200, 100*time.Millisecond)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_http_requests_total{method="POST",path="/api/v1/analyses",status="200"} 1`)
	assert.Contains(t, output, `test_unit_http_request_duration_seconds_count{method="POST",path="/api/v1/analyses"} 1`)
}

func TestRecordAnalysis_Success(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordAnalysis(m, "ECFP4", 3,
		map[string]int{"Activity Cliffs": 1, "Smooth SAR Zones": 2},
		map[string]int{"invalid_smiles": 1},
		2*time.Second, nil)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_analysis_runs_total{status="success"} 1`)
	assert.Contains(t, output, `test_unit_analysis_pairs_total{quadrant="Activity Cliffs"} 1`)
	assert.Contains(t, output, `test_unit_analysis_pairs_total{quadrant="Smooth SAR Zones"} 2`)
	assert.Contains(t, output, `test_unit_analysis_skipped_records_total{reason="invalid_smiles"} 1`)
	assert.Contains(t, output, `test_unit_analysis_duration_seconds_count{fingerprint="ECFP4"} 1`)
	assert.Contains(t, output, `test_unit_analysis_molecules_sum{fingerprint="ECFP4"} 3`)
}

func TestRecordAnalysis_Failure(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordAnalysis(m, "ECFP6", 0, nil, nil, time.Millisecond, errors.New("boom"))

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_analysis_runs_total{status="failure"} 1`)
	assert.NotContains(t, output, "test_unit_analysis_pairs_total{")
}

func TestRecordArtifactUploadAndAssetFetch(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordArtifactUpload(m, "csv", nil)
	RecordArtifactUpload(m, "png", errors.New("denied"))
	RecordAssetFetch(m, nil)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_artifact_uploads_total{kind="csv",status="success"} 1`)
	assert.Contains(t, output, `test_unit_artifact_uploads_total{kind="png",status="failure"} 1`)
	assert.Contains(t, output, `test_unit_asset_fetch_total{status="success"} 1`)
}

//Personal.AI order the ending
