package prometheus

import (
	"strconv"
	"time"
)

var (
	DefaultHTTPDurationBuckets     = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300}
)

// AppMetrics is the set of metrics recorded by the analysis service and the
// HTTP API.
type AppMetrics struct {
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	AnalysisRunsTotal      CounterVec
	AnalysisDuration       HistogramVec
	AnalysisPairsTotal     CounterVec
	AnalysisSkippedRecords CounterVec
	AnalysisMolecules      HistogramVec

	ArtifactUploadsTotal CounterVec
	AssetFetchTotal      CounterVec
}

// NewAppMetrics registers every application metric on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.AnalysisRunsTotal = collector.RegisterCounter("analysis_runs_total", "Pairwise analysis runs", "status")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "Pairwise analysis duration", DefaultAnalysisDurationBuckets, "fingerprint")
	m.AnalysisPairsTotal = collector.RegisterCounter("analysis_pairs_total", "Classified compound pairs", "quadrant")
	m.AnalysisSkippedRecords = collector.RegisterCounter("analysis_skipped_records_total", "Compounds excluded from analysis", "reason")
	m.AnalysisMolecules = collector.RegisterHistogram("analysis_molecules", "Valid compounds per analysis", []float64{2, 10, 50, 100, 500, 1000, 5000}, "fingerprint")

	m.ArtifactUploadsTotal = collector.RegisterCounter("artifact_uploads_total", "Artifacts uploaded to object storage", "kind", "status")
	m.AssetFetchTotal = collector.RegisterCounter("asset_fetch_total", "Remote asset downloads", "status")

	return m
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAnalysis records a finished run. quadrantCounts is keyed by quadrant
// label and skipped by warning reason.
func RecordAnalysis(metrics *AppMetrics, fingerprint string, molecules int, quadrantCounts map[string]int, skipped map[string]int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.AnalysisRunsTotal.WithLabelValues(status).Inc()
	metrics.AnalysisDuration.WithLabelValues(fingerprint).Observe(duration.Seconds())
	if err != nil {
		return
	}
	metrics.AnalysisMolecules.WithLabelValues(fingerprint).Observe(float64(molecules))
	for q, n := range quadrantCounts {
		metrics.AnalysisPairsTotal.WithLabelValues(q).Add(float64(n))
	}
	for reason, n := range skipped {
		metrics.AnalysisSkippedRecords.WithLabelValues(reason).Add(float64(n))
	}
}

func RecordArtifactUpload(metrics *AppMetrics, kind string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.ArtifactUploadsTotal.WithLabelValues(kind, status).Inc()
}

func RecordAssetFetch(metrics *AppMetrics, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.AssetFetchTotal.WithLabelValues(status).Inc()
}

//Personal.AI order the ending
