package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	atypes "github.com/turtacn/SimilACTrail/pkg/types/activity"
)

const (
	optionsPath  = "/api/v1/options"
	analysesPath = "/api/v1/analyses"
	csvPath      = analysesPath + "/csv"
	mapPath      = analysesPath + "/map.png"
	readyPath    = "/readyz"
)

// AnalyzeRequest describes one run.  When Dataset is set the table is
// uploaded as a multipart file; otherwise Source or Sample selects a dataset
// the server can reach itself.
type AnalyzeRequest struct {
	Dataset     []byte
	DatasetName string
	Source      string
	Sample      bool
	Columns     atypes.ColumnMapping
	Parameters  atypes.Parameters
	Upload      bool
}

// Download is an exported artifact with the run metadata from the response
// headers.
type Download struct {
	Data         []byte
	ContentType  string
	RunID        string
	PairCount    int
	WarningCount int
}

// Options lists the presets, bit lengths and thresholds the server accepts.
func (c *Client) Options(ctx context.Context) (*atypes.Options, error) {
	resp, err := c.do(ctx, http.MethodGet, optionsPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[atypes.Options](resp)
}

// Analyze runs the analysis and returns the full result.
func (c *Client) Analyze(ctx context.Context, req *AnalyzeRequest) (*atypes.AnalysisResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, analysesPath, req.encode)
	if err != nil {
		return nil, err
	}
	return decodeData[atypes.AnalysisResponse](resp)
}

// DownloadCSV runs the analysis and returns the pair table as CSV.
func (c *Client) DownloadCSV(ctx context.Context, req *AnalyzeRequest) (*Download, error) {
	return c.download(ctx, csvPath, req)
}

// DownloadMap runs the analysis and returns the SAR map as PNG.
func (c *Client) DownloadMap(ctx context.Context, req *AnalyzeRequest) (*Download, error) {
	return c.download(ctx, mapPath, req)
}

// Ready reports nil when the server's readiness probe passes.
func (c *Client) Ready(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, readyPath, nil)
	return err
}

func (c *Client) download(ctx context.Context, path string, req *AnalyzeRequest) (*Download, error) {
	resp, err := c.do(ctx, http.MethodPost, path, req.encode)
	if err != nil {
		return nil, err
	}
	d := &Download{
		Data:        resp.data,
		ContentType: resp.header.Get("Content-Type"),
		RunID:       resp.header.Get("X-Run-ID"),
	}
	d.PairCount, _ = strconv.Atoi(resp.header.Get("X-Pair-Count"))
	d.WarningCount, _ = strconv.Atoi(resp.header.Get("X-Warning-Count"))
	return d, nil
}

func (r *AnalyzeRequest) encode() (io.Reader, string, error) {
	if len(r.Dataset) == 0 {
		req := atypes.AnalysisRequest{
			Columns:    r.Columns,
			Parameters: r.Parameters,
			Source:     r.Source,
			Sample:     r.Sample,
			Upload:     r.Upload,
		}
		data, err := json.Marshal(req)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct{ key, value string }{
		{"id_column", r.Columns.ID},
		{"smiles_column", r.Columns.Structure},
		{"activity_column", r.Columns.Activity},
		{"preset", r.Parameters.Preset},
	}
	if r.Parameters.BitLength > 0 {
		fields = append(fields, struct{ key, value string }{"bit_length", strconv.Itoa(r.Parameters.BitLength)})
	}
	if v := r.Parameters.SimilarityThreshold; v > 0 {
		fields = append(fields, struct{ key, value string }{"similarity_threshold", strconv.FormatFloat(v, 'g', -1, 64)})
	}
	if v := r.Parameters.ActivityDifferenceThreshold; v > 0 {
		fields = append(fields, struct{ key, value string }{"activity_difference_threshold", strconv.FormatFloat(v, 'g', -1, 64)})
	}
	if r.Upload {
		fields = append(fields, struct{ key, value string }{"upload", "true"})
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", err
		}
	}

	name := r.DatasetName
	if name == "" {
		name = "dataset.csv"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(r.Dataset); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

//Personal.AI order the ending
