package handlers

import (
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/turtacn/SimilACTrail/internal/application/trail"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/export"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/pkg/errors"
	atypes "github.com/turtacn/SimilACTrail/pkg/types/activity"
)

// Response headers describing a run on file downloads.
const (
	HeaderRunID        = "X-Run-ID"
	HeaderWarningCount = "X-Warning-Count"
	HeaderPairCount    = "X-Pair-Count"
)

// AnalysisHandler serves the analysis endpoints.
type AnalysisHandler struct {
	svc    trail.Service
	logger logging.Logger
}

func NewAnalysisHandler(svc trail.Service, logger logging.Logger) *AnalysisHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AnalysisHandler{svc: svc, logger: logger.Named("http.analysis")}
}

// RegisterRoutes mounts the handlers on rg.  runMW wraps only the routes
// that execute an analysis.
func (h *AnalysisHandler) RegisterRoutes(rg *gin.RouterGroup, runMW ...gin.HandlerFunc) {
	rg.GET("/options", h.Options)

	runs := rg.Group("/analyses", runMW...)
	runs.POST("", h.Create)
	runs.POST("/csv", h.DownloadCSV)
	runs.POST("/map.png", h.DownloadMap)
}

// Options handles GET /api/v1/options.
func (h *AnalysisHandler) Options(c *gin.Context) {
	respondOK(c, h.svc.Options())
}

// Create handles POST /api/v1/analyses and returns the run as JSON.
func (h *AnalysisHandler) Create(c *gin.Context) {
	run, ok := h.run(c, trail.Exports{})
	if !ok {
		return
	}
	respondOK(c, run.Response)
}

// DownloadCSV handles POST /api/v1/analyses/csv.
func (h *AnalysisHandler) DownloadCSV(c *gin.Context) {
	run, ok := h.run(c, trail.Exports{CSV: true})
	if !ok {
		return
	}
	h.attach(c, run, export.DefaultCSVName)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", run.CSV)
}

// DownloadMap handles POST /api/v1/analyses/map.png.
func (h *AnalysisHandler) DownloadMap(c *gin.Context) {
	run, ok := h.run(c, trail.Exports{Map: true})
	if !ok {
		return
	}
	h.attach(c, run, export.DefaultMapName)
	c.Data(http.StatusOK, "image/png", run.PNG)
}

func (h *AnalysisHandler) attach(c *gin.Context, run *trail.Run, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header(HeaderRunID, run.Response.RunID.String())
	c.Header(HeaderPairCount, strconv.Itoa(len(run.Response.Pairs)))
	c.Header(HeaderWarningCount, strconv.Itoa(len(run.Response.Warnings)))
}

func (h *AnalysisHandler) run(c *gin.Context, exports trail.Exports) (*trail.Run, bool) {
	input, err := parseInput(c)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	input.Exports = exports

	run, err := h.svc.Analyze(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return run, true
}

// analysisForm is the form encoding of a run request.
type analysisForm struct {
	IDColumn                    string  `form:"id_column"`
	SmilesColumn                string  `form:"smiles_column"`
	ActivityColumn              string  `form:"activity_column"`
	Preset                      string  `form:"preset"`
	BitLength                   int     `form:"bit_length"`
	SimilarityThreshold         float64 `form:"similarity_threshold"`
	ActivityDifferenceThreshold float64 `form:"activity_difference_threshold"`
	Source                      string  `form:"source"`
	Sample                      bool    `form:"sample"`
	Upload                      bool    `form:"upload"`
}

// parseInput accepts a JSON AnalysisRequest or a form with an optional
// multipart "file".
func parseInput(c *gin.Context) (*trail.AnalyzeInput, error) {
	if c.ContentType() == binding.MIMEJSON {
		var req atypes.AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, bindError(err)
		}
		return &trail.AnalyzeInput{
			Sample:     req.Sample,
			Source:     req.Source,
			Columns:    req.Columns,
			Parameters: req.Parameters,
			Upload:     req.Upload,
		}, nil
	}

	var form analysisForm
	if err := c.ShouldBind(&form); err != nil {
		return nil, bindError(err)
	}
	input := &trail.AnalyzeInput{
		Sample: form.Sample,
		Source: form.Source,
		Columns: atypes.ColumnMapping{
			ID:        form.IDColumn,
			Structure: form.SmilesColumn,
			Activity:  form.ActivityColumn,
		},
		Parameters: atypes.Parameters{
			Preset:                      form.Preset,
			BitLength:                   form.BitLength,
			SimilarityThreshold:         form.SimilarityThreshold,
			ActivityDifferenceThreshold: form.ActivityDifferenceThreshold,
		},
		Upload: form.Upload,
	}

	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		data, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		input.Data, input.DataName = data, fh.Filename
	case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
	default:
		return nil, bindError(err)
	}
	return input, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "opening uploaded file").WithDetail(fh.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "reading uploaded file").WithDetail(fh.Filename)
	}
	return data, nil
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.New(errors.ErrCodeBodyTooLarge, "request body too large").
			WithDetail(fmt.Sprintf("limit %d bytes", tooLarge.Limit))
	}
	return errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request").WithDetail(err.Error())
}

//Personal.AI order the ending
