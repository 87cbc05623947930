package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/turtacn/SimilACTrail/internal/application/trail"
	"github.com/turtacn/SimilACTrail/internal/config"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/export"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/storage/minio"
	"github.com/turtacn/SimilACTrail/pkg/client"
	"github.com/turtacn/SimilACTrail/pkg/errors"
	atypes "github.com/turtacn/SimilACTrail/pkg/types/activity"
)

const optionsTimeout = 10 * time.Second

// RemoteServiceFactory runs analyses on the SimilACTrail API at addr.
// Local dataset paths are read here and uploaded.
func RemoteServiceFactory(addr string) ServiceFactory {
	return func(_ context.Context, cfg *config.Config, logger logging.Logger) (trail.Service, func() error, error) {
		c, err := client.NewClient(addr,
			client.WithLogger(sdkLogger{logger.Named("client")}),
			client.WithUserAgent("similactrail-cli/"+Version),
		)
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.CodeInvalidParam, "invalid --server address").WithDetail(addr)
		}
		return &remoteService{client: c, analysis: cfg.Analysis, logger: logger}, func() error { return nil }, nil
	}
}

type remoteService struct {
	client   *client.Client
	analysis config.AnalysisConfig
	logger   logging.Logger
}

func (s *remoteService) Analyze(ctx context.Context, input *trail.AnalyzeInput) (*trail.Run, error) {
	req := &client.AnalyzeRequest{
		Dataset:     input.Data,
		DatasetName: input.DataName,
		Sample:      input.Sample,
		Source:      input.Source,
		Columns:     input.Columns,
		Parameters:  input.Parameters,
		Upload:      input.Upload,
	}
	if req.Dataset == nil && !req.Sample && isLocalPath(req.Source) {
		data, err := os.ReadFile(req.Source)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatasetUnreadable, "read dataset file").
				WithDetail(fmt.Sprintf("path=%s", req.Source))
		}
		req.Dataset, req.DatasetName, req.Source = data, filepath.Base(req.Source), ""
	}

	s.logger.Debug("submitting analysis", logging.String("server", s.client.BaseURL()))
	resp, err := s.client.Analyze(ctx, req)
	if err != nil {
		return nil, fromAPIError(err)
	}

	run := &trail.Run{Response: resp}
	if !input.Exports.CSV && !input.Exports.Map {
		return run, nil
	}
	pairs, err := trail.PairsFromDTO(resp.Pairs)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExportFailed, "decode server pairs")
	}
	if input.Exports.CSV {
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, pairs); err != nil {
			return nil, err
		}
		run.CSV = buf.Bytes()
	}
	if input.Exports.Map {
		var buf bytes.Buffer
		err := export.RenderMap(&buf, pairs, export.MapOptions{
			Preset:                      resp.Parameters.Preset,
			SimilarityThreshold:         resp.Parameters.SimilarityThreshold,
			ActivityDifferenceThreshold: resp.Parameters.ActivityDifferenceThreshold,
		})
		if err != nil {
			return nil, err
		}
		run.PNG = buf.Bytes()
	}
	return run, nil
}

// Options asks the server, falling back to the local configuration when it
// cannot be reached.
func (s *remoteService) Options() atypes.Options {
	ctx, cancel := context.WithTimeout(context.Background(), optionsTimeout)
	defer cancel()
	opts, err := s.client.Options(ctx)
	if err != nil {
		s.logger.Warn("server options unavailable, using local defaults", logging.Err(err))
		return trail.OptionsFor(s.analysis)
	}
	return *opts
}

// fromAPIError keeps the server's error code so the CLI reports it as if the
// run were local.
func fromAPIError(err error) error {
	var apiErr *client.APIError
	if !stderrors.As(err, &apiErr) || !errors.Known(errors.ErrorCode(apiErr.Code)) {
		return errors.Wrap(err, errors.ErrCodeExternalFetchFailed, "analysis server request failed")
	}
	appErr := errors.New(errors.ErrorCode(apiErr.Code), apiErr.Message)
	if apiErr.Detail != "" {
		appErr = appErr.WithDetail(apiErr.Detail)
	}
	return appErr
}

func isLocalPath(source string) bool {
	if source == "" || minio.IsS3URI(source) {
		return false
	}
	l := strings.ToLower(source)
	return !strings.HasPrefix(l, "http://") && !strings.HasPrefix(l, "https://")
}

// sdkLogger adapts logging.Logger to the printf-style client.Logger.
type sdkLogger struct{ l logging.Logger }

func (a sdkLogger) Debugf(format string, args ...interface{}) { a.l.Debug(fmt.Sprintf(format, args...)) }
func (a sdkLogger) Infof(format string, args ...interface{})  { a.l.Info(fmt.Sprintf(format, args...)) }
func (a sdkLogger) Errorf(format string, args ...interface{}) { a.l.Error(fmt.Sprintf(format, args...)) }

//Personal.AI order the ending
