package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SimilACTrail/internal/application/trail"
	"github.com/turtacn/SimilACTrail/internal/config"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

type fakeFetcher struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.data[url]; ok {
		return d, nil
	}
	return nil, errors.New(errors.ErrCodeExternalFetchFailed, "fetch remote asset").WithDetail(url)
}

func testFactory(t *testing.T, fetcher *fakeFetcher, built *int) ServiceFactory {
	t.Helper()
	return func(_ context.Context, cfg *config.Config, _ logging.Logger) (trail.Service, func() error, error) {
		if built != nil {
			*built++
		}
		svc, err := trail.NewService(trail.Deps{Fetcher: fetcher}, trail.Settings{
			Analysis:        cfg.Analysis,
			Assets:          cfg.Assets,
			AllowLocalFiles: true,
		})
		return svc, func() error { return nil }, err
	}
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "similactrail.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644))
	return path
}

func execute(t *testing.T, factory ServiceFactory, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand(WithServiceFactory(factory))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", writeConfig(t), "--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "similactrail", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.Contains(t, cmd.Version, Version)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"analyze", "presets", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	pf := cmd.PersistentFlags()

	for _, name := range []string{"config", "log-level", "output", "verbose", "no-color", "timeout", "server"} {
		assert.NotNil(t, pf.Lookup(name), name)
	}
	assert.Equal(t, "c", pf.Lookup("config").Shorthand)
	assert.Equal(t, "o", pf.Lookup("output").Shorthand)
	assert.Equal(t, "text", pf.Lookup("output").DefValue)
}

func TestPersistentPreRun_RejectsUnknownOutput(t *testing.T) {
	_, _, err := execute(t, testFactory(t, &fakeFetcher{}, nil), "-o", "yaml", "version")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestPersistentPreRun_MissingConfigFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "version"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func TestVersionCmd_DoesNotBuildService(t *testing.T) {
	built := 0
	out, _, err := execute(t, testFactory(t, &fakeFetcher{}, &built), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "similactrail "+Version)
	assert.Contains(t, out, GitCommit)
	assert.Zero(t, built)
}

func TestVersionCmd_JSON(t *testing.T) {
	out, _, err := execute(t, testFactory(t, &fakeFetcher{}, nil), "-o", "json", "version")
	require.NoError(t, err)

	var info BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestGetCLIContext_Missing(t *testing.T) {
	_, err := GetCLIContext(&cobra.Command{})
	assert.Error(t, err)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err = GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestFormatTable(t *testing.T) {
	out := FormatTable([]string{"Name", "Value"}, [][]string{{"alpha", "1"}, {"beta"}})
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "beta")

	assert.Empty(t, FormatTable(nil, nil))
}

func TestPrintError(t *testing.T) {
	cmd := &cobra.Command{}
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	PrintError(cmd, nil)
	assert.Empty(t, stderr.String())

	PrintError(cmd, errors.InvalidParam("bad flag"))
	assert.Contains(t, stderr.String(), "Error:")
	assert.Contains(t, stderr.String(), "bad flag (COMMON_002)")

	stderr.Reset()
	cause := errors.New(errors.ErrCodeColumnMissing, "column not found")
	PrintError(cmd, errors.Wrap(cause, errors.CodeUnknown, "load dataset").WithDetail("column=Smiles"))
	out := stderr.String()
	assert.Contains(t, out, "load dataset (DAT_002)")
	assert.Contains(t, out, "column=Smiles")
	assert.Contains(t, out, "caused by: [DAT_002] column not found")

	stderr.Reset()
	PrintError(cmd, fmt.Errorf("unknown flag: --bogus"))
	assert.Contains(t, stderr.String(), "unknown flag: --bogus")
}

func TestInitLogger_LevelPrecedence(t *testing.T) {
	cfg := config.Default()
	for _, opts := range []*RootOptions{
		{},
		{LogLevel: "WARN"},
		{LogLevel: "error", Verbose: true},
	} {
		l, err := initLogger(cfg, opts)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

//Personal.AI order the ending
