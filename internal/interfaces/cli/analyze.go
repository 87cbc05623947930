package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/SimilACTrail/internal/application/trail"
	"github.com/turtacn/SimilACTrail/internal/domain/activity"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/export"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/pkg/errors"
	atypes "github.com/turtacn/SimilACTrail/pkg/types/activity"
)

type analyzeOptions struct {
	input             string
	sample            bool
	idCol             string
	smilesCol         string
	activityCol       string
	preset            string
	bits              int
	simThreshold      float64
	activityThreshold float64
	workers           int
	csvOut            string
	pngOut            string
	upload            bool
}

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify every compound pair of a dataset",
		Long: "Reads a table of compounds (a local path, an http(s) URL or an s3://bucket/key\n" +
			"object), fingerprints every structure, scores every pair and writes the pair\n" +
			"table and the activity landscape map.",
		Example: `  similactrail analyze --input data.csv --id-col ID --smiles-col SMILES --activity-col pIC50
  similactrail analyze --sample --preset ECFP6 --bits 4096 -o json
  similactrail analyze --input s3://datasets/chembl.csv --upload --png-out ""`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "dataset path, http(s) URL or s3://bucket/key")
	f.BoolVar(&opts.sample, "sample", false, "analyze the bundled sample dataset")
	f.StringVar(&opts.idCol, "id-col", "", "column holding compound identifiers")
	f.StringVar(&opts.smilesCol, "smiles-col", "", "column holding SMILES structures")
	f.StringVar(&opts.activityCol, "activity-col", "", "column holding activity values")
	f.StringVar(&opts.preset, "preset", "", "fingerprint preset (ECFP4, ECFP6, ECFP8, ECFP10)")
	f.IntVar(&opts.bits, "bits", 0, "fingerprint bit length (512, 1024, 2048, 4096)")
	f.Float64Var(&opts.simThreshold, "sim-threshold", 0, "similarity threshold (0.5 to 1.0)")
	f.Float64Var(&opts.activityThreshold, "activity-threshold", 0, "activity difference threshold (0.5 to 3.0)")
	f.IntVar(&opts.workers, "workers", 0, "fingerprint workers (default from config)")
	f.StringVar(&opts.csvOut, "csv-out", export.DefaultCSVName, "pair table output path; empty disables")
	f.StringVar(&opts.pngOut, "png-out", export.DefaultMapName, "landscape map output path; empty disables")
	f.BoolVar(&opts.upload, "upload", false, "store the exports in object storage")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if opts.input == "" && !opts.sample {
		return errors.InvalidParam("one of --input or --sample is required")
	}
	if opts.input != "" && opts.sample {
		return errors.InvalidParam("--input and --sample are mutually exclusive")
	}
	if !opts.sample && (opts.smilesCol == "" || opts.activityCol == "" || opts.idCol == "") {
		return errors.InvalidParam("--id-col, --smiles-col and --activity-col are required with --input")
	}
	if opts.workers < 0 {
		return errors.InvalidParam("--workers must not be negative")
	}
	if opts.workers > 0 {
		cliCtx.Config.Analysis.Workers = opts.workers
	}

	ctx := cmd.Context()
	if cliCtx.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cliCtx.Timeout)
		defer cancel()
	}

	svc, err := cliCtx.Service(ctx)
	if err != nil {
		return err
	}

	input := &trail.AnalyzeInput{
		Sample: opts.sample,
		Source: opts.input,
		Columns: atypes.ColumnMapping{
			ID:        opts.idCol,
			Structure: opts.smilesCol,
			Activity:  opts.activityCol,
		},
		Parameters: atypes.Parameters{
			Preset:                      opts.preset,
			BitLength:                   opts.bits,
			SimilarityThreshold:         opts.simThreshold,
			ActivityDifferenceThreshold: opts.activityThreshold,
		},
		Exports: trail.Exports{CSV: opts.csvOut != "", Map: opts.pngOut != ""},
		Upload:  opts.upload,
	}

	run, err := svc.Analyze(ctx, input)
	if err != nil {
		return err
	}

	report := &analysisReport{AnalysisResponse: run.Response, verbose: cliCtx.Verbose}
	if opts.csvOut != "" {
		if err := writeArtifact(opts.csvOut, run.CSV); err != nil {
			return err
		}
		report.Files = append(report.Files, opts.csvOut)
	}
	if opts.pngOut != "" {
		if err := writeArtifact(opts.pngOut, run.PNG); err != nil {
			return err
		}
		report.Files = append(report.Files, opts.pngOut)
	}
	cliCtx.Logger.Debug("analysis written", logging.Any("files", report.Files))

	return PrintResult(cmd, report)
}

func writeArtifact(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "writing export").WithDetail(path)
	}
	return nil
}

// analysisReport is the CLI view of a run.
type analysisReport struct {
	*atypes.AnalysisResponse
	Files   []string `json:"files,omitempty"`
	verbose bool
}

func (r *analysisReport) TableHeaders() []string {
	return []string{"Molecule ID 1", "Molecule ID 2", "Similarity", "Activity Difference", "Quadrant"}
}

func (r *analysisReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Pairs))
	for _, p := range r.Pairs {
		rows = append(rows, []string{
			p.MoleculeID1,
			p.MoleculeID2,
			fmt.Sprintf("%.4f", p.Similarity),
			fmt.Sprintf("%.4f", p.ActivityDifference),
			p.Quadrant,
		})
	}
	return rows
}

func (r *analysisReport) String() string {
	var sb strings.Builder
	p := r.Parameters
	fmt.Fprintf(&sb, "Run %s\n", r.RunID)
	if r.Source != "" {
		fmt.Fprintf(&sb, "Source:      %s\n", r.Source)
	}
	fmt.Fprintf(&sb, "Fingerprint: %s (radius %d, %d bits)\n", p.Preset, p.Radius, p.BitLength)
	fmt.Fprintf(&sb, "Thresholds:  similarity %s, activity difference %s\n",
		export.FormatFloat(p.SimilarityThreshold), export.FormatFloat(p.ActivityDifferenceThreshold))
	fmt.Fprintf(&sb, "Molecules:   %d (skipped %d)\n", r.Summary.Molecules, r.Summary.Skipped)
	fmt.Fprintf(&sb, "Pairs:       %d\n", r.Summary.Pairs)

	labels := make([]string, 0, len(r.Summary.QuadrantCounts))
	for label := range r.Summary.QuadrantCounts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(&sb, "  %s %d\n", quadrantLabel(label), r.Summary.QuadrantCounts[label])
	}
	if r.Summary.Pairs > 0 {
		fmt.Fprintf(&sb, "Similarity:  mean %.4f, sd %.4f, range [%.4f, %.4f]\n",
			r.Summary.Similarity.Mean, r.Summary.Similarity.StdDev, r.Summary.Similarity.Min, r.Summary.Similarity.Max)
		fmt.Fprintf(&sb, "Activity Δ:  mean %.4f, sd %.4f, range [%.4f, %.4f]\n",
			r.Summary.ActivityDifference.Mean, r.Summary.ActivityDifference.StdDev,
			r.Summary.ActivityDifference.Min, r.Summary.ActivityDifference.Max)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "%s %d\n", color.YellowString("Warnings:"), len(r.Warnings))
		for _, w := range r.Warnings {
			if !r.verbose && w.Kind != "external_resource" {
				continue
			}
			fmt.Fprintf(&sb, "  [%s] %s\n", w.Kind, describeWarning(w))
		}
		if !r.verbose {
			sb.WriteString("  (use --verbose to list skipped records)\n")
		}
	}
	for _, a := range r.Artifacts {
		fmt.Fprintf(&sb, "Uploaded %s: s3://%s/%s\n", a.Kind, a.Bucket, a.Key)
	}
	for _, f := range r.Files {
		fmt.Fprintf(&sb, "Wrote %s\n", f)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func describeWarning(w atypes.Warning) string {
	if w.RecordIndex < 0 {
		return w.Message
	}
	id := w.RecordID
	if id == "" {
		id = "?"
	}
	return fmt.Sprintf("row %d (%s): %s", w.RecordIndex, id, w.Message)
}

// quadrantLabel pads label to a column and colours it like the map's scatter
// points.  Padding goes first so escape codes do not count toward the width.
func quadrantLabel(label string) string {
	padded := fmt.Sprintf("%-20s", label)
	q, err := activity.ParseQuadrant(label)
	if err != nil {
		return padded
	}
	c, ok := export.QuadrantColors[q]
	if !ok {
		return padded
	}
	return color.New(terminalColor(c.R, c.G, c.B)).Sprint(padded)
}

// terminalColor picks the ANSI foreground nearest a palette entry.
func terminalColor(r, g, b uint8) color.Attribute {
	switch {
	case r > 0 && b > 0:
		return color.FgMagenta
	case r > 0:
		return color.FgRed
	case g > 0:
		return color.FgGreen
	case b > 0:
		return color.FgBlue
	}
	return color.Reset
}

//Personal.AI order the ending
