package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/SimilACTrail/internal/infrastructure/export"
	atypes "github.com/turtacn/SimilACTrail/pkg/types/activity"
)

// NewPresetsCmd creates the presets command listing selectable parameters.
func NewPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List fingerprint presets, bit lengths and thresholds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			svc, err := cliCtx.Service(cmd.Context())
			if err != nil {
				return err
			}
			return PrintResult(cmd, optionsView{svc.Options()})
		},
	}
}

type optionsView struct {
	atypes.Options
}

func (v optionsView) TableHeaders() []string {
	return []string{"Preset", "Radius", "Default"}
}

func (v optionsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Presets))
	for _, p := range v.Presets {
		def := ""
		if p.Name == v.Defaults.Preset {
			def = "*"
		}
		rows = append(rows, []string{p.Name, strconv.Itoa(p.Radius), def})
	}
	return rows
}

func (v optionsView) String() string {
	var sb strings.Builder
	sb.WriteString("Presets:\n")
	for _, p := range v.Presets {
		marker := ""
		if p.Name == v.Defaults.Preset {
			marker = " (default)"
		}
		fmt.Fprintf(&sb, "  %-7s radius %d%s\n", p.Name, p.Radius, marker)
	}
	fmt.Fprintf(&sb, "Bit lengths: %s (default %d)\n", joinInts(v.BitLengths), v.Defaults.BitLength)
	fmt.Fprintf(&sb, "Similarity thresholds: %s (default %s)\n",
		joinFloats(v.SimilarityThresholds), export.FormatFloat(v.Defaults.SimilarityThreshold))
	fmt.Fprintf(&sb, "Activity difference thresholds: %s (default %s)",
		joinFloats(v.ActivityDifferenceThresholds), export.FormatFloat(v.Defaults.ActivityDifferenceThreshold))
	return sb.String()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}

func joinFloats(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = export.FormatFloat(x)
	}
	return strings.Join(parts, ", ")
}

//Personal.AI order the ending
