package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// tableProvider is implemented by results that have a tabular form.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

type printer func(w io.Writer, data interface{}) error

var printers = map[string]printer{
	"json":  printJSON,
	"table": printTable,
	"text":  printText,
}

// PrintResult writes data in the --output format.  Outside a command tree it
// falls back to JSON.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := "json"
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}
	p, ok := printers[format]
	if !ok {
		p = printText
	}
	return p(cmd.OutOrStdout(), data)
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(w io.Writer, data interface{}) error {
	var err error
	switch v := data.(type) {
	case string:
		_, err = fmt.Fprintln(w, v)
	case fmt.Stringer:
		_, err = fmt.Fprintln(w, v.String())
	default:
		_, err = fmt.Fprintf(w, "%+v\n", v)
	}
	return err
}

func printTable(w io.Writer, data interface{}) error {
	tp, ok := data.(tableProvider)
	if !ok {
		return printText(w, data)
	}
	_, err := io.WriteString(w, FormatTable(tp.TableHeaders(), tp.TableRows()))
	return err
}

// PrintError writes err to stderr.  An AppError prints its code, then its
// detail on a second line.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	w := cmd.ErrOrStderr()
	var ae *errors.AppError
	if !errors.As(err, &ae) {
		fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)
		return
	}
	fmt.Fprintf(w, "%s %s (%s)\n", color.RedString("Error:"), ae.Message, ae.Code)
	if ae.Detail != "" {
		fmt.Fprintf(w, "  %s\n", color.New(color.Faint).Sprint(ae.Detail))
	}
	if ae.Cause != nil {
		fmt.Fprintf(w, "  caused by: %v\n", ae.Cause)
	}
}

// FormatTable renders rows under headers; short rows are padded with
// empty cells.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)
		table.Append(cells)
	}
	table.Render()
	return sb.String()
}

//Personal.AI order the ending
