// Command similactrail runs pairwise similarity and activity-cliff analyses
// from the command line.
package main

import (
	"os"

	"github.com/turtacn/SimilACTrail/internal/interfaces/cli"
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// Execute prints the error itself.
	if err := cli.Execute(); err != nil {
		if errors.IsValidation(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

//Personal.AI order the ending
