package cmd

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/gitglob/internal/preflight"
)

var errChecksFailed = errors.New("system check failed")

func newDoctorCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment and diagnose issues",
		Long: `Run diagnostics to ensure gitglob can operate on the working directory.

Checks:
  - Directory readable
  - Configuration loads and validates
  - Every applicable .gitignore is readable
  - Global git excludes file (core.excludesFile)
  - File descriptor limits (1024 minimum)
  - inotify watch capacity for 'gitglob watch' (Linux)

Use --verbose for detailed diagnostic information.
Use --json for machine-readable output.`,
		Example: `  # Run diagnostics
  gitglob doctor

  # Verbose output with details
  gitglob doctor --verbose

  # JSON output for scripting
  gitglob doctor --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed diagnostic info")

	return cmd
}

func runDoctor(cmd *cobra.Command, verbose bool) error {
	root, err := projectDir()
	if err != nil {
		return err
	}

	checker := preflight.New(
		preflight.WithVerbose(verbose),
		preflight.WithOutput(cmd.OutOrStdout()),
	)
	results := checker.RunAll(cmd.Context(), root)

	if jsonOutput {
		if err := outputDoctorJSON(cmd, checker, results); err != nil {
			return err
		}
	} else {
		checker.PrintResults(results)
	}

	if checker.HasCriticalFailures(results) {
		return errChecksFailed
	}
	return nil
}

// DoctorJSON is the structure for JSON output.
type DoctorJSON struct {
	Status   string            `json:"status"`
	Checks   []DoctorCheckJSON `json:"checks"`
	Warnings []string          `json:"warnings,omitempty"`
	Errors   []string          `json:"errors,omitempty"`
}

// DoctorCheckJSON is a single check result for JSON output.
type DoctorCheckJSON struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Required bool   `json:"required"`
	Details  string `json:"details,omitempty"`
}

func outputDoctorJSON(cmd *cobra.Command, checker *preflight.Checker, results []preflight.CheckResult) error {
	out := DoctorJSON{
		Status: checker.SummaryStatus(results),
		Checks: make([]DoctorCheckJSON, len(results)),
	}

	for i, r := range results {
		out.Checks[i] = DoctorCheckJSON{
			Name:     r.Name,
			Status:   r.Status.String(),
			Message:  r.Message,
			Required: r.Required,
			Details:  r.Details,
		}
		switch {
		case r.IsCritical():
			out.Errors = append(out.Errors, r.Name+": "+r.Message)
		case r.Status != preflight.StatusPass:
			out.Warnings = append(out.Warnings, r.Name+": "+r.Message)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
