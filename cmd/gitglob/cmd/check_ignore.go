package cmd

import (
	"bufio"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	ggerrors "github.com/Aman-CERP/gitglob/internal/errors"
	"github.com/Aman-CERP/gitglob/internal/gitignore"
	"github.com/Aman-CERP/gitglob/internal/ui"
)

func newCheckIgnoreCmd() *cobra.Command {
	var (
		verbose     bool
		nonMatching bool
		stdin       bool
	)

	cmd := &cobra.Command{
		Use:   "check-ignore [path...]",
		Short: "Explain which rule ignores a path",
		Long: `For each path, print it if it is ignored. With --verbose print the rule
that decided it instead, as "<source>:<line>:<pattern>\t<path>", including
rules that re-include the path.

Exit status is 0 when a path matched a rule, 1 when none did.`,
		Example: `  gitglob check-ignore build/out.js
  gitglob check-ignore -v -n src/main.go debug.log
  git ls-files -o | gitglob check-ignore --stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if stdin {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if line := strings.TrimSpace(sc.Text()); line != "" {
						paths = append(paths, line)
					}
				}
				if err := sc.Err(); err != nil {
					return ggerrors.IOError("failed to read paths from stdin", err)
				}
			}
			if len(paths) == 0 {
				return ggerrors.ValidationError("no path specified", nil).
					WithSuggestion("Pass paths as arguments or use --stdin")
			}
			if nonMatching && !verbose {
				return ggerrors.ValidationError("--non-matching is only valid with --verbose", nil)
			}
			return runCheckIgnore(cmd, paths, verbose, nonMatching)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the deciding rule for each path")
	cmd.Flags().BoolVarP(&nonMatching, "non-matching", "n", false, "Also print paths no rule decided")
	cmd.Flags().BoolVar(&stdin, "stdin", false, "Read paths from stdin, one per line")

	return cmd
}

func runCheckIgnore(cmd *cobra.Command, paths []string, verbose, nonMatching bool) error {
	client, _, err := newClient(cmd, false)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	reasons := make([]*gitignore.Reason, len(paths))
	for i, p := range paths {
		r, err := client.ExplainIgnoreReason(ctx, p)
		if err != nil {
			return err
		}
		reasons[i] = r
	}

	out := cmd.OutOrStdout()
	r := ui.NewReasonRenderer(out, !ui.UseColor(out))

	if jsonOutput {
		if err := r.RenderJSON(paths, reasons); err != nil {
			return err
		}
	} else {
		for i, p := range paths {
			r.Render(p, reasons[i], verbose, nonMatching)
		}
	}

	// Like git, a re-including rule counts as a match only in verbose mode
	matched := slices.ContainsFunc(reasons, func(reason *gitignore.Reason) bool {
		return reason != nil && (reason.Ignored || verbose)
	})

	if !matched {
		return errNoMatch
	}
	return nil
}
