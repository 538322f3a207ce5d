package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	ggerrors "github.com/Aman-CERP/gitglob/internal/errors"
	"github.com/Aman-CERP/gitglob/internal/logging"
	"github.com/Aman-CERP/gitglob/internal/ui"
)

type logsOptions struct {
	follow  bool
	lines   int
	level   string
	filter  string
	noColor bool
	logFile string
}

func newLogsCmd() *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View gitglob debug logs",
		Long: `View and tail the log written by --debug and by 'gitglob serve'.

By default, shows the last 50 lines. Use -f to follow new entries in
real time (like 'tail -f').`,
		Example: `  gitglob logs                  # Last 50 lines
  gitglob logs -n 200           # Last 200 lines
  gitglob logs -f               # Follow
  gitglob logs --level warn     # Warnings and errors only
  gitglob logs --filter reconcil`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&opts.level, "level", "", "Minimum level shown (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Show only lines matching this regular expression")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&opts.logFile, "file", "", "Log file to read (default: ~/.gitglob/logs/gitglob.log)")

	return cmd
}

func runLogs(cmd *cobra.Command, opts logsOptions) error {
	if opts.lines < 0 {
		return ggerrors.ValidationError(fmt.Sprintf("--lines must be non-negative, got %d", opts.lines), nil)
	}
	if opts.level != "" && !logging.ValidLevel(opts.level) {
		return ggerrors.ValidationError("--level must be one of debug, info, warn, error", nil).
			WithDetail("level", opts.level)
	}
	var pattern *regexp.Regexp
	if opts.filter != "" {
		p, err := regexp.Compile(opts.filter)
		if err != nil {
			return ggerrors.ValidationError("invalid --filter pattern", err)
		}
		pattern = p
	}

	path, err := logging.FindLogFile(opts.logFile)
	if err != nil {
		return ggerrors.New(ggerrors.ErrCodeFileNotFound, err.Error(), err)
	}

	out := cmd.OutOrStdout()
	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:   opts.level,
		Pattern: pattern,
		NoColor: opts.noColor || !ui.UseColor(out),
	}, out)

	stderr := cmd.ErrOrStderr()
	_, _ = fmt.Fprintf(stderr, "Log file: %s\n", path)
	if !opts.follow {
		entries, err := viewer.Tail(path, opts.lines)
		if err != nil {
			return ggerrors.FromIO(path, err)
		}
		viewer.Print(entries)
		return nil
	}

	_, _ = fmt.Fprintln(stderr, "Following... (Ctrl+C to stop)")
	ctx := cmd.Context()
	entries := make(chan logging.LogEntry, 100)
	errCh := make(chan error, 1)
	go func() {
		errCh <- viewer.Follow(ctx, path, entries)
	}()

	for {
		select {
		case entry := <-entries:
			_, _ = fmt.Fprintln(out, viewer.FormatEntry(entry))
		case err := <-errCh:
			return err
		}
	}
}
