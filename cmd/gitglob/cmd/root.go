// Package cmd provides the CLI commands for gitglob.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/gitglob/internal/config"
	ggerrors "github.com/Aman-CERP/gitglob/internal/errors"
	"github.com/Aman-CERP/gitglob/internal/logging"
	"github.com/Aman-CERP/gitglob/internal/output"
	"github.com/Aman-CERP/gitglob/internal/profiling"
	"github.com/Aman-CERP/gitglob/pkg/gitglob"
	"github.com/Aman-CERP/gitglob/pkg/version"
)

// errNoMatch ends check-ignore with exit status 1 and no message.
var errNoMatch = errors.New("no path matched")

// Global flags
var (
	cwdFlag        string
	typesOutput    bool
	jsonOutput     bool
	excludeFrom    []string
	gitExcludes    bool
	stopAtRepo     bool
	debugMode      bool
	profileOpts    profiling.Options
	profile        *profiling.Session
	loggingCleanup func()
)

// NewRootCmd creates the root command for the gitglob CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitglob",
		Short: "List the files git would not ignore",
		Long: `gitglob enumerates the files under a directory that git would not ignore.

Every .gitignore from the filesystem root down to the working directory is
honoured, as is each nested .gitignore once the walk enters its directory.
Later rules override earlier ones, and once a directory is excluded nothing
beneath it can be re-included.`,
		Example: `  # Every non-ignored Go file
  gitglob glob '**/*.go'

  # Why is a path ignored?
  gitglob check-ignore -v build/out.js`,
		Version:       version.Short(),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetVersionTemplate("gitglob version {{.Version}}\n")

	resetGlobalFlags()
	pf := cmd.PersistentFlags()
	pf.StringVarP(&cwdFlag, "cwd", "C", "", "Directory to search (default: working directory)")
	pf.BoolVar(&typesOutput, "types", false, "Print the entry type before each path")
	pf.BoolVar(&jsonOutput, "json", false, "Print JSON output")
	pf.StringArrayVar(&excludeFrom, "exclude-from", nil, "Extra ignore file applied at the search root (repeatable)")
	pf.BoolVar(&gitExcludes, "git-excludes", false, "Also apply core.excludesFile and .git/info/exclude")
	pf.BoolVar(&stopAtRepo, "stop-at-repo", false, "Stop the upward .gitignore search at the enclosing repository")
	pf.BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.gitglob/logs/")
	pf.StringVar(&profileOpts.CPU, "profile-cpu", "", "Write CPU profile to file")
	pf.StringVar(&profileOpts.Heap, "profile-mem", "", "Write memory profile to file")
	pf.StringVar(&profileOpts.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newGlobCmd())
	cmd.AddCommand(newWalkCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newLocateCmd())
	cmd.AddCommand(newTranslateCmd())
	cmd.AddCommand(newCheckIgnoreCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func resetGlobalFlags() {
	cwdFlag = ""
	typesOutput, jsonOutput = false, false
	excludeFrom = nil
	gitExcludes, stopAtRepo, debugMode = false, false, false
	profileOpts = profiling.Options{}
}

// startProfilingAndLogging starts profiling and installs the logger. Without
// --debug only warnings reach stderr.
func startProfilingAndLogging(cmd *cobra.Command, _ []string) error {
	if debugMode {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Info("Debug logging enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Short()),
			slog.String("command", cmd.CommandPath()))
	} else {
		logging.SetupQuiet(cmd.ErrOrStderr(), "warn")
	}

	if profileOpts.Enabled() {
		s, err := profiling.Start(profileOpts)
		if err != nil {
			return err
		}
		profile = s
	}
	return nil
}

// stopProfilingAndLogging flushes profiles and closes the log file.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	var err error
	if profile != nil {
		err = profile.Stop()
		profile = nil
	}
	closeLogging()
	return err
}

func closeLogging() {
	if loggingCleanup != nil {
		slog.Debug("Logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
}

// Execute runs the root command and prints any error to stderr. SIGINT
// and SIGTERM cancel the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		printError(root.ErrOrStderr(), err)
	}
	// PersistentPostRunE is skipped when RunE fails
	_ = stopProfilingAndLogging(root, nil)
	return err
}

// ExitCode maps an Execute error to a process exit status: 1 when
// check-ignore matched nothing, 2 for every other failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNoMatch):
		return 1
	default:
		return 2
	}
}

func printError(w io.Writer, err error) {
	if errors.Is(err, errNoMatch) {
		return
	}
	var ge *ggerrors.GlobError
	if errors.As(err, &ge) {
		_, _ = fmt.Fprint(w, ggerrors.FormatForCLI(err))
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}

// loadConfig resolves the search directory and loads the configuration of
// its project. The quiet logger adopts the configured level.
func loadConfig(cmd *cobra.Command) (string, *config.Config, error) {
	abs, err := searchDir()
	if err != nil {
		return "", nil, err
	}
	root, err := config.FindProjectRoot(abs)
	if err != nil {
		return "", nil, missingDirError(abs, err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, ggerrors.ConfigError("failed to load configuration", err).
			WithSuggestion("Run 'gitglob config show' to inspect the effective configuration")
	}
	if !debugMode {
		logging.SetupQuiet(cmd.ErrOrStderr(), cfg.Log.Level)
	}
	return abs, cfg, nil
}

// searchDir resolves --cwd, defaulting to the working directory.
func searchDir() (string, error) {
	dir := cwdFlag
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", ggerrors.New(ggerrors.ErrCodeInvalidPath, "cannot resolve "+dir, err)
	}
	return abs, nil
}

// projectDir returns the project root enclosing the search directory.
func projectDir() (string, error) {
	abs, err := searchDir()
	if err != nil {
		return "", err
	}
	root, err := config.FindProjectRoot(abs)
	if err != nil {
		return "", missingDirError(abs, err)
	}
	return root, nil
}

func missingDirError(dir string, err error) error {
	return ggerrors.New(ggerrors.ErrCodeFileNotFound, "directory does not exist: "+dir, err).
		WithSuggestion("Check the --cwd flag")
}

// clientOptions merges the configuration with the global flags. Flags add
// to the configured sources; they never remove one. Relative --exclude-from
// paths resolve against the process working directory, like any other
// command-line path.
func clientOptions(cwd string, cfg *config.Config) gitglob.Options {
	var excludes []string
	for _, f := range cfg.Walk.ExcludesFiles {
		excludes = append(excludes, config.ExpandHome(f))
	}
	for _, f := range excludeFrom {
		f = config.ExpandHome(f)
		if abs, err := filepath.Abs(f); err == nil {
			f = abs
		}
		excludes = append(excludes, f)
	}
	return gitglob.Options{
		Cwd:              cwd,
		ExcludesFiles:    excludes,
		GitExcludes:      cfg.Walk.GitExcludes || gitExcludes,
		StopAtRepository: cfg.Walk.StopAtRepository || stopAtRepo,
	}
}

// newClient builds the Client every enumeration command uses. cached
// enables the parsed ignore file cache for long-running commands.
func newClient(cmd *cobra.Command, cached bool) (*gitglob.Client, *config.Config, error) {
	cwd, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts := clientOptions(cwd, cfg)
	if cached {
		opts.CacheSize = cfg.Cache.Size
	}
	client, err := gitglob.New(opts)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("client ready",
		slog.String("cwd", client.Cwd()),
		slog.Int("excludes_files", len(opts.ExcludesFiles)),
		slog.Bool("git_excludes", opts.GitExcludes),
		slog.Bool("stop_at_repository", opts.StopAtRepository))
	return client, cfg, nil
}

func entryWriter(cmd *cobra.Command) *output.Writer {
	return output.NewWithFormat(cmd.OutOrStdout(), output.ParseFormat(typesOutput, jsonOutput))
}
