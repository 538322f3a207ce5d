package preflight

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/gitglob/internal/config"
	"github.com/Aman-CERP/gitglob/internal/fsys"
	"github.com/Aman-CERP/gitglob/internal/gitignore"
)

// CheckStatus represents the result of a preflight check.
type CheckStatus int

const (
	// StatusPass indicates the check passed successfully.
	StatusPass CheckStatus = iota
	// StatusWarn indicates a non-critical warning.
	StatusWarn
	// StatusFail indicates the check failed.
	StatusFail
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// CheckResult holds the result of a single preflight check.
type CheckResult struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Message  string      `json:"message"`
	Details  string      `json:"details,omitempty"`
	Required bool        `json:"required"`
}

// IsCritical returns true if this is a required check that failed.
func (r CheckResult) IsCritical() bool {
	return r.Required && r.Status == StatusFail
}

// Checker performs preflight validation checks.
type Checker struct {
	verbose  bool
	output   io.Writer
	fs       fsys.FS
	gitEnv   gitignore.GitEnv
	procRoot string
}

// Option configures a Checker.
type Option func(*Checker)

// WithVerbose enables verbose output.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.output = w
	}
}

// WithGitEnv overrides where git configuration is read from.
func WithGitEnv(env gitignore.GitEnv) Option {
	return func(c *Checker) {
		c.gitEnv = env
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		output:   os.Stdout,
		fs:       fsys.OS(),
		gitEnv:   gitignore.DefaultGitEnv(),
		procRoot: "/proc",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunAll runs all preflight checks against the project in projectPath.
func (c *Checker) RunAll(ctx context.Context, projectPath string) []CheckResult {
	var results []CheckResult

	results = append(results, c.CheckDirectory(projectPath))
	results = append(results, c.CheckConfig(projectPath))
	results = append(results, c.CheckIgnoreFiles(ctx, projectPath))
	results = append(results, c.CheckGitExcludes())
	results = append(results, c.CheckFileDescriptors())
	results = append(results, c.CheckInotifyWatches(ctx, projectPath))

	return results
}

// HasCriticalFailures returns true if any required check failed.
func (c *Checker) HasCriticalFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.IsCritical() {
			return true
		}
	}
	return false
}

// SummaryStatus returns a summary status string for the results.
func (c *Checker) SummaryStatus(results []CheckResult) string {
	hasWarnings := false
	hasCriticalFailure := false

	for _, r := range results {
		if r.IsCritical() {
			hasCriticalFailure = true
		}
		if r.Status == StatusWarn || (r.Status == StatusFail && !r.Required) {
			hasWarnings = true
		}
	}

	if hasCriticalFailure {
		return "failed"
	}
	if hasWarnings {
		return "ready_with_warnings"
	}
	return "ready"
}

// PrintResults prints check results to the configured output.
func (c *Checker) PrintResults(results []CheckResult) {
	_, _ = fmt.Fprintln(c.output, "gitglob System Check")
	_, _ = fmt.Fprintln(c.output, "====================")
	_, _ = fmt.Fprintln(c.output)

	for _, r := range results {
		_, _ = fmt.Fprintf(c.output, "[%s] %s: %s\n", r.Status, r.Name, r.Message)
		if c.verbose && r.Details != "" {
			_, _ = fmt.Fprintf(c.output, "      %s\n", r.Details)
		}
	}

	_, _ = fmt.Fprintln(c.output)
	_, _ = fmt.Fprintf(c.output, "Status: %s\n", strings.ToUpper(c.SummaryStatus(results)))

	var warnings, errors []string
	for _, r := range results {
		if r.IsCritical() {
			errors = append(errors, r.Name+": "+r.Message)
		} else if r.Status != StatusPass {
			warnings = append(warnings, r.Name+": "+r.Message)
		}
	}
	printIssues(c.output, "error(s)", errors)
	printIssues(c.output, "warning(s)", warnings)
}

func printIssues(w io.Writer, label string, issues []string) {
	if len(issues) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%d %s:\n", len(issues), label)
	for _, issue := range issues {
		_, _ = fmt.Fprintf(w, "  - %s\n", issue)
	}
}

// CheckDirectory checks that the project directory can be listed.
func (c *Checker) CheckDirectory(path string) CheckResult {
	result := CheckResult{
		Name:     "directory",
		Required: true,
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot read %s: %v", path, err)
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%s (%d entries)", path, len(entries))
	return result
}

// CheckConfig checks that the configuration for the project loads.
func (c *Checker) CheckConfig(path string) CheckResult {
	result := CheckResult{
		Name:     "configuration",
		Required: true,
	}

	cfg, err := config.Load(path)
	if err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		result.Details = "Run 'gitglob config show --source user' to inspect the user config"
		return result
	}

	sources := []string{"defaults"}
	if config.UserConfigExists() {
		sources = append(sources, config.GetUserConfigPath())
	}
	if p := config.ProjectConfigPath(path); p != "" {
		sources = append(sources, p)
	}
	result.Status = StatusPass
	result.Message = "OK"
	result.Details = fmt.Sprintf("sources: %s; log level %s; cache %d",
		strings.Join(sources, ", "), cfg.Log.Level, cfg.Cache.Size)
	return result
}

// CheckIgnoreFiles reads every .gitignore that applies to the project,
// above and below it. Unreadable files are skipped by enumeration, so they
// warn rather than fail.
func (c *Checker) CheckIgnoreFiles(ctx context.Context, path string) CheckResult {
	result := CheckResult{
		Name: "ignore_files",
	}

	root := fsys.Clean("/", filepath.ToSlash(path))
	upward, err := gitignore.FindUpward(c.fs, root, gitignore.LocateOptions{})
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("failed to locate .gitignore files: %v", err)
		return result
	}
	downward, err := gitignore.FindDownward(ctx, c.fs, root)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("failed to scan for .gitignore files: %v", err)
		return result
	}

	seen := make(map[string]bool)
	var unreadable []string
	files, rules := 0, 0
	for _, name := range append(upward, downward...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		data, err := c.fs.ReadFile(name)
		if err != nil {
			unreadable = append(unreadable, name)
			continue
		}
		scope, _ := fsys.Parent(name)
		files++
		rules += len(gitignore.ParseRules(data, scope, name))
	}

	result.Message = fmt.Sprintf("%d files, %d rules", files, rules)
	if len(unreadable) > 0 {
		result.Status = StatusWarn
		result.Message += fmt.Sprintf(", %d unreadable", len(unreadable))
		result.Details = "Unreadable: " + strings.Join(unreadable, ", ")
		return result
	}
	result.Status = StatusPass
	return result
}

// CheckGitExcludes resolves core.excludesFile for --git-excludes.
func (c *Checker) CheckGitExcludes() CheckResult {
	result := CheckResult{
		Name: "git_excludes",
	}

	path := gitignore.GlobalExcludesFile(c.fs, c.gitEnv)
	ok, err := c.fs.Exists(path)
	switch {
	case err != nil:
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("cannot check %s: %v", path, err)
	case !ok:
		result.Status = StatusPass
		result.Message = "no global excludes file"
		result.Details = "Looked for " + path
	default:
		data, err := c.fs.ReadFile(path)
		if err != nil {
			result.Status = StatusWarn
			result.Message = fmt.Sprintf("cannot read %s: %v", path, err)
			return result
		}
		scope, _ := fsys.Parent(path)
		result.Status = StatusPass
		result.Message = fmt.Sprintf("%s (%d rules)", path, len(gitignore.ParseRules(data, scope, path)))
	}
	return result
}
