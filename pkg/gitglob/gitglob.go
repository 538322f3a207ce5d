// Package gitglob enumerates the files of a directory tree that git would
// not ignore.
//
// Every .gitignore from the filesystem root down to the search directory is
// honoured, as is each nested .gitignore once the walk enters its directory.
// Rules follow git's semantics: later rules override earlier ones, a rule
// ending in "/" matches directories only, a leading "/" anchors a rule to
// its file's directory, and once a directory is excluded nothing beneath it
// can be re-included.
//
// The package-level functions build a fresh Client per call. Long-running
// callers that enumerate the same tree repeatedly should hold a Client with
// a rule cache instead.
package gitglob

import (
	"context"
	"iter"
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/spf13/afero"

	ggerrors "github.com/Aman-CERP/gitglob/internal/errors"
	"github.com/Aman-CERP/gitglob/internal/fsys"
	"github.com/Aman-CERP/gitglob/internal/gitignore"
	"github.com/Aman-CERP/gitglob/internal/scanner"
)

// FS is the filesystem capability gitglob reads through: read a file, list
// a directory with entry types, and probe for existence. Paths are absolute
// and slash-separated.
type FS = fsys.FS

// Entry is a non-ignored path with its type bits.
type Entry = scanner.Entry

// Reason explains which rule decided a path.
type Reason = gitignore.Reason

// GitEnv locates the user's git configuration for GitExcludes.
type GitEnv = gitignore.GitEnv

// OSFS returns the real filesystem.
func OSFS() FS { return fsys.OS() }

// FromAfero adapts an afero filesystem, such as afero.NewMemMapFs().
func FromAfero(fs afero.Fs) FS { return fsys.FromAfero(fs) }

// FromBilly adapts a go-billy filesystem, such as memfs.New() or a
// worktree filesystem.
func FromBilly(fs billy.Filesystem) FS { return fsys.FromBilly(fs) }

// Options configures a Client.
type Options struct {
	// Cwd is the directory searched and the base for relative paths.
	// Defaults to the process working directory.
	Cwd string

	// FS defaults to the OS filesystem.
	FS FS

	// ExcludesFiles are extra ignore files applied as if they sat in Cwd,
	// ranked below every .gitignore. Relative paths resolve against Cwd.
	ExcludesFiles []string

	// GitExcludes also applies the user's core.excludesFile and the
	// enclosing repository's .git/info/exclude.
	GitExcludes bool

	// GitEnv overrides where git configuration is read from.
	GitEnv *GitEnv

	// StopAtRepository stops the upward .gitignore search at the first
	// directory containing .git.
	StopAtRepository bool

	// CacheSize enables a cache of parsed ignore files holding up to this
	// many entries. Zero disables caching.
	CacheSize int
}

// Client enumerates files under one configuration. A Client is safe for
// concurrent use.
type Client struct {
	cwd     string
	collect gitignore.CollectOptions
	scanner *scanner.Scanner
}

// New creates a Client, resolving the Options defaults.
func New(opts Options) (*Client, error) {
	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, ggerrors.New(ggerrors.ErrCodeInvalidPath, "cannot determine working directory", err)
		}
		cwd = wd
	}
	if !filepath.IsAbs(cwd) && !path.IsAbs(filepath.ToSlash(cwd)) {
		abs, err := filepath.Abs(cwd)
		if err != nil {
			return nil, ggerrors.New(ggerrors.ErrCodeInvalidPath, "cannot resolve "+cwd, err)
		}
		cwd = abs
	}
	cwd = fsys.Clean("/", cwd)

	fs := opts.FS
	if fs == nil {
		fs = fsys.OS()
	}

	var loaderOpts []gitignore.LoaderOption
	if opts.CacheSize > 0 {
		loaderOpts = append(loaderOpts, gitignore.WithCache(opts.CacheSize))
	}
	loader, err := gitignore.NewLoader(fs, loaderOpts...)
	if err != nil {
		return nil, ggerrors.InternalError("create ignore file loader", err)
	}

	excludes := make([]string, len(opts.ExcludesFiles))
	for i, f := range opts.ExcludesFiles {
		excludes[i] = fsys.Clean(cwd, f)
	}

	return &Client{
		cwd: cwd,
		collect: gitignore.CollectOptions{
			ExcludesFiles: excludes,
			ExcludesScope: cwd,
			GitExcludes:   opts.GitExcludes,
			GitEnv:        opts.GitEnv,
			LocateOptions: gitignore.LocateOptions{StopAtRepository: opts.StopAtRepository},
		},
		scanner: scanner.New(loader),
	}, nil
}

// Cwd returns the resolved working directory.
func (c *Client) Cwd() string { return c.cwd }

// FS returns the filesystem the Client reads through.
func (c *Client) FS() FS { return c.scanner.Loader().FS() }

// Invalidate drops the cached rules of one ignore file so the next call
// re-reads it.
func (c *Client) Invalidate(name string) {
	c.scanner.Loader().Invalidate(c.abs(name))
}

// GlobEntries yields the non-ignored files under Cwd whose Cwd-relative path
// matches pattern. A malformed pattern is yielded as an
// ERR_402_INVALID_PATTERN error.
func (c *Client) GlobEntries(ctx context.Context, pattern string) iter.Seq2[Entry, error] {
	return c.walk(ctx, scanner.Options{Root: c.cwd, Pattern: pattern, Collect: c.collect})
}

// Glob is GlobEntries reduced to paths.
func (c *Client) Glob(ctx context.Context, pattern string) iter.Seq2[string, error] {
	return paths(c.GlobEntries(ctx, pattern))
}

// WalkEntries yields every non-ignored file under Cwd.
func (c *Client) WalkEntries(ctx context.Context) iter.Seq2[Entry, error] {
	return c.walk(ctx, scanner.Options{Root: c.cwd, Collect: c.collect})
}

// Walk is WalkEntries reduced to paths.
func (c *Client) Walk(ctx context.Context) iter.Seq2[string, error] {
	return paths(c.WalkEntries(ctx))
}

func (c *Client) walk(ctx context.Context, opts scanner.Options) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for e, err := range c.scanner.Walk(ctx, opts) {
			if err != nil {
				yield(Entry{}, ggerrors.FromIO(opts.Root, err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// ListEntries returns the non-ignored entries of dir sorted by path, with
// paths relative to dir. Without recursive only direct children are listed,
// directories included.
func (c *Client) ListEntries(ctx context.Context, dir string, recursive bool) ([]Entry, error) {
	abs := c.abs(dir)
	entries, err := c.scanner.List(ctx, abs, scanner.ListOptions{
		Options:   scanner.Options{Collect: c.collect},
		Recursive: recursive,
	})
	if err != nil {
		return nil, ggerrors.FromIO(abs, err)
	}
	return entries, nil
}

// List is ListEntries reduced to paths.
func (c *Client) List(ctx context.Context, dir string, recursive bool) ([]string, error) {
	entries, err := c.ListEntries(ctx, dir, recursive)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out, nil
}

// LocateGitignoreFiles returns the .gitignore files in startDir and its
// ancestors, outermost first.
func (c *Client) LocateGitignoreFiles(startDir string) ([]string, error) {
	abs := c.abs(startDir)
	found, err := gitignore.FindUpward(c.scanner.Loader().FS(), abs, c.collect.LocateOptions)
	if err != nil {
		return nil, ggerrors.FromIO(abs, err)
	}
	return found, nil
}

// TranslateGitignoreFile returns the globs each rule of an ignore file
// stands for, relative to Cwd, negations prefixed with "!". A missing file
// yields none.
func (c *Client) TranslateGitignoreFile(name string) ([]string, error) {
	abs := c.abs(name)
	scope, _ := fsys.Parent(abs)
	rules, err := c.scanner.Loader().Load(abs, scope)
	if err != nil {
		return nil, ggerrors.FromIO(abs, err)
	}
	var out []string
	for _, r := range rules {
		out = append(out, gitignore.Patterns(r, c.cwd)...)
	}
	return out, nil
}

// ExplainIgnoreReason reports the rule that decides path, resolved against
// Cwd. It returns nil when no rule applies. A path re-included by a
// negation has a Reason with Ignored false.
func (c *Client) ExplainIgnoreReason(ctx context.Context, p string) (*Reason, error) {
	r, err := gitignore.Explain(ctx, c.scanner.Loader(), p, c.cwd, c.collect)
	if err != nil {
		return nil, ggerrors.FromIO(c.abs(p), err)
	}
	return r, nil
}

func (c *Client) abs(p string) string {
	if p == "" {
		return c.cwd
	}
	return fsys.Clean(c.cwd, p)
}

func paths(seq iter.Seq2[Entry, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for e, err := range seq {
			if !yield(e.Path, err) {
				return
			}
		}
	}
}

// FormatReason renders r the way `git check-ignore -v` does:
// "<source>:<line>:<pattern>\t<path>". It returns "" for nil.
func FormatReason(r *Reason) string {
	if r == nil {
		return ""
	}
	return r.String()
}

// Glob yields the non-ignored files matching pattern under opts.Cwd.
func Glob(ctx context.Context, pattern string, opts Options) iter.Seq2[string, error] {
	return paths(GlobEntries(ctx, pattern, opts))
}

// GlobEntries is Glob with entry types.
func GlobEntries(ctx context.Context, pattern string, opts Options) iter.Seq2[Entry, error] {
	c, err := New(opts)
	if err != nil {
		return failed[Entry](err)
	}
	return c.GlobEntries(ctx, pattern)
}

// Walk yields every non-ignored file under opts.Cwd.
func Walk(ctx context.Context, opts Options) iter.Seq2[string, error] {
	return paths(WalkEntries(ctx, opts))
}

// WalkEntries is Walk with entry types.
func WalkEntries(ctx context.Context, opts Options) iter.Seq2[Entry, error] {
	c, err := New(opts)
	if err != nil {
		return failed[Entry](err)
	}
	return c.WalkEntries(ctx)
}

// List returns the sorted non-ignored entries of dir.
func List(ctx context.Context, dir string, recursive bool, opts Options) ([]string, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	return c.List(ctx, dir, recursive)
}

// ListEntries is List with entry types.
func ListEntries(ctx context.Context, dir string, recursive bool, opts Options) ([]Entry, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	return c.ListEntries(ctx, dir, recursive)
}

// LocateGitignoreFiles returns the .gitignore files from the filesystem
// root (or the enclosing repository with StopAtRepository) down to
// startDir.
func LocateGitignoreFiles(startDir string, opts Options) ([]string, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	return c.LocateGitignoreFiles(startDir)
}

// TranslateGitignoreFile returns the normalized globs of an ignore file.
func TranslateGitignoreFile(name string, opts Options) ([]string, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	return c.TranslateGitignoreFile(name)
}

// ExplainIgnoreReason reports the rule deciding path relative to cwd.
func ExplainIgnoreReason(ctx context.Context, p, cwd string, opts Options) (*Reason, error) {
	if cwd != "" {
		opts.Cwd = cwd
	}
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	return c.ExplainIgnoreReason(ctx, p)
}

func failed[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}
