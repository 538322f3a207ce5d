package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Aman-CERP/gitglob/internal/fsys"
	"github.com/Aman-CERP/gitglob/internal/gitignore"
)

// ErrBadPattern is returned when the search glob is malformed.
var ErrBadPattern = doublestar.ErrBadPattern

// Scanner walks trees through a gitignore Loader. A Scanner holds no
// per-walk state; concurrent walks are independent.
type Scanner struct {
	loader *gitignore.Loader
}

// New creates a Scanner reading through loader.
func New(loader *gitignore.Loader) *Scanner {
	return &Scanner{loader: loader}
}

// Loader returns the loader the scanner reads ignore files with.
func (s *Scanner) Loader() *gitignore.Loader {
	return s.loader
}

// frame is a pending directory on the walk stack.
type frame struct {
	dir   string
	rel   string
	rules gitignore.RuleSet
}

// Walk returns a single-pass sequence of the non-ignored files under
// opts.Root. Files of a directory come before its subdirectories, and
// entries within a directory are name-ordered.
//
// Unreadable directories contribute nothing. Any other read failure is
// yielded once and ends the sequence, as does cancellation of ctx.
func (s *Scanner) Walk(ctx context.Context, opts Options) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
			yield(Entry{}, fmt.Errorf("%w: %q", ErrBadPattern, opts.Pattern))
			return
		}

		root := opts.Root
		if ok, err := s.loader.FS().Exists(root); err != nil || !ok {
			if err == nil {
				err = fs.ErrNotExist
			}
			yield(Entry{}, fmt.Errorf("walk root %s: %w", root, err))
			return
		}

		collect := opts.Collect
		collect.Recursive = opts.EagerRules
		rules, err := gitignore.Collect(ctx, s.loader, root, collect)
		if err != nil {
			yield(Entry{}, err)
			return
		}

		// A root inside an ignored directory has nothing to offer.
		if gitignore.NewEvaluator(rules).Evaluate(root, true).Excluded {
			slog.Debug("walk root is ignored", slog.String("root", root))
			return
		}

		excluded := make(gitignore.ExcludedDirs)
		stack := []frame{{dir: root, rules: rules}}
		for len(stack) > 0 {
			if err := ctx.Err(); err != nil {
				yield(Entry{}, err)
				return
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			entries, err := s.readDir(f.dir)
			if err != nil {
				yield(Entry{}, err)
				return
			}

			active := f.rules
			if !opts.EagerRules && f.dir != root && hasGitignore(entries) {
				loaded, err := s.loader.Load(fsys.Join(f.dir, gitignore.FileName), f.dir)
				if err != nil {
					yield(Entry{}, err)
					return
				}
				active = active.Extend(loaded)
			}

			var subdirs []frame
			for _, e := range entries {
				name := e.Name()
				if name == ".git" {
					continue
				}
				rel := joinRel(f.rel, name)

				if e.IsDir() {
					d := active.Decide(rel+"/", excluded)
					if d.Excluded {
						excluded.Add(fsys.Join(f.dir, name), d.Rule)
						continue
					}
					subdirs = append(subdirs, frame{dir: fsys.Join(f.dir, name), rel: rel, rules: active})
					continue
				}

				if active.Decide(rel, excluded).Excluded {
					continue
				}
				if opts.Pattern != "" && !matchPattern(opts.Pattern, rel) {
					continue
				}
				if !yield(Entry{Path: rel, Type: e.Type()}, nil) {
					return
				}
			}

			for i := len(subdirs) - 1; i >= 0; i-- {
				stack = append(stack, subdirs[i])
			}
		}
	}
}

// Paths is Walk reduced to path strings.
func (s *Scanner) Paths(ctx context.Context, opts Options) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for e, err := range s.Walk(ctx, opts) {
			if !yield(e.Path, err) {
				return
			}
		}
	}
}

// Scan runs Walk on its own goroutine and streams the results. The channel
// is closed when the walk ends or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, opts Options) <-chan ScanResult {
	results := make(chan ScanResult, 64)
	go func() {
		defer close(results)
		for e, err := range s.Walk(ctx, opts) {
			select {
			case results <- ScanResult{Entry: e, Error: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return results
}

// readDir lists dir in name order. Permission failures and directories that
// vanished mid-walk read as empty.
func (s *Scanner) readDir(dir string) ([]fs.DirEntry, error) {
	entries, err := s.loader.FS().ReadDir(dir)
	if err != nil {
		if fsys.IsPermission(err) || fsys.IsNotExist(err) {
			slog.Debug("skipping unreadable directory",
				slog.String("path", dir),
				slog.String("error", err.Error()))
			return nil, nil
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int { return strings.Compare(a.Name(), b.Name()) })
	return entries, nil
}

func hasGitignore(entries []fs.DirEntry) bool {
	_, found := slices.BinarySearchFunc(entries, gitignore.FileName, func(e fs.DirEntry, name string) int {
		return strings.Compare(e.Name(), name)
	})
	return found
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func matchPattern(pattern, rel string) bool {
	ok, err := doublestar.Match(pattern, rel)
	return err == nil && ok
}
