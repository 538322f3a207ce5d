package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/Aman-CERP/gitglob/internal/fsys"
	"github.com/Aman-CERP/gitglob/internal/gitignore"
)

// List materializes the non-ignored entries of dir, sorted by path. Paths
// are relative to dir. opts.Root is ignored; dir takes its place.
func (s *Scanner) List(ctx context.Context, dir string, opts ListOptions) ([]Entry, error) {
	walk := opts.Options
	walk.Root = dir

	if opts.Recursive {
		var out []Entry
		for e, err := range s.Walk(ctx, walk) {
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		sortEntries(out)
		return out, nil
	}

	return s.listShallow(ctx, walk)
}

// listShallow decides each direct child of opts.Root, keeping non-ignored
// directories as well as files.
func (s *Scanner) listShallow(ctx context.Context, opts Options) ([]Entry, error) {
	if ok, err := s.loader.FS().Exists(opts.Root); err != nil || !ok {
		if err == nil {
			err = fs.ErrNotExist
		}
		return nil, fmt.Errorf("list %s: %w", opts.Root, err)
	}

	rules, err := gitignore.Collect(ctx, s.loader, opts.Root, opts.Collect)
	if err != nil {
		return nil, err
	}
	if gitignore.NewEvaluator(rules).Evaluate(opts.Root, true).Excluded {
		return nil, nil
	}

	entries, err := s.readDir(opts.Root)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, e := range entries {
		name := e.Name()
		if name == ".git" {
			continue
		}
		candidate := name
		if e.IsDir() {
			candidate += "/"
		}
		if rules.Decide(candidate, nil).Excluded {
			continue
		}
		if opts.Pattern != "" && !matchPattern(opts.Pattern, name) {
			continue
		}
		out = append(out, Entry{Path: name, Type: e.Type()})
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Path, b.Path) })
}

// Abs resolves an entry path against the directory it was listed from.
func Abs(dir string, e Entry) string {
	return fsys.Join(dir, e.Path)
}
