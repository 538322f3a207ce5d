package gitignore

import (
	"context"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"slices"
	"strings"

	"github.com/Aman-CERP/gitglob/internal/fsys"
)

// LocateOptions tunes upward discovery.
type LocateOptions struct {
	// StopAtRepository ends the climb at the first directory holding a .git
	// entry. By default the search runs to the filesystem root.
	StopAtRepository bool
}

// FindUpward returns the .gitignore files in startDir and each of its
// ancestors, outermost first. Missing files are skipped.
func FindUpward(fs fsys.FS, startDir string, opts LocateOptions) ([]string, error) {
	var found []string
	dir := startDir
	for {
		candidate := fsys.Join(dir, FileName)
		ok, err := fs.Exists(candidate)
		switch {
		case err != nil && fsys.IsPermission(err):
			slog.Debug("gitignore probe denied", slog.String("path", candidate))
		case err != nil:
			return nil, fmt.Errorf("probe %s: %w", candidate, err)
		case ok:
			found = append(found, candidate)
		}

		if opts.StopAtRepository {
			if isRepo, _ := fs.Exists(fsys.Join(dir, ".git")); isRepo {
				break
			}
		}

		parent, ok := fsys.Parent(dir)
		if !ok {
			break
		}
		dir = parent
	}

	slices.Reverse(found)
	return found, nil
}

// FindDownward collects every .gitignore at or below root in depth-first,
// name-sorted order. .git directories are not entered and unreadable
// directories are skipped.
func FindDownward(ctx context.Context, fs fsys.FS, root string) ([]string, error) {
	var found []string
	stack := []string{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := fs.ReadDir(dir)
		if err != nil {
			if fsys.IsPermission(err) || fsys.IsNotExist(err) {
				slog.Debug("skipping unreadable directory", slog.String("path", dir), slog.String("error", err.Error()))
				continue
			}
			return nil, fmt.Errorf("read directory %s: %w", dir, err)
		}
		slices.SortFunc(entries, func(a, b iofs.DirEntry) int { return strings.Compare(a.Name(), b.Name()) })

		var subdirs []string
		for _, e := range entries {
			switch {
			case e.IsDir() && e.Name() != ".git":
				subdirs = append(subdirs, fsys.Join(dir, e.Name()))
			case !e.IsDir() && e.Name() == FileName:
				found = append(found, fsys.Join(dir, e.Name()))
			}
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return found, nil
}
