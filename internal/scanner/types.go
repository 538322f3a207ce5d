// Package scanner enumerates the files of a tree that git would not ignore.
// Traversal is lazy and pull-based: nothing is read until the caller asks
// for the next entry, and stopping early stops all further reads.
package scanner

import (
	"io/fs"

	"github.com/Aman-CERP/gitglob/internal/gitignore"
)

// Entry is one non-ignored path found during a walk.
type Entry struct {
	Path string      `json:"path"` // relative to the walk root, slash-separated
	Type fs.FileMode `json:"-"`    // type bits only, as reported by the directory listing
}

// IsDir reports whether the entry is a directory. Walks only yield
// directories in non-recursive listings.
func (e Entry) IsDir() bool { return e.Type.IsDir() }

// IsSymlink reports whether the entry is a symbolic link. Links are never
// followed.
func (e Entry) IsSymlink() bool { return e.Type&fs.ModeSymlink != 0 }

// Kind names the entry type for display: "file", "dir", "symlink" or
// "other".
func (e Entry) Kind() string {
	switch {
	case e.IsDir():
		return "dir"
	case e.IsSymlink():
		return "symlink"
	case e.Type.IsRegular():
		return "file"
	default:
		return "other"
	}
}

// Options configures a walk.
type Options struct {
	// Root is the absolute directory to walk.
	Root string

	// Pattern is an optional doublestar glob matched against each
	// root-relative file path. Empty yields every non-ignored file.
	Pattern string

	// EagerRules loads every .gitignore under Root before walking instead of
	// picking each one up as its directory is entered. Both produce the
	// same entries; eager mode reads ignore files inside excluded
	// directories too.
	EagerRules bool

	// Collect selects the extra ignore sources (excludes files, git
	// excludes, repository boundary).
	Collect gitignore.CollectOptions
}

// ListOptions configures List.
type ListOptions struct {
	Options

	// Recursive lists every non-ignored file below the directory. Otherwise
	// only its direct, non-ignored children (files and directories) are
	// returned.
	Recursive bool
}

// ScanResult is returned from the Scan channel.
type ScanResult struct {
	Entry Entry
	Error error
}
