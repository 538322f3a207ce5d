// Package fsys defines the filesystem capability the gitignore engine and the
// scanner depend on. Everything above this package reads the tree through an
// FS value passed in by the caller; nothing reaches for the host filesystem
// directly.
package fsys

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// FS is the minimal read-only surface needed to enumerate a tree and load
// its ignore files. Paths are absolute and slash-separated.
type FS interface {
	// ReadFile returns the full contents of the named file.
	ReadFile(name string) ([]byte, error)

	// ReadDir lists a directory. Entries carry their type bits without
	// following symbolic links.
	ReadDir(name string) ([]fs.DirEntry, error)

	// Exists reports whether name exists. A missing path is not an error.
	Exists(name string) (bool, error)
}

// IsPermission reports whether err is a permission failure (EACCES/EPERM).
func IsPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

// IsNotExist reports whether err means the path is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Clean normalizes p into the slash-separated absolute form used throughout
// gitglob. Relative paths are resolved against base.
func Clean(base, p string) string {
	p = filepath.ToSlash(p)
	if !path.IsAbs(p) {
		p = path.Join(filepath.ToSlash(base), p)
	}
	return path.Clean(p)
}

// Join joins a slash-separated directory and a child name.
func Join(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

// Parent returns the parent directory and whether one exists.
func Parent(dir string) (string, bool) {
	parent := path.Dir(dir)
	if parent == dir || parent == "." {
		return "", false
	}
	return parent, true
}

// Within reports whether p lies strictly below dir.
func Within(dir, p string) bool {
	if dir == "/" {
		return p != "/" && strings.HasPrefix(p, "/")
	}
	return strings.HasPrefix(p, dir+"/")
}

// Rel returns p relative to dir, or "" when p is dir itself. p must be dir
// or lie below it.
func Rel(dir, p string) string {
	if p == dir {
		return ""
	}
	if dir == "/" {
		return strings.TrimPrefix(p, "/")
	}
	return strings.TrimPrefix(p, dir+"/")
}
