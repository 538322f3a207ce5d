package fsys

import (
	"io/fs"

	"github.com/spf13/afero"
)

// aferoFS adapts an afero.Fs to FS.
type aferoFS struct {
	fs afero.Fs
}

// FromAfero wraps an afero filesystem.
func FromAfero(fs afero.Fs) FS {
	return &aferoFS{fs: fs}
}

// OS returns the host filesystem.
func OS() FS {
	return FromAfero(afero.NewOsFs())
}

// Memory returns an empty in-memory filesystem together with the afero
// handle used to populate it.
func Memory() (FS, afero.Fs) {
	mem := afero.NewMemMapFs()
	return FromAfero(mem), mem
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(a.fs, name)
}

func (a *aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := afero.ReadDir(a.fs, name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = fs.FileInfoToDirEntry(info)
	}
	return entries, nil
}

func (a *aferoFS) Exists(name string) (bool, error) {
	return afero.Exists(a.fs, name)
}
