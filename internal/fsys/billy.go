package fsys

import (
	"io/fs"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// billyFS adapts a go-billy filesystem to FS. This lets trees held in
// go-git worktrees or billy's memfs be enumerated without copying them to
// disk.
type billyFS struct {
	fs billy.Filesystem
}

// FromBilly wraps a go-billy filesystem.
func FromBilly(fs billy.Filesystem) FS {
	return &billyFS{fs: fs}
}

func (b *billyFS) ReadFile(name string) ([]byte, error) {
	return util.ReadFile(b.fs, name)
}

func (b *billyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := b.fs.ReadDir(name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = fs.FileInfoToDirEntry(info)
	}
	return entries, nil
}

func (b *billyFS) Exists(name string) (bool, error) {
	_, err := b.fs.Stat(name)
	if err == nil {
		return true, nil
	}
	if IsNotExist(err) {
		return false, nil
	}
	return false, err
}
