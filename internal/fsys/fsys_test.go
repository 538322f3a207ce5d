package fsys

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		base string
		p    string
		want string
	}{
		{name: "absolute untouched", base: "/work", p: "/etc/x", want: "/etc/x"},
		{name: "relative joined", base: "/work", p: "src/a.go", want: "/work/src/a.go"},
		{name: "dot segments", base: "/work", p: "./src/../lib", want: "/work/lib"},
		{name: "trailing slash dropped", base: "/work", p: "dist/", want: "/work/dist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.base, tt.p))
		})
	}
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "/a", Join("/", "a"))
	assert.Equal(t, "/a/b", Join("/a", "b"))

	parent, ok := Parent("/a/b")
	assert.True(t, ok)
	assert.Equal(t, "/a", parent)

	_, ok = Parent("/")
	assert.False(t, ok)

	assert.True(t, Within("/a", "/a/b"))
	assert.False(t, Within("/a", "/a"))
	assert.False(t, Within("/a", "/ab"))
	assert.True(t, Within("/", "/x"))

	assert.Equal(t, "b/c", Rel("/a", "/a/b/c"))
	assert.Equal(t, "", Rel("/a", "/a"))
	assert.Equal(t, "x", Rel("/", "/x"))
}

func TestAferoFS(t *testing.T) {
	fs, mem := Memory()
	require.NoError(t, mem.MkdirAll("/proj/src", 0o755))
	require.NoError(t, afero.WriteFile(mem, "/proj/.gitignore", []byte("*.log\n"), 0o644))
	require.NoError(t, afero.WriteFile(mem, "/proj/src/main.go", []byte("package main\n"), 0o644))

	data, err := fs.ReadFile("/proj/.gitignore")
	require.NoError(t, err)
	assert.Equal(t, "*.log\n", string(data))

	entries, err := fs.ReadDir("/proj")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ".gitignore", entries[0].Name())
	assert.False(t, entries[0].IsDir())
	assert.Equal(t, "src", entries[1].Name())
	assert.True(t, entries[1].IsDir())

	ok, err := fs.Exists("/proj/src/main.go")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fs.Exists("/proj/missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = fs.ReadFile("/proj/missing")
	assert.True(t, IsNotExist(err))
}

func TestBillyFS(t *testing.T) {
	mem := memfs.New()
	require.NoError(t, mem.MkdirAll("/repo/dist", 0o755))
	require.NoError(t, util.WriteFile(mem, "/repo/.gitignore", []byte("dist/\n"), 0o644))
	require.NoError(t, util.WriteFile(mem, "/repo/dist/out.js", []byte("x"), 0o644))

	fs := FromBilly(mem)

	data, err := fs.ReadFile("/repo/.gitignore")
	require.NoError(t, err)
	assert.Equal(t, "dist/\n", string(data))

	entries, err := fs.ReadDir("/repo")
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, e := range entries {
		names[e.Name()] = e.IsDir()
	}
	assert.Equal(t, map[string]bool{".gitignore": false, "dist": true}, names)

	ok, err := fs.Exists("/repo/dist/out.js")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fs.Exists("/repo/nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOS_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}

	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Mkdir(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, err := OS().ReadDir(filepath.ToSlash(locked))
	require.Error(t, err)
	assert.True(t, IsPermission(err))
}
