package watcher

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/gitglob/pkg/gitglob"
)

func newSource(t *testing.T, files map[string]string) (*gitglob.Client, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(mem, name, []byte(content), 0o644))
	}
	c, err := gitglob.New(gitglob.Options{Cwd: "/repo", FS: gitglob.FromAfero(mem), CacheSize: 32})
	require.NoError(t, err)
	return c, mem
}

// =============================================================================
// Reconciler
// =============================================================================

func TestReconciler_Prime(t *testing.T) {
	src, _ := newSource(t, map[string]string{
		"/repo/.gitignore": "*.log\n",
		"/repo/b.go":       "",
		"/repo/a.go":       "",
		"/repo/x.log":      "",
	})
	r := NewReconciler(src)

	n, err := r.Prime(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{".gitignore", "a.go", "b.go"}, r.Current())
}

func TestReconciler_FileCreatedAndDeleted(t *testing.T) {
	src, mem := newSource(t, map[string]string{
		"/repo/a.go": "",
		"/repo/b.go": "",
	})
	r := NewReconciler(src)
	ctx := context.Background()
	_, err := r.Prime(ctx)
	require.NoError(t, err)

	// Given: one file created and one removed
	require.NoError(t, afero.WriteFile(mem, "/repo/c.go", nil, 0o644))
	require.NoError(t, mem.Remove("/repo/a.go"))

	// When: the batch is applied
	change, err := r.Apply(ctx, []FileEvent{
		{Path: "a.go", Operation: OpDelete},
		{Path: "c.go", Operation: OpCreate},
	})

	// Then: the diff names both
	require.NoError(t, err)
	assert.Equal(t, []string{"c.go"}, change.Added)
	assert.Equal(t, []string{"a.go"}, change.Removed)
	assert.Equal(t, []string{"b.go", "c.go"}, r.Current())
}

func TestReconciler_ModifyOnlySkipsEnumeration(t *testing.T) {
	src, mem := newSource(t, map[string]string{"/repo/a.go": ""})
	r := NewReconciler(src)
	ctx := context.Background()
	_, err := r.Prime(ctx)
	require.NoError(t, err)

	// A file appearing without a create event stays unseen until a
	// structural event arrives.
	require.NoError(t, afero.WriteFile(mem, "/repo/sneaky.go", nil, 0o644))

	change, err := r.Apply(ctx, []FileEvent{{Path: "a.go", Operation: OpModify}})
	require.NoError(t, err)
	assert.True(t, change.Empty())
	assert.Equal(t, []string{"a.go"}, r.Current())
}

func TestReconciler_GitignoreChange(t *testing.T) {
	src, mem := newSource(t, map[string]string{
		"/repo/.gitignore": "*.log\n",
		"/repo/app.log":    "",
		"/repo/main.go":    "",
		"/repo/tmp/x.txt":  "",
	})
	r := NewReconciler(src)
	ctx := context.Background()
	_, err := r.Prime(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{".gitignore", "main.go", "tmp/x.txt"}, r.Current())

	// Given: the rules swap from *.log to tmp/
	require.NoError(t, afero.WriteFile(mem, "/repo/.gitignore", []byte("tmp/\n"), 0o644))

	// When: the change is applied
	change, err := r.Apply(ctx, []FileEvent{{Path: ".gitignore", Operation: OpGitignoreChange}})

	// Then: the cached rules are dropped and both sides of the diff show up
	require.NoError(t, err)
	assert.Equal(t, []string{"app.log"}, change.Added)
	assert.Equal(t, []string{"tmp/x.txt"}, change.Removed)
	assert.Equal(t, []string{"**/tmp", "**/tmp/**"}, change.RulesAdded)
	assert.Equal(t, []string{"**/*.log"}, change.RulesRemoved)
}

func TestReconciler_ConfigChange(t *testing.T) {
	src, _ := newSource(t, map[string]string{"/repo/a.go": ""})
	r := NewReconciler(src)
	_, err := r.Prime(context.Background())
	require.NoError(t, err)

	change, err := r.Apply(context.Background(), []FileEvent{{Path: ".gitglob.yaml", Operation: OpConfigChange}})
	require.NoError(t, err)
	assert.True(t, change.ConfigChanged)
	assert.False(t, change.Empty())
}

// =============================================================================
// Diff helpers
// =============================================================================

func TestDiff(t *testing.T) {
	tests := []struct {
		name        string
		before      []string
		after       []string
		wantAdded   []string
		wantRemoved []string
	}{
		{"identical", []string{"a", "b"}, []string{"a", "b"}, nil, nil},
		{"from empty", nil, []string{"a"}, []string{"a"}, nil},
		{"to empty", []string{"a"}, nil, nil, []string{"a"}},
		{"interleaved", []string{"a", "c", "e"}, []string{"b", "c", "d"}, []string{"b", "d"}, []string{"a", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := Diff(tt.before, tt.after)
			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}

func TestDiffPatterns(t *testing.T) {
	added, removed := DiffPatterns(
		[]string{"**/*.log", "build", "build/**"},
		[]string{"build", "build/**", "dist", "dist/**"},
	)
	assert.Equal(t, []string{"dist", "dist/**"}, added)
	assert.Equal(t, []string{"**/*.log"}, removed)
}
