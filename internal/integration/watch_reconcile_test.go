package integration

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/gitglob/internal/watcher"
	"github.com/Aman-CERP/gitglob/pkg/gitglob"
)

// Watch Integration Tests - These drive the fsnotify watcher, feed its
// batches to a Reconciler over a cached Client, and check the tracked set.

type session struct {
	dir        string
	client     *gitglob.Client
	reconciler *watcher.Reconciler
	watcher    *watcher.Watcher
	ctx        context.Context
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// startSession primes a Reconciler over dir and starts watching it.
func startSession(t *testing.T, files map[string]string) *session {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	for name, content := range files {
		writeFile(t, dir, name, content)
	}

	client, err := gitglob.New(gitglob.Options{Cwd: dir, CacheSize: 100})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	r := watcher.NewReconciler(client)
	_, err = r.Prime(ctx)
	require.NoError(t, err)

	w, err := watcher.New(watcher.Options{
		DebounceWindow:  100 * time.Millisecond,
		EventBufferSize: 100,
	})
	require.NoError(t, err)
	go func() {
		_ = w.Start(ctx, dir)
	}()
	t.Cleanup(func() { _ = w.Stop() })

	// Wait for the watcher to register its directories
	time.Sleep(200 * time.Millisecond)

	return &session{dir: dir, client: client, reconciler: r, watcher: w, ctx: ctx}
}

// applyUntil applies batches until done reports true for the tracked set,
// returning every change seen on the way.
func (s *session) applyUntil(t *testing.T, done func([]string) bool) []watcher.Change {
	t.Helper()
	var changes []watcher.Change
	for !done(s.reconciler.Current()) {
		select {
		case batch := <-s.watcher.Events():
			c, err := s.reconciler.Apply(s.ctx, batch)
			require.NoError(t, err)
			if !c.Empty() {
				changes = append(changes, c)
			}
		case <-s.ctx.Done():
			t.Fatalf("timed out; tracked set is %v", s.reconciler.Current())
		}
	}
	return changes
}

// walkAll is the ground truth the tracked set must agree with.
func (s *session) walkAll(t *testing.T) []string {
	t.Helper()
	r := watcher.NewReconciler(s.client)
	_, err := r.Prime(s.ctx)
	require.NoError(t, err)
	return r.Current()
}

func TestWatch_CreatedFilesFollowIgnoreRules(t *testing.T) {
	// Given: a project ignoring *.log
	s := startSession(t, map[string]string{
		".gitignore": "*.log\n",
		"main.go":    "package main\n",
	})

	// When: creating an ignored and a non-ignored file
	writeFile(t, s.dir, "debug.log", "noise")
	writeFile(t, s.dir, "util.go", "package main\n")

	// Then: only the non-ignored file joins the set
	s.applyUntil(t, func(set []string) bool { return slices.Contains(set, "util.go") })
	assert.Equal(t, []string{".gitignore", "main.go", "util.go"}, s.reconciler.Current())
	assert.Equal(t, s.walkAll(t), s.reconciler.Current())
}

func TestWatch_GitignoreEditRemovesFiles(t *testing.T) {
	// Given: a project whose logs are tracked
	s := startSession(t, map[string]string{
		".gitignore": "build/\n",
		"main.go":    "package main\n",
		"app.log":    "",
	})
	require.Contains(t, s.reconciler.Current(), "app.log")

	// When: the .gitignore starts ignoring *.log
	writeFile(t, s.dir, ".gitignore", "build/\n*.log\n")

	// Then: the log leaves the set and the new rule is reported
	changes := s.applyUntil(t, func(set []string) bool { return !slices.Contains(set, "app.log") })
	var rulesAdded, removed []string
	for _, c := range changes {
		rulesAdded = append(rulesAdded, c.RulesAdded...)
		removed = append(removed, c.Removed...)
	}
	assert.Contains(t, rulesAdded, "**/*.log")
	assert.Contains(t, removed, "app.log")
	assert.Equal(t, s.walkAll(t), s.reconciler.Current())
}

func TestWatch_NestedGitignoreInNewDirectory(t *testing.T) {
	// Given: a project with a single file
	s := startSession(t, map[string]string{
		"main.go": "package main\n",
	})

	// When: a new directory arrives with its own .gitignore
	writeFile(t, s.dir, "sub/.gitignore", "*.tmp\n")
	writeFile(t, s.dir, "sub/keep.go", "package sub\n")
	writeFile(t, s.dir, "sub/scratch.tmp", "")

	// Then: the nested rule applies to the new files
	s.applyUntil(t, func(set []string) bool {
		return slices.Contains(set, "sub/keep.go") && slices.Contains(set, "sub/.gitignore")
	})
	assert.NotContains(t, s.reconciler.Current(), "sub/scratch.tmp")
	assert.Equal(t, s.walkAll(t), s.reconciler.Current())
}

func TestWatch_DeletedDirectoryLeavesSet(t *testing.T) {
	// Given: a project with a package directory
	s := startSession(t, map[string]string{
		"main.go":    "package main\n",
		"pkg/a.go":   "package pkg\n",
		"pkg/b/c.go": "package b\n",
	})

	// When: the directory is removed
	require.NoError(t, os.RemoveAll(filepath.Join(s.dir, "pkg")))

	// Then: its files leave the set
	s.applyUntil(t, func(set []string) bool { return !slices.Contains(set, "pkg/a.go") && !slices.Contains(set, "pkg/b/c.go") })
	assert.Equal(t, []string{"main.go"}, s.reconciler.Current())
}
