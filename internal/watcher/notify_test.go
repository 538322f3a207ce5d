package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	w, err := New(Options{DebounceWindow: 30 * time.Millisecond, EventBufferSize: 100})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	go func() { _ = w.Start(ctx, root) }()

	// Wait for watcher to initialize
	time.Sleep(150 * time.Millisecond)
	return w
}

// collectEvents gathers batches until the window closes.
func collectEvents(w *Watcher, window time.Duration) []FileEvent {
	var out []FileEvent
	timeout := time.After(window)
	for {
		select {
		case batch, ok := <-w.Events():
			if !ok {
				return out
			}
			out = append(out, batch...)
		case <-timeout:
			return out
		}
	}
}

func hasEvent(events []FileEvent, p string, op Operation) bool {
	for _, e := range events {
		if e.Path == p && e.Operation == op {
			return true
		}
	}
	return false
}

func TestWatcher_DetectsFileCreation(t *testing.T) {
	// Given: a watched temp directory
	dir := t.TempDir()
	w := startWatcher(t, dir)

	// When: a new file is created
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.go"), []byte("package main"), 0o644))

	// Then: a CREATE event is reported with a root-relative path
	events := collectEvents(w, time.Second)
	assert.True(t, hasEvent(events, "new.go", OpCreate), "events: %v", events)
}

func TestWatcher_DetectsFileDeletion(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "old.go")
	require.NoError(t, os.WriteFile(target, nil, 0o644))
	w := startWatcher(t, dir)

	require.NoError(t, os.Remove(target))

	events := collectEvents(w, time.Second)
	assert.True(t, hasEvent(events, "old.go", OpDelete), "events: %v", events)
}

func TestWatcher_SkipsIgnoredPaths(t *testing.T) {
	// Given: ignore rules for a file glob and a directory
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.tmp\nbuild/\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "build"), 0o755))
	w := startWatcher(t, dir)

	// When: ignored and non-ignored files are written
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.tmp"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build", "out.bin"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kept.go"), nil, 0o644))

	// Then: only the non-ignored file is reported
	events := collectEvents(w, time.Second)
	assert.True(t, hasEvent(events, "kept.go", OpCreate), "events: %v", events)
	for _, e := range events {
		assert.NotEqual(t, ".tmp", filepath.Ext(e.Path), "ignored file reported: %s", e.Path)
		assert.NotContains(t, e.Path, "build/", "ignored directory reported: %s", e.Path)
	}
}

func TestWatcher_SkipsGitDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	w := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "index"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracked.go"), nil, 0o644))

	events := collectEvents(w, time.Second)
	assert.True(t, hasEvent(events, "tracked.go", OpCreate))
	for _, e := range events {
		assert.NotContains(t, e.Path, ".git/")
	}
}

func TestWatcher_ReportsGitignoreChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.log\n"), 0o644))
	w := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.log\n*.tmp\n"), 0o644))

	events := collectEvents(w, time.Second)
	assert.True(t, hasEvent(events, ".gitignore", OpGitignoreChange), "events: %v", events)
}

func TestWatcher_WatchesUnignoredDirectory(t *testing.T) {
	// Given: a directory excluded at start
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("gen/\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "gen"), 0o755))
	w := startWatcher(t, dir)

	// When: the rule is removed
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), nil, 0o644))
	collectEvents(w, 300*time.Millisecond)

	// Then: files in it are now reported
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gen", "code.go"), nil, 0o644))
	events := collectEvents(w, time.Second)
	assert.True(t, hasEvent(events, "gen/code.go", OpCreate), "events: %v", events)
}

func TestWatcher_DetectsNewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "lib.go"), nil, 0o644))

	events := collectEvents(w, time.Second)
	assert.True(t, hasEvent(events, "pkg/lib.go", OpCreate), "events: %v", events)
}

func TestWatcher_ConfigChange(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitglob.yaml"), []byte("version: 1\n"), 0o644))

	events := collectEvents(w, time.Second)
	assert.True(t, hasEvent(events, ".gitglob.yaml", OpConfigChange), "events: %v", events)
}

// =============================================================================
// Lifecycle
// =============================================================================

func TestWatcher_Start_InvalidPath_ReturnsError(t *testing.T) {
	w, err := New(DefaultOptions())
	require.NoError(t, err)

	err = w.Start(context.Background(), "/nonexistent/path/that/does/not/exist")

	require.Error(t, err)
	_, ok := <-w.Events()
	assert.False(t, ok, "events channel should be closed after a failed start")
}

func TestWatcher_ContextCancel_StopsCleanly(t *testing.T) {
	dir := t.TempDir()
	w, err := New(DefaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx, dir) }()
	time.Sleep(100 * time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	_, ok := <-w.Errors()
	assert.False(t, ok)
}

func TestWatcher_ConcurrentStop_Safe(t *testing.T) {
	w, err := New(DefaultOptions())
	require.NoError(t, err)

	done := make(chan struct{})
	for range 5 {
		go func() {
			_ = w.Stop()
			done <- struct{}{}
		}()
	}
	for range 5 {
		<-done
	}
	assert.Equal(t, uint64(0), w.DroppedBatches())
}
