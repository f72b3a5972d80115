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

func TestWatcher_DetectsChangeToWatchedFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "php")
	require.NoError(t, os.WriteFile(target, []byte("binary"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New([]string{target}, Options{DebounceWindow: 20 * time.Millisecond})
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(target, []byte("changed"), 0o755))

	select {
	case batch := <-w.Batches():
		assert.Contains(t, batch, target)
	case <-time.After(2 * time.Second):
		t.Fatal("expected change batch")
	}
}

func TestWatcher_DetectsDeletion(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "valet")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New([]string{target}, Options{DebounceWindow: 20 * time.Millisecond})
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.Remove(target))

	select {
	case batch := <-w.Batches():
		assert.Contains(t, batch, target)
	case <-time.After(2 * time.Second):
		t.Fatal("expected deletion batch")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "php")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New([]string{target}, Options{DebounceWindow: 20 * time.Millisecond})
	require.NoError(t, w.Start(ctx))

	// A sibling file in the watched directory is not a watched path...
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated"), []byte("y"), 0o644))

	// ...unless the directory itself was registered as a path of interest.
	select {
	case batch := <-w.Batches():
		// The parent dir of target is registered as a dir, not a path;
		// unrelated files must not produce batches
		t.Fatalf("unexpected batch: %v", batch)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_DirectoryAsWatchedPath(t *testing.T) {
	optDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New([]string{optDir}, Options{DebounceWindow: 20 * time.Millisecond})
	require.NoError(t, w.Start(ctx))

	// New entry inside the watched directory (a formula link appearing)
	require.NoError(t, os.Mkdir(filepath.Join(optDir, "php"), 0o755))

	select {
	case batch := <-w.Batches():
		assert.NotEmpty(t, batch)
	case <-time.After(2 * time.Second):
		t.Fatal("expected batch for new directory entry")
	}
}

func TestWatcher_NoWatchablePaths(t *testing.T) {
	ctx := context.Background()

	w := New([]string{"/nonexistent-root-path-xyz/sub/file"}, Options{})
	err := w.Start(ctx)
	assert.Error(t, err)
}

func TestWatcher_StartTwice(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "php")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New([]string{target}, Options{})
	require.NoError(t, w.Start(ctx))
	assert.Error(t, w.Start(ctx))
}

func TestWatcher_ContextCancelClosesBatches(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "php")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())

	w := New([]string{target}, Options{DebounceWindow: 10 * time.Millisecond})
	require.NoError(t, w.Start(ctx))

	cancel()

	select {
	case _, ok := <-w.Batches():
		assert.False(t, ok, "batches channel closes on cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("batches channel did not close")
	}
}
