package shell

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_FileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	r := New()

	assert.True(t, r.FileExists(path))
	assert.True(t, r.FileExists(dir))
	assert.False(t, r.FileExists(filepath.Join(dir, "absent")))
}

func TestExecRunner_Output(t *testing.T) {
	r := New()

	out, err := r.Output(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestExecRunner_Output_CommandNotFound(t *testing.T) {
	r := New()

	_, err := r.Output(context.Background(), "definitely-not-a-command-xyz")
	assert.Error(t, err)
}

func TestExecRunner_Output_ContextCancelled(t *testing.T) {
	r := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Output(ctx, "sleep", "5")
	assert.Error(t, err)
}
