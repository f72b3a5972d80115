// Package shell runs external commands and answers filesystem probes.
// All environment checks go through the Runner interface so tests can
// substitute a fake system.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes commands and inspects the filesystem.
type Runner interface {
	// FileExists reports whether a file or directory exists at path.
	FileExists(path string) bool

	// Output runs the named command and returns its captured stdout.
	// Stderr is folded into the returned error on failure.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner is the os/exec backed Runner used in production.
type ExecRunner struct {
	// For testing: override command construction
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New creates an ExecRunner.
func New() *ExecRunner {
	return &ExecRunner{
		execCommand: exec.CommandContext,
	}
}

// FileExists reports whether path exists.
func (r *ExecRunner) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Output runs the command and captures stdout.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := r.execCommand(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}

	return stdout.String(), nil
}
