// Package sysio defines the filesystem and shell collaborators the
// interpreter depends on, together with local OS-backed implementations.
//
// Both calls are synchronous and perform no retries; a host embedding the
// interpreter can bound them with a context deadline.
package sysio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Files reads text content from a path.
type Files interface {
	ReadText(ctx context.Context, path string) (string, error)
}

// Shell runs a command line and captures its combined output.
type Shell interface {
	RunAndCapture(ctx context.Context, command string) (string, error)
}

// Local implements Files and Shell against the local operating system.
type Local struct{}

// ReadText returns the contents of the file at path.
func (Local) ReadText(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RunAndCapture executes command through `sh -c` and returns its combined
// stdout and stderr.
func (Local) RunAndCapture(ctx context.Context, command string) (string, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", command).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("running %q: %w", command, err)
	}
	return string(out), nil
}
