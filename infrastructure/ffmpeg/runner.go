package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"clip-trimmer/domain/video"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	// Run executes a command, discarding stdout
	Run(ctx context.Context, name string, args ...string) error
	// Output executes a command and returns its stdout
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// CombinedOutput executes a command and returns stdout and stderr together.
	// The output is returned even when the command fails.
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
	// Stream executes a command and calls onLine for every stdout line
	Stream(ctx context.Context, onLine func(string), name string, args ...string) error
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command and returns any error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	return wrapError(ctx, name, args, stderr.String, cmd.Run())
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	return out, wrapError(ctx, name, args, stderr.String, err)
}

// CombinedOutput executes a command and returns stdout and stderr interleaved
func (r *ExecCommandRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	return out, wrapError(ctx, name, args, func() string { return string(out) }, err)
}

// Stream executes a command, feeding stdout to onLine as it is produced
func (r *ExecCommandRunner) Stream(ctx context.Context, onLine func(string), name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return wrapError(ctx, name, args, stderr.String, err)
	}
	if err := cmd.Start(); err != nil {
		return wrapError(ctx, name, args, stderr.String, err)
	}

	scanLines(stdout, onLine)
	return wrapError(ctx, name, args, stderr.String, cmd.Wait())
}

func scanLines(r io.Reader, onLine func(string)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}
	// drain so the process never blocks on a full pipe
	_, _ = io.Copy(io.Discard, r)
}

// wrapError converts an exec error into a *video.ToolError. A cancelled
// context is reported as the context error so callers can tell a user
// cancellation from a tool failure.
func wrapError(ctx context.Context, name string, args []string, stderr func() string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s cancelled: %w", name, ctxErr)
	}

	toolErr := &video.ToolError{
		Tool:     name,
		Args:     append([]string(nil), args...),
		ExitCode: -1,
		Stderr:   stderr(),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.ExitCode = exitErr.ExitCode()
	}
	return toolErr
}

// verifyInstalled runs `<binary> -version`
func verifyInstalled(ctx context.Context, runner CommandRunner, binary string) error {
	if _, err := runner.Output(ctx, binary, "-version"); err != nil {
		return fmt.Errorf("%s not found or not executable: %w", binary, err)
	}
	return nil
}

// Ensure ExecCommandRunner implements CommandRunner
var _ CommandRunner = (*ExecCommandRunner)(nil)
