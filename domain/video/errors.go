package video

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRange is returned when a trim range does not satisfy start < end
	ErrInvalidRange = errors.New("invalid trim range")

	// ErrDegenerateMedia is returned for media shorter than MinLength
	ErrDegenerateMedia = errors.New("media is shorter than the minimum trim length")

	// ErrInvalidDuration is returned when a bitrate is requested for a non-positive duration
	ErrInvalidDuration = errors.New("duration must be greater than zero")

	// ErrInvalidTargetSize is returned for a non-positive target size
	ErrInvalidTargetSize = errors.New("target size must be greater than zero")

	// ErrNoAudioTracks is returned when an audio mix is requested with no tracks
	ErrNoAudioTracks = errors.New("no audio tracks")
)

// maxStderrLines bounds how much diagnostic output a ToolError keeps
const maxStderrLines = 20

// ToolError describes a failed invocation of an external media tool
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int // -1 when the process never started
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	if e.ExitCode < 0 {
		fmt.Fprintf(&b, "%s could not be run: %v", e.Tool, e.Err)
	} else {
		fmt.Fprintf(&b, "%s exited with status %d", e.Tool, e.ExitCode)
	}
	if tail := e.StderrTail(); tail != "" {
		b.WriteString("\n")
		b.WriteString(tail)
	}
	return b.String()
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// StderrTail returns the last lines of the captured diagnostic output
func (e *ToolError) StderrTail() string {
	lines := strings.Split(strings.TrimRight(e.Stderr, "\n"), "\n")
	if len(lines) > maxStderrLines {
		lines = lines[len(lines)-maxStderrLines:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
