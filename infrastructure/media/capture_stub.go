//go:build !gocv

package media

import (
	"context"
	"errors"

	"clip-trimmer/domain/video"
)

// CaptureAvailable reports whether OpenCV frame counting is compiled in
const CaptureAvailable = false

// ErrCaptureUnavailable is returned by the stub capture reader
var ErrCaptureUnavailable = errors.New("frame-count duration not available: build with '-tags=gocv' and install OpenCV/GoCV")

// CaptureDurationReader is a stub when GoCV/OpenCV is not available
type CaptureDurationReader struct{}

// NewCaptureDurationReader creates a stub reader (requires building with -tags=gocv)
func NewCaptureDurationReader() *CaptureDurationReader {
	return &CaptureDurationReader{}
}

// DurationSeconds returns ErrCaptureUnavailable
func (r *CaptureDurationReader) DurationSeconds(ctx context.Context, path string) (int, error) {
	return 0, ErrCaptureUnavailable
}

// Ensure CaptureDurationReader implements video.DurationReader
var _ video.DurationReader = (*CaptureDurationReader)(nil)
