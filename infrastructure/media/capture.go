//go:build gocv

package media

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"clip-trimmer/domain/video"
)

// CaptureAvailable reports whether OpenCV frame counting is compiled in
const CaptureAvailable = true

// CaptureDurationReader implements video.DurationReader by opening the file
// with OpenCV and dividing its frame count by its whole frame rate.
type CaptureDurationReader struct{}

// NewCaptureDurationReader creates an OpenCV-backed duration reader
func NewCaptureDurationReader() *CaptureDurationReader {
	return &CaptureDurationReader{}
}

// DurationSeconds implements video.DurationReader
func (r *CaptureDurationReader) DurationSeconds(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	defer capture.Close()

	if !capture.IsOpened() {
		return 0, fmt.Errorf("failed to open video %s", path)
	}

	frames := int(capture.Get(gocv.VideoCaptureFrameCount))
	fps := int(capture.Get(gocv.VideoCaptureFPS))
	return FramesToSeconds(frames, fps)
}

// Ensure CaptureDurationReader implements video.DurationReader
var _ video.DurationReader = (*CaptureDurationReader)(nil)
