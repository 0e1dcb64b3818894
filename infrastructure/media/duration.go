package media

import (
	"context"
	"fmt"

	"clip-trimmer/domain/video"
)

// ProbeDurationReader implements video.DurationReader from container metadata
type ProbeDurationReader struct {
	prober video.MediaProber
}

// NewProbeDurationReader creates a reader backed by a MediaProber
func NewProbeDurationReader(prober video.MediaProber) *ProbeDurationReader {
	return &ProbeDurationReader{prober: prober}
}

// DurationSeconds implements video.DurationReader
func (r *ProbeDurationReader) DurationSeconds(ctx context.Context, path string) (int, error) {
	info, err := r.prober.Probe(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to read duration: %w", err)
	}
	return info.WholeSeconds(), nil
}

// NewDurationReader returns the frame-count reader when the binary was built
// with OpenCV support and the container-metadata reader otherwise.
func NewDurationReader(prober video.MediaProber) video.DurationReader {
	if CaptureAvailable {
		return NewCaptureDurationReader()
	}
	return NewProbeDurationReader(prober)
}

// Ensure ProbeDurationReader implements video.DurationReader
var _ video.DurationReader = (*ProbeDurationReader)(nil)
