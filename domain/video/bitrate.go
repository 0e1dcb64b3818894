package video

import (
	"fmt"
	"math"
)

// SizeHeadroom is the share of the target size given to the video stream;
// the remainder covers audio and container overhead.
const SizeHeadroom = 0.87

// DefaultTargetSizeMB is the output size used when none is configured
const DefaultTargetSizeMB = 10.0

// ComputeBitrate returns the video bitrate in bits/sec that fills
// targetSizeMB over durationSeconds.
func ComputeBitrate(targetSizeMB float64, durationSeconds int) (int64, error) {
	if durationSeconds <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationSeconds)
	}
	if targetSizeMB <= 0 {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidTargetSize, targetSizeMB)
	}

	bits := targetSizeMB * SizeHeadroom * 1024 * 1024 * 8
	return int64(math.Floor(bits / float64(durationSeconds))), nil
}
