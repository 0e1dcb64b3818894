package media

import "fmt"

// FramesToSeconds converts a frame count to whole seconds using integer
// division by the whole frame rate.
func FramesToSeconds(frames, fps int) (int, error) {
	if fps <= 0 {
		return 0, fmt.Errorf("invalid frame rate %d", fps)
	}
	if frames < 0 {
		return 0, fmt.Errorf("invalid frame count %d", frames)
	}
	return frames / fps, nil
}
