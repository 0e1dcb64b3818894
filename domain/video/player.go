package video

// Player is the playback surface the range controller drives
type Player interface {
	Seeker
	// Load replaces the current media; playback starts paused at 0
	Load(path string) error
	Play() error
	Pause() error
	// Position returns the current playback position in milliseconds
	Position() int64
	Playing() bool
	Close() error
}
