package player

import (
	"sync"
	"time"

	"clip-trimmer/domain/video"
)

// NullPlayer tracks a playback position without rendering anything. It backs
// headless sessions and tests.
type NullPlayer struct {
	mu    sync.Mutex
	path  string
	clock playbackClock
}

// NewNullPlayer creates a NullPlayer; now may be nil to use the wall clock
func NewNullPlayer(now func() time.Time) *NullPlayer {
	return &NullPlayer{clock: newPlaybackClock(now)}
}

// Load implements video.Player
func (p *NullPlayer) Load(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.path = path
	p.clock.stop()
	p.clock.set(0)
	return nil
}

// Path returns the loaded media path
func (p *NullPlayer) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Play implements video.Player
func (p *NullPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock.start()
	return nil
}

// Pause implements video.Player
func (p *NullPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock.stop()
	return nil
}

// SetPosition implements video.Seeker
func (p *NullPlayer) SetPosition(ms int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock.set(ms)
}

// Position implements video.Player
func (p *NullPlayer) Position() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock.position()
}

// Playing implements video.Player
func (p *NullPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock.running
}

// Close implements video.Player
func (p *NullPlayer) Close() error {
	return p.Pause()
}

// Ensure NullPlayer implements video.Player
var _ video.Player = (*NullPlayer)(nil)
