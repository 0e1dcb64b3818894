package player

import "time"

// playbackClock derives the playback position from wall time while playing
type playbackClock struct {
	now       func() time.Time
	base      int64
	startedAt time.Time
	running   bool
}

func newPlaybackClock(now func() time.Time) playbackClock {
	if now == nil {
		now = time.Now
	}
	return playbackClock{now: now}
}

func (c *playbackClock) position() int64 {
	if !c.running {
		return c.base
	}
	return c.base + c.now().Sub(c.startedAt).Milliseconds()
}

func (c *playbackClock) start() {
	if c.running {
		return
	}
	c.startedAt = c.now()
	c.running = true
}

func (c *playbackClock) stop() {
	if !c.running {
		return
	}
	c.base = c.position()
	c.running = false
}

func (c *playbackClock) set(ms int64) {
	if ms < 0 {
		ms = 0
	}
	c.base = ms
	c.startedAt = c.now()
}
