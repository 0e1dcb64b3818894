package player

import (
	"errors"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// fakeProcess records Stop calls
type fakeProcess struct {
	stopped bool
}

func (p *fakeProcess) Stop() error {
	p.stopped = true
	return nil
}

// recordingLauncher captures every launch
type recordingLauncher struct {
	launches [][]string
	procs    []*fakeProcess
	err      error
}

func (l *recordingLauncher) launch(name string, args ...string) (Process, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.launches = append(l.launches, append([]string{name}, args...))
	proc := &fakeProcess{}
	l.procs = append(l.procs, proc)
	return proc, nil
}

func (l *recordingLauncher) lastSeek() string {
	if len(l.launches) == 0 {
		return ""
	}
	args := l.launches[len(l.launches)-1]
	for i, a := range args {
		if a == "-ss" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestNullPlayer_TracksWallClock(t *testing.T) {
	clock := newFakeClock()
	p := NewNullPlayer(clock.now)
	_ = p.Load("clip.mp4")

	_ = p.Play()
	clock.advance(1500 * time.Millisecond)
	if got := p.Position(); got != 1500 {
		t.Errorf("Position() = %d, want 1500", got)
	}

	p.SetPosition(10000)
	clock.advance(250 * time.Millisecond)
	if got := p.Position(); got != 10250 {
		t.Errorf("Position() after seek = %d, want 10250", got)
	}

	_ = p.Pause()
	clock.advance(time.Hour)
	if got := p.Position(); got != 10250 {
		t.Errorf("Position() while paused = %d, want 10250", got)
	}
	if p.Playing() {
		t.Error("Playing() = true after Pause")
	}
}

func TestFFplay_PlayStartsAtPosition(t *testing.T) {
	clock := newFakeClock()
	launcher := &recordingLauncher{}
	p := NewFFplay(WithLauncher(launcher.launch), WithClock(clock.now), WithFFplayPath("/bin/ffplay"))

	if err := p.Play(); err == nil {
		t.Error("Play() without media should fail")
	}

	_ = p.Load("/media/clip.mp4")
	p.SetPosition(4200)
	if len(launcher.launches) != 0 {
		t.Error("SetPosition while paused should not start ffplay")
	}

	if err := p.Play(); err != nil {
		t.Fatalf("Play() unexpected error: %v", err)
	}
	if launcher.launches[0][0] != "/bin/ffplay" {
		t.Errorf("launched %q", launcher.launches[0][0])
	}
	if got := launcher.lastSeek(); got != "4.200" {
		t.Errorf("-ss = %q, want 4.200", got)
	}
	if got := launcher.launches[0][len(launcher.launches[0])-1]; got != "/media/clip.mp4" {
		t.Errorf("input = %q", got)
	}
}

func TestFFplay_SeekWhilePlayingRestarts(t *testing.T) {
	clock := newFakeClock()
	launcher := &recordingLauncher{}
	p := NewFFplay(WithLauncher(launcher.launch), WithClock(clock.now))
	_ = p.Load("clip.mp4")
	_ = p.Play()
	clock.advance(2 * time.Second)

	p.SetPosition(30000)

	if len(launcher.launches) != 2 {
		t.Fatalf("launches = %d, want 2", len(launcher.launches))
	}
	if !launcher.procs[0].stopped {
		t.Error("previous ffplay was not stopped")
	}
	if got := launcher.lastSeek(); got != "30.000" {
		t.Errorf("-ss = %q, want 30.000", got)
	}

	clock.advance(time.Second)
	if got := p.Position(); got != 31000 {
		t.Errorf("Position() = %d, want 31000", got)
	}

	_ = p.Pause()
	if !launcher.procs[1].stopped {
		t.Error("Pause did not stop ffplay")
	}
}

func TestFFplay_LaunchFailure(t *testing.T) {
	launcher := &recordingLauncher{err: errors.New("not found")}
	p := NewFFplay(WithLauncher(launcher.launch))
	_ = p.Load("clip.mp4")

	if err := p.Play(); err == nil {
		t.Error("expected Play() to fail when ffplay cannot start")
	}
	if p.Playing() {
		t.Error("Playing() = true after failed start")
	}
}
