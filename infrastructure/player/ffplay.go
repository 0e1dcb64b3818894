package player

import (
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"clip-trimmer/domain/video"
)

// Process is a running ffplay instance
type Process interface {
	Stop() error
}

// Launcher starts a process without waiting for it
type Launcher func(name string, args ...string) (Process, error)

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Stop() error {
	if p.cmd.Process == nil {
		return nil
	}
	_ = p.cmd.Process.Kill()
	_ = p.cmd.Wait()
	return nil
}

// ExecLauncher starts the process with os/exec
func ExecLauncher(name string, args ...string) (Process, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}

// FFplay implements video.Player by running ffplay in its own window. ffplay
// has no control channel, so seeking restarts it at the new offset and the
// position is tracked with a wall clock.
type FFplay struct {
	mu         sync.Mutex
	ffplayPath string
	launch     Launcher
	logger     *zap.Logger
	path       string
	proc       Process
	clock      playbackClock
}

// FFplayOption is a functional option for configuring FFplay
type FFplayOption func(*FFplay)

// WithFFplayPath sets a custom ffplay executable path
func WithFFplayPath(path string) FFplayOption {
	return func(p *FFplay) {
		p.ffplayPath = path
	}
}

// WithLauncher sets a custom process launcher (for testing)
func WithLauncher(l Launcher) FFplayOption {
	return func(p *FFplay) {
		p.launch = l
	}
}

// WithClock sets the time source (for testing)
func WithClock(now func() time.Time) FFplayOption {
	return func(p *FFplay) {
		p.clock = newPlaybackClock(now)
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) FFplayOption {
	return func(p *FFplay) {
		p.logger = logger
	}
}

// NewFFplay creates an ffplay-backed player
func NewFFplay(opts ...FFplayOption) *FFplay {
	p := &FFplay{
		ffplayPath: "ffplay",
		launch:     ExecLauncher,
		logger:     zap.NewNop(),
		clock:      newPlaybackClock(nil),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Load implements video.Player
func (p *FFplay) Load(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clock.stop()
	p.stopLocked()
	p.path = path
	p.clock.set(0)
	return nil
}

// Play implements video.Player
func (p *FFplay) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.path == "" {
		return fmt.Errorf("no media loaded")
	}
	if p.clock.running {
		return nil
	}
	if err := p.startLocked(p.clock.position()); err != nil {
		return err
	}
	p.clock.start()
	return nil
}

// Pause implements video.Player
func (p *FFplay) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clock.stop()
	p.stopLocked()
	return nil
}

// SetPosition implements video.Seeker
func (p *FFplay) SetPosition(ms int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clock.set(ms)
	if !p.clock.running {
		return
	}
	p.stopLocked()
	if err := p.startLocked(p.clock.position()); err != nil {
		p.logger.Warn("failed to restart ffplay", zap.Error(err))
		p.clock.stop()
	}
}

// Position implements video.Player
func (p *FFplay) Position() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock.position()
}

// Playing implements video.Player
func (p *FFplay) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock.running
}

// Close implements video.Player
func (p *FFplay) Close() error {
	return p.Pause()
}

// Args returns the ffplay arguments used to start playback at positionMs
func (p *FFplay) Args(positionMs int64) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-autoexit",
		"-window_title", "clip-trimmer",
		"-ss", strconv.FormatFloat(float64(positionMs)/1000, 'f', 3, 64),
		p.path,
	}
}

func (p *FFplay) startLocked(positionMs int64) error {
	proc, err := p.launch(p.ffplayPath, p.Args(positionMs)...)
	if err != nil {
		return fmt.Errorf("failed to start ffplay: %w", err)
	}
	p.proc = proc
	p.logger.Debug("ffplay started", zap.String("path", p.path), zap.Int64("position_ms", positionMs))
	return nil
}

func (p *FFplay) stopLocked() {
	if p.proc == nil {
		return
	}
	if err := p.proc.Stop(); err != nil {
		p.logger.Debug("ffplay stop", zap.Error(err))
	}
	p.proc = nil
}

// Ensure FFplay implements video.Player
var _ video.Player = (*FFplay)(nil)
