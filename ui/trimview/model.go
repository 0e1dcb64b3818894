// Package trimview is the interactive trim editor. It drives a RangeController
// from key presses and player ticks and runs trims as background jobs.
package trimview

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	appvideo "clip-trimmer/application/video"
	"clip-trimmer/domain/video"
)

// TickInterval is how often the player position is sampled while playing
const TickInterval = 200 * time.Millisecond

const (
	scrubStep     = 1000  // ms
	scrubStepFast = 10000 // ms
	barPadding    = 30
	minBarWidth   = 10
	maxBarWidth   = 80
)

// Planner resolves a range into a transcode plan
type Planner interface {
	PlanRange(sourcePath string, r video.TrimRange, tracks video.AudioTrackSet, targetSizeMB float64) (video.TranscodePlan, error)
}

// JobStarter launches background trims
type JobStarter interface {
	Start(ctx context.Context, plan video.TranscodePlan) *appvideo.Job
}

// Options configures a Model
type Options struct {
	SourcePath   string // trims always read the original source
	PreviewPath  string // file loaded into the player; may be a merged derivative
	Tracks       video.AudioTrackSet
	TotalSeconds int
	TargetSizeMB float64
	Player       video.Player
	Planner      Planner
	Jobs         JobStarter
	Logger       *zap.Logger
	Context      context.Context
}

type tickMsg time.Time

type progressMsg struct {
	jobID    string
	progress video.Progress
}

type jobDoneMsg struct {
	result appvideo.JobResult
}

// Model is the bubbletea model of the editor
type Model struct {
	opts       Options
	controller *video.RangeController
	player     video.Player
	logger     *zap.Logger
	ctx        context.Context

	positionBar progress.Model
	startBar    progress.Model
	endBar      progress.Model
	encodeBar   progress.Model

	job       *appvideo.Job
	encode    video.Progress
	lastClip  string
	status    string
	statusErr bool
	quitting  bool
}

// New loads the preview into the player and returns the editor model
func New(opts Options) (Model, error) {
	if opts.Player == nil {
		return Model{}, fmt.Errorf("a player is required")
	}
	if opts.PreviewPath == "" {
		opts.PreviewPath = opts.SourcePath
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	controller, err := video.NewRangeController(opts.TotalSeconds, opts.Player)
	if err != nil {
		return Model{}, err
	}
	if err := opts.Player.Load(opts.PreviewPath); err != nil {
		return Model{}, fmt.Errorf("failed to load %s: %w", opts.PreviewPath, err)
	}

	return Model{
		opts:        opts,
		controller:  controller,
		player:      opts.Player,
		logger:      opts.Logger,
		ctx:         opts.Context,
		positionBar: progress.New(progress.WithSolidFill("#5865F2"), progress.WithoutPercentage()),
		startBar:    progress.New(progress.WithSolidFill("#43B581"), progress.WithoutPercentage()),
		endBar:      progress.New(progress.WithSolidFill("#F04747"), progress.WithoutPercentage()),
		encodeBar:   progress.New(progress.WithDefaultGradient()),
		status:      "Ready",
	}, nil
}

// Range returns the current trim range
func (m Model) Range() video.TrimRange {
	return m.controller.Range()
}

// Position returns the playback position in milliseconds
func (m Model) Position() int64 {
	return m.controller.Position()
}

// Busy reports whether a trim is running
func (m Model) Busy() bool {
	return m.job != nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil

	case tickMsg:
		if m.player.Playing() {
			m.controller.OnPlayback(m.player.Position())
		}
		return m, tick()

	case progressMsg:
		if m.job == nil || msg.jobID != m.job.ID {
			return m, nil
		}
		m.encode = msg.progress
		return m, waitForJob(m.job)

	case jobDoneMsg:
		return m.finishJob(msg.result), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		if m.job != nil {
			m.job.Cancel()
		}
		_ = m.player.Pause()
		return m, tea.Quit

	case "left":
		m.controller.SeekTo(m.controller.Position() - scrubStep)
	case "right":
		m.controller.SeekTo(m.controller.Position() + scrubStep)
	case "shift+left":
		m.controller.SeekTo(m.controller.Position() - scrubStepFast)
	case "shift+right":
		m.controller.SeekTo(m.controller.Position() + scrubStepFast)
	case "home":
		m.controller.SeekTo(0)

	case "[":
		m.controller.NudgeStart(-1)
	case "]":
		m.controller.NudgeStart(1)
	case "{":
		m.controller.NudgeEnd(-1)
	case "}":
		m.controller.NudgeEnd(1)
	case "s":
		m.controller.SetStart(int(m.controller.Position() / 1000))
	case "e":
		m.controller.SetEnd(int(m.controller.Position() / 1000))

	case " ":
		m.togglePlayback()

	case "t":
		return m.startTrim()

	case "c":
		if m.job != nil {
			m.job.Cancel()
			m.setStatus("Cancelling trim...", false)
		}
	}
	return m, nil
}

func (m *Model) togglePlayback() {
	var err error
	if m.player.Playing() {
		err = m.player.Pause()
	} else {
		err = m.player.Play()
	}
	if err != nil {
		m.logger.Warn("playback toggle failed", zap.Error(err))
		m.setStatus(fmt.Sprintf("Playback failed: %v", err), true)
	}
}

func (m Model) startTrim() (tea.Model, tea.Cmd) {
	if m.job != nil {
		m.setStatus("A trim is already running", true)
		return m, nil
	}

	r := m.controller.Range()
	plan, err := m.opts.Planner.PlanRange(m.opts.SourcePath, r, m.opts.Tracks, m.opts.TargetSizeMB)
	if err != nil {
		m.setStatus(fmt.Sprintf("Cannot trim: %v", err), true)
		return m, nil
	}

	m.job = m.opts.Jobs.Start(m.ctx, plan)
	m.encode = video.Progress{}
	m.setStatus(fmt.Sprintf("Trimming %s to %s", r, filepath.Base(plan.OutputPath)), false)
	return m, waitForJob(m.job)
}

func (m Model) finishJob(result appvideo.JobResult) Model {
	if m.job == nil || result.JobID != m.job.ID {
		return m
	}
	m.job = nil

	switch {
	case result.Cancelled():
		m.setStatus("Trim cancelled", false)
	case result.Err != nil:
		m.setStatus(fmt.Sprintf("Trim failed: %v", result.Err), true)
	default:
		m.lastClip = result.OutputPath
		m.setStatus(fmt.Sprintf("Saved %s in %s", result.OutputPath, result.Elapsed.Round(time.Second)), false)
	}
	return m
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) resize(width int) {
	w := width - barPadding
	if w < minBarWidth {
		w = minBarWidth
	}
	if w > maxBarWidth {
		w = maxBarWidth
	}
	m.positionBar.Width = w
	m.startBar.Width = w
	m.endBar.Width = w
	m.encodeBar.Width = w
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForJob delivers the next progress update, or the result once the
// progress channel is closed
func waitForJob(job *appvideo.Job) tea.Cmd {
	return func() tea.Msg {
		if p, ok := <-job.Progress(); ok {
			return progressMsg{jobID: job.ID, progress: p}
		}
		return jobDoneMsg{result: job.Wait()}
	}
}
