package trimview

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	appvideo "clip-trimmer/application/video"
	"clip-trimmer/domain/video"
	"clip-trimmer/infrastructure/player"
)

// fakeTranscoder implements video.Transcoder for testing
type fakeTranscoder struct {
	err     error
	block   bool
	started chan struct{}
}

func (f *fakeTranscoder) Transcode(ctx context.Context, plan video.TranscodePlan, progress video.ProgressFunc) error {
	if f.started != nil {
		close(f.started)
	}
	progress(video.Progress{Fraction: 0.5, Speed: "2x"})
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type harness struct {
	model      Model
	player     *player.NullPlayer
	clock      *fakeClock
	transcoder *fakeTranscoder
}

func newHarness(t *testing.T, total int) *harness {
	t.Helper()
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := player.NewNullPlayer(clock.now)
	tr := &fakeTranscoder{}

	m, err := New(Options{
		SourcePath:   "/input/game.mkv",
		PreviewPath:  "/temp/game.merged.mkv",
		Tracks:       video.NewAudioTrackSet(2),
		TotalSeconds: total,
		TargetSizeMB: 10,
		Player:       p,
		Planner:      appvideo.NewTrimService(nil, nil, nil, t.TempDir(), "", 10),
		Jobs:         appvideo.NewJobRunner(tr, nil),
	})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return &harness{model: m, player: p, clock: clock, transcoder: tr}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// drain runs cmd and feeds its messages back until the job reports done
func (h *harness) drain(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 100; i++ {
		msg := cmd()
		cmd = h.send(msg)
		if _, done := msg.(jobDoneMsg); done {
			return
		}
	}
	t.Fatal("job never finished")
}

func TestNew(t *testing.T) {
	h := newHarness(t, 60)
	if h.player.Path() != "/temp/game.merged.mkv" {
		t.Errorf("player loaded %q, want merged preview", h.player.Path())
	}
	if got := h.model.Range(); got != (video.TrimRange{Start: 0, End: 60}) {
		t.Errorf("initial range = %v", got)
	}

	_, err := New(Options{SourcePath: "x.mp4", TotalSeconds: 2, Player: player.NewNullPlayer(nil)})
	if !errors.Is(err, video.ErrDegenerateMedia) {
		t.Errorf("New() error = %v, want ErrDegenerateMedia", err)
	}
	if _, err := New(Options{SourcePath: "x.mp4", TotalSeconds: 10}); err == nil {
		t.Error("New() without player should fail")
	}
}

func TestUpdate_RangeKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want video.TrimRange
	}{
		{"nudge start forward", []string{"]", "]"}, video.TrimRange{Start: 2, End: 60}},
		{"nudge start back at zero", []string{"["}, video.TrimRange{Start: 0, End: 60}},
		{"nudge end back", []string{"{", "{", "{"}, video.TrimRange{Start: 0, End: 57}},
		{"nudge end past total", []string{"}"}, video.TrimRange{Start: 0, End: 60}},
		{"set start from position", []string{"right", "right", "right", "s"}, video.TrimRange{Start: 3, End: 60}},
		{"set end from position", []string{"right", "right", "right", "right", "right", "e"}, video.TrimRange{Start: 0, End: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 60)
			h.press(tt.keys...)
			if got := h.model.Range(); got != tt.want {
				t.Errorf("Range() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdate_ScrubStaysInsideRange(t *testing.T) {
	h := newHarness(t, 60)
	h.press("]", "]", "]", "]", "]")
	if got := h.model.Position(); got != 5000 {
		t.Fatalf("Position() after nudge = %d, want 5000", got)
	}

	h.press("left")
	if got := h.model.Position(); got != 5000 {
		t.Errorf("scrub before start = %d, want 5000", got)
	}
	if got := h.player.Position(); got != 5000 {
		t.Errorf("player position = %d, want 5000", got)
	}
}

func TestUpdate_PlaybackWrapsAtEnd(t *testing.T) {
	h := newHarness(t, 60)
	h.press("]", "]", "]", "]", "]")
	for i := 0; i < 50; i++ {
		h.press("{")
	}
	if got := h.model.Range(); got != (video.TrimRange{Start: 5, End: 10}) {
		t.Fatalf("Range() = %v", got)
	}
	h.press("home")

	h.press("space")
	if !h.player.Playing() {
		t.Fatal("space should start playback")
	}

	h.clock.advance(2 * time.Second)
	h.send(tickMsg(h.clock.t))
	if got := h.model.Position(); got != 7000 {
		t.Errorf("Position() = %d, want 7000", got)
	}

	h.clock.advance(4 * time.Second)
	h.send(tickMsg(h.clock.t))
	if got := h.model.Position(); got != 5000 {
		t.Errorf("Position() past end = %d, want wrap to 5000", got)
	}
	if got := h.player.Position(); got != 5000 {
		t.Errorf("player position = %d, want 5000", got)
	}

	h.press("space")
	if h.player.Playing() {
		t.Error("second space should pause")
	}
}

func TestUpdate_Trim(t *testing.T) {
	h := newHarness(t, 60)
	h.press("]", "{")

	cmd := h.send(keyMsg("t"))
	if cmd == nil || !h.model.Busy() {
		t.Fatal("t should start a trim job")
	}
	h.drain(t, cmd)

	if h.model.Busy() {
		t.Error("job should be finished")
	}
	if !strings.Contains(h.model.status, "Saved") || !strings.HasSuffix(h.model.lastClip, "game - Trim.mkv") {
		t.Errorf("status = %q, lastClip = %q", h.model.status, h.model.lastClip)
	}
}

func TestUpdate_TrimFailure(t *testing.T) {
	h := newHarness(t, 60)
	h.transcoder.err = &video.ToolError{Tool: "ffmpeg", ExitCode: 1, Stderr: "Invalid argument"}

	h.drain(t, h.send(keyMsg("t")))

	if !h.model.statusErr || !strings.Contains(h.model.status, "Trim failed") {
		t.Errorf("status = %q", h.model.status)
	}
}

func TestUpdate_CancelTrim(t *testing.T) {
	h := newHarness(t, 60)
	h.transcoder.block = true
	h.transcoder.started = make(chan struct{})

	cmd := h.send(keyMsg("t"))
	<-h.transcoder.started

	if again := h.send(keyMsg("t")); again != nil || !h.model.statusErr {
		t.Error("second trim while busy should be refused")
	}

	h.press("c")
	h.drain(t, cmd)

	if h.model.Busy() || h.model.status != "Trim cancelled" {
		t.Errorf("status = %q busy = %v", h.model.status, h.model.Busy())
	}
}

func TestUpdate_Quit(t *testing.T) {
	h := newHarness(t, 60)
	h.press("space")

	cmd := h.send(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if h.player.Playing() {
		t.Error("quit should pause playback")
	}
	if h.model.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestView(t *testing.T) {
	h := newHarness(t, 125)
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.press("]")

	out := h.model.View()
	for _, want := range []string{"game.mkv", "merged audio preview", "00:00:01-00:02:05", "124s", "Ready"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		ms    int64
		total int
		want  float64
	}{
		{0, 10, 0},
		{5000, 10, 0.5},
		{20000, 10, 1},
		{-1, 10, 0},
		{100, 0, 0},
	}
	for _, tt := range tests {
		if got := fraction(tt.ms, tt.total); got != tt.want {
			t.Errorf("fraction(%d, %d) = %v, want %v", tt.ms, tt.total, got, tt.want)
		}
	}
}
