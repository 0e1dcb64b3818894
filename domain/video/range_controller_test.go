package video

import (
	"errors"
	"testing"
)

// recordingSeeker captures player repositioning
type recordingSeeker struct {
	positions []int64
}

func (s *recordingSeeker) SetPosition(ms int64) {
	s.positions = append(s.positions, ms)
}

func (s *recordingSeeker) last() int64 {
	if len(s.positions) == 0 {
		return -1
	}
	return s.positions[len(s.positions)-1]
}

func newController(t *testing.T, total int) (*RangeController, *recordingSeeker) {
	t.Helper()
	seeker := &recordingSeeker{}
	c, err := NewRangeController(total, seeker)
	if err != nil {
		t.Fatalf("NewRangeController(%d) unexpected error: %v", total, err)
	}
	return c, seeker
}

func TestNewRangeController(t *testing.T) {
	c, _ := newController(t, 120)
	if got := c.Range(); got != (TrimRange{Start: 0, End: 120}) {
		t.Errorf("initial range = %v, want [0,120]", got)
	}

	for _, total := range []int{0, 1, MinLength - 1} {
		_, err := NewRangeController(total, nil)
		if !errors.Is(err, ErrDegenerateMedia) {
			t.Errorf("NewRangeController(%d) error = %v, want ErrDegenerateMedia", total, err)
		}
	}

	if _, err := NewRangeController(MinLength, nil); err != nil {
		t.Errorf("NewRangeController(MinLength) unexpected error: %v", err)
	}
}

func TestRangeController_SetStart(t *testing.T) {
	tests := []struct {
		name      string
		end       int
		value     int
		wantRange TrimRange
		wantSeek  int64
	}{
		{"inside range", 60, 10, TrimRange{10, 60}, 10000},
		{"pushes end forward", 20, 19, TrimRange{19, 22}, 19000},
		{"exactly min length", 20, 17, TrimRange{17, 20}, 17000},
		{"negative clamps to zero", 60, -5, TrimRange{0, 60}, 0},
		{"past total clamps", 60, 500, TrimRange{97, 100}, 97000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, seeker := newController(t, 100)
			c.SetEnd(tt.end)

			c.SetStart(tt.value)

			if got := c.Range(); got != tt.wantRange {
				t.Errorf("Range() = %v, want %v", got, tt.wantRange)
			}
			if seeker.last() != tt.wantSeek {
				t.Errorf("seek = %d, want %d", seeker.last(), tt.wantSeek)
			}
		})
	}
}

func TestRangeController_SetEnd(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		value     int
		wantRange TrimRange
		wantSeek  int64
	}{
		{"inside range", 10, 50, TrimRange{10, 50}, 48800},
		{"pulls start back", 40, 41, TrimRange{38, 41}, 39800},
		{"below min clamps", 0, 1, TrimRange{0, 3}, 1800},
		{"past total clamps", 10, 900, TrimRange{10, 100}, 98800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, seeker := newController(t, 100)
			c.SetStart(tt.start)

			c.SetEnd(tt.value)

			if got := c.Range(); got != tt.wantRange {
				t.Errorf("Range() = %v, want %v", got, tt.wantRange)
			}
			if seeker.last() != tt.wantSeek {
				t.Errorf("seek = %d, want %d", seeker.last(), tt.wantSeek)
			}
		})
	}
}

func TestRangeController_MinLengthHoldsForAllValues(t *testing.T) {
	for _, total := range []int{MinLength, 4, 10, 61} {
		for value := -5; value <= total+5; value++ {
			c, _ := newController(t, total)
			c.SetStart(value)
			if r := c.Range(); r.Duration() < MinLength || r.Start < 0 || r.End > total {
				t.Fatalf("total=%d SetStart(%d) -> %v violates invariant", total, value, r)
			}

			c, _ = newController(t, total)
			c.SetEnd(value)
			if r := c.Range(); r.Duration() < MinLength || r.Start < 0 || r.End > total {
				t.Fatalf("total=%d SetEnd(%d) -> %v violates invariant", total, value, r)
			}
		}
	}
}

func TestRangeController_MixedSequenceKeepsInvariant(t *testing.T) {
	c, _ := newController(t, 30)
	ops := []struct {
		start bool
		value int
	}{
		{true, 10}, {false, 11}, {true, 29}, {false, 0}, {true, 2}, {false, 5}, {true, 4},
	}
	for _, op := range ops {
		if op.start {
			c.SetStart(op.value)
		} else {
			c.SetEnd(op.value)
		}
		if r := c.Range(); r.Duration() < MinLength {
			t.Fatalf("after op %+v range %v shorter than MinLength", op, r)
		}
	}
}

func TestRangeController_RepeatedCallIsIdempotent(t *testing.T) {
	c, _ := newController(t, 100)
	c.SetEnd(20)

	c.SetStart(19)
	first := c.Range()
	c.SetStart(19)
	if got := c.Range(); got != first {
		t.Errorf("second SetStart changed state: %v -> %v", first, got)
	}

	c.SetEnd(first.End)
	if got := c.Range(); got != first {
		t.Errorf("SetEnd to implied end changed state: %v -> %v", first, got)
	}
	c.SetEnd(first.End)
	if got := c.Range(); got != first {
		t.Errorf("second SetEnd changed state: %v -> %v", first, got)
	}
}

func TestRangeController_SeekTo(t *testing.T) {
	c, seeker := newController(t, 100)
	c.SetStart(10)
	c.SetEnd(20)

	if got := c.SeekTo(20*1000 + 1); got != 10000 {
		t.Errorf("SeekTo(end+1) = %d, want 10000", got)
	}
	if seeker.last() != 10000 {
		t.Errorf("player position = %d, want 10000", seeker.last())
	}

	if got := c.SeekTo(15500); got != 15500 {
		t.Errorf("SeekTo(inside) = %d, want 15500", got)
	}
	if got := c.SeekTo(20000); got != 20000 {
		t.Errorf("SeekTo(end) = %d, want 20000", got)
	}
	if got := c.SeekTo(500); got != 10000 {
		t.Errorf("SeekTo(before start) = %d, want 10000", got)
	}
}

func TestRangeController_OnPlayback(t *testing.T) {
	c, seeker := newController(t, 100)
	c.SetStart(5)
	c.SetEnd(10)
	calls := len(seeker.positions)

	if got := c.OnPlayback(7000); got != 7000 {
		t.Errorf("OnPlayback(7000) = %d", got)
	}
	if len(seeker.positions) != calls {
		t.Error("OnPlayback inside the window should not reposition the player")
	}

	if got := c.OnPlayback(10001); got != 5000 {
		t.Errorf("OnPlayback(past end) = %d, want 5000", got)
	}
	if seeker.last() != 5000 {
		t.Errorf("player position = %d, want 5000", seeker.last())
	}
}

func TestRangeController_Nudge(t *testing.T) {
	c, _ := newController(t, 60)
	c.NudgeStart(5)
	c.NudgeEnd(-50)
	if got := c.Range(); got != (TrimRange{5, 10}) {
		t.Errorf("Range() = %v, want [5,10]", got)
	}
	c.NudgeEnd(-4)
	if got := c.Range(); got != (TrimRange{3, 6}) {
		t.Errorf("Range() = %v, want [3,6]", got)
	}
}

func TestTrimRange_Validate(t *testing.T) {
	tests := []struct {
		name    string
		r       TrimRange
		wantErr bool
	}{
		{"valid", TrimRange{0, 10}, false},
		{"equal bounds", TrimRange{5, 5}, true},
		{"reversed", TrimRange{10, 5}, true},
		{"negative start", TrimRange{-1, 5}, true},
		{"one second", TrimRange{0, 1}, true},
		{"exactly min length", TrimRange{4, 4 + MinLength}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidRange) {
				t.Errorf("Validate() error = %v, want ErrInvalidRange", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
