package video

import (
	"fmt"
	"time"
)

// MinLength is the shortest trim range, in seconds
const MinLength = 3

// EndPreviewLead is how far before the end bound playback is placed after
// the end bound moves, so the last moments of the clip can be reviewed.
const EndPreviewLead = 1200 * time.Millisecond

// TrimRange is a [Start, End] interval in whole seconds
type TrimRange struct {
	Start int
	End   int
}

// Duration returns the length of the range in seconds
func (r TrimRange) Duration() int {
	return r.End - r.Start
}

// Validate checks non-negative bounds, start < end and a length of at least
// MinLength
func (r TrimRange) Validate() error {
	if r.Start < 0 {
		return fmt.Errorf("%w: start %d is negative", ErrInvalidRange, r.Start)
	}
	if r.End <= r.Start {
		return fmt.Errorf("%w: end time %s must be after start time %s",
			ErrInvalidRange, TimestampFromSeconds(r.End), TimestampFromSeconds(r.Start))
	}
	if r.Duration() < MinLength {
		return fmt.Errorf("%w: %ds is shorter than the %ds minimum", ErrInvalidRange, r.Duration(), MinLength)
	}
	return nil
}

func (r TrimRange) String() string {
	return fmt.Sprintf("%s-%s", TimestampFromSeconds(r.Start), TimestampFromSeconds(r.End))
}

// Seeker receives playback repositioning requests from the RangeController
type Seeker interface {
	SetPosition(ms int64)
}

type noopSeeker struct{}

func (noopSeeker) SetPosition(int64) {}

// RangeController owns the playback position and the trim bounds of one
// loaded media file and keeps End-Start >= MinLength across adjustments.
// It is not safe for concurrent use; the UI event loop owns it.
type RangeController struct {
	total    int
	start    int
	end      int
	position int64
	seeker   Seeker
}

// NewRangeController creates a controller for media of totalSeconds length.
// The initial range covers the whole media.
func NewRangeController(totalSeconds int, seeker Seeker) (*RangeController, error) {
	if totalSeconds < MinLength {
		return nil, fmt.Errorf("%w: %ds < %ds", ErrDegenerateMedia, totalSeconds, MinLength)
	}
	if seeker == nil {
		seeker = noopSeeker{}
	}
	return &RangeController{
		total:  totalSeconds,
		start:  0,
		end:    totalSeconds,
		seeker: seeker,
	}, nil
}

// Total returns the media duration in seconds
func (c *RangeController) Total() int {
	return c.total
}

// Range returns the current trim bounds
func (c *RangeController) Range() TrimRange {
	return TrimRange{Start: c.start, End: c.end}
}

// Position returns the playback position in milliseconds
func (c *RangeController) Position() int64 {
	return c.position
}

// SetStart moves the start bound. When the range would become shorter than
// MinLength the end bound is pushed forward by the same amount.
func (c *RangeController) SetStart(value int) {
	c.start = clamp(value, 0, c.total-MinLength)
	if c.start+MinLength > c.end {
		c.end = clamp(c.start+MinLength, MinLength, c.total)
	}
	c.moveTo(int64(c.start) * 1000)
}

// SetEnd moves the end bound. When the range would become shorter than
// MinLength the start bound is pulled back by the same amount.
func (c *RangeController) SetEnd(value int) {
	c.end = clamp(value, MinLength, c.total)
	if c.end-MinLength < c.start {
		c.start = clamp(c.end-MinLength, 0, c.total-MinLength)
	}
	c.moveTo(int64(c.end)*1000 - EndPreviewLead.Milliseconds())
}

// NudgeStart shifts the start bound by delta seconds
func (c *RangeController) NudgeStart(delta int) {
	c.SetStart(c.start + delta)
}

// NudgeEnd shifts the end bound by delta seconds
func (c *RangeController) NudgeEnd(delta int) {
	c.SetEnd(c.end + delta)
}

// SeekTo repositions playback. Positions past the end bound wrap to the start
// bound; positions before the start bound are clamped to it.
func (c *RangeController) SeekTo(positionMs int64) int64 {
	c.moveTo(c.bound(positionMs))
	return c.position
}

// OnPlayback records a position reported by the player. The player is only
// repositioned when the position left the trim window.
func (c *RangeController) OnPlayback(positionMs int64) int64 {
	bounded := c.bound(positionMs)
	if bounded != positionMs {
		c.moveTo(bounded)
		return c.position
	}
	c.position = positionMs
	return c.position
}

func (c *RangeController) bound(positionMs int64) int64 {
	startMs := int64(c.start) * 1000
	endMs := int64(c.end) * 1000
	switch {
	case positionMs > endMs:
		return startMs
	case positionMs < startMs:
		return startMs
	default:
		return positionMs
	}
}

func (c *RangeController) moveTo(positionMs int64) {
	c.position = positionMs
	c.seeker.SetPosition(positionMs)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
