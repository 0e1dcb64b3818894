package video

import (
	"fmt"
	"regexp"
	"strconv"
)

// Timestamp represents a position in a video in HH:MM:SS form
type Timestamp struct {
	Hours   int
	Minutes int
	Seconds int
}

// timestampRegex matches HH:MM:SS format
var timestampRegex = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)

// secondsRegex matches a plain non-negative number of seconds
var secondsRegex = regexp.MustCompile(`^\d+$`)

// ParseTimestamp parses either HH:MM:SS or a plain number of seconds
func ParseTimestamp(s string) (Timestamp, error) {
	if secondsRegex.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Timestamp{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return TimestampFromSeconds(n), nil
	}

	matches := timestampRegex.FindStringSubmatch(s)
	if matches == nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp format %q: expected HH:MM:SS or seconds", s)
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])

	if minutes > 59 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: minutes must be 0-59", s)
	}
	if seconds > 59 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: seconds must be 0-59", s)
	}

	return Timestamp{
		Hours:   hours,
		Minutes: minutes,
		Seconds: seconds,
	}, nil
}

// TimestampFromSeconds converts a whole number of seconds into a Timestamp
func TimestampFromSeconds(total int) Timestamp {
	if total < 0 {
		total = 0
	}
	return Timestamp{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// String returns the timestamp in HH:MM:SS format
func (t Timestamp) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// TotalSeconds returns the timestamp as total seconds
func (t Timestamp) TotalSeconds() int {
	return t.Hours*3600 + t.Minutes*60 + t.Seconds
}

// IsZero returns true if the timestamp is 00:00:00
func (t Timestamp) IsZero() bool {
	return t.TotalSeconds() == 0
}

// Before returns true if t is before other
func (t Timestamp) Before(other Timestamp) bool {
	return t.TotalSeconds() < other.TotalSeconds()
}

// FormatMillis renders a millisecond position as HH:MM:SS.mmm
func FormatMillis(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	ts := TimestampFromSeconds(int(ms / 1000))
	return fmt.Sprintf("%s.%03d", ts, ms%1000)
}
