package filesystem

import (
	"os"
	"time"

	"clip-trimmer/domain/video"
)

// Checker implements video.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Size returns the size of the file in bytes, or 0 if it cannot be read
func (c *Checker) Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// ModTime returns the modification time of the file and whether it exists
func (c *Checker) ModTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Ensure Checker implements video.FileChecker
var _ video.FileChecker = (*Checker)(nil)
