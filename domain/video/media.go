package video

import (
	"path/filepath"
	"strings"
	"time"
)

// AudioTrack describes one audio stream of a container
type AudioTrack struct {
	Ordinal  int // position among audio streams, used as 0:a:N
	Index    int // absolute stream index
	Codec    string
	Channels int
	Language string
}

// MediaInfo is the subset of container metadata the trimmer needs
type MediaInfo struct {
	Path        string
	Format      string
	Duration    time.Duration
	Size        int64
	VideoCodec  string
	Width       int
	Height      int
	AudioTracks []AudioTrack
}

// TrackSet returns the audio ordinals of the media
func (m *MediaInfo) TrackSet() AudioTrackSet {
	return NewAudioTrackSet(len(m.AudioTracks))
}

// WholeSeconds returns the duration truncated to whole seconds
func (m *MediaInfo) WholeSeconds() int {
	return int(m.Duration / time.Second)
}

// VideoExtensions are the container extensions offered for trimming
var VideoExtensions = []string{".mp4", ".mkv", ".mov", ".m4v", ".webm", ".avi"}

// IsVideoFile reports whether path has one of VideoExtensions
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range VideoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}
