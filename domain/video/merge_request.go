package video

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultAudioBitrate is the AAC bitrate of merged preview audio
const DefaultAudioBitrate = "192k"

// mergedSuffix is appended to the source stem for the cached derivative
const mergedSuffix = "_merged_audio"

// MergeRequest asks for a single-audio-track derivative of a multi-track source
type MergeRequest struct {
	SourcePath   string
	AudioTracks  AudioTrackSet
	CacheDir     string
	AudioBitrate string
}

// NewMergeRequest creates a validated MergeRequest
func NewMergeRequest(sourcePath string, tracks AudioTrackSet, cacheDir, bitrate string) (*MergeRequest, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source video path is required")
	}
	if cacheDir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if tracks.Len() == 0 {
		return nil, fmt.Errorf("%w: nothing to merge in %s", ErrNoAudioTracks, sourcePath)
	}
	if bitrate == "" {
		bitrate = DefaultAudioBitrate
	}

	return &MergeRequest{
		SourcePath:   sourcePath,
		AudioTracks:  tracks,
		CacheDir:     cacheDir,
		AudioBitrate: bitrate,
	}, nil
}

// CachePath returns <cache>/<stem>_merged_audio<ext>
func (r *MergeRequest) CachePath() string {
	base := filepath.Base(r.SourcePath)
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".mp4"
	}
	return filepath.Join(r.CacheDir, strings.TrimSuffix(base, filepath.Ext(base))+mergedSuffix+ext)
}

// FilterExpression returns the mix filter for the request's tracks
func (r *MergeRequest) FilterExpression() (string, error) {
	return BuildAudioMixExpression(r.AudioTracks)
}
