package video

import "context"

// Progress reports how far an encode has advanced
type Progress struct {
	Fraction float64 // 0..1 of the clip duration
	OutTime  int64   // encoded output time in milliseconds
	Speed    string  // encoder speed as reported by ffmpeg, e.g. "2.1x"
}

// ProgressFunc receives encode progress updates
type ProgressFunc func(Progress)

// Transcoder defines the interface for running a planned trim
// This is a port that can be implemented by different infrastructure adapters
type Transcoder interface {
	// Transcode encodes plan.Request into plan.OutputPath
	Transcode(ctx context.Context, plan TranscodePlan, progress ProgressFunc) error
}

// AudioProber counts the audio streams of a media file
type AudioProber interface {
	ProbeAudioTrackCount(ctx context.Context, path string) (int, error)
}

// MediaProber reads container metadata
type MediaProber interface {
	Probe(ctx context.Context, path string) (*MediaInfo, error)
}

// AudioMerger writes a merged-audio derivative for a MergeRequest
type AudioMerger interface {
	Merge(ctx context.Context, req *MergeRequest, outputPath string) error
}

// DurationReader returns the playable length of a media file in whole seconds
type DurationReader interface {
	DurationSeconds(ctx context.Context, path string) (int, error)
}

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}
