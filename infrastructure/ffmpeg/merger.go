package ffmpeg

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"clip-trimmer/domain/video"
)

// Merger implements video.AudioMerger using ffmpeg
type Merger struct {
	ffmpegPath string
	runner     CommandRunner
	logger     *zap.Logger
}

// MergerOption is a functional option for configuring Merger
type MergerOption func(*Merger)

// WithMergerFFmpegPath sets a custom ffmpeg executable path
func WithMergerFFmpegPath(path string) MergerOption {
	return func(m *Merger) {
		m.ffmpegPath = path
	}
}

// WithMergerCommandRunner sets a custom command runner (for testing)
func WithMergerCommandRunner(runner CommandRunner) MergerOption {
	return func(m *Merger) {
		m.runner = runner
	}
}

// WithMergerLogger sets the logger
func WithMergerLogger(logger *zap.Logger) MergerOption {
	return func(m *Merger) {
		m.logger = logger
	}
}

// NewMerger creates a new FFmpeg-based audio merger
func NewMerger(opts ...MergerOption) *Merger {
	m := &Merger{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// BuildMergeArgs returns the ffmpeg arguments that copy the video stream and
// replace the audio with a single mixed AAC track.
func BuildMergeArgs(req *video.MergeRequest, outputPath string) ([]string, error) {
	filter, err := req.FilterExpression()
	if err != nil {
		return nil, err
	}

	return []string{
		"-hide_banner",
		"-y",
		"-i", req.SourcePath,
		"-filter_complex", filter,
		"-map", "0:v",
		"-map", video.MixedAudioLabel,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", req.AudioBitrate,
		outputPath,
	}, nil
}

// Merge implements video.AudioMerger
func (m *Merger) Merge(ctx context.Context, req *video.MergeRequest, outputPath string) error {
	args, err := BuildMergeArgs(req, outputPath)
	if err != nil {
		return err
	}

	m.logger.Debug("merging audio tracks",
		zap.String("source", req.SourcePath),
		zap.Int("tracks", req.AudioTracks.Len()),
		zap.String("output", outputPath),
	)

	if err := m.runner.Run(ctx, m.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg audio merge failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (m *Merger) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, m.runner, m.ffmpegPath)
}

// Ensure Merger implements video.AudioMerger
var _ video.AudioMerger = (*Merger)(nil)
