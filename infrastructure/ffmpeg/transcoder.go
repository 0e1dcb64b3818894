package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"clip-trimmer/domain/video"
)

// DefaultVideoEncoder is the ffmpeg video codec used for trims
const DefaultVideoEncoder = "libx264"

// Transcoder implements video.Transcoder using ffmpeg
type Transcoder struct {
	ffmpegPath string
	encoder    string
	runner     CommandRunner
	logger     *zap.Logger
}

// TranscoderOption is a functional option for configuring Transcoder
type TranscoderOption func(*Transcoder)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) TranscoderOption {
	return func(t *Transcoder) {
		t.ffmpegPath = path
	}
}

// WithEncoder sets the video codec
func WithEncoder(encoder string) TranscoderOption {
	return func(t *Transcoder) {
		t.encoder = encoder
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) TranscoderOption {
	return func(t *Transcoder) {
		t.runner = runner
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) TranscoderOption {
	return func(t *Transcoder) {
		t.logger = logger
	}
}

// NewTranscoder creates a new FFmpeg-based transcoder
func NewTranscoder(opts ...TranscoderOption) *Transcoder {
	t := &Transcoder{
		ffmpegPath: "ffmpeg",
		encoder:    DefaultVideoEncoder,
		runner:     &ExecCommandRunner{},
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// BuildTranscodeArgs returns the ffmpeg arguments for a plan. Multiple audio
// tracks are mixed, a single track is mapped directly, and either way the
// audio is downmixed to stereo. Inputs without audio produce a silent clip.
func BuildTranscodeArgs(plan video.TranscodePlan, encoder string) []string {
	if encoder == "" {
		encoder = DefaultVideoEncoder
	}
	req := plan.Request

	args := []string{
		"-hide_banner",
		"-nostats",
		"-progress", "pipe:1",
		"-y",
		"-i", req.InputPath,
		"-ss", strconv.Itoa(req.Range.Start),
		"-to", strconv.Itoa(req.Range.End),
		"-map", "0:v:0",
	}

	switch {
	case plan.AudioFilter != "":
		args = append(args,
			"-filter_complex", plan.AudioFilter,
			"-map", video.MixedAudioLabel,
		)
	case plan.HasAudio():
		args = append(args, "-map", fmt.Sprintf("0:a:%d", req.AudioTracks[0]))
	default:
		args = append(args, "-an")
	}

	args = append(args,
		"-c:v", encoder,
		"-b:v", strconv.FormatInt(plan.VideoBitrate, 10),
	)
	if plan.HasAudio() {
		args = append(args, "-c:a", "aac", "-ac", "2")
	}

	return append(args, plan.OutputPath)
}

// Transcode implements video.Transcoder
func (t *Transcoder) Transcode(ctx context.Context, plan video.TranscodePlan, progress video.ProgressFunc) error {
	args := BuildTranscodeArgs(plan, t.encoder)
	t.logger.Debug("starting transcode",
		zap.String("input", plan.Request.InputPath),
		zap.String("output", plan.OutputPath),
		zap.Int64("video_bitrate", plan.VideoBitrate),
		zap.Strings("args", args),
	)

	parser := NewProgressParser(plan.Duration())
	onLine := func(line string) {
		if p, ok := parser.Feed(line); ok && progress != nil {
			progress(p)
		}
	}

	if err := t.runner.Stream(ctx, onLine, t.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg transcode failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (t *Transcoder) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, t.runner, t.ffmpegPath)
}

// ProgressParser turns ffmpeg `-progress` key=value lines into video.Progress
// updates. One update is produced per `progress=` line.
type ProgressParser struct {
	durationMs int64
	current    video.Progress
}

// NewProgressParser creates a parser for a clip of durationSeconds
func NewProgressParser(durationSeconds int) *ProgressParser {
	return &ProgressParser{durationMs: int64(durationSeconds) * 1000}
}

// Feed consumes one line and reports whether a complete update is available
func (p *ProgressParser) Feed(line string) (video.Progress, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return video.Progress{}, false
	}
	value = strings.TrimSpace(value)

	switch key {
	case "out_time_us", "out_time_ms":
		// both keys carry microseconds
		if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
			p.current.OutTime = us / 1000
		}
	case "speed":
		if value != "N/A" {
			p.current.Speed = value
		}
	case "progress":
		if value == "end" {
			p.current.Fraction = 1
			if p.durationMs > 0 {
				p.current.OutTime = p.durationMs
			}
		} else {
			p.current.Fraction = p.fraction()
		}
		return p.current, true
	}
	return video.Progress{}, false
}

func (p *ProgressParser) fraction() float64 {
	if p.durationMs <= 0 {
		return 0
	}
	f := float64(p.current.OutTime) / float64(p.durationMs)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Ensure Transcoder implements video.Transcoder
var _ video.Transcoder = (*Transcoder)(nil)
