package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clip-trimmer/domain/video"
)

// FFprobe implements video.MediaProber and video.AudioProber with a single
// ffprobe JSON call.
type FFprobe struct {
	ffprobePath string
	runner      CommandRunner
}

// ProberOption is a functional option for configuring the probers
type ProberOption func(*proberConfig)

type proberConfig struct {
	path   string
	runner CommandRunner
}

// WithProbePath sets the ffprobe (or, for the text prober, ffmpeg) executable path
func WithProbePath(path string) ProberOption {
	return func(c *proberConfig) {
		c.path = path
	}
}

// WithProbeCommandRunner sets a custom command runner (for testing)
func WithProbeCommandRunner(runner CommandRunner) ProberOption {
	return func(c *proberConfig) {
		c.runner = runner
	}
}

func newProberConfig(defaultPath string, opts []ProberOption) proberConfig {
	c := proberConfig{path: defaultPath, runner: &ExecCommandRunner{}}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewFFprobe creates an ffprobe-backed prober
func NewFFprobe(opts ...ProberOption) *FFprobe {
	c := newProberConfig("ffprobe", opts)
	return &FFprobe{ffprobePath: c.path, runner: c.runner}
}

// Probe implements video.MediaProber
func (p *FFprobe) Probe(ctx context.Context, path string) (*video.MediaInfo, error) {
	out, err := p.runner.Output(ctx, p.ffprobePath,
		"-v", "error",
		"-hide_banner",
		"-show_format",
		"-show_streams",
		"-of", "json",
		"--", path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	info, err := ParseJSON(out)
	if err != nil {
		return nil, err
	}
	info.Path = path
	return info, nil
}

// ProbeAudioTrackCount implements video.AudioProber
func (p *FFprobe) ProbeAudioTrackCount(ctx context.Context, path string) (int, error) {
	info, err := p.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return len(info.AudioTracks), nil
}

// ParseJSON converts raw ffprobe JSON output into a MediaInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*video.MediaInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	info := &video.MediaInfo{
		Path:     raw.Format.Filename,
		Format:   raw.Format.FormatName,
		Duration: parseSeconds(raw.Format.Duration),
		Size:     parseInt64(raw.Format.Size),
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if info.VideoCodec == "" && s.Disposition["attached_pic"] != 1 {
				info.VideoCodec = s.CodecName
				info.Width = s.Width
				info.Height = s.Height
			}
		case "audio":
			info.AudioTracks = append(info.AudioTracks, video.AudioTrack{
				Ordinal:  len(info.AudioTracks),
				Index:    s.Index,
				Codec:    s.CodecName,
				Channels: s.Channels,
				Language: s.Tags["language"],
			})
		}
	}

	return info, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

type ffprobeStream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Channels    int               `json:"channels"`
	Disposition map[string]int    `json:"disposition"`
	Tags        map[string]string `json:"tags"`
}

func parseSeconds(s string) time.Duration {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return time.Duration(math.Round(f * float64(time.Second)))
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// audioStreamPattern matches ffmpeg's stream listing lines such as
// "Stream #0:1[0x2](eng): Audio: aac".
var audioStreamPattern = regexp.MustCompile(`Stream #\d+:\d+(\[0x[0-9a-f]+\])?(\([^)]*\))?: Audio:`)

// inputHeader marks that ffmpeg opened and described the input
const inputHeader = "Input #"

var errNoInputHeader = errors.New("no input description in ffmpeg output")

// TextProber implements video.AudioProber by scanning the stream listing
// ffmpeg prints for `ffmpeg -i <file>`. It works with ffmpeg builds that
// ship without ffprobe.
type TextProber struct {
	ffmpegPath string
	runner     CommandRunner
}

// NewTextProber creates a prober that reads ffmpeg's diagnostic output
func NewTextProber(opts ...ProberOption) *TextProber {
	c := newProberConfig("ffmpeg", opts)
	return &TextProber{ffmpegPath: c.path, runner: c.runner}
}

// ProbeAudioTrackCount implements video.AudioProber. ffmpeg exits non-zero
// because no output file is given; that is only an error when the input
// could not be described.
func (p *TextProber) ProbeAudioTrackCount(ctx context.Context, path string) (int, error) {
	out, err := p.runner.CombinedOutput(ctx, p.ffmpegPath, "-hide_banner", "-i", path)
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	text := string(out)
	if !strings.Contains(text, inputHeader) {
		if err == nil {
			err = &video.ToolError{
				Tool:   p.ffmpegPath,
				Args:   []string{"-hide_banner", "-i", path},
				Stderr: text,
				Err:    errNoInputHeader,
			}
		}
		return 0, fmt.Errorf("ffmpeg could not read %q: %w", path, err)
	}

	return CountAudioStreams(text), nil
}

// CountAudioStreams counts the audio stream lines in ffmpeg's input listing
func CountAudioStreams(output string) int {
	return len(audioStreamPattern.FindAllStringIndex(output, -1))
}

// Ensure the probers implement their ports
var (
	_ video.MediaProber = (*FFprobe)(nil)
	_ video.AudioProber = (*FFprobe)(nil)
	_ video.AudioProber = (*TextProber)(nil)
)
