package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"clip-trimmer/domain/video"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var probeFormat string

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Show the container, video and audio tracks of a recording",
	Long: `Read container metadata with ffprobe and list every audio track.

Example:
  clip-trimmer probe "input/match.mkv"
  clip-trimmer probe "input/match.mkv" --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().StringVar(&probeFormat, "format", "table", "Output format: table, json or yaml")
}

func runProbe(cmd *cobra.Command, args []string) error {
	s, err := GetSettings()
	if err != nil {
		return err
	}
	return RunProbeWithDependencies(cmd.Context(), newMediaProber(s), args[0], probeFormat, os.Stdout)
}

// ProbeReport is the serialized form of a probe
type ProbeReport struct {
	Path       string        `json:"path" yaml:"path"`
	Format     string        `json:"format" yaml:"format"`
	Duration   string        `json:"duration" yaml:"duration"`
	Seconds    int           `json:"seconds" yaml:"seconds"`
	Size       int64         `json:"size" yaml:"size"`
	VideoCodec string        `json:"video_codec" yaml:"video_codec"`
	Resolution string        `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	Audio      []AudioReport `json:"audio" yaml:"audio"`
	Mix        string        `json:"mix,omitempty" yaml:"mix,omitempty"`
}

// AudioReport describes one audio track
type AudioReport struct {
	Stream   string `json:"stream" yaml:"stream"`
	Index    int    `json:"index" yaml:"index"`
	Codec    string `json:"codec" yaml:"codec"`
	Channels int    `json:"channels" yaml:"channels"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// NewProbeReport converts MediaInfo into a ProbeReport
func NewProbeReport(info *video.MediaInfo) ProbeReport {
	report := ProbeReport{
		Path:       info.Path,
		Format:     info.Format,
		Seconds:    info.WholeSeconds(),
		Duration:   video.TimestampFromSeconds(info.WholeSeconds()).String(),
		Size:       info.Size,
		VideoCodec: info.VideoCodec,
		Audio:      make([]AudioReport, 0, len(info.AudioTracks)),
	}
	if info.Width > 0 && info.Height > 0 {
		report.Resolution = fmt.Sprintf("%dx%d", info.Width, info.Height)
	}
	for _, t := range info.AudioTracks {
		report.Audio = append(report.Audio, AudioReport{
			Stream:   fmt.Sprintf("0:a:%d", t.Ordinal),
			Index:    t.Index,
			Codec:    t.Codec,
			Channels: t.Channels,
			Language: t.Language,
		})
	}
	if tracks := info.TrackSet(); tracks.NeedsMix() {
		report.Mix, _ = video.BuildAudioMixExpression(tracks)
	}
	return report
}

// RunProbeWithDependencies runs the probe command with injected dependencies (for testing)
func RunProbeWithDependencies(ctx context.Context, prober video.MediaProber, path, format string, output io.Writer) error {
	info, err := prober.Probe(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to probe %s: %w", path, err)
	}
	report := NewProbeReport(info)

	switch format {
	case "json":
		enc := json.NewEncoder(output)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(output)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		return writeProbeTable(report, output)
	default:
		return fmt.Errorf("unknown format %q; use table, json or yaml", format)
	}
}

func writeProbeTable(r ProbeReport, output io.Writer) error {
	fmt.Fprintf(output, "%s\n", r.Path)
	fmt.Fprintf(output, "  Container: %s, %s\n", r.Format, humanize.Bytes(uint64(r.Size)))
	fmt.Fprintf(output, "  Duration:  %s (%ds)\n", r.Duration, r.Seconds)
	videoDesc := r.VideoCodec
	if r.Resolution != "" {
		videoDesc += " " + r.Resolution
	}
	fmt.Fprintf(output, "  Video:     %s\n\n", videoDesc)

	if len(r.Audio) == 0 {
		fmt.Fprintln(output, "No audio tracks.")
		return nil
	}

	rows := make([][]string, 0, len(r.Audio))
	for _, a := range r.Audio {
		rows = append(rows, []string{a.Stream, strconv.Itoa(a.Index), a.Codec, strconv.Itoa(a.Channels), a.Language})
	}
	fmt.Fprintln(output, renderTable([]string{"Stream", "Index", "Codec", "Channels", "Language"}, rows, 2, 4))

	if r.Mix != "" {
		fmt.Fprintf(output, "\nTrims mix these tracks with: %s\n", r.Mix)
	}
	return nil
}
