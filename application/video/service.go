package video

import (
	"context"
	"fmt"

	"clip-trimmer/domain/video"
)

// TrimService turns user input into validated transcode plans
type TrimService struct {
	prober       video.AudioProber
	durations    video.DurationReader
	fileChecker  video.FileChecker
	outputDir    string
	suffix       string
	targetSizeMB float64
}

// NewTrimService creates a new TrimService. durations bounds ranges given
// on the command line and is only needed by Plan.
func NewTrimService(prober video.AudioProber, durations video.DurationReader, fileChecker video.FileChecker, outputDir, suffix string, targetSizeMB float64) *TrimService {
	if suffix == "" {
		suffix = video.DefaultOutputSuffix
	}
	if targetSizeMB <= 0 {
		targetSizeMB = video.DefaultTargetSizeMB
	}
	return &TrimService{
		prober:       prober,
		durations:    durations,
		fileChecker:  fileChecker,
		outputDir:    outputDir,
		suffix:       suffix,
		targetSizeMB: targetSizeMB,
	}
}

// TrimInput represents the input for a trim operation
type TrimInput struct {
	SourcePath   string
	StartTime    string  // HH:MM:SS or seconds
	EndTime      string  // HH:MM:SS or seconds
	TargetSizeMB float64 // Optional, uses service default if zero
}

// Plan validates the input against the source's duration, probes its audio
// tracks and returns the transcode plan. Ranges are rejected rather than
// clamped so the clip never differs from what was asked for.
func (s *TrimService) Plan(ctx context.Context, input TrimInput) (video.TranscodePlan, error) {
	if !s.fileChecker.Exists(input.SourcePath) {
		return video.TranscodePlan{}, fmt.Errorf("source file does not exist: %s", input.SourcePath)
	}

	start, err := video.ParseTimestamp(input.StartTime)
	if err != nil {
		return video.TranscodePlan{}, fmt.Errorf("invalid start time: %w", err)
	}

	end, err := video.ParseTimestamp(input.EndTime)
	if err != nil {
		return video.TranscodePlan{}, fmt.Errorf("invalid end time: %w", err)
	}

	r := video.TrimRange{Start: start.TotalSeconds(), End: end.TotalSeconds()}
	if err := r.Validate(); err != nil {
		return video.TranscodePlan{}, err
	}

	total, err := s.durations.DurationSeconds(ctx, input.SourcePath)
	if err != nil {
		return video.TranscodePlan{}, fmt.Errorf("failed to read duration: %w", err)
	}
	if err := fitRange(r, total); err != nil {
		return video.TranscodePlan{}, err
	}

	count, err := s.prober.ProbeAudioTrackCount(ctx, input.SourcePath)
	if err != nil {
		return video.TranscodePlan{}, fmt.Errorf("failed to probe audio tracks: %w", err)
	}

	return s.PlanRange(input.SourcePath, r, video.NewAudioTrackSet(count), input.TargetSizeMB)
}

// PlanRange builds a plan for a range chosen interactively, where the audio
// tracks are already known
func (s *TrimService) PlanRange(sourcePath string, r video.TrimRange, tracks video.AudioTrackSet, targetSizeMB float64) (video.TranscodePlan, error) {
	if targetSizeMB <= 0 {
		targetSizeMB = s.targetSizeMB
	}

	req, err := video.NewTranscodeRequest(sourcePath, r, targetSizeMB, tracks)
	if err != nil {
		return video.TranscodePlan{}, err
	}

	return video.PlanTranscode(req, s.outputDir, s.suffix)
}

// fitRange applies r to a RangeController over media of total seconds and
// rejects the range when the controller had to move either bound.
func fitRange(r video.TrimRange, total int) error {
	c, err := video.NewRangeController(total, nil)
	if err != nil {
		return err
	}
	c.SetEnd(r.End)
	c.SetStart(r.Start)
	if got := c.Range(); got != r {
		return fmt.Errorf("%w: %s does not fit media of %s, nearest valid range is %s",
			video.ErrInvalidRange, r, video.TimestampFromSeconds(total), got)
	}
	return nil
}
