package video

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultOutputSuffix is appended to the source stem to name trimmed clips
const DefaultOutputSuffix = " - Trim"

// TranscodeRequest describes one trim of a source file. It is built fresh for
// every trim and passed by value to the worker that runs it.
type TranscodeRequest struct {
	InputPath    string
	Range        TrimRange
	TargetSizeMB float64
	AudioTracks  AudioTrackSet
}

// NewTranscodeRequest creates a validated TranscodeRequest
func NewTranscodeRequest(inputPath string, r TrimRange, targetSizeMB float64, tracks AudioTrackSet) (TranscodeRequest, error) {
	req := TranscodeRequest{
		InputPath:    inputPath,
		Range:        r,
		TargetSizeMB: targetSizeMB,
		AudioTracks:  append(AudioTrackSet(nil), tracks...),
	}
	if err := req.Validate(); err != nil {
		return TranscodeRequest{}, err
	}
	return req, nil
}

// Validate checks that the request can be planned
func (r TranscodeRequest) Validate() error {
	if r.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if err := r.Range.Validate(); err != nil {
		return err
	}
	if r.TargetSizeMB <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidTargetSize, r.TargetSizeMB)
	}
	return nil
}

// OutputFilename returns "<stem><suffix><ext>" for the input file
func (r TranscodeRequest) OutputFilename(suffix string) string {
	base := filepath.Base(r.InputPath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + suffix + ext
}

// OutputPath returns the full output path given an output directory
func (r TranscodeRequest) OutputPath(outputDir, suffix string) string {
	return filepath.Join(outputDir, r.OutputFilename(suffix))
}

// TranscodePlan is a TranscodeRequest resolved into encoder parameters
type TranscodePlan struct {
	Request      TranscodeRequest
	VideoBitrate int64  // bits/sec
	AudioFilter  string // empty when the input has at most one audio track
	OutputPath   string
}

// Duration returns the clip length in seconds
func (p TranscodePlan) Duration() int {
	return p.Request.Range.Duration()
}

// HasAudio reports whether the output carries an audio stream
func (p TranscodePlan) HasAudio() bool {
	return p.Request.AudioTracks.Len() > 0
}

// PlanTranscode computes the bitrate and audio mix for a request
func PlanTranscode(req TranscodeRequest, outputDir, suffix string) (TranscodePlan, error) {
	if err := req.Validate(); err != nil {
		return TranscodePlan{}, err
	}
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}

	bitrate, err := ComputeBitrate(req.TargetSizeMB, req.Range.Duration())
	if err != nil {
		return TranscodePlan{}, err
	}

	plan := TranscodePlan{
		Request:      req,
		VideoBitrate: bitrate,
		OutputPath:   req.OutputPath(outputDir, suffix),
	}

	if req.AudioTracks.NeedsMix() {
		plan.AudioFilter, err = BuildAudioMixExpression(req.AudioTracks)
		if err != nil {
			return TranscodePlan{}, err
		}
	}

	return plan, nil
}
