package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	appvideo "clip-trimmer/application/video"
	"clip-trimmer/domain/distribution"
	"clip-trimmer/domain/video"
)

// FileFinder locates source videos
type FileFinder interface {
	FindNewestVideo(dir string) (string, error)
}

// FileSizer provides file size information
type FileSizer interface {
	Size(path string) int64
}

// Sharer uploads a finished clip and returns its public link
type Sharer interface {
	Share(ctx context.Context, clipPath string) (*distribution.UploadResult, error)
}

// Service orchestrates the trim workflow: plan, encode and optionally share
type Service struct {
	trims     *appvideo.TrimService
	jobs      *appvideo.JobRunner
	fileSizer FileSizer
	finder    FileFinder
	sharer    Sharer
	inputDir  string
	output    io.Writer
}

// NewService creates a new process service. sharer may be nil when sharing
// is not configured.
func NewService(
	trims *appvideo.TrimService,
	jobs *appvideo.JobRunner,
	fileSizer FileSizer,
	finder FileFinder,
	sharer Sharer,
	inputDir string,
	output io.Writer,
) *Service {
	if output == nil {
		output = io.Discard
	}
	return &Service{
		trims:     trims,
		jobs:      jobs,
		fileSizer: fileSizer,
		finder:    finder,
		sharer:    sharer,
		inputDir:  inputDir,
		output:    output,
	}
}

// Input contains all input parameters for a trim run
type Input struct {
	InputPath    string             // Source video path (optional, newest in input dir if empty)
	StartTime    string             // HH:MM:SS or seconds
	EndTime      string             // HH:MM:SS or seconds
	TargetSizeMB float64            // Optional, uses configured default if zero
	Share        bool               // Upload and share the clip after encoding
	OnProgress   video.ProgressFunc // Optional encode progress callback
}

// Result contains the results of a successful run
type Result struct {
	JobID        string
	OutputPath   string
	OutputSize   int64
	VideoBitrate int64
	ShareURL     string
	Elapsed      time.Duration
}

// ErrSharingUnavailable is returned when Share is requested without a sharer
var ErrSharingUnavailable = errors.New("sharing is not configured")

// Run executes the workflow and blocks until the encode finishes
func (s *Service) Run(ctx context.Context, input Input) (*Result, error) {
	started := time.Now()

	if input.Share && s.sharer == nil {
		return nil, ErrSharingUnavailable
	}

	sourcePath := input.InputPath
	if sourcePath == "" {
		newest, err := s.finder.FindNewestVideo(s.inputDir)
		if err != nil {
			return nil, fmt.Errorf("no input given and %w", err)
		}
		sourcePath = newest
	}
	fmt.Fprintf(s.output, "Using source: %s\n\n", filepath.Base(sourcePath))

	total := 2
	if input.Share {
		total = 3
	}

	fmt.Fprintf(s.output, "[1/%d] Planning trim...\n", total)
	plan, err := s.trims.Plan(ctx, appvideo.TrimInput{
		SourcePath:   sourcePath,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		TargetSizeMB: input.TargetSizeMB,
	})
	if err != nil {
		return nil, fmt.Errorf("plan failed: %w", err)
	}
	fmt.Fprintf(s.output, "      Range: %s (%ds)\n", plan.Request.Range, plan.Duration())
	fmt.Fprintf(s.output, "      Audio tracks: %d\n", plan.Request.AudioTracks.Len())
	fmt.Fprintf(s.output, "      Video bitrate: %sps\n\n", humanize.SIWithDigits(float64(plan.VideoBitrate), 2, "b"))

	fmt.Fprintf(s.output, "[2/%d] Encoding...\n", total)
	job := s.jobs.Start(ctx, plan)
	for p := range job.Progress() {
		if input.OnProgress != nil {
			input.OnProgress(p)
		}
	}
	jobResult := job.Wait()
	if jobResult.Err != nil {
		s.showRecoveryCommands(sourcePath, input)
		return nil, fmt.Errorf("trim failed: %w", jobResult.Err)
	}

	result := &Result{
		JobID:        job.ID,
		OutputPath:   jobResult.OutputPath,
		OutputSize:   s.fileSizer.Size(jobResult.OutputPath),
		VideoBitrate: plan.VideoBitrate,
	}
	fmt.Fprintf(s.output, "      Created: %s (%s)\n\n", result.OutputPath, humanize.Bytes(uint64(result.OutputSize)))

	if input.Share {
		fmt.Fprintf(s.output, "[3/%d] Sharing to Google Drive...\n", total)
		shared, err := s.sharer.Share(ctx, result.OutputPath)
		if err != nil {
			fmt.Fprintf(s.output, "\nThe clip was saved. To retry sharing run:\n  clip-trimmer share %q\n\n", result.OutputPath)
			return result, fmt.Errorf("share failed: %w", err)
		}
		result.ShareURL = shared.ShareableURL
		fmt.Fprintf(s.output, "      Link: %s\n\n", result.ShareURL)
	}

	result.Elapsed = time.Since(started)
	fmt.Fprintf(s.output, "Done in %s\n", formatDuration(result.Elapsed))
	return result, nil
}

func (s *Service) showRecoveryCommands(sourcePath string, input Input) {
	fmt.Fprintln(s.output)
	fmt.Fprintln(s.output, "To retry:")
	fmt.Fprintf(s.output, "  clip-trimmer trim %q --start %s --end %s\n", sourcePath, input.StartTime, input.EndTime)
	fmt.Fprintln(s.output)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
