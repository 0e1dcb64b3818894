package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	appprocess "clip-trimmer/application/process"
	appvideo "clip-trimmer/application/video"
	"clip-trimmer/domain/video"
	"clip-trimmer/infrastructure/filesystem"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	trimSourcePath string
	trimStartTime  string
	trimEndTime    string
	trimSizeMB     float64
	trimShare      bool
)

var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Trim a video to specified timestamps",
	Long: `Trim a video file to the specified start and end timestamps and re-encode
it so the clip fits the target size.

Timestamps are HH:MM:SS or plain seconds. When --source is omitted the newest
video in the configured input directory is used. The output is written to the
configured output directory as "<name><output_suffix><ext>".

Example:
  clip-trimmer trim --start 00:01:10 --end 00:01:42
  clip-trimmer trim --source "input/match.mkv" --start 70 --end 102 --size 25 --share`,
	RunE: runTrim,
}

func init() {
	rootCmd.AddCommand(trimCmd)
	trimCmd.Flags().StringVar(&trimSourcePath, "source", "", "Path to source video file (defaults to newest in input_dir)")
	trimCmd.Flags().StringVar(&trimStartTime, "start", "", "Start timestamp in HH:MM:SS or seconds (required)")
	trimCmd.Flags().StringVar(&trimEndTime, "end", "", "End timestamp in HH:MM:SS or seconds (required)")
	trimCmd.Flags().Float64Var(&trimSizeMB, "size", 0, "Target size in MB (default from target_size_mb)")
	trimCmd.Flags().BoolVar(&trimShare, "share", false, "Upload the clip to Google Drive and print a public link")
	trimCmd.MarkFlagRequired("start")
	trimCmd.MarkFlagRequired("end")
}

func runTrim(cmd *cobra.Command, args []string) error {
	s, err := GetSettings()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	transcoder := newTranscoder(s, logger)
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := transcoder.VerifyInstalled(verifyCtx); err != nil {
		return fmt.Errorf("ffmpeg verification failed: %w", err)
	}

	var sharer appprocess.Sharer
	if trimShare {
		uploads, err := newUploadService(ctx, s, os.Stdout)
		if err != nil {
			return err
		}
		sharer = uploads
	}

	checker := filesystem.NewChecker()
	service := appprocess.NewService(
		newTrimService(s, newAudioProber(s)),
		appvideo.NewJobRunner(transcoder, logger),
		checker,
		filesystem.NewFinder(),
		sharer,
		s.InputDir,
		os.Stdout,
	)

	return RunTrimWithDependencies(ctx, service, appprocess.Input{
		InputPath:    trimSourcePath,
		StartTime:    trimStartTime,
		EndTime:      trimEndTime,
		TargetSizeMB: trimSizeMB,
		Share:        trimShare,
	}, os.Stdout, isTerminal(os.Stdout))
}

// TrimRunner runs the trim workflow
type TrimRunner interface {
	Run(ctx context.Context, input appprocess.Input) (*appprocess.Result, error)
}

// progressSteps is the resolution of the terminal progress bar
const progressSteps = 1000

// RunTrimWithDependencies runs the trim command with injected dependencies (for testing)
func RunTrimWithDependencies(
	ctx context.Context,
	runner TrimRunner,
	input appprocess.Input,
	output io.Writer,
	showProgress bool,
) error {
	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(progressSteps,
			progressbar.OptionSetWriter(output),
			progressbar.OptionSetDescription("      Encoding"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerHead:    "█",
				SaucerPadding: "░",
				BarStart:      "▐",
				BarEnd:        "▌",
			}),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionClearOnFinish(),
		)
		input.OnProgress = func(p video.Progress) {
			_ = bar.Set(int(p.Fraction * progressSteps))
			if p.Speed != "" {
				bar.Describe("      Encoding " + p.Speed)
			}
		}
	}

	result, err := runner.Run(ctx, input)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(output, "Trim complete!")
	fmt.Fprintf(output, "  Clip:    %s\n", result.OutputPath)
	fmt.Fprintf(output, "  Size:    %s\n", humanize.Bytes(uint64(result.OutputSize)))
	if result.ShareURL != "" {
		fmt.Fprintf(output, "  Link:    %s\n", result.ShareURL)
	}
	return nil
}
