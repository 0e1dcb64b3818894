package cmd

import (
	"context"
	"fmt"
	"io"

	appdist "clip-trimmer/application/distribution"
	appvideo "clip-trimmer/application/video"
	"clip-trimmer/domain/video"
	"clip-trimmer/infrastructure/config"
	"clip-trimmer/infrastructure/drive"
	"clip-trimmer/infrastructure/ffmpeg"
	"clip-trimmer/infrastructure/filesystem"
	"clip-trimmer/infrastructure/media"

	"go.uber.org/zap"
)

// newAudioProber returns the audio track counter selected by probe_mode
func newAudioProber(s *config.Settings) video.AudioProber {
	if s.ProbeMode == config.ProbeModeText {
		return ffmpeg.NewTextProber(ffmpeg.WithProbePath(s.FFmpegPath))
	}
	return ffmpeg.NewFFprobe(ffmpeg.WithProbePath(s.FFprobePath))
}

func newMediaProber(s *config.Settings) *ffmpeg.FFprobe {
	return ffmpeg.NewFFprobe(ffmpeg.WithProbePath(s.FFprobePath))
}

func newTranscoder(s *config.Settings, log *zap.Logger) *ffmpeg.Transcoder {
	return ffmpeg.NewTranscoder(
		ffmpeg.WithFFmpegPath(s.FFmpegPath),
		ffmpeg.WithEncoder(s.VideoEncoder),
		ffmpeg.WithLogger(log),
	)
}

func newTrimService(s *config.Settings, prober video.AudioProber) *appvideo.TrimService {
	durations := media.NewDurationReader(newMediaProber(s))
	return appvideo.NewTrimService(prober, durations, filesystem.NewChecker(), s.OutputDir, s.OutputSuffix, s.TargetSizeMB)
}

func newMergeService(s *config.Settings, log *zap.Logger) *appvideo.MergeService {
	merger := ffmpeg.NewMerger(
		ffmpeg.WithMergerFFmpegPath(s.FFmpegPath),
		ffmpeg.WithMergerLogger(log),
	)
	return appvideo.NewMergeService(merger, filesystem.NewChecker(), s.TempDir, s.AudioBitrate, log)
}

// newUploadService authenticates against Google Drive. The consent URL is
// written to output on first use.
func newUploadService(ctx context.Context, s *config.Settings, output io.Writer) (*appdist.UploadService, error) {
	if s.DriveFolderID == "" {
		return nil, fmt.Errorf("%w: set one with 'clip-trimmer config set drive_folder_id <id>'", appdist.ErrNoFolder)
	}

	client, err := drive.NewClientWithOAuth(ctx, drive.OAuthConfig{
		CredentialsFile: s.GoogleCredentialsFile,
		TokenFile:       s.GoogleTokenFile,
		Output:          output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Drive client: %w", err)
	}

	return appdist.NewUploadService(client, s.DriveFolderID, output), nil
}
