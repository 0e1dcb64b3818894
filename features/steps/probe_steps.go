//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"

	"clip-trimmer/domain/video"
	"clip-trimmer/infrastructure/ffmpeg"

	"github.com/cucumber/godog"
)

type probeContext struct {
	runner *fakeRunner
	info   *video.MediaInfo
	count  int
	err    error
}

// SharedProbeContext is reset before each scenario via Before hook
var SharedProbeContext *probeContext

func InitializeProbeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedProbeContext = &probeContext{runner: &fakeRunner{}}
		return c, nil
	})

	ctx.Step(`^ffmpeg describes the input as:$`, ffmpegDescribesTheInputAs)
	ctx.Step(`^ffmpeg exits with status (\d+)$`, ffmpegExitsWithStatus)
	ctx.Step(`^ffprobe reports:$`, ffprobeReports)
	ctx.Step(`^I count the audio tracks of "([^"]*)" from the ffmpeg listing$`, iCountTheAudioTracksFromTheListing)
	ctx.Step(`^I probe "([^"]*)" with ffprobe$`, iProbeWithFFprobe)
	ctx.Step(`^(\d+) audio tracks? should be reported$`, audioTracksShouldBeReported)
	ctx.Step(`^the duration should be (\d+) seconds$`, theDurationShouldBeSeconds)
	ctx.Step(`^audio track (\d+) should use codec "([^"]*)"$`, audioTrackShouldUseCodec)
	ctx.Step(`^the probe should fail with a tool error$`, theProbeShouldFailWithAToolError)
}

func ffmpegDescribesTheInputAs(doc *godog.DocString) error {
	SharedProbeContext.runner.output = []byte(doc.Content)
	return nil
}

func ffmpegExitsWithStatus(code int) error {
	SharedProbeContext.runner.err = &video.ToolError{Tool: "ffmpeg", ExitCode: code}
	return nil
}

func ffprobeReports(doc *godog.DocString) error {
	SharedProbeContext.runner.output = []byte(doc.Content)
	return nil
}

func iCountTheAudioTracksFromTheListing(path string) error {
	p := SharedProbeContext
	prober := ffmpeg.NewTextProber(ffmpeg.WithProbeCommandRunner(p.runner))
	p.count, p.err = prober.ProbeAudioTrackCount(context.Background(), path)
	return nil
}

func iProbeWithFFprobe(path string) error {
	p := SharedProbeContext
	prober := ffmpeg.NewFFprobe(ffmpeg.WithProbeCommandRunner(p.runner))
	p.info, p.err = prober.Probe(context.Background(), path)
	if p.err != nil {
		return fmt.Errorf("unexpected error: %v", p.err)
	}
	p.count = len(p.info.AudioTracks)
	return nil
}

func audioTracksShouldBeReported(n int) error {
	p := SharedProbeContext
	if p.err != nil {
		return fmt.Errorf("unexpected error: %v", p.err)
	}
	if p.count != n {
		return fmt.Errorf("expected %d audio tracks, got %d", n, p.count)
	}
	return nil
}

func theDurationShouldBeSeconds(secs int) error {
	if got := SharedProbeContext.info.WholeSeconds(); got != secs {
		return fmt.Errorf("expected %ds, got %ds", secs, got)
	}
	return nil
}

func audioTrackShouldUseCodec(ordinal int, codec string) error {
	tracks := SharedProbeContext.info.AudioTracks
	if ordinal >= len(tracks) {
		return fmt.Errorf("no audio track %d", ordinal)
	}
	if tracks[ordinal].Codec != codec {
		return fmt.Errorf("expected codec %q, got %q", codec, tracks[ordinal].Codec)
	}
	return nil
}

func theProbeShouldFailWithAToolError() error {
	var toolErr *video.ToolError
	if !errors.As(SharedProbeContext.err, &toolErr) {
		return fmt.Errorf("expected a ToolError, got %v", SharedProbeContext.err)
	}
	return nil
}
