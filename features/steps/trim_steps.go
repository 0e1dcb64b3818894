//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	appprocess "clip-trimmer/application/process"
	appvideo "clip-trimmer/application/video"
	"clip-trimmer/cmd"
	"clip-trimmer/domain/video"
	"clip-trimmer/infrastructure/ffmpeg"

	"github.com/cucumber/godog"
)

// mockAudioProber reports a fixed number of audio tracks
type mockAudioProber struct {
	count int
}

func (m *mockAudioProber) ProbeAudioTrackCount(ctx context.Context, path string) (int, error) {
	return m.count, nil
}

// mockDurations reports a fixed media length
type mockDurations struct {
	seconds int
}

func (m *mockDurations) DurationSeconds(ctx context.Context, path string) (int, error) {
	return m.seconds, nil
}

// mockFileChecker simulates file existence and sizes
type mockFileChecker struct {
	existingFiles map[string]bool
	sizes         map[string]int64
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

func (m *mockFileChecker) Size(path string) int64 {
	return m.sizes[path]
}

// mockFinder returns a fixed newest video
type mockFinder struct {
	newest string
}

func (m *mockFinder) FindNewestVideo(dir string) (string, error) {
	if m.newest == "" {
		return "", fmt.Errorf("no video files found in %s", dir)
	}
	return m.newest, nil
}

// trimContext holds test state for trim scenarios
type trimContext struct {
	sourcePath   string
	outputDir    string
	targetSizeMB float64
	prober       *mockAudioProber
	durations    *mockDurations
	fileChecker  *mockFileChecker
	finder       *mockFinder
	runner       *fakeRunner
	output       *bytes.Buffer
	err          error
}

// SharedTrimContext is reset before each scenario via Before hook
var SharedTrimContext *trimContext

func getTrimContext() *trimContext {
	return SharedTrimContext
}

func InitializeTrimScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedTrimContext = &trimContext{
			outputDir:    "/clips",
			targetSizeMB: video.DefaultTargetSizeMB,
			prober:       &mockAudioProber{},
			durations:    &mockDurations{seconds: 600},
			fileChecker:  &mockFileChecker{existingFiles: map[string]bool{}, sizes: map[string]int64{}},
			finder:       &mockFinder{},
			runner:       &fakeRunner{},
			output:       &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedTrimContext = nil
		return c, nil
	})

	ctx.Step(`^the output directory is "([^"]*)"$`, theOutputDirectoryIs)
	ctx.Step(`^the target size is (\d+) MB$`, theTargetSizeIsMB)
	ctx.Step(`^a source video at "([^"]*)" with (\d+) audio tracks?$`, aSourceVideoAtWithAudioTracks)
	ctx.Step(`^the newest recording in the input directory is "([^"]*)" with (\d+) audio tracks?$`, theNewestRecordingIs)
	ctx.Step(`^the recording lasts (\d+) seconds$`, theRecordingLastsSeconds)
	ctx.Step(`^no source video exists at "([^"]*)"$`, noSourceVideoExistsAt)
	ctx.Step(`^ffmpeg reports progress:$`, ffmpegReportsProgress)
	ctx.Step(`^ffmpeg fails with "([^"]*)"$`, ffmpegFailsWith)
	ctx.Step(`^I trim from "([^"]*)" to "([^"]*)"$`, iTrimFromTo)
	ctx.Step(`^I trim the newest recording from "([^"]*)" to "([^"]*)"$`, iTrimTheNewestRecordingFromTo)
	ctx.Step(`^I attempt to trim from "([^"]*)" to "([^"]*)"$`, iAttemptToTrimFromTo)
	ctx.Step(`^the output file should be "([^"]*)"$`, theOutputFileShouldBe)
	ctx.Step(`^ffmpeg should encode with video bitrate (\d+)$`, ffmpegShouldEncodeWithVideoBitrate)
	ctx.Step(`^ffmpeg should trim from second (\d+) to second (\d+)$`, ffmpegShouldTrimFromSecondToSecond)
	ctx.Step(`^ffmpeg should mix the audio with "([^"]*)"$`, ffmpegShouldMixTheAudioWith)
	ctx.Step(`^ffmpeg should map audio stream "([^"]*)"$`, ffmpegShouldMapAudioStream)
	ctx.Step(`^ffmpeg should not (?:mix|map) any audio$`, ffmpegShouldNotMapAnyAudio)
	ctx.Step(`^ffmpeg should downmix to stereo$`, ffmpegShouldDownmixToStereo)
	ctx.Step(`^the output should contain "([^"]*)"$`, theTrimOutputShouldContain)
	ctx.Step(`^I should receive an invalid range error$`, iShouldReceiveAnInvalidRangeError)
	ctx.Step(`^I should receive an error containing "([^"]*)"$`, iShouldReceiveAnErrorContaining)
}

func theOutputDirectoryIs(dir string) error {
	getTrimContext().outputDir = dir
	return nil
}

func theTargetSizeIsMB(mb int) error {
	getTrimContext().targetSizeMB = float64(mb)
	return nil
}

func aSourceVideoAtWithAudioTracks(path string, tracks int) error {
	t := getTrimContext()
	t.sourcePath = path
	t.fileChecker.existingFiles[path] = true
	t.prober.count = tracks
	return nil
}

func theNewestRecordingIs(path string, tracks int) error {
	if err := aSourceVideoAtWithAudioTracks(path, tracks); err != nil {
		return err
	}
	t := getTrimContext()
	t.finder.newest = path
	t.sourcePath = ""
	return nil
}

func noSourceVideoExistsAt(path string) error {
	t := getTrimContext()
	t.sourcePath = path
	t.fileChecker.existingFiles[path] = false
	return nil
}

func theRecordingLastsSeconds(seconds int) error {
	getTrimContext().durations.seconds = seconds
	return nil
}

func ffmpegReportsProgress(doc *godog.DocString) error {
	t := getTrimContext()
	t.runner.streamLines = strings.Split(strings.TrimSpace(doc.Content), "\n")
	return nil
}

func ffmpegFailsWith(stderr string) error {
	getTrimContext().runner.err = &video.ToolError{Tool: "ffmpeg", ExitCode: 1, Stderr: stderr}
	return nil
}

func runTrim(start, end string) error {
	t := getTrimContext()

	transcoder := ffmpeg.NewTranscoder(ffmpeg.WithCommandRunner(t.runner))
	service := appprocess.NewService(
		appvideo.NewTrimService(t.prober, t.durations, t.fileChecker, t.outputDir, "", t.targetSizeMB),
		appvideo.NewJobRunner(transcoder, nil),
		t.fileChecker,
		t.finder,
		nil,
		"/recordings",
		t.output,
	)

	t.err = cmd.RunTrimWithDependencies(context.Background(), service, appprocess.Input{
		InputPath: t.sourcePath,
		StartTime: start,
		EndTime:   end,
	}, t.output, false)
	return nil
}

func iTrimFromTo(start, end string) error {
	runTrim(start, end)
	if err := getTrimContext().err; err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}
	return nil
}

func iTrimTheNewestRecordingFromTo(start, end string) error {
	return iTrimFromTo(start, end)
}

func iAttemptToTrimFromTo(start, end string) error {
	return runTrim(start, end)
}

func ffmpegArgs() ([]string, error) {
	args := getTrimContext().runner.lastArgs()
	if args == nil {
		return nil, fmt.Errorf("ffmpeg was not called")
	}
	return args, nil
}

func theOutputFileShouldBe(expected string) error {
	args, err := ffmpegArgs()
	if err != nil {
		return err
	}
	// ffmpeg writes the in-progress name; the job renames it when done
	if got, want := args[len(args)-1], appvideo.PartialPath(expected); got != want {
		return fmt.Errorf("expected output %q, got %q", want, got)
	}
	return nil
}

func expectArg(flag, expected string) error {
	args, err := ffmpegArgs()
	if err != nil {
		return err
	}
	got, ok := argAfter(args, flag)
	if !ok {
		return fmt.Errorf("%s not found in: %s", flag, joinArgs(args))
	}
	if got != expected {
		return fmt.Errorf("expected %s %s, got %s", flag, expected, got)
	}
	return nil
}

func ffmpegShouldEncodeWithVideoBitrate(bitrate int) error {
	return expectArg("-b:v", fmt.Sprint(bitrate))
}

func ffmpegShouldTrimFromSecondToSecond(start, end int) error {
	if err := expectArg("-ss", fmt.Sprint(start)); err != nil {
		return err
	}
	return expectArg("-to", fmt.Sprint(end))
}

func ffmpegShouldMixTheAudioWith(expr string) error {
	return expectArg("-filter_complex", expr)
}

func ffmpegShouldMapAudioStream(stream string) error {
	args, err := ffmpegArgs()
	if err != nil {
		return err
	}
	if !containsArg(args, stream) {
		return fmt.Errorf("expected audio map %s in: %s", stream, joinArgs(args))
	}
	if containsArg(args, "-filter_complex") {
		return fmt.Errorf("single track should not be mixed: %s", joinArgs(args))
	}
	return nil
}

func ffmpegShouldNotMapAnyAudio() error {
	args, err := ffmpegArgs()
	if err != nil {
		return err
	}
	if !containsArg(args, "-an") || containsArg(args, "-c:a") {
		return fmt.Errorf("expected a silent clip: %s", joinArgs(args))
	}
	return nil
}

func ffmpegShouldDownmixToStereo() error {
	return expectArg("-ac", "2")
}

func theTrimOutputShouldContain(text string) error {
	if out := getTrimContext().output.String(); !strings.Contains(out, text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, out)
	}
	return nil
}

func iShouldReceiveAnInvalidRangeError() error {
	t := getTrimContext()
	if !errors.Is(t.err, video.ErrInvalidRange) {
		return fmt.Errorf("expected ErrInvalidRange, got %v", t.err)
	}
	if t.runner.lastArgs() != nil {
		return fmt.Errorf("ffmpeg should not run for a rejected range: %s", joinArgs(t.runner.lastArgs()))
	}
	if len(t.runner.calls) != 0 {
		return fmt.Errorf("ffmpeg should not run for an invalid range")
	}
	return nil
}

func iShouldReceiveAnErrorContaining(text string) error {
	t := getTrimContext()
	if t.err == nil {
		return fmt.Errorf("expected an error containing %q", text)
	}
	if !strings.Contains(t.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %v", text, t.err)
	}
	return nil
}
