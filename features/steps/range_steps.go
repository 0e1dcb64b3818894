//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"

	"clip-trimmer/domain/video"

	"github.com/cucumber/godog"
)

type recordingSeeker struct {
	positions []int64
}

func (s *recordingSeeker) SetPosition(ms int64) {
	s.positions = append(s.positions, ms)
}

type rangeContext struct {
	controller *video.RangeController
	seeker     *recordingSeeker
	err        error
}

// SharedRangeContext is reset before each scenario via Before hook
var SharedRangeContext *rangeContext

func InitializeRangeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedRangeContext = &rangeContext{seeker: &recordingSeeker{}}
		return c, nil
	})

	ctx.Step(`^a loaded media of (\d+) seconds$`, aLoadedMediaOfSeconds)
	ctx.Step(`^I attempt to load a media of (\d+) seconds$`, iAttemptToLoadAMediaOfSeconds)
	ctx.Step(`^I set the start to (-?\d+)$`, iSetTheStartTo)
	ctx.Step(`^I set the end to (-?\d+)$`, iSetTheEndTo)
	ctx.Step(`^I seek to (\d+) ms$`, iSeekToMs)
	ctx.Step(`^playback reaches (\d+) ms$`, playbackReachesMs)
	ctx.Step(`^the range should be (\d+) to (\d+)$`, theRangeShouldBe)
	ctx.Step(`^the player should be at (\d+) ms$`, thePlayerShouldBeAt)
	ctx.Step(`^the media should be rejected as too short$`, theMediaShouldBeRejectedAsTooShort)
}

func aLoadedMediaOfSeconds(total int) error {
	r := SharedRangeContext
	c, err := video.NewRangeController(total, r.seeker)
	if err != nil {
		return err
	}
	r.controller = c
	return nil
}

func iAttemptToLoadAMediaOfSeconds(total int) error {
	r := SharedRangeContext
	r.controller, r.err = video.NewRangeController(total, r.seeker)
	return nil
}

func iSetTheStartTo(v int) error {
	SharedRangeContext.controller.SetStart(v)
	return nil
}

func iSetTheEndTo(v int) error {
	SharedRangeContext.controller.SetEnd(v)
	return nil
}

func iSeekToMs(ms int) error {
	SharedRangeContext.controller.SeekTo(int64(ms))
	return nil
}

func playbackReachesMs(ms int) error {
	SharedRangeContext.controller.OnPlayback(int64(ms))
	return nil
}

func theRangeShouldBe(start, end int) error {
	got := SharedRangeContext.controller.Range()
	if got.Start != start || got.End != end {
		return fmt.Errorf("expected range [%d,%d], got [%d,%d]", start, end, got.Start, got.End)
	}
	return nil
}

func thePlayerShouldBeAt(ms int) error {
	positions := SharedRangeContext.seeker.positions
	if len(positions) == 0 {
		return fmt.Errorf("player was never positioned")
	}
	if last := positions[len(positions)-1]; last != int64(ms) {
		return fmt.Errorf("expected player at %d ms, got %d", ms, last)
	}
	return nil
}

func theMediaShouldBeRejectedAsTooShort() error {
	if !errors.Is(SharedRangeContext.err, video.ErrDegenerateMedia) {
		return fmt.Errorf("expected ErrDegenerateMedia, got %v", SharedRangeContext.err)
	}
	return nil
}
