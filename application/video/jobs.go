package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clip-trimmer/domain/video"
)

// progressBuffer is how many progress updates a job holds for a slow reader
const progressBuffer = 16

// JobResult is the outcome of a finished trim job
type JobResult struct {
	JobID      string
	OutputPath string
	Elapsed    time.Duration
	Err        error
}

// Cancelled reports whether the job ended because it was cancelled
func (r JobResult) Cancelled() bool {
	return errors.Is(r.Err, context.Canceled)
}

// Job is a trim running in the background
type Job struct {
	ID   string
	Plan video.TranscodePlan

	progress chan video.Progress
	done     chan struct{}
	cancel   context.CancelFunc
	result   JobResult
}

// Progress delivers encode progress; it is closed when the job finishes
func (j *Job) Progress() <-chan video.Progress {
	return j.progress
}

// Done is closed once the job has finished
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Result returns the job outcome. It is only valid after Done is closed.
func (j *Job) Result() JobResult {
	return j.result
}

// Wait blocks until the job finishes and returns its result
func (j *Job) Wait() JobResult {
	<-j.done
	return j.result
}

// Cancel stops the job; the encoder process is killed
func (j *Job) Cancel() {
	j.cancel()
}

// JobRunner starts trims on their own goroutines so callers never block on
// the encoder
type JobRunner struct {
	transcoder video.Transcoder
	logger     *zap.Logger

	mu     sync.Mutex
	active map[string]*Job
	wg     sync.WaitGroup
}

// NewJobRunner creates a new JobRunner
func NewJobRunner(transcoder video.Transcoder, logger *zap.Logger) *JobRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobRunner{
		transcoder: transcoder,
		logger:     logger,
		active:     make(map[string]*Job),
	}
}

// Start launches a job for plan. The plan is copied into the job.
func (r *JobRunner) Start(ctx context.Context, plan video.TranscodePlan) *Job {
	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{
		ID:       uuid.NewString(),
		Plan:     plan,
		progress: make(chan video.Progress, progressBuffer),
		done:     make(chan struct{}),
		cancel:   cancel,
	}

	r.mu.Lock()
	r.active[job.ID] = job
	r.mu.Unlock()

	log := r.logger.With(zap.String("job_id", job.ID))
	log.Info("trim started",
		zap.String("input", plan.Request.InputPath),
		zap.Stringer("range", plan.Request.Range),
		zap.Int64("video_bitrate", plan.VideoBitrate),
	)

	r.wg.Add(1)
	go r.run(jobCtx, job, log)
	return job
}

func (r *JobRunner) run(ctx context.Context, job *Job, log *zap.Logger) {
	defer r.wg.Done()
	started := time.Now()
	defer job.cancel()

	// Encode under the in-progress name so a failure never touches a clip
	// already sitting at the output path.
	encode := job.Plan
	encode.OutputPath = PartialPath(job.Plan.OutputPath)

	err := r.transcoder.Transcode(ctx, encode, func(p video.Progress) {
		select {
		case job.progress <- p:
		default:
			// reader is behind; drop the update
		}
	})
	if err == nil {
		err = promote(encode.OutputPath, job.Plan.OutputPath)
	}

	if err != nil {
		if rmErr := os.Remove(encode.OutputPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn("failed to remove partial output", zap.String("path", encode.OutputPath), zap.Error(rmErr))
		}
	}

	job.result = JobResult{
		JobID:      job.ID,
		OutputPath: job.Plan.OutputPath,
		Elapsed:    time.Since(started),
		Err:        err,
	}

	switch {
	case err == nil:
		log.Info("trim finished", zap.String("output", job.Plan.OutputPath), zap.Duration("elapsed", job.result.Elapsed))
	case job.result.Cancelled():
		log.Info("trim cancelled")
	default:
		log.Error("trim failed", zap.Error(err))
	}

	r.mu.Lock()
	delete(r.active, job.ID)
	r.mu.Unlock()

	close(job.progress)
	close(job.done)
}

// promote renames a finished partial file to its final name, replacing an
// older clip. A transcoder that wrote nothing leaves nothing to promote.
func promote(partial, final string) error {
	if _, err := os.Stat(partial); os.IsNotExist(err) {
		return nil
	}
	if err := os.Rename(partial, final); err != nil {
		return fmt.Errorf("failed to finalize output: %w", err)
	}
	return nil
}

// Active returns the number of running jobs
func (r *JobRunner) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// CancelAll cancels every running job
func (r *JobRunner) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.active {
		job.Cancel()
	}
}

// Wait blocks until every started job has finished, including killing the
// encoder and removing partial output for cancelled ones
func (r *JobRunner) Wait() {
	r.wg.Wait()
}

// Shutdown cancels every running job and waits for them to finish
func (r *JobRunner) Shutdown() {
	r.CancelAll()
	r.Wait()
}
