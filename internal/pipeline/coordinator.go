package pipeline

import (
	"context"
	"fmt"
	"time"

	"histoenhance/internal/config"
	"histoenhance/internal/debug/timing"
	"histoenhance/internal/logger"
)

// Result describes one completed job.
type Result struct {
	Job      config.Job
	Input    Summary
	Output   Summary
	Duration time.Duration
}

// Coordinator runs the load, transform and save stages of a job.
type Coordinator struct {
	logger    logger.Logger
	timing    *timing.Tracker
	loader    ImageLoader
	processor *Processor
	saver     ImageSaver
}

func NewCoordinator(log logger.Logger, tracker *timing.Tracker, loader ImageLoader, saver ImageSaver) *Coordinator {
	return &Coordinator{
		logger:    log,
		timing:    tracker,
		loader:    loader,
		processor: NewProcessor(log, tracker),
		saver:     saver,
	}
}

// Run processes a single job. Nothing is written when loading or the
// transform fails.
func (c *Coordinator) Run(ctx context.Context, job config.Job) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	lctx := c.timing.StartTiming(ctx, "load")
	src, err := c.loader.Load(job)
	c.timing.EndTiming(lctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", job.Input, err)
	}

	res, err := c.processor.Process(ctx, src, job.Params())
	if err != nil {
		return nil, fmt.Errorf("equalize %s: %w", job.Input, err)
	}

	sctx := c.timing.StartTiming(ctx, "save")
	err = c.saver.Save(job, res.Image)
	c.timing.EndTiming(sctx)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", job.Output, err)
	}

	return &Result{
		Job:      job,
		Input:    res.Input,
		Output:   res.Output,
		Duration: time.Since(start),
	}, nil
}

// Shutdown reports the average duration of every stage.
func (c *Coordinator) Shutdown() {
	for _, op := range c.timing.Operations() {
		c.logger.Debug("Coordinator", "stage timing", map[string]interface{}{
			"stage":   op,
			"runs":    len(c.timing.GetTimings(op)),
			"average": c.timing.GetAverageTime(op),
		})
	}
}
