package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"histoenhance/internal/config"
)

// RunBatch runs jobs on up to workers goroutines. A failing job does not stop
// the others; every failure is returned joined. Results are in job order with
// nil entries for failed jobs. Jobs that have not started when ctx is
// cancelled fail with the context error.
func RunBatch(ctx context.Context, c *Coordinator, jobs []config.Job, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := c.Run(ctx, job)
			if err != nil {
				errs[i] = fmt.Errorf("job %d: %w", i+1, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	g.Wait()

	return results, errors.Join(errs...)
}
