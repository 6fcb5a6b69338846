package batch

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/odrik/gauntlet/pkg/engine"
	"github.com/odrik/gauntlet/pkg/logging"
	"github.com/odrik/gauntlet/pkg/outcome"
	"github.com/odrik/gauntlet/pkg/telemetry"
)

// Coordinator splits an evaluation across the worker pool and merges the
// sub-batch results. It is the single submitting and collecting agent, so
// the merge needs no locking.
type Coordinator struct {
	pool   *Pool
	logger *logging.Logger
}

// NewCoordinator creates a coordinator over a pool.
func NewCoordinator(pool *Pool, logger *logging.Logger) *Coordinator {
	return &Coordinator{pool: pool, logger: logger}
}

// RoundsPerWorker computes the paired rounds each worker plays so that the
// pool delivers at least totalGames games. Rounds round up, never down.
func RoundsPerWorker(totalGames, workers int) int {
	if workers <= 0 {
		return 0
	}
	rounds := (totalGames + 1) / 2
	return (rounds + workers - 1) / workers
}

// Collect dispatches one sub-batch per worker and returns the outcome
// fragments in completion order. If any sub-batch fails, every outstanding
// result is still drained, then the first failure is returned with no
// fragments: a run that under-delivers games would bias the estimate.
func (c *Coordinator) Collect(ctx context.Context, params engine.Params, roundsPerWorker int) ([]outcome.Sequence, error) {
	workers := c.pool.WorkerCount()

	c.pool.Start()
	defer c.pool.Stop()

	for i := 0; i < workers; i++ {
		task := &Task{
			ID:     ulid.Make().String(),
			Params: params,
			Rounds: roundsPerWorker,
		}
		if err := c.pool.Submit(task); err != nil {
			return nil, err
		}
	}

	fragments := make([]outcome.Sequence, 0, workers)
	var firstErr error
	for collected := 0; collected < workers; collected++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-c.pool.Results():
			if result.Err != nil {
				if firstErr == nil {
					firstErr = result.Err
				}
				continue
			}
			telemetry.ObserveBatchDuration(result.Duration)
			telemetry.RecordGamesCollected(len(result.Outcomes))
			c.logCollected(result)
			fragments = append(fragments, result.Outcomes)
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return fragments, nil
}

// RunDistributed runs the whole evaluation and returns the combined outcome
// sequence. On success the sequence holds exactly
// 2 × roundsPerWorker × workerCount outcomes.
func (c *Coordinator) RunDistributed(ctx context.Context, params engine.Params, roundsPerWorker int) (outcome.Sequence, error) {
	fragments, err := c.Collect(ctx, params, roundsPerWorker)
	if err != nil {
		return nil, err
	}
	return outcome.Concat(fragments...), nil
}

func (c *Coordinator) logCollected(result *TaskResult) {
	if c.logger == nil {
		return
	}
	_ = c.logger.Log(logging.Event{
		Level:     logging.LevelInfo,
		Category:  logging.CategoryBatch,
		EventType: "batch_collected",
		TaskID:    result.TaskID,
		Details: map[string]any{
			"worker":      result.WorkerID,
			"games":       len(result.Outcomes),
			"duration_ms": result.Duration.Milliseconds(),
		},
	})
}
