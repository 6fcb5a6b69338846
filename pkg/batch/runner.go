package batch

import (
	"context"

	"github.com/odrik/gauntlet/pkg/engine"
	"github.com/odrik/gauntlet/pkg/errors"
	"github.com/odrik/gauntlet/pkg/logging"
	"github.com/odrik/gauntlet/pkg/outcome"
	"github.com/odrik/gauntlet/pkg/telemetry"
)

// MatchRunner is the engine-collaborator surface the runner needs. Satisfied
// by engine.Cutechess; tests substitute a fake.
type MatchRunner interface {
	RunBatch(ctx context.Context, spec engine.BatchSpec) (outcome.Sequence, error)
}

// Runner executes one sub-batch on one compute unit: it validates the
// parameter point, draws a fresh seed, and delegates match execution to the
// engine collaborator.
type Runner struct {
	matches MatchRunner
	seeds   engine.SeedSource
	logger  *logging.Logger
}

// NewRunner creates a runner. A nil seed source falls back to the CSPRNG.
func NewRunner(matches MatchRunner, seeds engine.SeedSource, logger *logging.Logger) *Runner {
	if seeds == nil {
		seeds = engine.CryptoSeed{}
	}
	return &Runner{matches: matches, seeds: seeds, logger: logger}
}

// Execute runs one sub-batch and returns exactly 2×rounds outcomes on
// success. An engine failure is fatal for the sub-batch: no partial credit.
func (r *Runner) Execute(ctx context.Context, task *Task) (outcome.Sequence, error) {
	if err := task.Params.Validate(); err != nil {
		return nil, err
	}

	seed, err := r.seeds.Seed()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to draw batch seed")
	}

	telemetry.RecordBatchStart()
	r.logEvent(logging.LevelInfo, "batch_started", task, map[string]any{
		"rounds": task.Rounds,
		"seed":   seed,
	})

	seq, err := r.matches.RunBatch(ctx, engine.BatchSpec{
		Params: task.Params,
		Rounds: task.Rounds,
		Seed:   seed,
	})
	if err != nil {
		telemetry.RecordBatchFailure()
		r.logEvent(logging.LevelError, "batch_failed", task, map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	if len(seq) != 2*task.Rounds {
		telemetry.RecordBatchFailure()
		return nil, errors.New(errors.ErrCodeMatchParse, "sub-batch returned wrong number of outcomes").
			WithContext("expected", 2*task.Rounds).
			WithContext("got", len(seq))
	}

	wins, losses, draws := seq.Counts()
	r.logEvent(logging.LevelInfo, "batch_completed", task, map[string]any{
		"wins":   wins,
		"losses": losses,
		"draws":  draws,
	})

	return seq, nil
}

func (r *Runner) logEvent(level logging.Level, eventType string, task *Task, details map[string]any) {
	if r.logger == nil {
		return
	}
	_ = r.logger.Log(logging.Event{
		Level:     level,
		Category:  logging.CategoryBatch,
		EventType: eventType,
		TaskID:    task.ID,
		Details:   details,
	})
}
