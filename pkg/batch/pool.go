// Package batch partitions an evaluation into sub-batches, runs them on a
// fixed-size worker pool, and merges the results.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/odrik/gauntlet/pkg/engine"
	"github.com/odrik/gauntlet/pkg/outcome"
)

// Task is one sub-batch assignment: the shared parameter point and the
// number of paired rounds this worker should play.
type Task struct {
	ID     string
	Params engine.Params
	Rounds int
}

// TaskResult is what a worker hands back: the outcome fragment on success,
// or the fatal error. Fragments are owned by the producing worker until
// pushed onto the results channel.
type TaskResult struct {
	TaskID   string
	WorkerID int
	Outcomes outcome.Sequence
	Err      error
	Duration time.Duration
}

// Executor runs a single sub-batch on one compute unit.
type Executor interface {
	Execute(ctx context.Context, task *Task) (outcome.Sequence, error)
}

// Pool is a fixed-size worker pool. Workers pull tasks from a queue and push
// results onto a completion queue in whatever order they finish; the single
// collecting agent drains that queue.
type Pool struct {
	workers  int
	tasks    chan *Task
	results  chan *TaskResult
	executor Executor
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	Workers   int
	QueueSize int
}

// NewPool creates a pool with the given executor. Queue capacity defaults to
// the worker count so a full dispatch round never blocks the submitter.
func NewPool(executor Executor, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize < cfg.Workers {
		cfg.QueueSize = cfg.Workers
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:  cfg.Workers,
		tasks:    make(chan *Task, cfg.QueueSize),
		results:  make(chan *TaskResult, cfg.QueueSize),
		executor: executor,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// WorkerCount returns the fixed pool size.
func (p *Pool) WorkerCount() int {
	return p.workers
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop stops the workers and waits for in-flight tasks to finish.
func (p *Pool) Stop() {
	p.cancel()
	close(p.tasks)
	p.wg.Wait()
	close(p.results)
}

// Submit queues a task for execution.
func (p *Pool) Submit(task *Task) error {
	if task == nil {
		return fmt.Errorf("task is nil")
	}

	select {
	case p.tasks <- task:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("pool stopped")
	default:
		return fmt.Errorf("task queue full")
	}
}

// Results returns the completion queue. Results arrive in completion order,
// not submission order.
func (p *Pool) Results() <-chan *TaskResult {
	return p.results
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}

			start := time.Now()
			seq, err := p.executor.Execute(p.ctx, task)
			result := &TaskResult{
				TaskID:   task.ID,
				WorkerID: id,
				Outcomes: seq,
				Err:      err,
				Duration: time.Since(start),
			}

			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}
