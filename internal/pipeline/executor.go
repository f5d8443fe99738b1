package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/sells-group/leadscout/internal/model"
)

// ErrTaskPanicked marks a task that panicked instead of returning an outcome.
var ErrTaskPanicked = errors.New("pipeline: task panicked")

type taskResult struct {
	out *Outcome
	err error
}

// Executor runs tasks with a deadline on a bounded number of goroutines.
// A task that overruns is abandoned: its context is cancelled and its result
// ignored, but its goroutine keeps its slot until it returns.
type Executor struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewExecutor creates an Executor. Non-positive values fall back to defaults.
func NewExecutor(timeout time.Duration, maxInFlight int64) *Executor {
	def := DefaultOptions()
	if timeout <= 0 {
		timeout = def.Timeout
	}
	if maxInFlight <= 0 {
		maxInFlight = def.MaxInFlight
	}
	return &Executor{sem: semaphore.NewWeighted(maxInFlight), timeout: timeout}
}

// Timeout returns the per-task budget.
func (e *Executor) Timeout() time.Duration { return e.timeout }

// Run executes fn under the budget. The wait for a free slot counts against
// the same budget. Returns an error wrapping model.ErrTimeout on overrun,
// ErrTaskPanicked if fn panics, or the parent context's error if it ends
// first.
func (e *Executor) Run(ctx context.Context, fn func(ctx context.Context) *Outcome) (*Outcome, error) {
	runCtx, cancel := context.WithTimeout(ctx, e.timeout)

	if err := e.sem.Acquire(runCtx, 1); err != nil {
		cancel()
		return nil, e.deadlineErr(ctx, "waiting for a free slot")
	}

	done := make(chan taskResult, 1)
	go func() {
		defer e.sem.Release(1)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("pipeline: task panicked", zap.Any("panic", r), zap.Stack("stack"))
				done <- taskResult{err: eris.Wrapf(ErrTaskPanicked, "%v", r)}
			}
		}()
		done <- taskResult{out: fn(runCtx)}
	}()

	select {
	case res := <-done:
		return e.settle(ctx, runCtx, res)
	case <-runCtx.Done():
		// A task that finished right at the deadline still counts.
		select {
		case res := <-done:
			return e.settle(ctx, runCtx, res)
		default:
		}
		cancel()
		return nil, e.deadlineErr(ctx, "running")
	}
}

// settle turns a finished task into Run's result. A task that gave up
// because the budget ran out reports the overrun, not its own failure.
func (e *Executor) settle(parent, runCtx context.Context, res taskResult) (*Outcome, error) {
	if res.err != nil {
		return nil, res.err
	}
	if (res.out == nil || res.out.Lead == nil) &&
		errors.Is(runCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return nil, e.deadlineErr(parent, "running")
	}
	return res.out, nil
}

func (e *Executor) deadlineErr(parent context.Context, phase string) error {
	if err := parent.Err(); err != nil {
		return eris.Wrapf(err, "pipeline: cancelled while %s", phase)
	}
	return eris.Wrapf(model.ErrTimeout, "pipeline: exceeded %s while %s", e.timeout, phase)
}
