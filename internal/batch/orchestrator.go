// Package batch drives the per-profile pipeline across one submitted batch
// and keeps the job's polled state current.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/jobs"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/pipeline"
	"github.com/sells-group/leadscout/internal/resilience"
)

// DefaultMaxProfiles caps the identifiers processed per batch.
const DefaultMaxProfiles = 100

// Processor runs one profile to a terminal outcome.
type Processor interface {
	Run(ctx context.Context, jobID string, t model.Target, criteria *model.EvaluationCriteria) *pipeline.Outcome
}

// Deduper reports whether an identifier was already processed.
type Deduper interface {
	Exists(ctx context.Context, identifier string) (bool, error)
}

// Options tunes the orchestrator.
type Options struct {
	MaxProfiles int
	// DedupRetry governs retries of the already-processed lookup.
	DedupRetry resilience.RetryConfig
}

// DefaultOptions returns the 100-profile cap with default lookup retries.
func DefaultOptions() Options {
	return Options{MaxProfiles: DefaultMaxProfiles, DedupRetry: resilience.DefaultRetryConfig()}
}

// Orchestrator runs batches, one worker goroutine per job.
type Orchestrator struct {
	registry  jobs.Registry
	processor Processor
	deduper   Deduper
	opts      Options
	wg        sync.WaitGroup
}

// New creates an Orchestrator.
func New(registry jobs.Registry, processor Processor, deduper Deduper, opts Options) *Orchestrator {
	if opts.MaxProfiles <= 0 {
		opts.MaxProfiles = DefaultMaxProfiles
	}
	if opts.DedupRetry.OnRetry == nil {
		opts.DedupRetry.OnRetry = resilience.RetryLogger("store", "exists")
	}
	return &Orchestrator{registry: registry, processor: processor, deduper: deduper, opts: opts}
}

// Submit creates a job and starts its worker. The worker outlives ctx's
// cancellation but keeps its values.
func (o *Orchestrator) Submit(ctx context.Context, src Source, criteria *model.EvaluationCriteria) (model.Job, error) {
	job, err := o.registry.Create(ctx, src.Describe(), 0)
	if err != nil {
		return model.Job{}, eris.Wrap(err, "batch: create job")
	}

	workerCtx := context.WithoutCancel(ctx)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if runErr := o.Run(workerCtx, job.ID, src, criteria); runErr != nil {
			zap.L().Error("batch: job failed", zap.String("job_id", job.ID), zap.Error(runErr))
		}
	}()
	return job, nil
}

// Wait blocks until every submitted worker has returned.
func (o *Orchestrator) Wait() { o.wg.Wait() }

// Run drives src to completion on the calling goroutine, mutating the job in
// place. It returns a *model.BatchFatalError when the job ends failed.
func (o *Orchestrator) Run(ctx context.Context, jobID string, src Source, criteria *model.EvaluationCriteria) error {
	log := zap.L().With(zap.String("job_id", jobID), zap.String("source", src.Describe()))
	update := func(fn func(*model.Job)) {
		if err := o.registry.Update(ctx, jobID, fn); err != nil {
			log.Warn("batch: job update failed", zap.Error(err))
		}
	}

	update(func(j *model.Job) { j.Progress.Message = src.LoadingMessage() })

	targets, err := src.Targets(ctx)
	if err != nil {
		fatal := &model.BatchFatalError{Err: err}
		update(func(j *model.Job) {
			j.Status = model.JobStatusFailed
			j.Error = err.Error()
			j.Progress.Message = "Error: " + err.Error()
		})
		return fatal
	}

	found := len(targets)
	if len(targets) > o.opts.MaxProfiles {
		targets = targets[:o.opts.MaxProfiles]
	}
	total := len(targets)
	log.Info("batch: starting", zap.Int("found", found), zap.Int("total", total))
	update(func(j *model.Job) {
		j.Progress.Total = total
		j.Progress.Message = src.FoundMessage(found, total)
	})

	var successful, skipped int
	seen := make(map[string]bool, total)
	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			update(func(j *model.Job) {
				j.Status = model.JobStatusFailed
				j.Error = err.Error()
				j.Progress.Message = "Error: " + err.Error()
			})
			return &model.BatchFatalError{Err: eris.Wrap(err, "batch: cancelled")}
		}
		position := i + 1
		name := displayName(t)

		if t.Invalid != "" {
			skipped++
			skip := model.SkippedProfile{Identifier: t.Identifier, Name: name, Reason: t.Invalid, ProfileURL: t.ProfileURL}
			update(func(j *model.Job) {
				j.Skipped = append(j.Skipped, skip)
				j.Progress.Current = position
				j.Progress.Message = fmt.Sprintf("Skipped %d/%d: %s", position, total, t.Invalid)
			})
			continue
		}

		if seen[t.Identifier] || o.alreadyProcessed(ctx, log, t.Identifier) {
			log.Info("batch: skipping already processed identifier", zap.String("identifier", t.Identifier))
			update(func(j *model.Job) {
				j.Progress.Current = position
				j.Progress.Deduplicated++
				j.Progress.Message = fmt.Sprintf("Skipping %d/%d: %s (already processed)", position, total, name)
			})
			continue
		}
		seen[t.Identifier] = true

		update(func(j *model.Job) {
			j.Progress.Message = fmt.Sprintf("Processing %d/%d: %s (%d successful, %d skipped)", position, total, name, successful, skipped)
		})

		out := o.processor.Run(ctx, jobID, t, criteria)
		switch {
		case out != nil && out.Lead != nil:
			successful++
			lead := *out.Lead
			update(func(j *model.Job) {
				j.Leads = append(j.Leads, lead)
				j.Progress.Current = position
			})
		default:
			skipped++
			skip := model.SkippedProfile{Identifier: t.Identifier, Name: name, Reason: "Processing failed", ProfileURL: t.ProfileURL}
			if out != nil && out.Skip != nil {
				skip = *out.Skip
			}
			update(func(j *model.Job) {
				j.Skipped = append(j.Skipped, skip)
				j.Progress.Current = position
			})
		}
	}

	update(func(j *model.Job) {
		j.Status = model.JobStatusCompleted
		j.Progress.Current = total
		j.Progress.Message = fmt.Sprintf("Completed! %d successful, %d skipped", successful, skipped)
	})
	log.Info("batch: completed",
		zap.Int("successful", successful),
		zap.Int("skipped", skipped),
		zap.Int("total", total),
	)
	return nil
}

// alreadyProcessed looks the identifier up in the store. A lookup that still
// fails after retries is treated as not found so the profile gets processed.
func (o *Orchestrator) alreadyProcessed(ctx context.Context, log *zap.Logger, identifier string) bool {
	if o.deduper == nil {
		return false
	}
	exists, err := resilience.DoVal(ctx, o.opts.DedupRetry, func(ctx context.Context) (bool, error) {
		return o.deduper.Exists(ctx, identifier)
	})
	if err != nil {
		log.Warn("batch: dedup lookup failed, processing anyway",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return false
	}
	return exists
}

func displayName(t model.Target) string {
	if t.Name != "" {
		return t.Name
	}
	if t.Identifier != "" {
		return t.Identifier
	}
	return "Unknown"
}
