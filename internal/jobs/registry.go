// Package jobs keeps the polled state of batch jobs for the life of the process.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/model"
)

// ErrJobNotFound is returned for unknown job ids.
var ErrJobNotFound = eris.New("jobs: job not found")

// Registry creates, reads and mutates jobs by id. Get returns a snapshot that
// later updates never touch.
type Registry interface {
	Create(ctx context.Context, source string, total int) (model.Job, error)
	Get(ctx context.Context, id string) (model.Job, error)
	Update(ctx context.Context, id string, fn func(*model.Job)) error
}

// MemoryRegistry is a Registry held in process memory.
type MemoryRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
	now  func() time.Time
}

// NewMemoryRegistry creates an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{jobs: make(map[string]*model.Job), now: time.Now}
}

// Create registers a new processing job.
func (r *MemoryRegistry) Create(_ context.Context, source string, total int) (model.Job, error) {
	job := &model.Job{
		ID:     uuid.NewString(),
		Status: model.JobStatusProcessing,
		Source: source,
		Progress: model.Progress{
			Total:   total,
			Message: "Starting...",
		},
		Leads:     []model.Lead{},
		Skipped:   []model.SkippedProfile{},
		StartedAt: r.now().UTC(),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()
	return job.Clone(), nil
}

// Get returns a copy of the job.
func (r *MemoryRegistry) Get(_ context.Context, id string) (model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return model.Job{}, eris.Wrapf(ErrJobNotFound, "id %s", id)
	}
	return job.Clone(), nil
}

// Update applies fn to the job under the write lock. Terminal jobs are frozen:
// updates to them are rejected.
func (r *MemoryRegistry) Update(_ context.Context, id string, fn func(*model.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return eris.Wrapf(ErrJobNotFound, "id %s", id)
	}
	if job.Status.Terminal() {
		return eris.Errorf("jobs: job %s is already %s", id, job.Status)
	}
	fn(job)
	if job.Status.Terminal() && job.CompletedAt == nil {
		t := r.now().UTC()
		job.CompletedAt = &t
	}
	return nil
}

// Len returns the number of retained jobs.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
