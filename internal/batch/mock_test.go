package batch

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadscout/internal/jobs"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/pipeline"
)

// --- Processor Mock ---

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Run(ctx context.Context, jobID string, t model.Target, criteria *model.EvaluationCriteria) *pipeline.Outcome {
	args := m.Called(ctx, jobID, t, criteria)
	if fn, ok := args.Get(0).(func(model.Target) *pipeline.Outcome); ok {
		return fn(t)
	}
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*pipeline.Outcome)
}

// --- Deduper Mock ---

type mockDeduper struct {
	mock.Mock
}

func (m *mockDeduper) Exists(ctx context.Context, identifier string) (bool, error) {
	args := m.Called(ctx, identifier)
	return args.Bool(0), args.Error(1)
}

// --- ReactionFetcher Mock ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchReactions(ctx context.Context, postID string) ([]model.Target, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Target), args.Error(1)
}

// recordingRegistry wraps a MemoryRegistry and keeps every progress snapshot.
type recordingRegistry struct {
	*jobs.MemoryRegistry
	mu        sync.Mutex
	snapshots []model.Progress
}

func newRecordingRegistry() *recordingRegistry {
	return &recordingRegistry{MemoryRegistry: jobs.NewMemoryRegistry()}
}

func (r *recordingRegistry) Update(ctx context.Context, id string, fn func(*model.Job)) error {
	return r.MemoryRegistry.Update(ctx, id, func(j *model.Job) {
		fn(j)
		r.mu.Lock()
		r.snapshots = append(r.snapshots, j.Progress)
		r.mu.Unlock()
	})
}

func (r *recordingRegistry) progress() []model.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Progress(nil), r.snapshots...)
}
