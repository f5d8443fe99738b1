package main

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadscout/internal/batch"
	"github.com/sells-group/leadscout/internal/model"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Submit(ctx context.Context, src batch.Source, criteria *model.EvaluationCriteria) (model.Job, error) {
	args := m.Called(ctx, src, criteria)
	return args.Get(0).(model.Job), args.Error(1)
}

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, jobID string, src batch.Source, criteria *model.EvaluationCriteria) error {
	args := m.Called(ctx, jobID, src, criteria)
	return args.Error(0)
}

type stubReactions struct {
	targets []model.Target
}

func (s stubReactions) FetchReactions(context.Context, string) ([]model.Target, error) {
	return s.targets, nil
}
