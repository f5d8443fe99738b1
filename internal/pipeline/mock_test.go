package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadscout/internal/enrich"
	"github.com/sells-group/leadscout/internal/evaluate"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/summarize"
)

// --- Enricher Mock ---

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) FetchProfile(ctx context.Context, profileURL string) (enrich.Document, error) {
	args := m.Called(ctx, profileURL)
	return args.Get(0).(enrich.Document), args.Error(1)
}

func (m *mockEnricher) FetchCompany(ctx context.Context, companyLink string) (enrich.Document, error) {
	args := m.Called(ctx, companyLink)
	return args.Get(0).(enrich.Document), args.Error(1)
}

// --- Summarizer Mock ---

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) SummarizeBoth(ctx context.Context, profile, company enrich.Document) (*summarize.Summaries, error) {
	args := m.Called(ctx, profile, company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*summarize.Summaries), args.Error(1)
}

// --- Evaluator Mock ---

type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) Evaluate(ctx context.Context, profileSummary, companySummary string, criteria *model.EvaluationCriteria) (*evaluate.Evaluation, error) {
	args := m.Called(ctx, profileSummary, companySummary, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*evaluate.Evaluation), args.Error(1)
}

// --- Validator Mock ---

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) Validate(ctx context.Context, profileSummary, companySummary string, criteria *model.EvaluationCriteria, ev *evaluate.Evaluation) (*evaluate.Validation, error) {
	args := m.Called(ctx, profileSummary, companySummary, criteria, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*evaluate.Validation), args.Error(1)
}

// --- Persister Mock ---

type mockPersister struct {
	mock.Mock
}

func (m *mockPersister) Upsert(ctx context.Context, lead model.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}
