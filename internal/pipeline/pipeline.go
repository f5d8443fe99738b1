// Package pipeline runs one profile through enrichment, summarization,
// evaluation, validation and persistence under a wall-clock budget.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/enrich"
	"github.com/sells-group/leadscout/internal/evaluate"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/summarize"
)

// Enricher fetches raw provider documents.
type Enricher interface {
	FetchProfile(ctx context.Context, profileURL string) (enrich.Document, error)
	FetchCompany(ctx context.Context, companyLink string) (enrich.Document, error)
}

// Summarizer produces the profile and company summaries.
type Summarizer interface {
	SummarizeBoth(ctx context.Context, profile, company enrich.Document) (*summarize.Summaries, error)
}

// Evaluator scores summaries against a rubric.
type Evaluator interface {
	Evaluate(ctx context.Context, profileSummary, companySummary string, criteria *model.EvaluationCriteria) (*evaluate.Evaluation, error)
}

// Validator critiques an evaluation.
type Validator interface {
	Validate(ctx context.Context, profileSummary, companySummary string, criteria *model.EvaluationCriteria, ev *evaluate.Evaluation) (*evaluate.Validation, error)
}

// Persister stores finished leads keyed by identifier.
type Persister interface {
	Upsert(ctx context.Context, lead model.Lead) error
}

// Outcome is the terminal result of one profile: exactly one of Lead or Skip is set.
type Outcome struct {
	Lead   *model.Lead
	Skip   *model.SkippedProfile
	Stages []model.StageResult
	Usage  model.TokenUsage
}

// Options tunes the per-profile budget.
type Options struct {
	// Timeout is the wall-clock budget for one profile.
	Timeout time.Duration
	// MaxInFlight bounds profile runs still executing, abandoned ones included.
	MaxInFlight int64
}

// DefaultOptions returns a 180s budget with two in-flight runs.
func DefaultOptions() Options {
	return Options{Timeout: 180 * time.Second, MaxInFlight: 2}
}

// Pipeline composes the stages for a single profile.
type Pipeline struct {
	enricher   Enricher
	summarizer Summarizer
	evaluator  Evaluator
	validator  Validator
	store      Persister
	exec       *Executor
	now        func() time.Time
}

// New creates a Pipeline with all dependencies.
func New(
	enricher Enricher,
	summarizer Summarizer,
	evaluator Evaluator,
	validator Validator,
	store Persister,
	opts Options,
) *Pipeline {
	return &Pipeline{
		enricher:   enricher,
		summarizer: summarizer,
		evaluator:  evaluator,
		validator:  validator,
		store:      store,
		exec:       NewExecutor(opts.Timeout, opts.MaxInFlight),
		now:        time.Now,
	}
}

// Run processes t under the wall-clock budget. It never returns without an
// outcome: a budget overrun abandons the in-flight work and yields a skip.
func (p *Pipeline) Run(ctx context.Context, jobID string, t model.Target, criteria *model.EvaluationCriteria) *Outcome {
	out, err := p.exec.Run(ctx, func(runCtx context.Context) *Outcome {
		return p.process(runCtx, jobID, t, criteria)
	})
	if err != nil {
		var reason string
		switch {
		case errors.Is(err, model.ErrTimeout):
			reason = fmt.Sprintf("Processing exceeded %ds timeout", int(p.exec.Timeout().Seconds()))
		case errors.Is(err, ErrTaskPanicked):
			reason = "Unexpected error: " + err.Error()
		default:
			reason = "Processing aborted: " + err.Error()
		}
		zap.L().Warn("pipeline: profile abandoned",
			zap.String("job_id", jobID),
			zap.String("identifier", t.Identifier),
			zap.Error(err),
		)
		return &Outcome{Skip: skipped(t, "", reason)}
	}
	return out
}

// process walks the stages in order. Any failure ends in a skip.
func (p *Pipeline) process(ctx context.Context, jobID string, t model.Target, criteria *model.EvaluationCriteria) *Outcome {
	log := zap.L().With(zap.String("job_id", jobID), zap.String("identifier", t.Identifier))
	out := &Outcome{}

	track := func(stage model.Stage, fn func() (model.TokenUsage, error)) error {
		start := time.Now()
		usage, err := fn()
		res := model.StageResult{
			Stage:      stage,
			Duration:   time.Since(start).Milliseconds(),
			TokenUsage: usage,
		}
		out.Usage.Add(usage)
		if err != nil {
			res.Error = err.Error()
			log.Warn("pipeline: stage failed",
				zap.String("stage", string(stage)),
				zap.Int64("duration_ms", res.Duration),
				zap.Error(err),
			)
		} else {
			log.Debug("pipeline: stage complete",
				zap.String("stage", string(stage)),
				zap.Int64("duration_ms", res.Duration),
			)
		}
		out.Stages = append(out.Stages, res)
		return err
	}
	skip := func(name, reason string) *Outcome {
		out.Skip = skipped(t, name, reason)
		return out
	}

	// Enriching.
	var profile, company enrich.Document
	err := track(model.StageEnriching, func() (model.TokenUsage, error) {
		var fetchErr error
		profile, fetchErr = p.enricher.FetchProfile(ctx, profileURL(t))
		if fetchErr != nil {
			return model.TokenUsage{}, fetchErr
		}
		company, fetchErr = p.enricher.FetchCompany(ctx, profile.CompanyLink())
		if fetchErr != nil {
			if ctx.Err() != nil {
				return model.TokenUsage{}, ctx.Err()
			}
			log.Warn("pipeline: company data unavailable, using fallback", zap.Error(fetchErr))
			company = enrich.FallbackCompany(profile.ProfileCompanyName())
		}
		return model.TokenUsage{}, nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return skip(t.Name, "Profile data not found")
		}
		return skip(t.Name, "Failed to fetch profile: "+err.Error())
	}
	name := firstNonEmpty(profile.Name(), t.Name)

	// Summarizing.
	var sums *summarize.Summaries
	err = track(model.StageSummarizing, func() (model.TokenUsage, error) {
		var sumErr error
		sums, sumErr = p.summarizer.SummarizeBoth(ctx, profile, company)
		if sumErr != nil {
			return model.TokenUsage{}, sumErr
		}
		return sums.Usage, nil
	})
	if err != nil {
		return skip(name, "Failed to summarize: "+err.Error())
	}

	// Evaluating.
	var ev *evaluate.Evaluation
	err = track(model.StageEvaluating, func() (model.TokenUsage, error) {
		var evalErr error
		ev, evalErr = p.evaluator.Evaluate(ctx, sums.Profile, sums.Company, criteria)
		if evalErr != nil {
			return model.TokenUsage{}, evalErr
		}
		return ev.Usage, nil
	})
	if err != nil {
		return skip(name, "Evaluation failed: "+err.Error())
	}

	// Validating.
	var val *evaluate.Validation
	err = track(model.StageValidating, func() (model.TokenUsage, error) {
		var valErr error
		val, valErr = p.validator.Validate(ctx, sums.Profile, sums.Company, criteria, ev)
		if valErr != nil {
			return model.TokenUsage{}, valErr
		}
		return val.Usage, nil
	})
	if err != nil {
		return skip(name, "Validation failed: "+err.Error())
	}

	lead := model.Lead{
		Identifier:          t.Identifier,
		Name:                firstNonEmpty(name, "Unknown"),
		CompanyName:         firstNonEmpty(profile.ProfileCompanyName(), company.CompanyName()),
		CompanyWebsite:      company.Website(),
		Email:               profile.Email(),
		Title:               profile.Title(),
		ProfileURL:          firstNonEmpty(t.ProfileURL, profile.First("linkedinUrl", "profileUrl", "url")),
		FitStrength:         ev.FitStrength,
		FitReason:           ev.Reason,
		ValidationJudgement: val.Judgement,
		ValidationReason:    val.Reason,
		ProfileSummary:      sums.Profile,
		CompanySummary:      sums.Company,
		ProcessedAt:         p.now().UTC(),
	}

	// Persisting. An expired budget must not leave a partial write behind.
	err = track(model.StagePersisting, func() (model.TokenUsage, error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.TokenUsage{}, eris.Wrap(model.ErrTimeout, "pipeline: budget expired before persisting")
		}
		return model.TokenUsage{}, p.store.Upsert(ctx, lead)
	})
	if err != nil {
		return skip(name, "Failed to save lead: "+err.Error())
	}

	log.Info("pipeline: profile done",
		zap.String("fit", string(lead.FitStrength)),
		zap.String("judgement", string(lead.ValidationJudgement)),
		zap.Int("input_tokens", out.Usage.InputTokens),
		zap.Int("output_tokens", out.Usage.OutputTokens),
	)
	out.Lead = &lead
	return out
}

func profileURL(t model.Target) string {
	if t.ProfileURL != "" {
		return t.ProfileURL
	}
	return "https://www.linkedin.com/in/" + t.Identifier
}

func skipped(t model.Target, name, reason string) *model.SkippedProfile {
	return &model.SkippedProfile{
		Identifier: t.Identifier,
		Name:       firstNonEmpty(name, t.Name, "Unknown"),
		Reason:     reason,
		ProfileURL: t.ProfileURL,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
