package main

import (
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/batch"
	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/cost"
	"github.com/sells-group/leadscout/internal/enrich"
	"github.com/sells-group/leadscout/internal/evaluate"
	"github.com/sells-group/leadscout/internal/jobs"
	"github.com/sells-group/leadscout/internal/llm"
	"github.com/sells-group/leadscout/internal/pipeline"
	"github.com/sells-group/leadscout/internal/resilience"
	"github.com/sells-group/leadscout/internal/store"
	"github.com/sells-group/leadscout/internal/summarize"
	anthropicpkg "github.com/sells-group/leadscout/pkg/anthropic"
	"github.com/sells-group/leadscout/pkg/apify"
	"github.com/sells-group/leadscout/pkg/groq"
	"github.com/sells-group/leadscout/pkg/openai"
)

// appEnv holds the store, provider clients and orchestrator needed by the
// serve and process commands.
type appEnv struct {
	Store        store.LeadStore
	Enricher     *enrich.Enricher
	Breakers     *resilience.ServiceBreakers
	Registry     *jobs.MemoryRegistry
	Orchestrator *batch.Orchestrator
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initApp validates the config for mode, opens the store and builds the
// pipeline. Callers should defer env.Close().
func initApp(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	env, err := buildApp(ctx, cfg, st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return env, nil
}

// buildApp wires the pipeline around an already opened store.
func buildApp(ctx context.Context, c *config.Config, st store.LeadStore) (*appEnv, error) {
	apifyOpts := []apify.Option{apify.WithRateLimit(c.Apify.RateLimit)}
	if c.Apify.BaseURL != "" {
		apifyOpts = append(apifyOpts, apify.WithBaseURL(c.Apify.BaseURL))
	}
	breakers := resilience.NewServiceBreakers(resilience.BreakerFromSettings(
		c.Resilience.FailureThreshold,
		time.Duration(c.Resilience.ResetTimeoutSecs)*time.Second,
	))
	enricher := enrich.New(apify.NewClient(c.Apify.Token, apifyOpts...), breakers)

	calc := cost.NewCalculator(cost.DefaultRates())
	summarizerLLM, err := newCompleter(ctx, c, c.LLM.Summarizer, calc)
	if err != nil {
		return nil, eris.Wrap(err, "init summarizer")
	}
	evaluatorLLM, err := newCompleter(ctx, c, c.LLM.Evaluator, calc)
	if err != nil {
		return nil, eris.Wrap(err, "init evaluator")
	}
	validatorLLM, err := newCompleter(ctx, c, c.LLM.Validator, calc)
	if err != nil {
		return nil, eris.Wrap(err, "init validator")
	}
	validator, err := evaluate.NewValidator(validatorLLM, evaluatorLLM)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(
		enricher,
		summarize.New(summarizerLLM, summarize.DefaultOptions()),
		evaluate.NewEvaluator(evaluatorLLM),
		validator,
		st,
		pipeline.Options{
			Timeout:     c.Batch.ProfileTimeout(),
			MaxInFlight: int64(c.Batch.MaxInFlight),
		},
	)

	registry := jobs.NewMemoryRegistry()
	orch := batch.New(registry, p, st, batch.Options{
		MaxProfiles: c.Batch.MaxProfiles,
		DedupRetry: resilience.RetryFromSettings(
			c.Resilience.DedupMaxAttempts,
			time.Duration(c.Resilience.DedupInitialBackoff)*time.Millisecond,
			time.Duration(c.Resilience.DedupMaxBackoff)*time.Millisecond,
		),
	})

	zap.L().Info("pipeline ready",
		zap.String("store", c.Store.Driver),
		zap.String("summarizer", c.LLM.Summarizer.String()),
		zap.String("evaluator", c.LLM.Evaluator.String()),
		zap.String("validator", c.LLM.Validator.String()),
		zap.Duration("profile_timeout", c.Batch.ProfileTimeout()),
	)

	return &appEnv{
		Store:        st,
		Enricher:     enricher,
		Breakers:     breakers,
		Registry:     registry,
		Orchestrator: orch,
	}, nil
}

// newCompleter builds the Completer for one configured role, priced by calc.
func newCompleter(ctx context.Context, c *config.Config, role config.RoleConfig, calc *cost.Calculator) (llm.Completer, error) {
	comp, err := providerCompleter(ctx, c, role)
	if err != nil {
		return nil, err
	}
	return llm.WithCost(comp, calc), nil
}

func providerCompleter(ctx context.Context, c *config.Config, role config.RoleConfig) (llm.Completer, error) {
	switch role.Provider {
	case llm.ProviderGroq:
		opts := []groq.Option{groq.WithModel(role.Model)}
		if c.Groq.BaseURL != "" {
			opts = append(opts, groq.WithBaseURL(c.Groq.BaseURL))
		}
		return llm.NewGroq(groq.NewClient(c.Groq.Key, opts...), role.Model), nil
	case llm.ProviderAnthropic:
		var opts []option.RequestOption
		if c.Anthropic.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(c.Anthropic.BaseURL))
		}
		return llm.NewAnthropic(anthropicpkg.NewClient(c.Anthropic.Key, opts...), role.Model), nil
	case llm.ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(role.Model)}
		if c.OpenAI.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(c.OpenAI.BaseURL))
		}
		return llm.NewOpenAI(openai.NewClient(c.OpenAI.Key, opts...), role.Model, c.OpenAI.ReasoningEffort), nil
	case llm.ProviderGemini:
		return llm.NewGemini(ctx, c.Gemini.Key, role.Model, c.Gemini.BaseURL)
	default:
		return nil, eris.Errorf("unsupported llm provider: %s", role.Provider)
	}
}
