// Package evaluate scores summarized leads against a rubric and critiques
// those scores with an independent second model.
package evaluate

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/llm"
	"github.com/sells-group/leadscout/internal/model"
)

// Evaluation is the first-pass rubric score for a lead.
type Evaluation struct {
	FitStrength model.FitStrength
	Reason      string
	Usage       model.TokenUsage
}

// Evaluator scores profile and company summaries against a rubric.
type Evaluator struct {
	llm       llm.Completer
	maxTokens int
}

// NewEvaluator creates an Evaluator backed by c.
func NewEvaluator(c llm.Completer) *Evaluator {
	return &Evaluator{llm: c, maxTokens: 2048}
}

// Evaluate scores the summaries against criteria (nil means the built-in ICP
// rubric). Output that carries no usable JSON yields FitUnsure with an empty
// reason; only provider failures are returned as errors.
func (e *Evaluator) Evaluate(ctx context.Context, profileSummary, companySummary string, criteria *model.EvaluationCriteria) (*Evaluation, error) {
	start := time.Now()
	resp, err := e.llm.Complete(ctx, llm.Request{
		Stage:     "evaluate",
		System:    evaluatorSystemPrompt,
		Prompt:    evaluationPrompt(profileSummary, companySummary, RenderRubric(criteria)),
		MaxTokens: e.maxTokens,
		JSON:      true,
	})
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: completion")
	}

	ev := parseEvaluation(resp.Text)
	ev.Usage = resp.Usage
	zap.L().Debug("evaluate: scored",
		zap.String("fit", string(ev.FitStrength)),
		zap.Bool("custom_criteria", criteria != nil),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return ev, nil
}

// parseEvaluation extracts the fit label and reason from model output.
func parseEvaluation(text string) *Evaluation {
	obj, err := llm.ExtractObject(text, "icp_fit_strength", "reason")
	if err != nil {
		zap.L().Warn("evaluate: unparseable evaluator output, defaulting to Unsure",
			zap.Int("response_len", len(text)),
		)
		return &Evaluation{FitStrength: model.FitUnsure}
	}
	return &Evaluation{
		FitStrength: model.ParseFitStrength(llm.String(obj, "icp_fit_strength")),
		Reason:      llm.String(obj, "reason"),
	}
}
