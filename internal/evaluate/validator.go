package evaluate

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/llm"
	"github.com/sells-group/leadscout/internal/model"
)

// ReasonValidationUnavailable is recorded when validator output cannot be parsed.
const ReasonValidationUnavailable = "validation unavailable"

var (
	judgementField = regexp.MustCompile(`(?i)"?(?:validation_judgement|judgement)"?\s*[:=]\s*"?(Correct|Incorrect|Unsure)`)
	reasonField    = regexp.MustCompile(`(?is)"?(?:validation_reason|reason)"?\s*[:=]\s*"((?:[^"\\]|\\.)*)"`)
)

// Validation is the second-pass critique of an Evaluation.
type Validation struct {
	Judgement model.Judgement
	Reason    string
	Usage     model.TokenUsage
}

// Validator critiques evaluations with a model independent of the evaluator.
type Validator struct {
	llm       llm.Completer
	maxTokens int
}

// NewValidator creates a Validator backed by c. It refuses a completer with
// the same provider and model as the evaluator's.
func NewValidator(c, evaluator llm.Completer) (*Validator, error) {
	if evaluator != nil && c.Provider() == evaluator.Provider() && c.Model() == evaluator.Model() {
		return nil, eris.Errorf("evaluate: validator must differ from evaluator (both %s/%s)", c.Provider(), c.Model())
	}
	return &Validator{llm: c, maxTokens: 1024}, nil
}

// Validate judges ev against the same summaries and rubric the evaluator saw.
// Unparseable output yields JudgementUnsure with ReasonValidationUnavailable;
// only provider failures are returned as errors.
func (v *Validator) Validate(ctx context.Context, profileSummary, companySummary string, criteria *model.EvaluationCriteria, ev *Evaluation) (*Validation, error) {
	start := time.Now()
	resp, err := v.llm.Complete(ctx, llm.Request{
		Stage:       "validate",
		System:      validatorSystemPrompt,
		Prompt:      validationPrompt(profileSummary, companySummary, *ev, RenderRubric(criteria)),
		Temperature: llm.Temp(0.2),
		MaxTokens:   v.maxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, eris.Wrap(err, "validate: completion")
	}

	val := parseValidation(resp.Text)
	val.Usage = resp.Usage
	zap.L().Debug("validate: judged",
		zap.String("fit", string(ev.FitStrength)),
		zap.String("judgement", string(val.Judgement)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return val, nil
}

// parseValidation tries structured extraction first and falls back to
// picking the two fields out of loose text.
func parseValidation(text string) *Validation {
	if obj, err := llm.ExtractObject(text, "validation_judgement", "judgement"); err == nil {
		label := llm.String(obj, "validation_judgement")
		if label == "" {
			label = llm.String(obj, "judgement")
		}
		reason := llm.String(obj, "validation_reason")
		if reason == "" {
			reason = llm.String(obj, "reason")
		}
		return &Validation{Judgement: model.ParseJudgement(label), Reason: reason}
	}

	m := judgementField.FindStringSubmatch(text)
	if m == nil {
		zap.L().Warn("validate: unparseable validator output, defaulting to Unsure",
			zap.Int("response_len", len(text)),
		)
		return &Validation{Judgement: model.JudgementUnsure, Reason: ReasonValidationUnavailable}
	}
	val := &Validation{Judgement: model.ParseJudgement(m[1])}
	if r := reasonField.FindStringSubmatch(text); r != nil {
		val.Reason = strings.TrimSpace(strings.ReplaceAll(r[1], `\"`, `"`))
	}
	if val.Reason == "" {
		val.Reason = "Extracted from malformed response"
	}
	return val
}
