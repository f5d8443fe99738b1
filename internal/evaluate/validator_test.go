package evaluate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/llm"
	"github.com/sells-group/leadscout/internal/llm/mocks"
	"github.com/sells-group/leadscout/internal/model"
)

func completer(t *testing.T, provider, modelName string) *mocks.MockCompleter {
	mc := mocks.NewMockCompleter(t)
	mc.On("Provider").Return(provider).Maybe()
	mc.On("Model").Return(modelName).Maybe()
	return mc
}

func TestNewValidator_RefusesSameModel(t *testing.T) {
	eval := completer(t, "groq", "openai/gpt-oss-20b")
	same := completer(t, "groq", "openai/gpt-oss-20b")

	_, err := NewValidator(same, eval)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")

	other := completer(t, "gemini", "gemini-2.5-flash")
	v, err := NewValidator(other, eval)
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func newTestValidator(t *testing.T) (*Validator, *mocks.MockCompleter) {
	t.Helper()
	mc := completer(t, "gemini", "gemini-2.5-flash")
	v, err := NewValidator(mc, completer(t, "openai", "gpt-5-mini"))
	require.NoError(t, err)
	return v, mc
}

func TestValidate_PromptCarriesEvaluation(t *testing.T) {
	v, mc := newTestValidator(t)
	mc.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Stage == "validate" &&
			strings.Contains(req.Prompt, "Fit strength: High") &&
			strings.Contains(req.Prompt, "Reason: Runs a voice agency") &&
			strings.Contains(req.Prompt, "profile text") &&
			req.Temperature != nil && *req.Temperature == 0.2
	})).Return(&llm.Response{Text: `{"validation_judgement":"Correct","validation_reason":"Agency builds on Vapi."}`}, nil).Once()

	ev := &Evaluation{FitStrength: model.FitHigh, Reason: "Runs a voice agency"}
	val, err := v.Validate(context.Background(), "profile text", "company text", nil, ev)
	require.NoError(t, err)
	assert.Equal(t, model.JudgementCorrect, val.Judgement)
	assert.Equal(t, "Agency builds on Vapi.", val.Reason)
}

func TestValidate_EmptyReasonPlaceholder(t *testing.T) {
	v, mc := newTestValidator(t)
	mc.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return strings.Contains(req.Prompt, "Reason: No reason provided")
	})).Return(&llm.Response{Text: `{"validation_judgement":"Unsure","validation_reason":"Thin data."}`}, nil).Once()

	val, err := v.Validate(context.Background(), "p", "c", nil, &Evaluation{FitStrength: model.FitUnsure})
	require.NoError(t, err)
	assert.Equal(t, model.JudgementUnsure, val.Judgement)
}

func TestValidate_UpstreamErrorPropagates(t *testing.T) {
	v, mc := newTestValidator(t)
	mc.On("Complete", mock.Anything, mock.Anything).
		Return(nil, model.NewUpstreamError("gemini", errors.New("500"))).Once()

	_, err := v.Validate(context.Background(), "p", "c", nil, &Evaluation{FitStrength: model.FitLow})
	require.Error(t, err)
	assert.True(t, model.IsUpstream(err))
}

func TestParseValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		text          string
		wantJudgement model.Judgement
		wantReason    string
	}{
		{
			name:          "plain json",
			text:          `{"validation_judgement":"Incorrect","validation_reason":"Works at Twilio."}`,
			wantJudgement: model.JudgementIncorrect,
			wantReason:    "Works at Twilio.",
		},
		{
			name:          "fenced with prose",
			text:          "Sure.\n```json\n{\"validation_judgement\": \"correct\", \"validation_reason\": \"Clear fit.\"}\n```",
			wantJudgement: model.JudgementCorrect,
			wantReason:    "Clear fit.",
		},
		{
			name:          "short keys",
			text:          `Result: {"judgement":"Unsure","reason":"Sparse profile."}`,
			wantJudgement: model.JudgementUnsure,
			wantReason:    "Sparse profile.",
		},
		{
			name:          "truncated json falls back to regex",
			text:          `{"validation_judgement": "Incorrect", "validation_reason": "Employed at \"Vapi\" today`,
			wantJudgement: model.JudgementIncorrect,
			wantReason:    "Extracted from malformed response",
		},
		{
			name:          "loose fields",
			text:          "validation_judgement: Correct\nvalidation_reason: \"Founder of a voice agency\"",
			wantJudgement: model.JudgementCorrect,
			wantReason:    "Founder of a voice agency",
		},
		{
			name:          "nothing usable",
			text:          "The classification looks reasonable overall.",
			wantJudgement: model.JudgementUnsure,
			wantReason:    ReasonValidationUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			val := parseValidation(tt.text)
			assert.Equal(t, tt.wantJudgement, val.Judgement)
			assert.Equal(t, tt.wantReason, val.Reason)
		})
	}
}
