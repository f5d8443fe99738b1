// Package summarize turns raw provider documents into short natural-language
// summaries for the evaluator.
package summarize

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/enrich"
	"github.com/sells-group/leadscout/internal/llm"
	"github.com/sells-group/leadscout/internal/model"
)

// Kind selects the system prompt.
type Kind string

const (
	KindProfile Kind = "profile"
	KindCompany Kind = "company"
)

// Options tunes summary requests.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// DefaultOptions mirrors the settings summaries were tuned with.
func DefaultOptions() Options {
	return Options{Temperature: 0.3, MaxTokens: 4096}
}

// Summaries is the output of the Summarizing stage.
type Summaries struct {
	Profile string
	Company string
	Usage   model.TokenUsage
}

// Summarizer feeds whole raw documents to a language model.
type Summarizer struct {
	llm  llm.Completer
	opts Options
}

// New creates a Summarizer.
func New(c llm.Completer, opts Options) *Summarizer {
	return &Summarizer{llm: c, opts: opts}
}

// Summarize produces a summary of one raw document.
func (s *Summarizer) Summarize(ctx context.Context, kind Kind, raw json.RawMessage) (string, model.TokenUsage, error) {
	system := profileSystemPrompt
	if kind == KindCompany {
		system = companySystemPrompt
	}

	start := time.Now()
	resp, err := s.llm.Complete(ctx, llm.Request{
		Stage:       "summarize_" + string(kind),
		System:      system,
		Prompt:      prettyJSON(raw),
		Temperature: llm.Temp(s.opts.Temperature),
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		return "", model.TokenUsage{}, eris.Wrapf(err, "summarize: %s", kind)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", resp.Usage, eris.Wrapf(model.ErrParse, "summarize: empty %s summary", kind)
	}

	zap.L().Debug("summarize: done",
		zap.String("kind", string(kind)),
		zap.String("model", resp.Model),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return text, resp.Usage, nil
}

// SummarizeBoth summarizes the profile, then the company. Either failure
// fails the stage, and a failed profile summary skips the company call.
func (s *Summarizer) SummarizeBoth(ctx context.Context, profile, company enrich.Document) (*Summaries, error) {
	var (
		out Summaries
		use model.TokenUsage
		err error
	)
	if out.Profile, use, err = s.Summarize(ctx, KindProfile, profile.Raw()); err != nil {
		return nil, err
	}
	out.Usage.Add(use)
	if out.Company, use, err = s.Summarize(ctx, KindCompany, company.Raw()); err != nil {
		return nil, err
	}
	out.Usage.Add(use)
	return &out, nil
}

func prettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(b)
}
