package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/cost"
)

// pricedCompleter fills in Usage.Cost for providers that do not report one.
type pricedCompleter struct {
	Completer
	calc *cost.Calculator
}

// WithCost wraps c so every response carries an estimated cost.
func WithCost(c Completer, calc *cost.Calculator) Completer {
	if calc == nil {
		return c
	}
	if !calc.Known(c.Model()) {
		zap.L().Warn("llm: no pricing for model, cost will read 0",
			zap.String("provider", c.Provider()),
			zap.String("model", c.Model()),
		)
	}
	return &pricedCompleter{Completer: c, calc: calc}
}

func (p *pricedCompleter) Complete(ctx context.Context, req Request) (*Response, error) {
	resp, err := p.Completer.Complete(ctx, req)
	if err != nil || resp == nil {
		return resp, err
	}
	if resp.Usage.Cost == 0 {
		resp.Usage.Cost = p.calc.Usage(p.Model(), resp.Usage)
	}
	zap.L().Info("cost attribution",
		zap.String("provider", p.Provider()),
		zap.String("model", p.Model()),
		zap.String("stage", req.Stage),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Float64("estimated_cost_usd", resp.Usage.Cost),
	)
	return resp, nil
}
