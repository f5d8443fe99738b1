package model

// Stage represents the current state of a single profile's pipeline run.
type Stage string

const (
	StagePending     Stage = "pending"
	StageEnriching   Stage = "enriching"
	StageSummarizing Stage = "summarizing"
	StageEvaluating  Stage = "evaluating"
	StageValidating  Stage = "validating"
	StagePersisting  Stage = "persisting"
	StageDone        Stage = "done"
	StageSkipped     Stage = "skipped"
)

// Terminal reports whether the stage ends the profile's run.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageSkipped
}

// StageResult holds the outcome of one pipeline stage.
type StageResult struct {
	Stage      Stage      `json:"stage"`
	Duration   int64      `json:"duration_ms"`
	TokenUsage TokenUsage `json:"token_usage"`
	Error      string     `json:"error,omitempty"`
}

// TokenUsage tracks token consumption across model calls.
type TokenUsage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost"`
}

// Add merges token usage from another instance.
func (t *TokenUsage) Add(other TokenUsage) {
	t.InputTokens += other.InputTokens
	t.OutputTokens += other.OutputTokens
	t.Cost += other.Cost
}
