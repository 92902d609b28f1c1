package orchestrator

import "github.com/danielpatrickdp/uqrc-engine/internal/closure"

// #region engine

// RetryEngine decides whether a held output gets another state step.
type RetryEngine struct {
	maxHoldSteps int
}

// NewRetryEngine creates a retry engine. Negative limits mean no retries.
func NewRetryEngine(maxHoldSteps int) *RetryEngine {
	return &RetryEngine{maxHoldSteps: max(0, maxHoldSteps)}
}

// MaxHoldSteps is the retry budget per turn.
func (r *RetryEngine) MaxHoldSteps() int { return r.maxHoldSteps }

// #endregion

// #region should-retry

// ShouldRetry reports whether to step again after holds retries so far.
func (r *RetryEngine) ShouldRetry(result closure.Result, holds int) bool {
	return result.Status == closure.StatusHold && holds < r.maxHoldSteps
}

// Finalize force-allows a result that is still held after the budget is spent.
func (r *RetryEngine) Finalize(result closure.Result) closure.Result {
	if result.Status == closure.StatusHold {
		return closure.Force(result)
	}
	return result
}

// #endregion
