package closure

import (
	"slices"
	"strings"
)

// #region types
// Status is the closure verdict for a candidate utterance.
type Status string

const (
	StatusAllow Status = "allow"
	StatusHold  Status = "hold"
)

// Reasons attached to a Result.
const (
	ReasonBelowMinTokens  = "below_min_tokens"
	ReasonEndsInConnector = "ends_with_connector"
	ReasonLockedOutput    = "locked_output"
	ReasonMaxHoldReached  = "max_hold_steps_reached"
)

// Result is the outcome of a closure check.
type Result struct {
	Status  Status   `json:"status"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
	Forced  bool     `json:"forced"`
}

// Options tune Evaluate. Zero values select the defaults.
type Options struct {
	MinTokens         int      `yaml:"min_tokens" json:"minTokens"`
	DisallowedEndings []string `yaml:"disallowed_endings" json:"disallowedEndings"`
	MaxHoldSteps      int      `yaml:"max_hold_steps" json:"maxHoldSteps"`
}

// DefaultDisallowedEndings are connectors an utterance may not end on.
var DefaultDisallowedEndings = []string{
	"and", "or", "but", "because", "so", "to", "the", "a", "an", "of", "with", "for", "in",
}

const (
	DefaultMinTokens    = 2
	DefaultMaxHoldSteps = 2
)

// DefaultOptions returns the default closure options.
func DefaultOptions() Options {
	return Options{
		MinTokens:         DefaultMinTokens,
		DisallowedEndings: slices.Clone(DefaultDisallowedEndings),
		MaxHoldSteps:      DefaultMaxHoldSteps,
	}
}

// #endregion types

// #region evaluate
// Evaluate scores output: -0.6 below MinTokens (at least 1), -0.4 when the
// last token is a disallowed connector. Any penalty means hold.
func Evaluate(output string, opts Options) Result {
	tokens := strings.Fields(output)
	minTokens := max(1, opts.MinTokens)
	if opts.MinTokens == 0 {
		minTokens = DefaultMinTokens
	}
	endings := opts.DisallowedEndings
	if endings == nil {
		endings = DefaultDisallowedEndings
	}

	reasons := []string{}
	score := 1.0
	if len(tokens) < minTokens {
		reasons = append(reasons, ReasonBelowMinTokens)
		score -= 0.6
	}
	if len(tokens) > 0 {
		last := strings.ToLower(tokens[len(tokens)-1])
		for _, e := range endings {
			if strings.ToLower(e) == last {
				reasons = append(reasons, ReasonEndsInConnector)
				score -= 0.4
				break
			}
		}
	}

	score = max(0, min(1, score))
	status := StatusAllow
	if len(reasons) > 0 {
		status = StatusHold
	}
	return Result{Status: status, Score: score, Reasons: reasons}
}

// #endregion evaluate

// #region overrides
// Locked is the verdict for an override reply: allowed without scoring.
func Locked() Result {
	return Result{Status: StatusAllow, Score: 1, Reasons: []string{ReasonLockedOutput}}
}

// Force turns an exhausted hold into a forced allow, keeping the score and
// the original reasons.
func Force(r Result) Result {
	reasons := make([]string, 0, len(r.Reasons)+1)
	reasons = append(reasons, r.Reasons...)
	return Result{
		Status:  StatusAllow,
		Score:   r.Score,
		Reasons: append(reasons, ReasonMaxHoldReached),
		Forced:  true,
	}
}

// HasReason reports whether r carries reason.
func (r Result) HasReason(reason string) bool {
	return slices.Contains(r.Reasons, reason)
}

// #endregion overrides
