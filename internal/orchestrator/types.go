package orchestrator

// #region imports
import (
	"time"

	"github.com/danielpatrickdp/uqrc-engine/internal/attractor"
	"github.com/danielpatrickdp/uqrc-engine/internal/closure"
	"github.com/danielpatrickdp/uqrc-engine/internal/hooks"
	"github.com/danielpatrickdp/uqrc-engine/internal/logging"
	"github.com/danielpatrickdp/uqrc-engine/internal/loss"
	"github.com/danielpatrickdp/uqrc-engine/internal/memory"
	"github.com/danielpatrickdp/uqrc-engine/internal/metrics"
	"github.com/danielpatrickdp/uqrc-engine/internal/state"
	"github.com/danielpatrickdp/uqrc-engine/internal/update"
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

// #endregion

// #region collaborators

// MemoryCollaborator receives every turn attempt and the closure-clean commits.
type MemoryCollaborator interface {
	List() []memory.Entry
	Commit(entry memory.Entry) bool
	AddWorking(entry memory.Entry)
}

// SeedSource is implemented by memories that can reseed a session.
type SeedSource interface {
	LatestState() (vector.Vector, bool)
	LatestSeed() float64
}

// CurvatureSource is implemented by memories that expose a decay-weighted
// history vector.
type CurvatureSource interface {
	Curvature(window int, decay float64) vector.Vector
}

// MetricsCollaborator receives one entry per turn.
type MetricsCollaborator interface {
	List() []metrics.Entry
	AddEntry(entry metrics.Entry) bool
}

// HookCollaborator supplies override rules.
type HookCollaborator interface {
	List() []hooks.Hook
	AddHook(hook hooks.Hook) bool
}

// Recorder persists per-turn provenance.
type Recorder interface {
	LogDecision(entry logging.ProvenanceEntry) error
}

// Observer is notified after every turn and training step.
type Observer interface {
	ObserveTurn(result TurnResult)
	ObserveTrain(result TrainResult)
}

// #endregion

// #region config

// Config holds the session-level engine settings.
type Config struct {
	Dimension            int
	Params               update.Params
	Closure              closure.Options
	Attractor            *attractor.Attractor // nil: default attractor for the dimension
	CurvatureWindow      int
	CurvatureDecay       float64
	LogAttractorDistance bool
	LogEntropyActivation bool

	LossWeights  loss.Weights
	LossOptions  loss.Options
	Sensitivity  loss.Sensitivity
	LearningRate float64
}

// DefaultConfig returns the default engine settings.
func DefaultConfig() Config {
	return Config{
		Dimension:            state.DefaultDimension,
		Params:               update.DefaultParams(),
		Closure:              closure.DefaultOptions(),
		CurvatureWindow:      memory.DefaultCurvatureWindow,
		CurvatureDecay:       memory.DefaultCurvatureDecay,
		LogAttractorDistance: true,
		LogEntropyActivation: true,
		LossWeights:          loss.DefaultWeights(),
		Sensitivity:          loss.DefaultSensitivity(),
		LearningRate:         loss.DefaultLearningRate,
	}
}

// #endregion

// #region turn-result

// TurnResult is everything one RunTurn call produced.
type TurnResult struct {
	TurnID             string
	Input              string
	Output             string
	State              state.InteractionState
	Closure            closure.Result
	Diagnostics        update.Diagnostics // from the final step
	AttractorID        string
	AttractorDistance  float64 // on the final state
	HoldSteps          int
	Trigger            logging.Trigger
	Decision           logging.Decision
	SemanticDivergence float64
	Latency            time.Duration
	Timestamp          int64 // Unix milliseconds, shared by the memory and metrics entries
}

// Locked reports whether a hook produced the output.
func (r TurnResult) Locked() bool {
	return r.Trigger == logging.TriggerHookExact || r.Trigger == logging.TriggerHookIncur
}

// #endregion

// #region train

// TrainRequest names the reference texts of one training step. Blank texts
// leave their loss term at zero.
type TrainRequest struct {
	Target     string `json:"target"`
	Paraphrase string `json:"paraphrase"`
	Evidence   string `json:"evidence"`
}

// TrainResult reports the loss and the parameter change.
type TrainResult struct {
	Breakdown loss.Breakdown
	Before    update.Params
	After     update.Params
}

// #endregion
