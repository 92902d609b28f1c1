package update

import (
	"github.com/danielpatrickdp/uqrc-engine/internal/attractor"
	"github.com/danielpatrickdp/uqrc-engine/internal/gate"
	"github.com/danielpatrickdp/uqrc-engine/internal/state"
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

// #region params
// Params are the operator coefficients of one state transition.
type Params struct {
	Nu                      float64         `yaml:"nu" json:"nu"`     // diffusion blend
	Beta                    float64         `yaml:"beta" json:"beta"` // coercive damping
	LMin                    float64         `yaml:"l_min" json:"lMin"`
	CurvatureStrength       float64         `yaml:"curvature_strength" json:"curvatureStrength"`
	AttractorStrength       float64         `yaml:"attractor_strength" json:"attractorStrength"`
	IntentStrength          float64         `yaml:"intent_strength" json:"intentStrength"`
	ContinuityStrength      float64         `yaml:"continuity_strength" json:"continuityStrength"`
	NarrativeTimeWeight     float64         `yaml:"narrative_time_weight" json:"narrativeTimeWeight"`
	CompletionWeight        float64         `yaml:"completion_weight" json:"completionWeight"`
	EntropyStrength         float64         `yaml:"entropy_strength" json:"entropyStrength"`
	MemoryCurvatureStrength float64         `yaml:"memory_curvature_strength" json:"memoryCurvatureStrength"`
	Gate                    gate.GateConfig `yaml:"gate" json:"gate"`
}

// DefaultParams returns the default operator coefficients.
func DefaultParams() Params {
	return Params{
		Nu:                      0.2,
		Beta:                    0.05,
		LMin:                    1,
		CurvatureStrength:       1,
		AttractorStrength:       0.1,
		IntentStrength:          0.15,
		ContinuityStrength:      0.1,
		NarrativeTimeWeight:     0.1,
		CompletionWeight:        0.5,
		EntropyStrength:         0.02,
		MemoryCurvatureStrength: 0.1,
		Gate:                    gate.DefaultGateConfig(),
	}
}

// #endregion params

// #region step-input
// Input carries the per-step context. Every field except Context is optional.
type Input struct {
	Context         vector.Vector        // encoded user input
	Attractor       *attractor.Attractor // nil: no attractor pull
	NarrativeTime   float64              // usually the current step
	TurnCompletion  float64
	Memory          vector.Vector // latest committed vector, for alignment
	MemoryCurvature vector.Vector // decay-weighted memory average
}

// #endregion step-input

// #region diagnostics
// Diagnostics describe one transition.
type Diagnostics struct {
	CurvatureMagnitude float64       `json:"curvatureMagnitude"` // RMS of the curvature delta
	AttractorDistance  float64       `json:"attractorDistance"`  // measured on the pre-step state
	MemoryAlignment    float64       `json:"memoryAlignment"`
	EntropyGate        float64       `json:"entropyGate"`
	EntropyActive      bool          `json:"entropyActive"`
	Gate               gate.Decision `json:"gate"`
	DeltaMagnitude     float64       `json:"deltaMagnitude"`
}

// #endregion diagnostics

// #region step-result
// Result bundles everything returned by Step.
type Result struct {
	NewState    state.InteractionState
	Diagnostics Diagnostics
}

// #endregion step-result
