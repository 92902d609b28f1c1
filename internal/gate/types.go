package gate

// #region gate-config
// GateConfig holds the thresholds that normalize each gate sub-score.
type GateConfig struct {
	CurvatureThreshold float64 `yaml:"curvature_threshold" json:"curvatureThreshold"` // curvature magnitude at which the score reaches 0
	AttractorThreshold float64 `yaml:"attractor_threshold" json:"attractorThreshold"` // attractor distance at which the score reaches 0
	MemoryThreshold    float64 `yaml:"memory_threshold" json:"memoryThreshold"`       // >=1: hard cut-off; <1: linear ramp up to 1
}

// DefaultGateConfig returns the default thresholds.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		CurvatureThreshold: 0.5,
		AttractorThreshold: 1.0,
		MemoryThreshold:    0.6,
	}
}

// #endregion gate-config

// #region gate-inputs
// Inputs are the per-step signals the gate is computed from.
type Inputs struct {
	CurvatureMagnitude float64
	AttractorDistance  float64
	MemoryAlignment    float64
}

// #endregion gate-inputs

// #region gate-decision
// Decision is the gate value plus its sub-scores, kept for diagnostics.
type Decision struct {
	Value          float64 // product of the three scores, in [0, 1]
	CurvatureScore float64
	AttractorScore float64
	MemoryScore    float64
}

// #endregion gate-decision
