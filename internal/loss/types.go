package loss

import "github.com/danielpatrickdp/uqrc-engine/internal/vector"

// #region weights
// Weights scale each loss term. All weights are non-negative.
type Weights struct {
	Task          float64 `yaml:"task" json:"task"`
	Entropy       float64 `yaml:"entropy" json:"entropy"`
	Fluency       float64 `yaml:"fluency" json:"fluency"`
	Memory        float64 `yaml:"memory" json:"memory"`
	Redundancy    float64 `yaml:"redundancy" json:"redundancy"`
	Verifiability float64 `yaml:"verifiability" json:"verifiability"`
	Creativity    float64 `yaml:"creativity" json:"creativity"`
}

// DefaultWeights returns the default term weights.
func DefaultWeights() Weights {
	return Weights{
		Task:          1,
		Entropy:       0.05,
		Fluency:       0.1,
		Memory:        0.2,
		Redundancy:    0.1,
		Verifiability: 0.2,
		Creativity:    0.05,
	}
}

// #endregion weights

// #region inputs
// Inputs to Compute. Only Prediction is required; absent references zero
// their term.
type Inputs struct {
	Prediction vector.Vector
	Target     vector.Vector
	Previous   vector.Vector
	Paraphrase vector.Vector
	Evidence   vector.Vector
	Samples    []vector.Vector
}

// #endregion inputs

// #region breakdown
// Breakdown holds each unweighted term and the weighted total.
type Breakdown struct {
	Task          float64 `json:"task"`
	Entropy       float64 `json:"entropy"`
	Fluency       float64 `json:"fluency"`
	Memory        float64 `json:"memory"`
	Redundancy    float64 `json:"redundancy"`
	Verifiability float64 `json:"verifiability"`
	Creativity    float64 `json:"creativity"`
	Total         float64 `json:"total"`
}

// #endregion breakdown

// #region options
// Options select loss variants.
type Options struct {
	// RewardEntropy replaces the entropy term H with log(n) - H, so a lower
	// loss means a flatter distribution. Off: H itself is penalized.
	RewardEntropy bool `yaml:"reward_entropy" json:"rewardEntropy"`
}

// CreativityFloor bounds the creativity term at 1/CreativityFloor when
// samples are identical.
const CreativityFloor = 1e-2
// #endregion options

// #region sensitivity
// Sensitivity multiplies the learning rate per tunable coefficient.
type Sensitivity struct {
	Nu                 float64 `yaml:"nu" json:"nu"`
	Beta               float64 `yaml:"beta" json:"beta"`
	CurvatureStrength  float64 `yaml:"curvature_strength" json:"curvatureStrength"`
	AttractorStrength  float64 `yaml:"attractor_strength" json:"attractorStrength"`
	IntentStrength     float64 `yaml:"intent_strength" json:"intentStrength"`
	ContinuityStrength float64 `yaml:"continuity_strength" json:"continuityStrength"`
	EntropyStrength    float64 `yaml:"entropy_strength" json:"entropyStrength"`
}

// DefaultSensitivity returns the default per-coefficient sensitivities.
func DefaultSensitivity() Sensitivity {
	return Sensitivity{
		Nu:                 1,
		Beta:               0.5,
		CurvatureStrength:  0.2,
		AttractorStrength:  0.3,
		IntentStrength:     0.3,
		ContinuityStrength: 0.3,
		EntropyStrength:    0.5,
	}
}

// DefaultLearningRate is the step used by training turns.
const DefaultLearningRate = 0.05
// #endregion sensitivity
