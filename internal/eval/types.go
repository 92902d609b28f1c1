package eval

import "time"

// #region thresholds
// Thresholds decide the readiness verdict.
type Thresholds struct {
	MinSamples           int     `yaml:"min_samples" json:"minSamples"`
	AllowRateTarget      float64 `yaml:"allow_rate_target" json:"closureAllowRateTarget"`
	MaxDivergence        float64 `yaml:"max_divergence" json:"maxAverageDivergence"`
	MaxAttractorDistance float64 `yaml:"max_attractor_distance" json:"maxAverageAttractorDistance"`
	MinMemoryAlignment   float64 `yaml:"min_memory_alignment" json:"minAverageMemoryAlignment"`
	Window               int     `yaml:"window" json:"window"` // newest entries considered; 0 = all
}

// DefaultThresholds returns the default readiness thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSamples:           5,
		AllowRateTarget:      0.95,
		MaxDivergence:        0.6,
		MaxAttractorDistance: 0.6,
		MinMemoryAlignment:   0.4,
	}
}

// #endregion thresholds

// #region eval-metric
// Metric captures a single readiness check.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Pass  bool    `json:"pass"`
}

// #endregion eval-metric

// #region report
// Report is the read-only readiness aggregate over a metrics window.
type Report struct {
	SampleCount           int      `json:"sampleCount"`
	AllowRate             float64  `json:"closureAllowRate"`
	ForcedRate            float64  `json:"forcedRate"`
	MeanDivergence        float64  `json:"averageDivergence"`
	MeanAttractorDistance float64  `json:"averageAttractorDistance"`
	MeanMemoryAlignment   float64  `json:"averageMemoryAlignment"`
	Passed                bool     `json:"meetsThresholds"`
	Metrics               []Metric `json:"metrics"`
	Notes                 []string `json:"notes"`
	Reason                string   `json:"reason"`
}

// #endregion report

// #region snapshot
// Component maps one conventional sequence-model construct onto the engine.
type Component struct {
	Name                string   `json:"name"`
	TransformerAnalogue string   `json:"transformerAnalogue"`
	EngineConstruct     string   `json:"uqrcConstruct"`
	Description         string   `json:"description"`
	Constraints         []string `json:"constraints"`
}

// Snapshot pairs a readiness report with the component mapping it audits.
type Snapshot struct {
	CreatedAt  time.Time   `json:"createdAt"`
	Components []Component `json:"components"`
	Thresholds Thresholds  `json:"thresholds"`
	Readiness  Report      `json:"readiness"`
}

// #endregion snapshot
