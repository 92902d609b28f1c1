package metrics

import "github.com/danielpatrickdp/uqrc-engine/internal/closure"

// #region entry
// Entry is the telemetry of one turn. Timestamp is Unix milliseconds.
type Entry struct {
	Step               int            `json:"step"`
	Timestamp          int64          `json:"timestamp"`
	SemanticDivergence float64        `json:"semanticDivergence"`
	ClosureLatencyMs   float64        `json:"closureLatencyMs"`
	ClosureHoldSteps   int            `json:"closureHoldSteps"`
	ClosureStatus      closure.Status `json:"closureStatus"`
	ClosureScore       float64        `json:"closureScore"`
	ClosureForced      bool           `json:"closureForced"`
	AttractorDistance  float64        `json:"attractorDistance"`
	CurvatureMagnitude float64        `json:"curvatureMagnitude"`
	EntropyGate        float64        `json:"entropyGate"`
	EntropyActive      bool           `json:"entropyActive"`
	MemoryAlignment    float64        `json:"memoryAlignment"`
}

// #endregion entry

// DefaultCapacity bounds the ring buffer.
const DefaultCapacity = 200
