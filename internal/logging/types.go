package logging

import "time"

// #region provenance-entry
// Trigger names what produced a turn's output.
type Trigger string

const (
	TriggerDecoded   Trigger = "decoded"
	TriggerHookExact Trigger = "hook_exact"
	TriggerHookIncur Trigger = "hook_incur"
)

// Decision records what happened to a turn's memory entry.
type Decision string

const (
	DecisionCommit      Decision = "commit"       // working + committed
	DecisionWorkingOnly Decision = "working_only" // closure did not allow
	DecisionRejected    Decision = "rejected"     // memory store refused the commit
	DecisionNoMemory    Decision = "no_memory"    // no memory collaborator attached
)

// ProvenanceEntry is a single row in the provenance_log table.
type ProvenanceEntry struct {
	TurnID          string
	InputHash       string
	Trigger         Trigger
	Decision        Decision
	Reason          string
	DiagnosticsJSON string
	CreatedAt       time.Time
}

// #endregion provenance-entry

// #region turn-record
// TurnRecord captures everything a turn decided on. Serialized as JSON into
// provenance_log.diagnostics_json for offline inspection.
type TurnRecord struct {
	TurnID string `json:"turn_id"`
	Input  string `json:"input"`
	Output string `json:"output"`
	Step   int    `json:"step"`

	ClosureStatus  string   `json:"closure_status"`
	ClosureScore   float64  `json:"closure_score"`
	ClosureReasons []string `json:"closure_reasons"`
	ClosureForced  bool     `json:"closure_forced"`
	HoldSteps      int      `json:"hold_steps"`

	AttractorID        string  `json:"attractor_id"`
	AttractorDistance  float64 `json:"attractor_distance"`
	CurvatureMagnitude float64 `json:"curvature_magnitude"`
	EntropyGate        float64 `json:"entropy_gate"`
	EntropyActive      bool    `json:"entropy_active"`
	MemoryAlignment    float64 `json:"memory_alignment"`
	SemanticDivergence float64 `json:"semantic_divergence"`
	LatencyMs          float64 `json:"latency_ms"`
}

// #endregion turn-record

// #region logger-config
// Config selects the zap logger setup.
type Config struct {
	Environment string   `yaml:"environment"` // "development" | "production"
	Level       string   `yaml:"level"`       // debug | info | warn | error
	Service     string   `yaml:"service"`
	OutputPaths []string `yaml:"output_paths,omitempty"`
}

// #endregion logger-config
