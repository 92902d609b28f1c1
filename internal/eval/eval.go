package eval

import (
	"fmt"
	"time"

	"github.com/danielpatrickdp/uqrc-engine/internal/closure"
	"github.com/danielpatrickdp/uqrc-engine/internal/metrics"
)

// #region eval-harness
// Harness aggregates metrics history into a readiness verdict.
type Harness struct {
	thresholds Thresholds
}

// NewHarness creates a harness with the given thresholds.
func NewHarness(thresholds Thresholds) *Harness {
	return &Harness{thresholds: thresholds}
}

// Thresholds returns the harness configuration.
func (h *Harness) Thresholds() Thresholds { return h.thresholds }

// Run aggregates entries (oldest first). It never mutates them.
func (h *Harness) Run(entries []metrics.Entry) Report {
	t := h.thresholds
	if t.Window > 0 && len(entries) > t.Window {
		entries = entries[len(entries)-t.Window:]
	}

	r := Report{SampleCount: len(entries)}
	if n := float64(len(entries)); n > 0 {
		var allows, forced int
		for _, e := range entries {
			if e.ClosureStatus == closure.StatusAllow {
				allows++
			}
			if e.ClosureForced {
				forced++
			}
			r.MeanDivergence += e.SemanticDivergence
			r.MeanAttractorDistance += e.AttractorDistance
			r.MeanMemoryAlignment += e.MemoryAlignment
		}
		r.AllowRate = float64(allows) / n
		r.ForcedRate = float64(forced) / n
		r.MeanDivergence /= n
		r.MeanAttractorDistance /= n
		r.MeanMemoryAlignment /= n
	}

	checks := []struct {
		metric Metric
		note   string
	}{
		{Metric{"sample_count", float64(r.SampleCount), r.SampleCount >= t.MinSamples}, "Not enough samples to verify hybrid readiness."},
		{Metric{"closure_allow_rate", r.AllowRate, r.AllowRate >= t.AllowRateTarget}, "Closure allow rate below target."},
		{Metric{"semantic_divergence", r.MeanDivergence, r.MeanDivergence <= t.MaxDivergence}, "Semantic divergence above target."},
		{Metric{"attractor_distance", r.MeanAttractorDistance, r.MeanAttractorDistance <= t.MaxAttractorDistance}, "Attractor distance above target."},
		{Metric{"memory_alignment", r.MeanMemoryAlignment, r.MeanMemoryAlignment >= t.MinMemoryAlignment}, "Memory alignment below target."},
	}

	r.Passed = true
	r.Notes = []string{}
	for _, c := range checks {
		r.Metrics = append(r.Metrics, c.metric)
		if !c.metric.Pass {
			r.Passed = false
			r.Notes = append(r.Notes, c.note)
		}
	}
	// forced closures are reported, not judged
	r.Metrics = append(r.Metrics, Metric{Name: "forced_rate", Value: r.ForcedRate, Pass: true})

	r.Reason = "all checks passed"
	if !r.Passed {
		r.Reason = fmt.Sprintf("readiness failed: %s", r.Notes[0])
		if len(r.Notes) > 1 {
			r.Reason = fmt.Sprintf("readiness failed: %d checks: %s", len(r.Notes), r.Notes[0])
		}
	}
	return r
}

// #endregion eval-harness

// #region snapshot
var components = []Component{
	{
		Name:                "Attention",
		TransformerAnalogue: "Self-attention weights",
		EngineConstruct:     "Semantic curvature minimization + attractor constraint",
		Description:         "Attention focuses token interactions; the engine uses curvature minimization and attractor constraints to keep state evolution aligned.",
		Constraints: []string{
			"Maintain curvature magnitude within gate thresholds.",
			"Preserve attractor distance limits to avoid drift.",
		},
	},
	{
		Name:                "EOS / Stop Token",
		TransformerAnalogue: "End-of-sequence emission",
		EngineConstruct:     "Closure gate enforcement",
		Description:         "EOS emission maps to closure allow gating, ensuring semantic closure before release.",
		Constraints: []string{
			"Require closure allow rate at or above target before emission.",
			"Audit forced closures for false positive risk.",
		},
	},
	{
		Name:                "Positional Encoding",
		TransformerAnalogue: "Token position embeddings",
		EngineConstruct:     "Narrative time axis derivatives",
		Description:         "Positional encoding becomes narrative time modulation via semantic derivatives.",
		Constraints: []string{
			"Keep derivative contributions stable across turns.",
			"Align narrative time weight with continuity targets.",
		},
	},
}

// Snapshot runs the harness and attaches the component mapping.
func (h *Harness) Snapshot(entries []metrics.Entry) Snapshot {
	out := make([]Component, len(components))
	for i, c := range components {
		c.Constraints = append([]string(nil), c.Constraints...)
		out[i] = c
	}
	return Snapshot{
		CreatedAt:  time.Now().UTC(),
		Components: out,
		Thresholds: h.thresholds,
		Readiness:  h.Run(entries),
	}
}

// #endregion snapshot
