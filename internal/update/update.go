package update

import (
	"github.com/danielpatrickdp/uqrc-engine/internal/attractor"
	"github.com/danielpatrickdp/uqrc-engine/internal/gate"
	"github.com/danielpatrickdp/uqrc-engine/internal/state"
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

// #region step-function
// Step is a pure function computing the next state: u + sum of the diffusion,
// curvature, coercive, semantic-derivative, attractor, memory-curvature and
// gated entropy deltas. The input state is never mutated.
func Step(old state.InteractionState, params Params, in Input) Result {
	u := old.U

	diffusion := vector.Delta(vector.Diffusion(u, params.Nu), u)

	curved := vector.Curvature(u, in.Context)
	curvature := make(vector.Vector, len(u))
	for i, x := range u {
		curvature[i] = (curved[i] - x) * params.CurvatureStrength
	}

	coercive := vector.Delta(vector.Coercive(u, params.Beta), u)

	derivative := vector.SemanticDerivative(u, in.Context, vector.DerivativeOptions{
		LMin:                params.LMin,
		IntentStrength:      params.IntentStrength,
		ContinuityStrength:  params.ContinuityStrength,
		NarrativeTimeWeight: params.NarrativeTimeWeight,
		CompletionWeight:    params.CompletionWeight,
		NarrativeTime:       in.NarrativeTime,
		TurnCompletion:      in.TurnCompletion,
	})

	var pull vector.Vector
	if in.Attractor != nil && params.AttractorStrength > 0 {
		pull = attractor.Constraint(u, in.Attractor, params.AttractorStrength)
	}

	var memoryPull vector.Vector
	if params.MemoryCurvatureStrength > 0 {
		memoryPull = vector.MemoryCurvature(u, in.MemoryCurvature, params.MemoryCurvatureStrength)
	}

	diag := Diagnostics{
		CurvatureMagnitude: vector.Magnitude(curvature),
		AttractorDistance:  attractor.Distance(u, in.Attractor),
		MemoryAlignment:    gate.MemoryAlignment(u, in.Memory),
	}
	diag.Gate = gate.Compute(gate.Inputs{
		CurvatureMagnitude: diag.CurvatureMagnitude,
		AttractorDistance:  diag.AttractorDistance,
		MemoryAlignment:    diag.MemoryAlignment,
	}, params.Gate)
	diag.EntropyGate = diag.Gate.Value
	noise := gate.Noise(u, params.EntropyStrength, diag.EntropyGate)
	diag.EntropyActive = len(noise) > 0

	delta := vector.Combine(diffusion, curvature, coercive, derivative, pull, memoryPull, noise)
	next := make(vector.Vector, len(u))
	for i, x := range u {
		next[i] = x + delta[i]
	}
	diag.DeltaMagnitude = vector.Magnitude(vector.Delta(next, u))

	return Result{
		NewState:    state.InteractionState{U: next, Step: old.Step + 1},
		Diagnostics: diag,
	}
}

// #endregion step-function
