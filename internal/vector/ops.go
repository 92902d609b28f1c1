package vector

import "math"

// #region diffusion
// Diffusion blends each component toward the circular 3-point local average.
// nu=0 is the identity.
func Diffusion(u Vector, nu float64) Vector {
	n := len(u)
	out := make(Vector, n)
	for i, x := range u {
		left := u[(i-1+n)%n]
		right := u[(i+1)%n]
		avg := (left + x + right) / 3
		out[i] = x + nu*(avg-x)
	}
	return out
}

// #endregion diffusion

// #region curvature
// Curvature applies an attention-like nonlinearity: softmax weights over
// exp(u_i + bias), with bias the context mean, turned into a tanh-bounded
// shift of at most 0.1 per component.
func Curvature(u, context Vector) Vector {
	n := len(u)
	if n == 0 {
		return Vector{}
	}

	var bias float64
	if len(context) > 0 {
		bias = context.Sum() / float64(len(context))
	}

	logits := make([]float64, n)
	normalizer := Epsilon
	for i, x := range u {
		logits[i] = math.Exp(x + bias)
		normalizer += logits[i]
	}

	out := make(Vector, n)
	uniform := 1 / float64(n)
	for i, x := range u {
		attention := logits[i] / normalizer
		shift := math.Tanh((attention - uniform) * 4)
		out[i] = x + shift*0.1
	}
	return out
}

// #endregion curvature

// #region coercive
// Coercive damps toward zero via u_i - beta*tanh(u_i). beta=0 is the identity.
func Coercive(u Vector, beta float64) Vector {
	out := make(Vector, len(u))
	for i, x := range u {
		out[i] = x - beta*math.Tanh(x)
	}
	return out
}

// #endregion coercive

// #region discrete
// Discrete is the forward circular difference divided by lMin.
// lMin=0 is replaced by Epsilon.
func Discrete(u Vector, lMin float64) Vector {
	n := len(u)
	step := lMin
	if step == 0 {
		step = Epsilon
	}
	out := make(Vector, n)
	for i, x := range u {
		out[i] = (u[(i+1)%n] - x) / step
	}
	return out
}

// #endregion discrete

// #region memory-curvature
// MemoryCurvature returns the per-dimension pull (target_i - u_i)*strength
// toward a memory curvature vector. Dimensions beyond the curvature vector
// get no pull. Returns an empty vector when there is nothing to apply.
func MemoryCurvature(u, curvature Vector, strength float64) Vector {
	if len(u) == 0 || len(curvature) == 0 || strength == 0 {
		return Vector{}
	}
	out := make(Vector, len(u))
	for i, x := range u {
		if i < len(curvature) {
			out[i] = (curvature[i] - x) * strength
		}
	}
	return out
}

// #endregion memory-curvature

// #region semantic-derivative
// DerivativeOptions controls SemanticDerivative.
type DerivativeOptions struct {
	LMin                float64
	IntentStrength      float64
	ContinuityStrength  float64
	NarrativeTimeWeight float64
	CompletionWeight    float64
	NarrativeTime       float64 // running turn counter
	TurnCompletion      float64 // clamped to [0, 1]
}

// SemanticDerivative combines a narrative-time scaled discrete derivative with
// an intent pull toward the normalized context and a continuity pull weighted
// by 1 - cosine(u, context).
func SemanticDerivative(u, context Vector, opts DerivativeOptions) Vector {
	if len(u) == 0 {
		return Vector{}
	}

	nu := Normalize(u)
	nc := Normalize(context)
	continuity := 1 - Cosine(nu, nc)
	completion := Clamp01(opts.TurnCompletion)
	narrativeScale := 1 + math.Log1p(opts.NarrativeTime)*opts.NarrativeTimeWeight
	completionScale := 0.5 + completion*opts.CompletionWeight

	base := Discrete(u, opts.LMin)
	for i := range base {
		base[i] *= narrativeScale
	}

	intent := make(Vector, len(nu))
	cont := make(Vector, len(nu))
	for i, x := range nu {
		var target float64
		if i < len(nc) {
			target = nc[i]
		}
		intent[i] = (target - x) * opts.IntentStrength * completionScale
		cont[i] = (target - x) * opts.ContinuityStrength * continuity
	}

	return Combine(base, intent, cont)
}

// #endregion semantic-derivative

// #region combine
// Combine sums vectors elementwise. Missing entries count as 0 and the
// result has the length of the longest input.
func Combine(vectors ...Vector) Vector {
	n := 0
	for _, v := range vectors {
		if len(v) > n {
			n = len(v)
		}
	}
	out := make(Vector, n)
	for _, v := range vectors {
		for i, x := range v {
			out[i] += x
		}
	}
	return out
}

// #endregion combine
