package gate

import (
	"math"

	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

// #region gate
// Compute derives the entropy gate: noise is only let through when the state
// is calm, close to its attractor and aligned with recent memory.
func Compute(in Inputs, config GateConfig) Decision {
	var curvature, attractor float64
	if config.CurvatureThreshold > 0 {
		curvature = vector.Clamp01(1 - in.CurvatureMagnitude/config.CurvatureThreshold)
	}
	if config.AttractorThreshold > 0 {
		attractor = vector.Clamp01(1 - in.AttractorDistance/config.AttractorThreshold)
	}

	var memory float64
	if config.MemoryThreshold >= 1 {
		if in.MemoryAlignment >= config.MemoryThreshold {
			memory = 1
		}
	} else {
		memory = vector.Clamp01((in.MemoryAlignment - config.MemoryThreshold) / (1 - config.MemoryThreshold))
	}

	return Decision{
		Value:          curvature * attractor * memory,
		CurvatureScore: curvature,
		AttractorScore: attractor,
		MemoryScore:    memory,
	}
}

// #endregion gate

// #region noise
// Noise builds the gated perturbation: a sine-hash pseudo-random value per
// dimension, mapped to [-1, 1) and scaled by strength*gate. Returns an empty
// vector when either factor is zero.
func Noise(u vector.Vector, strength, gate float64) vector.Vector {
	if len(u) == 0 || strength == 0 || gate == 0 {
		return vector.Vector{}
	}
	scaled := strength * gate
	out := make(vector.Vector, len(u))
	for i, x := range u {
		n := pseudoRandom(x*12.9898 + float64(i)*78.233)
		out[i] = (n*2 - 1) * scaled
	}
	return out
}

// pseudoRandom is the fractional part of sin(seed)*43758.5453123.
func pseudoRandom(seed float64) float64 {
	v := math.Sin(seed) * 43758.5453123
	return v - math.Floor(v)
}

// #endregion noise

// #region alignment
// MemoryAlignment is the cosine similarity between the normalized current
// state and the normalized memory vector; 0 when either is missing.
func MemoryAlignment(current, memory vector.Vector) float64 {
	if len(memory) == 0 || len(current) == 0 {
		return 0
	}
	return vector.Cosine(vector.Normalize(current), vector.Normalize(memory))
}

// #endregion alignment
