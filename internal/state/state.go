package state

import (
	"math"

	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

// #region initialize
// Initialize builds a fresh state from a sinusoidal seed: u_i = sin(seed + 0.7i).
// A non-positive dimension selects DefaultDimension.
func Initialize(dimension int, seed float64) InteractionState {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	u := make(vector.Vector, dimension)
	for i := range u {
		u[i] = math.Sin(seed + float64(i)*0.7)
	}
	return InteractionState{U: u, Step: 0}
}

// #endregion initialize

// #region resume
// Resume continues from the last committed vector when it is usable at the
// requested dimension, otherwise it reseeds with seed. Step restarts at 0.
func Resume(latest vector.Vector, seed float64, dimension int) InteractionState {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	if len(latest) == dimension && latest.Finite() {
		return InteractionState{U: latest.Clone(), Step: 0}
	}
	if math.IsNaN(seed) || math.IsInf(seed, 0) {
		seed = 0
	}
	return Initialize(dimension, seed)
}

// #endregion resume
