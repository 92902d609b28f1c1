package vector

import "math"

// #region vector-type
// Vector is the fixed-length latent state representation. Operators never
// mutate their inputs; every result is a freshly allocated slice.
type Vector []float64

// Epsilon guards divisions and log terms.
const Epsilon = 1e-9

// Clone returns an independent copy of v (nil stays nil).
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Finite reports whether every component is a finite number.
func (v Vector) Finite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Sum adds all components.
func (v Vector) Sum() float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// Zeros returns a zero vector of length n.
func Zeros(n int) Vector {
	if n < 0 {
		n = 0
	}
	return make(Vector, n)
}

// #endregion vector-type

// #region helpers

// Clamp01 clamps x into [0, 1].
func Clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// Normalize divides by the largest absolute component, never scaling up:
// vectors whose components all lie in [-1, 1] are returned unchanged.
func Normalize(v Vector) Vector {
	if len(v) == 0 {
		return Vector{}
	}
	max := 1.0
	for _, x := range v {
		if a := math.Abs(x); a > max {
			max = a
		}
	}
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x / max
	}
	return out
}

// Cosine computes cosine similarity over the overlapping prefix.
// Returns 0 when either side has zero magnitude.
func Cosine(a, b Vector) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	var dot, am, bm float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		am += a[i] * a[i]
		bm += b[i] * b[i]
	}
	mag := math.Sqrt(am * bm)
	if mag == 0 {
		return 0
	}
	return dot / mag
}

// Magnitude is the root-mean-square of v.
func Magnitude(v Vector) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum / (float64(len(v)) + Epsilon))
}

// Delta computes next - current elementwise over next's length.
// Missing entries of current count as 0.
func Delta(next, current Vector) Vector {
	out := make(Vector, len(next))
	for i, x := range next {
		var c float64
		if i < len(current) {
			c = current[i]
		}
		out[i] = x - c
	}
	return out
}

// #endregion helpers
