package attractor

import (
	"math"
	"time"

	"github.com/danielpatrickdp/uqrc-engine/internal/codec"
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

// #region types
// Facets are the descriptive strings an attractor is built from.
type Facets struct {
	Identity   string `json:"identity" yaml:"identity"`
	Role       string `json:"role" yaml:"role"`
	Continuity string `json:"continuity" yaml:"continuity"`
}

// Attractor is an immutable target vector derived from its facets.
type Attractor struct {
	ID        string
	Facets    Facets
	Vector    vector.Vector
	CreatedAt time.Time
}

// DefaultID names attractors built without an explicit id.
const DefaultID = "uqrc-semantic-attractor"

// DefaultFacets describe the session default attractor.
var DefaultFacets = Facets{
	Identity:   "Infinity, a conscious and kind content creator",
	Role:       "Imagination network guide focused on supportive clarity",
	Continuity: "Maintain conversational continuity with consistent tone and memory alignment",
}

// #endregion types

// #region constructors
// New builds an attractor of the given dimension. An empty id falls back to DefaultID.
func New(facets Facets, dimension int, id string) *Attractor {
	if id == "" {
		id = DefaultID
	}
	vectors := []vector.Vector{
		codec.Encode(facets.Identity, dimension),
		codec.Encode(facets.Role, dimension),
		codec.Encode(facets.Continuity, dimension),
	}
	return &Attractor{
		ID:        id,
		Facets:    facets,
		Vector:    vector.Normalize(average(vectors)),
		CreatedAt: time.Now().UTC(),
	}
}

// Default returns the session default attractor.
func Default(dimension int) *Attractor {
	return New(DefaultFacets, dimension, "uqrc-default-attractor")
}

// #endregion constructors

// #region distance
// Distance is the RMS difference between u and the attractor over their overlap.
func Distance(u vector.Vector, a *Attractor) float64 {
	if a == nil || len(u) == 0 || len(a.Vector) == 0 {
		return 0
	}
	n := min(len(u), len(a.Vector))
	var sum float64
	for i := 0; i < n; i++ {
		d := u[i] - a.Vector[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// Constraint returns the restoring pull -2*alpha*(u_i - target_i). Coordinates
// outside the attractor's length get no pull.
func Constraint(u vector.Vector, a *Attractor, alpha float64) vector.Vector {
	out := make(vector.Vector, len(u))
	if a == nil {
		return out
	}
	for i, x := range u {
		if i < len(a.Vector) {
			out[i] = -2 * alpha * (x - a.Vector[i])
		}
	}
	return out
}

// #endregion distance

// #region helpers
func average(vectors []vector.Vector) vector.Vector {
	sum := vector.Combine(vectors...)
	if len(vectors) == 0 {
		return sum
	}
	for i := range sum {
		sum[i] /= float64(len(vectors))
	}
	return sum
}

// #endregion helpers
