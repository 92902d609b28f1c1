package attractor

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

func TestNewIsDeterministicAndNormalized(t *testing.T) {
	a := New(DefaultFacets, 8, "")
	b := New(DefaultFacets, 8, "")
	if a.ID != DefaultID {
		t.Fatalf("expected default id, got %s", a.ID)
	}
	if len(a.Vector) != 8 {
		t.Fatalf("expected dimension 8, got %d", len(a.Vector))
	}
	for i := range a.Vector {
		if a.Vector[i] != b.Vector[i] {
			t.Fatalf("non-deterministic at %d", i)
		}
		if math.Abs(a.Vector[i]) > 1 {
			t.Fatalf("component %d exceeds 1: %v", i, a.Vector[i])
		}
	}
}

func TestDefaultAttractorID(t *testing.T) {
	if got := Default(8).ID; got != "uqrc-default-attractor" {
		t.Fatalf("unexpected id %s", got)
	}
}

func TestEmptyFacetsGiveZeroVector(t *testing.T) {
	a := New(Facets{}, 4, "empty")
	for i, x := range a.Vector {
		if x != 0 {
			t.Fatalf("expected zero at %d, got %v", i, x)
		}
	}
}

func TestDistanceZeroAtTarget(t *testing.T) {
	a := Default(8)
	if d := Distance(a.Vector.Clone(), a); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}

func TestDistanceUsesOverlap(t *testing.T) {
	a := &Attractor{Vector: vector.Vector{0, 0}}
	// only the first two coordinates count
	d := Distance(vector.Vector{3, 4, 100}, a)
	want := math.Sqrt((9.0 + 16.0) / 2)
	if math.Abs(d-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, d)
	}
}

func TestConstraintPull(t *testing.T) {
	a := &Attractor{Vector: vector.Vector{1, -1}}
	got := Constraint(vector.Vector{0, 0, 5}, a, 0.5)
	want := vector.Vector{1, -1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNilAttractor(t *testing.T) {
	if Distance(vector.Vector{1}, nil) != 0 {
		t.Fatal("nil attractor distance should be 0")
	}
	if got := Constraint(vector.Vector{1, 2}, nil, 1); got[0] != 0 || got[1] != 0 {
		t.Fatalf("nil attractor should not pull, got %v", got)
	}
}
