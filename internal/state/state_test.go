package state

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

func TestInitializeSinusoidalSeed(t *testing.T) {
	s := Initialize(8, 0)
	if s.Step != 0 {
		t.Fatalf("expected step 0, got %d", s.Step)
	}
	if s.Dimension() != 8 {
		t.Fatalf("expected dimension 8, got %d", s.Dimension())
	}
	for i, x := range s.U {
		want := math.Sin(float64(i) * 0.7)
		if x != want {
			t.Fatalf("index %d: got %v, want %v", i, x, want)
		}
	}
}

func TestInitializeDefaultDimension(t *testing.T) {
	if got := Initialize(0, 1).Dimension(); got != DefaultDimension {
		t.Fatalf("expected default dimension, got %d", got)
	}
}

func TestInitializeSeedChangesState(t *testing.T) {
	a := Initialize(4, 0)
	b := Initialize(4, 2.5)
	if a.U[0] == b.U[0] {
		t.Fatal("different seeds should give different states")
	}
}

func TestResumeFromLatest(t *testing.T) {
	latest := vector.Vector{0.1, 0.2, 0.3, 0.4}
	s := Resume(latest, 99, 4)
	for i := range latest {
		if s.U[i] != latest[i] {
			t.Fatalf("index %d not resumed", i)
		}
	}
	s.U[0] = 7
	if latest[0] != 0.1 {
		t.Fatal("Resume must copy the latest vector")
	}
}

func TestResumeReseedsOnDimensionMismatch(t *testing.T) {
	s := Resume(vector.Vector{1, 2}, 0.5, 4)
	want := Initialize(4, 0.5)
	for i := range want.U {
		if s.U[i] != want.U[i] {
			t.Fatalf("index %d: expected reseeded state", i)
		}
	}
}

func TestResumeRejectsNonFinite(t *testing.T) {
	s := Resume(vector.Vector{math.NaN(), 0}, math.Inf(1), 2)
	if !s.U.Finite() {
		t.Fatalf("expected finite reseeded state, got %v", s.U)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := Initialize(3, 0)
	c := s.Clone()
	c.U[0] = 42
	if s.U[0] == 42 {
		t.Fatal("clone shares memory")
	}
}
