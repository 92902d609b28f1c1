package vector

import (
	"math"
	"testing"
)

func sample() Vector {
	return Vector{0.5, -1.2, 3.3, 0, 0.75, -0.1, 2.2, -4}
}

func equal(t *testing.T, got, want Vector) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDiffusionZeroIsIdentity(t *testing.T) {
	u := sample()
	equal(t, Diffusion(u, 0), u)
}

func TestDiffusionFullAveragesNeighbours(t *testing.T) {
	u := Vector{3, 0, 0}
	got := Diffusion(u, 1)
	for i, x := range got {
		if math.Abs(x-1) > 1e-12 {
			t.Fatalf("index %d: expected 1, got %v", i, x)
		}
	}
}

func TestCoerciveZeroIsIdentity(t *testing.T) {
	u := sample()
	equal(t, Coercive(u, 0), u)
}

func TestCoerciveDampsTowardZero(t *testing.T) {
	got := Coercive(Vector{2, -2}, 0.5)
	if got[0] >= 2 || got[1] <= -2 {
		t.Fatalf("expected damping toward zero, got %v", got)
	}
}

func TestOperatorsDoNotMutateInput(t *testing.T) {
	u := sample()
	orig := u.Clone()
	Diffusion(u, 0.3)
	Curvature(u, Vector{1, 2})
	Coercive(u, 0.2)
	Discrete(u, 0.5)
	SemanticDerivative(u, Vector{1, 1, 1}, DerivativeOptions{LMin: 1, IntentStrength: 0.2})
	equal(t, u, orig)
}

func TestDiscreteZeroLMinUsesEpsilon(t *testing.T) {
	u := Vector{1e-12, 2e-12, 4e-12}
	a := Discrete(u, 0)
	b := Discrete(u, Epsilon)
	for i := range a {
		if math.IsInf(a[i], 0) || math.IsNaN(a[i]) {
			t.Fatalf("index %d not finite: %v", i, a[i])
		}
		if math.Abs(a[i]-b[i]) > 1e-9 {
			t.Fatalf("index %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestDiscreteWrapsAround(t *testing.T) {
	got := Discrete(Vector{1, 2, 4}, 1)
	equal(t, got, Vector{1, 2, -3})
}

func TestCombineMismatchedLengths(t *testing.T) {
	a := Vector{1, 2}
	b := Vector{10, 20, 30}
	got := Combine(a, b)
	equal(t, got, Vector{11, 22, 30})
	equal(t, Combine(b, a), got)
}

func TestCombineEmpty(t *testing.T) {
	if got := Combine(); len(got) != 0 {
		t.Fatalf("expected empty vector, got %v", got)
	}
}

func TestCurvatureBoundedShift(t *testing.T) {
	u := sample()
	got := Curvature(u, Vector{0.4, 0.2})
	for i := range u {
		if math.Abs(got[i]-u[i]) > 0.1+1e-12 {
			t.Fatalf("index %d shifted by %v", i, got[i]-u[i])
		}
	}
}

func TestCurvatureUniformStateIsFixedPoint(t *testing.T) {
	u := Vector{0.3, 0.3, 0.3, 0.3}
	got := Curvature(u, nil)
	for i := range u {
		if math.Abs(got[i]-u[i]) > 1e-9 {
			t.Fatalf("index %d moved: %v", i, got[i])
		}
	}
}

func TestSemanticDerivativeDeterministic(t *testing.T) {
	opts := DerivativeOptions{
		LMin: 1, IntentStrength: 0.15, ContinuityStrength: 0.1,
		NarrativeTimeWeight: 0.1, CompletionWeight: 0.5,
		NarrativeTime: 3, TurnCompletion: 0.4,
	}
	ctx := Vector{0.2, 0.9, -0.3, 0.1, 0, 0.5, 0.7, 1}
	equal(t, SemanticDerivative(sample(), ctx, opts), SemanticDerivative(sample(), ctx, opts))
}

func TestSemanticDerivativeReducesToDiscrete(t *testing.T) {
	u := sample()
	got := SemanticDerivative(u, nil, DerivativeOptions{LMin: 2})
	equal(t, got, Discrete(u, 2))
}

func TestMemoryCurvature(t *testing.T) {
	got := MemoryCurvature(Vector{1, 1, 1}, Vector{2, 0}, 0.5)
	equal(t, got, Vector{0.5, -0.5, 0})
	if len(MemoryCurvature(Vector{1}, Vector{2}, 0)) != 0 {
		t.Fatal("expected empty result for zero strength")
	}
}

func TestNormalizeNeverScalesUp(t *testing.T) {
	equal(t, Normalize(Vector{0.5, -0.25}), Vector{0.5, -0.25})
	equal(t, Normalize(Vector{4, -2}), Vector{1, -0.5})
}

func TestCosine(t *testing.T) {
	if c := Cosine(Vector{1, 0}, Vector{1, 0, 5}); math.Abs(c-1) > 1e-12 {
		t.Fatalf("expected 1, got %v", c)
	}
	if c := Cosine(Vector{0, 0}, Vector{1, 1}); c != 0 {
		t.Fatalf("expected 0 for zero vector, got %v", c)
	}
}

func TestFinite(t *testing.T) {
	if !(Vector{1, 2}).Finite() {
		t.Fatal("expected finite")
	}
	if (Vector{1, math.NaN()}).Finite() {
		t.Fatal("NaN should not be finite")
	}
	if (Vector{math.Inf(1)}).Finite() {
		t.Fatal("Inf should not be finite")
	}
}
