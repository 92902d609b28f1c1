package replay

import (
	"os"
	"path/filepath"
	"testing"
)

// #region fixture-tests

// TestFixture_HookedSession is the regression baseline: if closure, hook or
// decode behaviour drifts, a turn's outcome changes here.
func TestFixture_HookedSession(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "hooked_session.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	run, mismatches, err := RunFixture(f)
	if err != nil {
		t.Fatalf("RunFixture: %v", err)
	}
	for _, m := range mismatches {
		t.Errorf("mismatch %s", m)
	}
	if len(run.Results) != len(f.ExpectedResults) {
		t.Fatalf("expected %d results, got %d", len(f.ExpectedResults), len(run.Results))
	}

	s := Summarize(run.Results)
	if s.Locked != 2 {
		t.Errorf("expected 2 locked turns, got %d", s.Locked)
	}
	if s.Forced < 1 {
		t.Errorf("expected the connector turn to be forced, got %d", s.Forced)
	}
	if run.FinalParams == mustConfig(t, f).Engine.Params {
		t.Error("expected the training step to move the params")
	}
}

func TestFixture_Deterministic(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "hooked_session.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	a, _, _ := RunFixture(f)
	b, _, _ := RunFixture(f)
	for i := range a.Results {
		if a.Results[i].Output != b.Results[i].Output {
			t.Fatalf("turn %d differs: %q vs %q", i, a.Results[i].Output, b.Results[i].Output)
		}
	}
	for i := range a.FinalState.U {
		if a.FinalState.U[i] != b.FinalState.U[i] {
			t.Fatalf("final state differs at %d", i)
		}
	}
}

func TestFixture_PartialParamsKeepDefaults(t *testing.T) {
	f := &Fixture{
		Params:  []byte(`{"nu": 0.5, "gate": {"memoryThreshold": 1}}`),
		Closure: []byte(`{"maxHoldSteps": 4}`),
	}
	cfg, err := f.ToConfig()
	if err != nil {
		t.Fatalf("ToConfig: %v", err)
	}
	def := DefaultConfig()
	if cfg.Engine.Params.Nu != 0.5 || cfg.Engine.Params.Beta != def.Engine.Params.Beta {
		t.Fatalf("unexpected params %+v", cfg.Engine.Params)
	}
	if cfg.Engine.Params.Gate.MemoryThreshold != 1 || cfg.Engine.Params.Gate.CurvatureThreshold != def.Engine.Params.Gate.CurvatureThreshold {
		t.Fatalf("unexpected gate %+v", cfg.Engine.Params.Gate)
	}
	if cfg.Engine.Closure.MaxHoldSteps != 4 || cfg.Engine.Closure.MinTokens != def.Engine.Closure.MinTokens {
		t.Fatalf("unexpected closure %+v", cfg.Engine.Closure)
	}
}

func TestFixture_BadParams(t *testing.T) {
	f := &Fixture{Params: []byte(`{"nu": "fast"}`)}
	if _, err := f.ToConfig(); err == nil {
		t.Fatal("expected error for non-numeric param")
	}
}

func TestLoadFixture_Errors(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected read error")
	}
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFixture(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func mustConfig(t *testing.T, f *Fixture) Config {
	t.Helper()
	cfg, err := f.ToConfig()
	if err != nil {
		t.Fatalf("ToConfig: %v", err)
	}
	return cfg
}

// #endregion fixture-tests
