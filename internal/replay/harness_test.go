package replay

import (
	"testing"

	"github.com/danielpatrickdp/uqrc-engine/internal/closure"
	"github.com/danielpatrickdp/uqrc-engine/internal/hooks"
	"github.com/danielpatrickdp/uqrc-engine/internal/logging"
)

func turns(inputs ...string) []Interaction {
	out := make([]Interaction, len(inputs))
	for i, in := range inputs {
		out[i] = Interaction{TurnID: in, Input: in}
	}
	return out
}

func TestReplay_PingPong(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hooks = []hooks.Hook{{Message: "ping", Reply: "pong"}}

	run := Replay(cfg, turns("ping"))
	if len(run.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(run.Results))
	}
	r := run.Results[0]
	if r.Output != "pong" || r.Trigger != logging.TriggerHookExact {
		t.Fatalf("unexpected result %+v", r)
	}
	if len(run.Memory) != 1 || run.Memory[0].Output != "pong" {
		t.Fatalf("expected committed pong, got %+v", run.Memory)
	}
	if len(run.Metrics) != 1 {
		t.Fatalf("expected 1 metrics entry, got %d", len(run.Metrics))
	}
}

func TestReplay_StateAdvances(t *testing.T) {
	run := Replay(DefaultConfig(), turns("one two three", "four five six"))
	if run.FinalState.Step != 2 {
		t.Fatalf("expected step 2, got %d", run.FinalState.Step)
	}
	if run.Results[0].Step != 1 || run.Results[1].Step != 2 {
		t.Fatalf("unexpected per-turn steps %d, %d", run.Results[0].Step, run.Results[1].Step)
	}
}

func TestReplay_ReadinessNeedsSamples(t *testing.T) {
	run := Replay(DefaultConfig(), turns("hello"))
	if run.Readiness.Passed {
		t.Fatal("one sample must not pass readiness")
	}
	if run.Readiness.SampleCount != 1 {
		t.Fatalf("expected 1 sample, got %d", run.Readiness.SampleCount)
	}
}

func TestReplay_Empty(t *testing.T) {
	run := Replay(DefaultConfig(), nil)
	if len(run.Results) != 0 || run.FinalState.Step != 0 {
		t.Fatalf("expected untouched session, got %+v", run)
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Status: closure.StatusAllow, Trigger: logging.TriggerDecoded, Decision: logging.DecisionCommit},
		{Status: closure.StatusAllow, Forced: true, HoldSteps: 2, Trigger: logging.TriggerDecoded, Decision: logging.DecisionRejected},
		{Status: closure.StatusAllow, Trigger: logging.TriggerHookExact, Decision: logging.DecisionCommit},
		{Status: closure.StatusAllow, Trigger: logging.TriggerHookIncur, Decision: logging.DecisionWorkingOnly},
	}
	s := Summarize(results)
	want := Summary{TotalTurns: 4, Allows: 3, Forced: 1, Locked: 2, Commits: 2, WorkingOnly: 1, Rejected: 1, HoldSteps: 2}
	if s != want {
		t.Fatalf("got %+v, want %+v", s, want)
	}
}

func TestCompare(t *testing.T) {
	forced := true
	results := []Result{{TurnID: "a", Output: "x", Status: closure.StatusAllow}}
	expected := []FixtureExpectedResult{
		{TurnID: "a", Output: "y", Status: "allow", Forced: &forced},
		{TurnID: "b"},
	}
	got := Compare(results, expected)
	if len(got) != 3 {
		t.Fatalf("expected 3 mismatches, got %v", got)
	}
	if got[0].Field != "output" || got[1].Field != "forced" || got[2].Field != "turn_id" {
		t.Fatalf("unexpected mismatch order %v", got)
	}
}
