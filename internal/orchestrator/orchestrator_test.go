package orchestrator

import (
	"errors"
	"testing"
	"time"

	"github.com/danielpatrickdp/uqrc-engine/internal/closure"
	"github.com/danielpatrickdp/uqrc-engine/internal/hooks"
	"github.com/danielpatrickdp/uqrc-engine/internal/logging"
	"github.com/danielpatrickdp/uqrc-engine/internal/memory"
	"github.com/danielpatrickdp/uqrc-engine/internal/metrics"
	"github.com/danielpatrickdp/uqrc-engine/internal/state"
	"github.com/danielpatrickdp/uqrc-engine/internal/storage"
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// #region fakes

type fakeRecorder struct {
	entries []logging.ProvenanceEntry
	err     error
}

func (f *fakeRecorder) LogDecision(e logging.ProvenanceEntry) error {
	f.entries = append(f.entries, e)
	return f.err
}

type fakeObserver struct {
	turns  []TurnResult
	trains []TrainResult
}

func (f *fakeObserver) ObserveTurn(r TurnResult)   { f.turns = append(f.turns, r) }
func (f *fakeObserver) ObserveTrain(r TrainResult) { f.trains = append(f.trains, r) }

// listOnlyMemory implements only the minimal collaborator contract.
type listOnlyMemory struct {
	committed []memory.Entry
	working   []memory.Entry
}

func (m *listOnlyMemory) List() []memory.Entry { return append([]memory.Entry(nil), m.committed...) }
func (m *listOnlyMemory) Commit(e memory.Entry) bool {
	m.committed = append(m.committed, e)
	return true
}
func (m *listOnlyMemory) AddWorking(e memory.Entry) { m.working = append(m.working, e) }

func fixedClock() time.Time { return time.UnixMilli(1700000000000) }

// #endregion

// #region end-to-end

func TestRunTurn_PingPongHook(t *testing.T) {
	mem := memory.NewStore(nil)
	hk := hooks.NewStore([]hooks.Hook{{Message: "ping", Reply: "pong", IncurSentence: ""}})
	met := metrics.NewStore()
	o := New(DefaultConfig(), WithMemory(mem), WithHooks(hk), WithMetrics(met))

	res := o.RunTurn("ping", o.Initialize(), nil)

	if res.Output != "pong" {
		t.Fatalf("expected pong, got %q", res.Output)
	}
	if !res.Closure.HasReason(closure.ReasonLockedOutput) {
		t.Fatalf("expected locked_output, got %v", res.Closure.Reasons)
	}
	if res.Trigger != logging.TriggerHookExact || !res.Locked() {
		t.Fatalf("expected exact hook trigger, got %s", res.Trigger)
	}
	committed := mem.List()
	if len(committed) != 1 || committed[0].Output != "pong" {
		t.Fatalf("expected committed pong, got %+v", committed)
	}
	if res.Decision != logging.DecisionCommit {
		t.Fatalf("expected commit decision, got %s", res.Decision)
	}
	if len(met.List()) != 1 {
		t.Fatalf("expected one metrics entry, got %d", len(met.List()))
	}
}

func TestRunTurn_DecodedAllow(t *testing.T) {
	mem := memory.NewStore(nil)
	o := New(DefaultConfig(), WithMemory(mem))
	st := o.Initialize()

	res := o.RunTurn("alpha beta gamma", st, nil)
	if res.Trigger != logging.TriggerDecoded {
		t.Fatalf("expected decoded trigger, got %s", res.Trigger)
	}
	if res.Closure.Status != closure.StatusAllow || res.Closure.Forced || res.HoldSteps != 0 {
		t.Fatalf("expected clean allow, got %+v holds=%d", res.Closure, res.HoldSteps)
	}
	if res.State.Step != st.Step+1 {
		t.Fatalf("expected one step, got %d", res.State.Step)
	}
	if len(mem.List()) != 1 || len(mem.Working()) != 1 {
		t.Fatalf("expected working and committed entries, got %d/%d", len(mem.Working()), len(mem.List()))
	}
	if len(res.State.U) != state.DefaultDimension {
		t.Fatalf("state dimension changed: %d", len(res.State.U))
	}
}

func TestRunTurn_ForcedAllowAfterHolds(t *testing.T) {
	mem := memory.NewStore(nil)
	met := metrics.NewStore()
	o := New(DefaultConfig(), WithMemory(mem), WithMetrics(met))
	st := o.Initialize()

	// a one-word connector dictionary can only ever decode to "the"
	res := o.RunTurn("the", st, nil)

	if res.Output != "the" {
		t.Fatalf("expected the, got %q", res.Output)
	}
	if !res.Closure.Forced || res.Closure.Status != closure.StatusAllow {
		t.Fatalf("expected forced allow, got %+v", res.Closure)
	}
	if !res.Closure.HasReason(closure.ReasonMaxHoldReached) {
		t.Fatalf("missing max_hold_steps_reached: %v", res.Closure.Reasons)
	}
	if res.HoldSteps != closure.DefaultMaxHoldSteps {
		t.Fatalf("expected %d holds, got %d", closure.DefaultMaxHoldSteps, res.HoldSteps)
	}
	if res.State.Step != st.Step+1+closure.DefaultMaxHoldSteps {
		t.Fatalf("expected %d steps, got %d", 1+closure.DefaultMaxHoldSteps, res.State.Step)
	}

	// the store re-checks closure and refuses the connector ending
	if res.Decision != logging.DecisionRejected {
		t.Fatalf("expected rejected decision, got %s", res.Decision)
	}
	if len(mem.List()) != 0 || len(mem.Working()) != 1 {
		t.Fatalf("expected working-only entry, got %d/%d", len(mem.Working()), len(mem.List()))
	}
	entries := met.List()
	if len(entries) != 1 || entries[0].ClosureHoldSteps != 2 || !entries[0].ClosureForced {
		t.Fatalf("unexpected metrics %+v", entries)
	}
}

func TestRunTurn_NegativeMaxHoldDisablesRetries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Closure.MaxHoldSteps = -1
	o := New(cfg)
	res := o.RunTurn("the", o.Initialize(), nil)
	if res.HoldSteps != 0 || !res.Closure.Forced {
		t.Fatalf("expected immediate forced allow, got %+v holds=%d", res.Closure, res.HoldSteps)
	}
}

func TestRunTurn_IncurReplaysCommittedReply(t *testing.T) {
	mem := memory.NewStore([]memory.Entry{
		{Input: "tell me a story", Output: "once upon", U: vector.Vector{0.1, 0.2}, Timestamp: 1},
		{Input: " tell me a story ", Output: "long ago", U: vector.Vector{0.1, 0.2}, Timestamp: 2},
	})
	hk := hooks.NewStore([]hooks.Hook{{IncurSentence: "STORY", Reply: "ignored"}})
	o := New(DefaultConfig(), WithMemory(mem), WithHooks(hk))

	res := o.RunTurn("tell me a story", o.Initialize(), nil)
	if res.Output != "long ago" {
		t.Fatalf("expected newest committed reply, got %q", res.Output)
	}
	if res.Trigger != logging.TriggerHookIncur {
		t.Fatalf("expected incur trigger, got %s", res.Trigger)
	}
}

func TestRunTurn_IncurWithoutMemoryMatchDecodes(t *testing.T) {
	hk := hooks.NewStore([]hooks.Hook{{IncurSentence: "story", Reply: "x"}})
	o := New(DefaultConfig(), WithMemory(memory.NewStore(nil)), WithHooks(hk))
	res := o.RunTurn("a story please", o.Initialize(), nil)
	if res.Trigger != logging.TriggerDecoded {
		t.Fatalf("expected decoded output, got %s", res.Trigger)
	}
}

func TestRunTurn_ExactBeatsIncur(t *testing.T) {
	mem := memory.NewStore([]memory.Entry{{Input: "ping", Output: "old reply", U: vector.Vector{1}, Timestamp: 1}})
	hk := hooks.NewStore([]hooks.Hook{
		{IncurSentence: "ping", Reply: "incur"},
		{Message: "ping", Reply: "exact"},
	})
	o := New(DefaultConfig(), WithMemory(mem), WithHooks(hk))
	if res := o.RunTurn("ping", o.Initialize(), nil); res.Output != "exact" {
		t.Fatalf("exact match must win, got %q", res.Output)
	}
}

// #endregion

// #region collaborators

func TestRunTurn_NoCollaborators(t *testing.T) {
	o := New(DefaultConfig())
	res := o.RunTurn("hello world", state.InteractionState{}, nil)
	if res.Decision != logging.DecisionNoMemory {
		t.Fatalf("expected no_memory, got %s", res.Decision)
	}
	if len(res.State.U) != state.DefaultDimension || res.State.Step != 1 {
		t.Fatalf("expected initialized state, got %+v", res.State)
	}
}

func TestRunTurn_StorageFailureDoesNotAffectResult(t *testing.T) {
	medium := storage.NewMemMedium()
	mem := memory.Open(storage.NewAdapter(medium, storage.MemoryKey))
	o := New(DefaultConfig(), WithMemory(mem))
	st := o.Initialize()

	baseline := New(DefaultConfig(), WithMemory(memory.NewStore(nil))).RunTurn("alpha beta gamma", st, nil)

	medium.FailSet = errors.New("disk full")
	res := o.RunTurn("alpha beta gamma", st, nil)
	if res.Output != baseline.Output || res.Decision != logging.DecisionCommit {
		t.Fatalf("storage failure changed the turn: %+v", res)
	}
	if mem.Status().Active() {
		t.Fatal("expected persistence to be disabled")
	}
}

func TestRunTurn_MinimalMemoryCollaborator(t *testing.T) {
	mem := &listOnlyMemory{}
	o := New(DefaultConfig(), WithMemory(mem))
	st := o.Initialize()
	o.RunTurn("alpha beta gamma", st, nil)
	res := o.RunTurn("alpha beta gamma", st, nil)
	if len(mem.working) != 2 || len(mem.committed) != 2 {
		t.Fatalf("unexpected tiers %d/%d", len(mem.working), len(mem.committed))
	}
	if res.Diagnostics.MemoryAlignment == 0 {
		t.Fatal("expected memory alignment from the list-only collaborator")
	}
}

func TestRunTurn_FeedbackAttached(t *testing.T) {
	mem := memory.NewStore(nil)
	o := New(DefaultConfig(), WithMemory(mem))
	fb := 0.8
	o.RunTurn("alpha beta gamma", o.Initialize(), &fb)
	got := mem.List()[0].Feedback
	if got == nil || *got != 0.8 {
		t.Fatalf("expected feedback 0.8, got %v", got)
	}
}

func TestRunTurn_ProvenanceAndObservers(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("db locked")}
	obs := &fakeObserver{}
	o := New(DefaultConfig(),
		WithRecorder(rec),
		WithObserver(obs),
		WithClock(fixedClock),
		WithIDGenerator(func() string { return "turn-1" }),
	)
	res := o.RunTurn("alpha beta gamma", o.Initialize(), nil)

	if len(rec.entries) != 1 {
		t.Fatalf("expected one provenance row, got %d", len(rec.entries))
	}
	e := rec.entries[0]
	if e.TurnID != "turn-1" || e.Trigger != logging.TriggerDecoded || e.InputHash != logging.HashInput("alpha beta gamma") {
		t.Fatalf("unexpected provenance %+v", e)
	}
	if e.DiagnosticsJSON == "" {
		t.Fatal("expected diagnostics json")
	}
	if len(obs.turns) != 1 || obs.turns[0].TurnID != res.TurnID {
		t.Fatalf("observer not notified: %+v", obs.turns)
	}
	if res.Timestamp != 1700000000000 || res.Latency != 0 {
		t.Fatalf("clock not applied: ts=%d latency=%v", res.Timestamp, res.Latency)
	}
}

func TestRunTurn_LogsLoopEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	o := New(DefaultConfig(), WithLogger(zap.New(core)))
	o.RunTurn("hello", o.Initialize(), nil)

	if logs.FilterMessage("attractor distance").Len() != 1 {
		t.Fatal("expected attractor distance log")
	}
	if logs.FilterMessage("entropy gate").Len() != 1 {
		t.Fatal("expected entropy gate log")
	}

	cfg := DefaultConfig()
	cfg.LogAttractorDistance = false
	cfg.LogEntropyActivation = false
	core2, logs2 := observer.New(zapcore.InfoLevel)
	New(cfg, WithLogger(zap.New(core2))).RunTurn("hello", state.Initialize(8, 0), nil)
	if logs2.Len() != 0 {
		t.Fatalf("expected silent loop, got %d logs", logs2.Len())
	}
}

func TestRunTurn_Deterministic(t *testing.T) {
	st := state.Initialize(8, 0.25)
	a := New(DefaultConfig()).RunTurn("same words here", st, nil)
	b := New(DefaultConfig()).RunTurn("same words here", st, nil)
	if a.Output != b.Output {
		t.Fatalf("outputs differ: %q vs %q", a.Output, b.Output)
	}
	for i := range a.State.U {
		if a.State.U[i] != b.State.U[i] {
			t.Fatalf("state differs at %d", i)
		}
	}
}

// #endregion

// #region initialize

func TestInitialize_ResumesFromMemory(t *testing.T) {
	latest := vector.Vector{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	mem := memory.NewStore([]memory.Entry{{Input: "a", Output: "b c", U: latest, Timestamp: 1}})
	st := New(DefaultConfig(), WithMemory(mem)).Initialize()
	for i := range latest {
		if st.U[i] != latest[i] {
			t.Fatalf("expected resumed vector, got %v", st.U)
		}
	}
}

func TestInitialize_SeedsOnDimensionMismatch(t *testing.T) {
	mem := memory.NewStore([]memory.Entry{{Input: "a", Output: "b c", U: vector.Vector{1, 2}, Timestamp: 1}})
	st := New(DefaultConfig(), WithMemory(mem)).Initialize()
	want := state.Initialize(state.DefaultDimension, 3)
	for i := range want.U {
		if st.U[i] != want.U[i] {
			t.Fatalf("expected seed 3 state, got %v", st.U)
		}
	}
}

// #endregion
