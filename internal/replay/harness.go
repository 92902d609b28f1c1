package replay

import (
	"github.com/danielpatrickdp/uqrc-engine/internal/closure"
	"github.com/danielpatrickdp/uqrc-engine/internal/eval"
	"github.com/danielpatrickdp/uqrc-engine/internal/hooks"
	"github.com/danielpatrickdp/uqrc-engine/internal/logging"
	"github.com/danielpatrickdp/uqrc-engine/internal/memory"
	"github.com/danielpatrickdp/uqrc-engine/internal/metrics"
	"github.com/danielpatrickdp/uqrc-engine/internal/orchestrator"
	"github.com/danielpatrickdp/uqrc-engine/internal/state"
	"github.com/danielpatrickdp/uqrc-engine/internal/update"
)

// #region types
// Interaction is one recorded user turn. A non-nil Train runs a training
// step after the turn.
type Interaction struct {
	TurnID   string
	Input    string
	Feedback *float64
	Train    *orchestrator.TrainRequest
}

// Config describes a fresh in-memory session.
type Config struct {
	Engine     orchestrator.Config
	Seed       float64
	Hooks      []hooks.Hook
	Thresholds eval.Thresholds
}

// DefaultConfig returns the default engine settings with no hooks.
func DefaultConfig() Config {
	return Config{
		Engine:     orchestrator.DefaultConfig(),
		Thresholds: eval.DefaultThresholds(),
	}
}

// Result captures the outcome of replaying one interaction.
type Result struct {
	TurnID    string
	Input     string
	Output    string
	Status    closure.Status
	Forced    bool
	Reasons   []string
	HoldSteps int
	Trigger   logging.Trigger
	Decision  logging.Decision
	Step      int
}

// Run is a full replay: per-turn results plus the session it left behind.
type Run struct {
	Results     []Result
	FinalState  state.InteractionState
	FinalParams update.Params
	Memory      []memory.Entry
	Metrics     []metrics.Entry
	Readiness   eval.Report
}

// Summary provides aggregate counts from a replay run.
type Summary struct {
	TotalTurns  int
	Allows      int // allowed without forcing
	Forced      int
	Locked      int
	Commits     int
	WorkingOnly int
	Rejected    int
	HoldSteps   int
}

// #endregion types

// #region replay
// Replay runs interactions in order through a fresh orchestrator with
// in-memory stores. The same config and interactions always yield the same
// results.
func Replay(cfg Config, interactions []Interaction, opts ...orchestrator.Option) Run {
	mem := memory.NewStore(nil)
	met := metrics.NewStore()
	hk := hooks.NewStore(cfg.Hooks)

	opts = append([]orchestrator.Option{
		orchestrator.WithMemory(mem),
		orchestrator.WithMetrics(met),
		orchestrator.WithHooks(hk),
	}, opts...)
	orch := orchestrator.New(cfg.Engine, opts...)

	current := state.Initialize(orch.Config().Dimension, cfg.Seed)
	results := make([]Result, 0, len(interactions))
	for _, inter := range interactions {
		res := orch.RunTurn(inter.Input, current, inter.Feedback)
		current = res.State
		results = append(results, Result{
			TurnID:    inter.TurnID,
			Input:     inter.Input,
			Output:    res.Output,
			Status:    res.Closure.Status,
			Forced:    res.Closure.Forced,
			Reasons:   res.Closure.Reasons,
			HoldSteps: res.HoldSteps,
			Trigger:   res.Trigger,
			Decision:  res.Decision,
			Step:      res.State.Step,
		})
		if inter.Train != nil {
			orch.Train(*inter.Train, current)
		}
	}

	entries := met.List()
	return Run{
		Results:     results,
		FinalState:  current,
		FinalParams: orch.Params(),
		Memory:      mem.List(),
		Metrics:     entries,
		Readiness:   eval.NewHarness(cfg.Thresholds).Run(entries),
	}
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{TotalTurns: len(results)}
	for _, r := range results {
		switch {
		case r.Forced:
			s.Forced++
		case r.Status == closure.StatusAllow:
			s.Allows++
		}
		if r.Trigger != logging.TriggerDecoded {
			s.Locked++
		}
		switch r.Decision {
		case logging.DecisionCommit:
			s.Commits++
		case logging.DecisionWorkingOnly:
			s.WorkingOnly++
		case logging.DecisionRejected:
			s.Rejected++
		}
		s.HoldSteps += r.HoldSteps
	}
	return s
}

// #endregion replay
