package replay

import (
	"fmt"
	"os"

	"github.com/danielpatrickdp/uqrc-engine/internal/hooks"
	"github.com/danielpatrickdp/uqrc-engine/internal/orchestrator"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Dimension       int                     `json:"dimension"`
	Seed            float64                 `json:"seed"`
	Params          jsoniter.RawMessage     `json:"params,omitempty"`  // partial update.Params over the defaults
	Closure         jsoniter.RawMessage     `json:"closure,omitempty"` // partial closure.Options over the defaults
	Hooks           []hooks.Hook            `json:"hooks"`
	Interactions    []FixtureInteraction    `json:"interactions"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureInteraction mirrors Interaction with JSON tags.
type FixtureInteraction struct {
	TurnID   string                     `json:"turn_id"`
	Input    string                     `json:"input"`
	Feedback *float64                   `json:"feedback,omitempty"`
	Train    *orchestrator.TrainRequest `json:"train,omitempty"`
}

// FixtureExpectedResult captures the expected outcome per turn. Empty
// fields are not checked.
type FixtureExpectedResult struct {
	TurnID   string `json:"turn_id"`
	Output   string `json:"output,omitempty"`
	Status   string `json:"status,omitempty"`
	Trigger  string `json:"trigger,omitempty"`
	Decision string `json:"decision,omitempty"`
	Forced   *bool  `json:"forced,omitempty"`
}

// Mismatch is one expected field that differed from the replayed value.
type Mismatch struct {
	TurnID   string
	Field    string
	Expected string
	Actual   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s expected %q, got %q", m.TurnID, m.Field, m.Expected, m.Actual)
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToConfig overlays the fixture's settings on the defaults.
func (f *Fixture) ToConfig() (Config, error) {
	cfg := DefaultConfig()
	if f.Dimension > 0 {
		cfg.Engine.Dimension = f.Dimension
	}
	cfg.Seed = f.Seed
	if len(f.Params) > 0 {
		if err := json.Unmarshal(f.Params, &cfg.Engine.Params); err != nil {
			return cfg, fmt.Errorf("parse fixture params: %w", err)
		}
	}
	if len(f.Closure) > 0 {
		if err := json.Unmarshal(f.Closure, &cfg.Engine.Closure); err != nil {
			return cfg, fmt.Errorf("parse fixture closure: %w", err)
		}
	}
	cfg.Hooks = f.Hooks
	return cfg, nil
}

// ToInteractions converts the recorded turns to domain interactions.
func (f *Fixture) ToInteractions() []Interaction {
	out := make([]Interaction, len(f.Interactions))
	for i, fi := range f.Interactions {
		out[i] = Interaction{
			TurnID:   fi.TurnID,
			Input:    fi.Input,
			Feedback: fi.Feedback,
			Train:    fi.Train,
		}
	}
	return out
}

// #endregion fixture-loader

// #region compare

// Compare checks results against the expected outcomes, matched by turn id.
// A missing turn is reported as a mismatch on "turn_id".
func Compare(results []Result, expected []FixtureExpectedResult) []Mismatch {
	byID := make(map[string]Result, len(results))
	for _, r := range results {
		byID[r.TurnID] = r
	}

	var out []Mismatch
	check := func(id, field, want, got string) {
		if want != "" && want != got {
			out = append(out, Mismatch{TurnID: id, Field: field, Expected: want, Actual: got})
		}
	}
	for _, e := range expected {
		r, ok := byID[e.TurnID]
		if !ok {
			out = append(out, Mismatch{TurnID: e.TurnID, Field: "turn_id", Expected: e.TurnID})
			continue
		}
		check(e.TurnID, "output", e.Output, r.Output)
		check(e.TurnID, "status", e.Status, string(r.Status))
		check(e.TurnID, "trigger", e.Trigger, string(r.Trigger))
		check(e.TurnID, "decision", e.Decision, string(r.Decision))
		if e.Forced != nil {
			check(e.TurnID, "forced", fmt.Sprint(*e.Forced), fmt.Sprint(r.Forced))
		}
	}
	return out
}

// RunFixture replays f and compares it against its expectations.
func RunFixture(f *Fixture, opts ...orchestrator.Option) (Run, []Mismatch, error) {
	cfg, err := f.ToConfig()
	if err != nil {
		return Run{}, nil, err
	}
	run := Replay(cfg, f.ToInteractions(), opts...)
	return run, Compare(run.Results, f.ExpectedResults), nil
}

// #endregion compare
