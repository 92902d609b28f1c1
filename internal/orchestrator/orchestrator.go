package orchestrator

// #region imports
import (
	"strings"
	"time"

	"github.com/danielpatrickdp/uqrc-engine/internal/attractor"
	"github.com/danielpatrickdp/uqrc-engine/internal/closure"
	"github.com/danielpatrickdp/uqrc-engine/internal/codec"
	"github.com/danielpatrickdp/uqrc-engine/internal/hooks"
	"github.com/danielpatrickdp/uqrc-engine/internal/logging"
	"github.com/danielpatrickdp/uqrc-engine/internal/memory"
	"github.com/danielpatrickdp/uqrc-engine/internal/metrics"
	"github.com/danielpatrickdp/uqrc-engine/internal/state"
	"github.com/danielpatrickdp/uqrc-engine/internal/update"
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// #endregion

// #region orchestrator-struct

// Orchestrator drives full turns: encode, step, closure-gated retry,
// override resolution, commit and telemetry. It holds no lock; callers that
// run turns concurrently must serialize them.
type Orchestrator struct {
	cfg       Config
	retry     *RetryEngine
	attractor *attractor.Attractor // default attractor, rebuilt per dimension

	memory    MemoryCollaborator
	metrics   MetricsCollaborator
	hooks     HookCollaborator
	recorder  Recorder
	observers []Observer

	logger *zap.Logger
	loop   *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option wires a collaborator or override into the orchestrator.
type Option func(*Orchestrator)

func WithMemory(m MemoryCollaborator) Option   { return func(o *Orchestrator) { o.memory = m } }
func WithMetrics(m MetricsCollaborator) Option { return func(o *Orchestrator) { o.metrics = m } }
func WithHooks(h HookCollaborator) Option      { return func(o *Orchestrator) { o.hooks = h } }
func WithRecorder(r Recorder) Option           { return func(o *Orchestrator) { o.recorder = r } }

// WithObserver adds a turn observer; may be repeated.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observers = append(o.observers, obs) }
}

// WithLogger sets the base logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(o *Orchestrator) { o.now = now } }

// WithIDGenerator overrides the turn id source.
func WithIDGenerator(fn func() string) Option { return func(o *Orchestrator) { o.newID = fn } }

// #endregion

// #region constructor

// New creates an orchestrator. A zero Closure.MaxHoldSteps selects the
// default; use a negative value to disable retries.
func New(cfg Config, opts ...Option) *Orchestrator {
	if cfg.Dimension <= 0 {
		cfg.Dimension = state.DefaultDimension
	}
	maxHold := cfg.Closure.MaxHoldSteps
	if maxHold == 0 {
		maxHold = closure.DefaultMaxHoldSteps
	}

	o := &Orchestrator{
		cfg:    cfg,
		retry:  NewRetryEngine(maxHold),
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(o)
	}
	o.loop = o.logger.Named("loop")
	o.logger = o.logger.Named("orch")
	return o
}

// Params returns the current operator parameters.
func (o *Orchestrator) Params() update.Params { return o.cfg.Params }

// SetParams replaces the operator parameters.
func (o *Orchestrator) SetParams(p update.Params) { o.cfg.Params = p }

// Config returns a copy of the session settings.
func (o *Orchestrator) Config() Config { return o.cfg }

// #endregion

// #region initialize

// Initialize creates the session state: resumed from the last committed
// vector when the memory can supply one of the right dimension, otherwise
// seeded from the memory's latest seed (0 without memory).
func (o *Orchestrator) Initialize() state.InteractionState {
	src, ok := o.memory.(SeedSource)
	if !ok {
		return state.Initialize(o.cfg.Dimension, 0)
	}
	latest, _ := src.LatestState()
	return state.Resume(latest, src.LatestSeed(), o.cfg.Dimension)
}

// #endregion

// #region run-turn

// RunTurn runs one full turn on st and returns the outcome. It never fails
// for finite input: storage rejections are logged by the collaborators and
// do not change the result. feedback, when non-nil, is attached to the
// memory entry.
func (o *Orchestrator) RunTurn(input string, st state.InteractionState, feedback *float64) TurnResult {
	started := o.now()
	if st.Dimension() == 0 {
		st = o.Initialize()
	}
	dim := st.Dimension()
	att := o.resolveAttractor(dim)

	encoded := codec.Encode(input, dim)
	dictionary := codec.Dictionary(input)
	stepIn := update.Input{
		Context:        encoded,
		Attractor:      att,
		TurnCompletion: codec.TurnCompletion(input, dictionary),
	}
	stepIn.Memory, stepIn.MemoryCurvature = o.memorySignals()

	closureOpts := o.cfg.Closure
	minTokens := closureOpts.MinTokens
	if minTokens == 0 {
		minTokens = closure.DefaultMinTokens
	}
	closureOpts.MinTokens = min(minTokens, max(1, len(dictionary)))

	step := o.step(st, stepIn)
	output := codec.Decode(step.NewState.U, input, dictionary)
	trigger := logging.TriggerDecoded

	if out, t, ok := o.resolveOverride(input); ok {
		output, trigger = out, t
	}

	holds := 0
	var result closure.Result
	if trigger != logging.TriggerDecoded {
		result = closure.Locked()
	} else {
		result = closure.Evaluate(output, closureOpts)
		for o.retry.ShouldRetry(result, holds) {
			step = o.step(step.NewState, stepIn)
			output = codec.Decode(step.NewState.U, input, dictionary)
			result = closure.Evaluate(output, closureOpts)
			holds++
		}
		result = o.retry.Finalize(result)
	}

	final := step.NewState
	distance := attractor.Distance(final.U, att)
	if o.cfg.LogAttractorDistance {
		o.loop.Info("attractor distance",
			zap.String("id", att.ID),
			zap.Float64("distance", distance),
			zap.Int("step", final.Step))
	}
	if o.cfg.LogEntropyActivation {
		o.loop.Info("entropy gate",
			zap.Float64("gate", step.Diagnostics.EntropyGate),
			zap.Bool("active", step.Diagnostics.EntropyActive),
			zap.Float64("curvatureMagnitude", step.Diagnostics.CurvatureMagnitude),
			zap.Float64("memoryAlignment", step.Diagnostics.MemoryAlignment),
			zap.Float64("attractorDistance", distance),
			zap.Int("step", final.Step))
	}

	res := TurnResult{
		TurnID:             o.newID(),
		Input:              input,
		Output:             output,
		State:              final,
		Closure:            result,
		Diagnostics:        step.Diagnostics,
		AttractorID:        att.ID,
		AttractorDistance:  distance,
		HoldSteps:          holds,
		Trigger:            trigger,
		SemanticDivergence: vector.Magnitude(vector.Delta(final.U, st.U)),
		Timestamp:          o.now().UnixMilli(),
	}
	res.Decision = o.remember(res, feedback)
	res.Latency = o.now().Sub(started)
	o.record(res)
	return res
}

func (o *Orchestrator) step(st state.InteractionState, in update.Input) update.Result {
	in.NarrativeTime = float64(st.Step)
	return update.Step(st, o.cfg.Params, in)
}

func (o *Orchestrator) resolveAttractor(dim int) *attractor.Attractor {
	if o.cfg.Attractor != nil {
		return o.cfg.Attractor
	}
	if o.attractor == nil || len(o.attractor.Vector) != dim {
		o.attractor = attractor.Default(dim)
	}
	return o.attractor
}

// memorySignals returns the latest committed vector and the memory curvature.
func (o *Orchestrator) memorySignals() (vector.Vector, vector.Vector) {
	if o.memory == nil {
		return nil, nil
	}
	var latest, curvature vector.Vector
	if src, ok := o.memory.(SeedSource); ok {
		latest, _ = src.LatestState()
	} else if list := o.memory.List(); len(list) > 0 {
		latest = list[len(list)-1].U
	}
	if src, ok := o.memory.(CurvatureSource); ok {
		curvature = src.Curvature(o.cfg.CurvatureWindow, o.cfg.CurvatureDecay)
	}
	return latest, curvature
}

// #endregion

// #region overrides

// resolveOverride applies training hooks: an exact message match first, then
// an incur-sentence match that replays the newest committed reply to the
// same input.
func (o *Orchestrator) resolveOverride(input string) (string, logging.Trigger, bool) {
	if o.hooks == nil {
		return "", "", false
	}
	list := o.hooks.List()
	if h, ok := hooks.MatchExact(list, input); ok {
		return h.Reply, logging.TriggerHookExact, true
	}
	if _, ok := hooks.MatchIncur(list, input); !ok || o.memory == nil {
		return "", "", false
	}

	trimmed := strings.TrimSpace(input)
	entries := o.memory.List()
	for i := len(entries) - 1; i >= 0; i-- {
		if strings.TrimSpace(entries[i].Input) == trimmed {
			return entries[i].Output, logging.TriggerHookIncur, true
		}
	}
	return "", "", false
}

// #endregion

// #region commit

// remember records the attempt in the working tier and commits it when the
// closure allowed it.
func (o *Orchestrator) remember(res TurnResult, feedback *float64) logging.Decision {
	if o.memory == nil {
		return logging.DecisionNoMemory
	}
	entry := memory.Entry{
		Input:             res.Input,
		Output:            res.Output,
		U:                 res.State.U.Clone(),
		Feedback:          feedback,
		Timestamp:         res.Timestamp,
		AttractorDistance: res.AttractorDistance,
	}
	o.memory.AddWorking(entry)
	if res.Closure.Status != closure.StatusAllow {
		return logging.DecisionWorkingOnly
	}
	if !o.memory.Commit(entry) {
		o.logger.Warn("memory commit rejected", zap.String("turn", res.TurnID))
		return logging.DecisionRejected
	}
	return logging.DecisionCommit
}

// #endregion

// #region telemetry

// record emits the metrics entry, the provenance row and observer callbacks.
func (o *Orchestrator) record(res TurnResult) {
	if o.metrics != nil {
		o.metrics.AddEntry(metrics.Entry{
			Step:               res.State.Step,
			Timestamp:          res.Timestamp,
			SemanticDivergence: res.SemanticDivergence,
			ClosureLatencyMs:   float64(res.Latency) / float64(time.Millisecond),
			ClosureHoldSteps:   res.HoldSteps,
			ClosureStatus:      res.Closure.Status,
			ClosureScore:       res.Closure.Score,
			ClosureForced:      res.Closure.Forced,
			AttractorDistance:  res.AttractorDistance,
			CurvatureMagnitude: res.Diagnostics.CurvatureMagnitude,
			EntropyGate:        res.Diagnostics.EntropyGate,
			EntropyActive:      res.Diagnostics.EntropyActive,
			MemoryAlignment:    res.Diagnostics.MemoryAlignment,
		})
	}

	if o.recorder != nil {
		o.recordProvenance(res)
	}

	for _, obs := range o.observers {
		obs.ObserveTurn(res)
	}
}

func (o *Orchestrator) recordProvenance(res TurnResult) {
	rec := logging.TurnRecord{
		TurnID:             res.TurnID,
		Input:              res.Input,
		Output:             res.Output,
		Step:               res.State.Step,
		ClosureStatus:      string(res.Closure.Status),
		ClosureScore:       res.Closure.Score,
		ClosureReasons:     res.Closure.Reasons,
		ClosureForced:      res.Closure.Forced,
		HoldSteps:          res.HoldSteps,
		AttractorID:        res.AttractorID,
		AttractorDistance:  res.AttractorDistance,
		CurvatureMagnitude: res.Diagnostics.CurvatureMagnitude,
		EntropyGate:        res.Diagnostics.EntropyGate,
		EntropyActive:      res.Diagnostics.EntropyActive,
		MemoryAlignment:    res.Diagnostics.MemoryAlignment,
		SemanticDivergence: res.SemanticDivergence,
		LatencyMs:          float64(res.Latency) / float64(time.Millisecond),
	}
	diag, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(rec)
	if err != nil {
		o.logger.Warn("failed to encode turn record", zap.Error(err))
	}

	err = o.recorder.LogDecision(logging.ProvenanceEntry{
		TurnID:          res.TurnID,
		InputHash:       logging.HashInput(res.Input),
		Trigger:         res.Trigger,
		Decision:        res.Decision,
		Reason:          strings.Join(res.Closure.Reasons, ","),
		DiagnosticsJSON: diag,
		CreatedAt:       time.UnixMilli(res.Timestamp).UTC(),
	})
	if err != nil {
		o.logger.Warn("failed to log provenance", zap.String("turn", res.TurnID), zap.Error(err))
	}
}

// #endregion
