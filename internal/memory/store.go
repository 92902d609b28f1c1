package memory

import (
	"math"

	"github.com/cohesivestack/valgo"
	"github.com/danielpatrickdp/uqrc-engine/internal/closure"
	"github.com/danielpatrickdp/uqrc-engine/internal/storage"
	"github.com/danielpatrickdp/uqrc-engine/internal/validate"
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
	"go.uber.org/zap"
)

// #region store
// Store keeps a working tier of every attempt and a committed tier of
// validated, closure-clean turns. Only the committed tier is persisted.
type Store struct {
	working         []Entry
	committed       []Entry
	workingCapacity int
	adapter         *storage.Adapter
	logger          *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkingCapacity bounds the working tier. Values < 1 are ignored.
func WithWorkingCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.workingCapacity = n
		}
	}
}

// NewStore returns an in-memory store seeded with entries. Invalid seeds are dropped.
func NewStore(entries []Entry, opts ...Option) *Store {
	s := &Store{workingCapacity: DefaultWorkingCapacity, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	for _, e := range entries {
		if reasons := Validate(e); len(reasons) == 0 {
			s.committed = append(s.committed, e.Clone())
		}
	}
	return s
}

// Open loads the committed tier from adapter, validating each record on its
// own. If any record was dropped the cleaned list is written back.
func Open(adapter *storage.Adapter, opts ...Option) *Store {
	s := NewStore(nil, opts...)
	s.adapter = adapter
	if adapter == nil {
		return s
	}

	raw := adapter.Load()
	dropped := 0
	for _, r := range raw {
		var e Entry
		if err := storage.Decode(r, &e); err != nil {
			dropped++
			continue
		}
		if reasons := Validate(e); len(reasons) > 0 {
			dropped++
			continue
		}
		s.committed = append(s.committed, e)
	}
	if dropped > 0 {
		s.logger.Warn("dropped invalid persisted memory entries", zap.Int("dropped", dropped), zap.Int("kept", len(s.committed)))
		s.persist()
	}
	return s
}

// #endregion store

// #region validate
// Validate returns the reasons e cannot be committed, or nil.
func Validate(e Entry) []string {
	v := valgo.Is(
		valgo.String(e.Input, "input").Not().Blank(),
		valgo.String(e.Output, "output").Not().Blank(),
		validate.FiniteVector(e.U, "u"),
		valgo.Int64(e.Timestamp, "timestamp").GreaterThan(0),
		valgo.Float64(e.AttractorDistance, "attractorDistance").Passing(validate.Finite, "{{title}} must be finite"),
	)
	if e.Feedback != nil {
		v.Is(valgo.Float64(*e.Feedback, "feedback").Between(0, 1))
	}
	reasons := validate.Reasons(v)
	if c := closure.Evaluate(e.Output, closure.Options{MinTokens: 1}); c.Status == closure.StatusHold {
		for _, r := range c.Reasons {
			reasons = append(reasons, "closure: "+r)
		}
	}
	return reasons
}

// #endregion validate

// #region mutators
// Commit validates e and appends it to the committed tier, then persists.
// A rejected entry is logged and leaves the store unchanged.
func (s *Store) Commit(e Entry) bool {
	if reasons := Validate(e); len(reasons) > 0 {
		s.logger.Warn("rejected memory entry", zap.Strings("reasons", reasons), zap.String("input", e.Input))
		return false
	}
	s.committed = append(s.committed, e.Clone())
	s.persist()
	return true
}

// AddWorking records an attempt without validation. The oldest attempts are
// evicted past the working capacity.
func (s *Store) AddWorking(e Entry) {
	s.working = append(s.working, e.Clone())
	if over := len(s.working) - s.workingCapacity; over > 0 {
		s.working = append([]Entry(nil), s.working[over:]...)
	}
}

// UpdateFeedback sets feedback on the committed entry with timestamp ts. When
// several entries share ts the newest one is rated.
func (s *Store) UpdateFeedback(ts int64, feedback float64) bool {
	if math.IsNaN(feedback) || feedback < 0 || feedback > 1 {
		s.logger.Warn("rejected feedback", zap.Float64("feedback", feedback), zap.Int64("timestamp", ts))
		return false
	}
	for i := len(s.committed) - 1; i >= 0; i-- {
		if s.committed[i].Timestamp == ts {
			s.rate(i, feedback)
			return true
		}
	}
	return false
}

// RateLatest sets feedback on the newest committed entry.
func (s *Store) RateLatest(feedback float64) bool {
	if math.IsNaN(feedback) || feedback < 0 || feedback > 1 {
		s.logger.Warn("rejected feedback", zap.Float64("feedback", feedback))
		return false
	}
	if len(s.committed) == 0 {
		return false
	}
	s.rate(len(s.committed)-1, feedback)
	return true
}

func (s *Store) rate(i int, feedback float64) {
	fb := feedback
	s.committed[i].Feedback = &fb
	s.persist()
}

func (s *Store) persist() {
	if s.adapter == nil {
		return
	}
	s.adapter.Save(s.committed)
}

// #endregion mutators

// #region readers
// List returns copies of the committed entries, oldest first.
func (s *Store) List() []Entry {
	return cloneAll(s.committed)
}

// Working returns copies of the working tier, oldest first.
func (s *Store) Working() []Entry {
	return cloneAll(s.working)
}

// LatestState returns the last committed vector.
func (s *Store) LatestState() (vector.Vector, bool) {
	if len(s.committed) == 0 {
		return nil, false
	}
	return s.committed[len(s.committed)-1].U.Clone(), true
}

// LatestSeed sums the last committed vector; 0 when empty.
func (s *Store) LatestSeed() float64 {
	if len(s.committed) == 0 {
		return 0
	}
	return s.committed[len(s.committed)-1].U.Sum()
}

// Curvature is the decay-weighted average of the last window committed
// vectors, newest weighted 1, the one before decay, and so on. Entries whose
// length differs from the newest are skipped. Nil when empty.
func (s *Store) Curvature(window int, decay float64) vector.Vector {
	if window <= 0 {
		window = DefaultCurvatureWindow
	}
	if decay <= 0 || decay > 1 {
		decay = DefaultCurvatureDecay
	}
	if len(s.committed) == 0 {
		return nil
	}

	dim := len(s.committed[len(s.committed)-1].U)
	sum := make(vector.Vector, dim)
	var total float64
	weight := 1.0
	for i := len(s.committed) - 1; i >= 0 && i >= len(s.committed)-window; i-- {
		u := s.committed[i].U
		if len(u) == dim {
			for j, x := range u {
				sum[j] += x * weight
			}
			total += weight
		}
		weight *= decay
	}
	for j := range sum {
		sum[j] /= total
	}
	return sum
}

// Status reports the persistence status; Disabled when no adapter is attached.
func (s *Store) Status() storage.Status {
	if s.adapter == nil {
		return storage.Status{State: storage.StateDisabled, Reason: "not persisted"}
	}
	return s.adapter.Status()
}

func cloneAll(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// #endregion readers
