package metrics

import (
	"github.com/cohesivestack/valgo"
	"github.com/danielpatrickdp/uqrc-engine/internal/closure"
	"github.com/danielpatrickdp/uqrc-engine/internal/storage"
	"github.com/danielpatrickdp/uqrc-engine/internal/validate"
	"go.uber.org/zap"
)

// #region store
// Store is a bounded FIFO of validated entries.
type Store struct {
	entries  []Entry
	capacity int
	adapter  *storage.Adapter
	logger   *zap.Logger
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

// WithCapacity sets the ring size. Values < 1 are ignored.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// NewStore returns an in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{capacity: DefaultCapacity, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads persisted entries from adapter, dropping invalid records and
// keeping at most the newest capacity entries.
func Open(adapter *storage.Adapter, opts ...Option) *Store {
	s := NewStore(opts...)
	s.adapter = adapter
	if adapter == nil {
		return s
	}

	raw := adapter.Load()
	dropped := 0
	for _, r := range raw {
		var e Entry
		if err := storage.Decode(r, &e); err != nil || len(Validate(e)) > 0 {
			dropped++
			continue
		}
		s.entries = append(s.entries, e)
	}
	if over := len(s.entries) - s.capacity; over > 0 {
		s.entries = s.entries[over:]
		dropped += over
	}
	if dropped > 0 {
		s.logger.Warn("dropped persisted metrics entries", zap.Int("dropped", dropped), zap.Int("kept", len(s.entries)))
		s.persist()
	}
	return s
}

// #endregion store

// #region validate
// Validate returns the reasons e cannot be stored, or nil.
func Validate(e Entry) []string {
	finite := func(name string, x float64) valgo.Validator {
		return valgo.Float64(x, name).Passing(validate.Finite, "{{title}} must be finite")
	}
	v := valgo.Is(
		valgo.Int(e.Step, "step").GreaterOrEqualTo(0),
		valgo.Int64(e.Timestamp, "timestamp").GreaterThan(0),
		finite("semanticDivergence", e.SemanticDivergence),
		valgo.Float64(e.ClosureLatencyMs, "closureLatencyMs").GreaterOrEqualTo(0).Passing(validate.Finite, "{{title}} must be finite"),
		valgo.Int(e.ClosureHoldSteps, "closureHoldSteps").GreaterOrEqualTo(0),
		valgo.String(string(e.ClosureStatus), "closureStatus").InSlice([]string{string(closure.StatusAllow), string(closure.StatusHold)}),
		valgo.Float64(e.ClosureScore, "closureScore").Between(0, 1),
		finite("attractorDistance", e.AttractorDistance),
		finite("curvatureMagnitude", e.CurvatureMagnitude),
		valgo.Float64(e.EntropyGate, "entropyGate").Between(0, 1),
		finite("memoryAlignment", e.MemoryAlignment),
	)
	return validate.Reasons(v)
}

// #endregion validate

// #region mutators
// AddEntry validates e and appends it, evicting the oldest entry past
// capacity. A rejected entry is logged and dropped.
func (s *Store) AddEntry(e Entry) bool {
	if reasons := Validate(e); len(reasons) > 0 {
		s.logger.Warn("rejected metrics entry", zap.Strings("reasons", reasons), zap.Int("step", e.Step))
		return false
	}
	s.entries = append(s.entries, e)
	if over := len(s.entries) - s.capacity; over > 0 {
		s.entries = append([]Entry(nil), s.entries[over:]...)
	}
	s.persist()
	return true
}

func (s *Store) persist() {
	if s.adapter == nil {
		return
	}
	s.adapter.Save(s.entries)
}

// #endregion mutators

// #region readers
// List returns a copy of the entries, oldest first.
func (s *Store) List() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Latest returns the newest entry.
func (s *Store) Latest() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Capacity is the ring size.
func (s *Store) Capacity() int { return s.capacity }

// Status reports the persistence status; Disabled when no adapter is attached.
func (s *Store) Status() storage.Status {
	if s.adapter == nil {
		return storage.Status{State: storage.StateDisabled, Reason: "not persisted"}
	}
	return s.adapter.Status()
}

// #endregion readers
