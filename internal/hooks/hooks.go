package hooks

import (
	"strings"
	"time"

	"github.com/cohesivestack/valgo"
	"github.com/danielpatrickdp/uqrc-engine/internal/storage"
	"github.com/danielpatrickdp/uqrc-engine/internal/validate"
	"go.uber.org/zap"
)

// #region hook
// Hook overrides the engine reply. Message triggers on an exact (trimmed)
// match; IncurSentence triggers on a case-insensitive substring match and
// replays the committed reply for the same input.
type Hook struct {
	Message       string `json:"message"`
	Reply         string `json:"reply"`
	IncurSentence string `json:"incurSentence"`
	CreatedAt     int64  `json:"createdAt"` // Unix milliseconds
}

// Validate returns the reasons h cannot be stored, or nil.
func Validate(h Hook) []string {
	v := valgo.Is(
		valgo.String(h.Reply, "reply").Not().Blank(),
		valgo.Int64(h.CreatedAt, "createdAt").GreaterThan(0),
		valgo.String(h.Message+h.IncurSentence, "trigger", "message or incurSentence").Not().Blank(),
	)
	return validate.Reasons(v)
}

// #endregion hook

// #region store
// Store is an ordered list of hooks; earlier hooks win.
type Store struct {
	hooks   []Hook
	adapter *storage.Adapter
	logger  *zap.Logger
	now     func() time.Time
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

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns an in-memory store seeded with hooks. Invalid seeds are dropped.
func NewStore(seed []Hook, opts ...Option) *Store {
	s := &Store{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	for _, h := range seed {
		if h.CreatedAt == 0 {
			h.CreatedAt = s.now().UnixMilli()
		}
		if len(Validate(h)) == 0 {
			s.hooks = append(s.hooks, h)
		}
	}
	return s
}

// Open loads persisted hooks from adapter, dropping invalid records.
func Open(adapter *storage.Adapter, opts ...Option) *Store {
	s := NewStore(nil, opts...)
	s.adapter = adapter
	if adapter == nil {
		return s
	}
	dropped := 0
	for _, r := range adapter.Load() {
		var h Hook
		if err := storage.Decode(r, &h); err != nil || len(Validate(h)) > 0 {
			dropped++
			continue
		}
		s.hooks = append(s.hooks, h)
	}
	if dropped > 0 {
		s.logger.Warn("dropped invalid persisted hooks", zap.Int("dropped", dropped), zap.Int("kept", len(s.hooks)))
		s.persist()
	}
	return s
}

// #endregion store

// #region mutators
// AddHook stamps CreatedAt when unset, validates and appends h.
func (s *Store) AddHook(h Hook) bool {
	if h.CreatedAt == 0 {
		h.CreatedAt = s.now().UnixMilli()
	}
	if reasons := Validate(h); len(reasons) > 0 {
		s.logger.Warn("rejected training hook", zap.Strings("reasons", reasons), zap.String("message", h.Message))
		return false
	}
	s.hooks = append(s.hooks, h)
	s.persist()
	return true
}

func (s *Store) persist() {
	if s.adapter == nil {
		return
	}
	s.adapter.Save(s.hooks)
}

// #endregion mutators

// #region readers
// List returns a copy of the hooks in insertion order.
func (s *Store) List() []Hook {
	out := make([]Hook, len(s.hooks))
	copy(out, s.hooks)
	return out
}

// Status reports the persistence status; Disabled when no adapter is attached.
func (s *Store) Status() storage.Status {
	if s.adapter == nil {
		return storage.Status{State: storage.StateDisabled, Reason: "not persisted"}
	}
	return s.adapter.Status()
}

// #endregion readers

// #region matching
// MatchExact returns the first hook whose trimmed message equals the trimmed input.
func MatchExact(hooks []Hook, input string) (Hook, bool) {
	in := strings.TrimSpace(input)
	if in == "" {
		return Hook{}, false
	}
	for _, h := range hooks {
		if strings.TrimSpace(h.Message) == in {
			return h, true
		}
	}
	return Hook{}, false
}

// MatchIncur returns the first hook whose incur sentence occurs in the input,
// ignoring case.
func MatchIncur(hooks []Hook, input string) (Hook, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	for _, h := range hooks {
		incur := strings.ToLower(strings.TrimSpace(h.IncurSentence))
		if incur != "" && strings.Contains(in, incur) {
			return h, true
		}
	}
	return Hook{}, false
}

// #endregion matching
