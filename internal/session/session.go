// Package session wires a configured engine: storage medium, persisted
// stores, provenance ledger and orchestrator.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/danielpatrickdp/uqrc-engine/internal/config"
	"github.com/danielpatrickdp/uqrc-engine/internal/eval"
	"github.com/danielpatrickdp/uqrc-engine/internal/hooks"
	"github.com/danielpatrickdp/uqrc-engine/internal/logging"
	"github.com/danielpatrickdp/uqrc-engine/internal/memory"
	"github.com/danielpatrickdp/uqrc-engine/internal/metrics"
	"github.com/danielpatrickdp/uqrc-engine/internal/orchestrator"
	"github.com/danielpatrickdp/uqrc-engine/internal/state"
	"github.com/danielpatrickdp/uqrc-engine/internal/storage"
	"go.uber.org/zap"
)

// #region types

// Session is one running engine over one interaction state. It holds no
// lock; concurrent callers must serialize.
type Session struct {
	Config       *config.Config
	Memory       *memory.Store
	Metrics      *metrics.Store
	Hooks        *hooks.Store
	Ledger       *logging.Ledger // nil unless the sqlite driver is used
	Harness      *eval.Harness
	Orchestrator *orchestrator.Orchestrator
	State        state.InteractionState

	notice *storage.Notice
	logger *zap.Logger
	closer func() error
}

// #endregion types

// #region open

// Open builds a session from cfg. Extra options are passed to the
// orchestrator after the stores, so they can add observers or override
// collaborators.
func Open(cfg *config.Config, logger *zap.Logger, opts ...orchestrator.Option) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		Config:  cfg,
		Harness: eval.NewHarness(cfg.Readiness),
		logger:  logger,
	}
	s.notice = storage.NewNotice(func(reason string) {
		logger.Warn("persistence unavailable, continuing in memory", zap.String("reason", reason))
	})

	medium, err := s.openMedium()
	if err != nil {
		return nil, err
	}
	degraded := medium == nil && s.Config.Storage.Driver == config.DriverSQLite

	adapter := func(key string) *storage.Adapter {
		if medium == nil && !degraded {
			return nil
		}
		return storage.NewAdapter(medium, key,
			storage.WithLogger(logger.Named("storage")),
			storage.WithNotice(s.notice))
	}

	s.Memory = memory.Open(adapter(cfg.Storage.MemoryKey),
		memory.WithLogger(logger.Named("memory")),
		memory.WithWorkingCapacity(cfg.Memory.WorkingCapacity))
	s.Metrics = metrics.Open(adapter(cfg.Storage.MetricsKey),
		metrics.WithLogger(logger.Named("metrics")),
		metrics.WithCapacity(cfg.Metrics.Capacity))
	s.Hooks = hooks.Open(adapter(cfg.Storage.HooksKey),
		hooks.WithLogger(logger.Named("hooks")))

	base := []orchestrator.Option{
		orchestrator.WithMemory(s.Memory),
		orchestrator.WithMetrics(s.Metrics),
		orchestrator.WithHooks(s.Hooks),
		orchestrator.WithLogger(logger),
	}
	if s.Ledger != nil {
		base = append(base, orchestrator.WithRecorder(s.Ledger))
	}
	s.Orchestrator = orchestrator.New(cfg.Orchestrator(), append(base, opts...)...)
	s.State = s.Orchestrator.Initialize()
	return s, nil
}

// openMedium returns nil for the "none" driver. A sqlite database that cannot
// be opened also yields nil: the session runs memory-only and the notice fires.
func (s *Session) openMedium() (storage.Medium, error) {
	switch s.Config.Storage.Driver {
	case config.DriverNone:
		return nil, nil
	case config.DriverMemory:
		return storage.NewMemMedium(), nil
	case config.DriverSQLite:
		m, err := storage.OpenSQLite(s.Config.Storage.Path)
		if err != nil {
			s.logger.Error("open storage", zap.String("path", s.Config.Storage.Path), zap.Error(err))
			s.notice.Notify(fmt.Sprintf("open storage: %v", err))
			return nil, nil
		}
		ledger, err := logging.NewLedger(m.DB())
		if err != nil {
			m.Close()
			s.logger.Error("open provenance ledger", zap.String("path", s.Config.Storage.Path), zap.Error(err))
			s.notice.Notify(fmt.Sprintf("open provenance ledger: %v", err))
			return nil, nil
		}
		s.Ledger = ledger
		s.closer = m.Close
		return m, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", s.Config.Storage.Driver)
	}
}

// Close releases the storage medium.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer()
	s.closer = nil
	return err
}

// #endregion open

// #region operations

// Turn runs one turn on the session state and advances it.
func (s *Session) Turn(input string, feedback *float64) orchestrator.TurnResult {
	res := s.Orchestrator.RunTurn(input, s.State, feedback)
	s.State = res.State
	return res
}

// Train runs one training step against the session state.
func (s *Session) Train(req orchestrator.TrainRequest) orchestrator.TrainResult {
	return s.Orchestrator.Train(req, s.State)
}

// Feedback rates the newest committed entry.
func (s *Session) Feedback(value float64) error {
	entries := s.Memory.List()
	if len(entries) == 0 {
		return errors.New("no committed memory to rate")
	}
	if !s.Memory.RateLatest(value) {
		return fmt.Errorf("feedback %v rejected", value)
	}
	return nil
}

// AddHook registers a training hook.
func (s *Session) AddHook(h hooks.Hook) error {
	if h.CreatedAt == 0 {
		h.CreatedAt = time.Now().UnixMilli()
	}
	if !s.Hooks.AddHook(h) {
		return fmt.Errorf("invalid hook: %v", hooks.Validate(h))
	}
	return nil
}

// HookCount reports the number of registered hooks.
func (s *Session) HookCount() int {
	return len(s.Hooks.List())
}

// Readiness aggregates the metrics history.
func (s *Session) Readiness() eval.Report {
	return s.Harness.Run(s.Metrics.List())
}

// Snapshot pairs the readiness report with the component mapping.
func (s *Session) Snapshot() eval.Snapshot {
	return s.Harness.Snapshot(s.Metrics.List())
}

// PersistenceLost reports whether any store fell back to memory-only.
func (s *Session) PersistenceLost() bool {
	return s.notice.Notified()
}

// #endregion operations
