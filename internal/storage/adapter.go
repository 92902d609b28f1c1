package storage

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// #region adapter
// Adapter persists one store's records as a JSON array under a single key.
// The first failed write disables it for good; later saves are no-ops.
type Adapter struct {
	medium Medium
	key    string
	status Status
	notice *Notice
	logger *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithNotice shares a one-shot notice between adapters.
func WithNotice(n *Notice) Option {
	return func(a *Adapter) { a.notice = n }
}

// NewAdapter probes medium and returns an adapter bound to key. A nil medium
// or a failed probe yields a Disabled adapter.
func NewAdapter(medium Medium, key string, opts ...Option) *Adapter {
	a := &Adapter{
		medium: medium,
		key:    key,
		status: Status{State: StateActive},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(zap.String("key", key))

	if medium == nil {
		a.status = Status{State: StateDisabled, Reason: "no medium"}
		return a
	}
	if err := Probe(medium); err != nil {
		a.disable(fmt.Sprintf("probe failed: %v", err))
	}
	return a
}

// Probe checks that medium accepts a write and a remove.
func Probe(medium Medium) error {
	if err := medium.Set(ProbeKey, []byte(ProbeKey)); err != nil {
		return err
	}
	return medium.Remove(ProbeKey)
}

// Key returns the storage key.
func (a *Adapter) Key() string { return a.key }

// Status returns the current persistence status.
func (a *Adapter) Status() Status { return a.status }
// #endregion adapter

// #region load
// Load reads the stored records. A payload that is not a JSON array is
// removed and treated as empty; a read failure disables the adapter.
// Records are returned raw so each store can validate them one by one.
func (a *Adapter) Load() []jsoniter.RawMessage {
	if !a.status.Active() {
		return nil
	}
	raw, found, err := a.medium.Get(a.key)
	if err != nil {
		a.logger.Warn("failed to read persisted records", zap.Error(err))
		a.disable(fmt.Sprintf("read failed: %v", err))
		return nil
	}
	trimmed := bytes.TrimSpace(raw)
	if !found || len(trimmed) == 0 {
		return nil
	}

	var records []jsoniter.RawMessage
	if trimmed[0] != '[' || json.Unmarshal(trimmed, &records) != nil {
		a.logger.Warn("persisted records were invalid, clearing", zap.Int("bytes", len(raw)))
		if err := a.medium.Remove(a.key); err != nil {
			a.logger.Warn("failed to clear invalid records", zap.Error(err))
		}
		return nil
	}
	return records
}

// Decode unmarshals one raw record with the adapter's codec.
func Decode(raw []byte, v any) error {
	return json.Unmarshal(raw, v)
}

// #endregion load

// #region save
// Save writes records as a JSON array. Returns false when nothing was
// written, either because the adapter is disabled or because this write
// failed and disabled it.
func (a *Adapter) Save(records any) bool {
	if !a.status.Active() {
		return false
	}
	payload, err := json.Marshal(records)
	if err != nil {
		a.logger.Warn("failed to encode records", zap.Error(err))
		return false
	}
	if err := a.medium.Set(a.key, payload); err != nil {
		a.logger.Warn("failed to persist records", zap.Error(err))
		a.disable(fmt.Sprintf("write failed: %v", err))
		return false
	}
	return true
}

func (a *Adapter) disable(reason string) {
	a.status = Status{State: StateDisabled, Reason: reason}
	a.logger.Warn("persistence disabled", zap.String("reason", reason))
	a.notice.Notify(reason)
}

// #endregion save
