package storage

import (
	"errors"
	"sync"
)

// #region medium
// Medium is a key/value persistence backend. Get reports found=false for a
// missing key without an error.
type Medium interface {
	Get(key string) (value []byte, found bool, err error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// ErrUnavailable is returned by media that cannot serve requests.
var ErrUnavailable = errors.New("storage unavailable")

// ProbeKey is written and removed to check a medium before use.
const ProbeKey = "__uqrc_storage_probe__"

// Default keys for the persisted stores.
const (
	MemoryKey  = "uqrc-memory"
	MetricsKey = "uqrc-metrics"
	HooksKey   = "uqrc-training-hooks"
)

// #endregion medium

// #region status
// State is the persistence state of one adapter.
type State string

const (
	StateActive   State = "active"
	StateDisabled State = "disabled"
)

// Status is Active, or Disabled with the reason it was disabled.
type Status struct {
	State  State  `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// Active reports whether writes still reach the medium.
func (s Status) Active() bool { return s.State == StateActive }
// #endregion status

// #region notice
// Notice delivers a single user-facing notice the first time any adapter
// sharing it loses persistence. Reset re-arms it.
type Notice struct {
	mu       sync.Mutex
	notified bool
	notify   func(reason string)
}

// NewNotice returns a notice calling fn once. fn may be nil.
func NewNotice(fn func(reason string)) *Notice {
	return &Notice{notify: fn}
}

// Notify calls the callback unless it already fired. Reports whether it fired.
func (n *Notice) Notify(reason string) bool {
	if n == nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.notified {
		return false
	}
	n.notified = true
	if n.notify != nil {
		n.notify(reason)
	}
	return true
}

// Notified reports whether the notice has fired since the last Reset.
func (n *Notice) Notified() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.notified
}

// Reset re-arms the notice.
func (n *Notice) Reset() {
	n.mu.Lock()
	n.notified = false
	n.mu.Unlock()
}

// #endregion notice
