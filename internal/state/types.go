package state

import "github.com/danielpatrickdp/uqrc-engine/internal/vector"

// #region interaction-state
// InteractionState is the session's latent state. U keeps its length for the
// whole session; Step increases by exactly one per state transition.
type InteractionState struct {
	U    vector.Vector `json:"u"`
	Step int           `json:"step"`
}

// Clone returns a copy that shares no memory with s.
func (s InteractionState) Clone() InteractionState {
	return InteractionState{U: s.U.Clone(), Step: s.Step}
}

// Dimension is the length of the state vector.
func (s InteractionState) Dimension() int {
	return len(s.U)
}

// #endregion interaction-state

// DefaultDimension is the session vector length when none is configured.
const DefaultDimension = 8
