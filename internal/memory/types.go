package memory

import (
	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

// #region entry
// Entry is one turn record. Timestamp is Unix milliseconds.
type Entry struct {
	Input             string        `json:"input"`
	Output            string        `json:"output"`
	U                 vector.Vector `json:"u"`
	Feedback          *float64      `json:"feedback,omitempty"`
	Timestamp         int64         `json:"timestamp"`
	AttractorDistance float64       `json:"attractorDistance"`
}

// Clone deep-copies the entry.
func (e Entry) Clone() Entry {
	out := e
	out.U = e.U.Clone()
	if e.Feedback != nil {
		fb := *e.Feedback
		out.Feedback = &fb
	}
	return out
}

// #endregion entry

// #region defaults
const (
	DefaultCurvatureWindow = 5
	DefaultCurvatureDecay  = 0.7
	DefaultWorkingCapacity = 200
)

// #endregion defaults
