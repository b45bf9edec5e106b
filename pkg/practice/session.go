package practice

import (
	"github.com/parlo-app/parlo/go/pkg/analysis"
	"github.com/parlo-app/parlo/go/pkg/mediastore"
)

// Region is the slice of the reference clip the learner is practicing.
// Inactive means "analyze the whole clip". Malformed bounds never fail an
// analysis; they degrade to inactive.
type Region struct {
	Active bool    `json:"active"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
}

// Session is one analysis request: which media, which slice of it, how to
// reduce it, and optionally the learner's own recording to lay alongside.
type Session struct {
	SessionID string                   `json:"sessionId,omitempty"`
	ProfileID string                   `json:"profileId,omitempty"`
	Media     mediastore.Source        `json:"media"`
	Region    Region                   `json:"region"`
	Envelope  analysis.EnvelopeOptions `json:"envelope"`
	Pitch     bool                     `json:"pitch,omitempty"`
	PitchOpts analysis.PitchOptions    `json:"pitchOptions"`
	Recording *mediastore.Source       `json:"recording,omitempty"`
}

// EchoAnalysis is the result: the reference series, plus the learner's when
// the session carried a recording.
type EchoAnalysis struct {
	Reference analysis.Series  `json:"reference"`
	User      *analysis.Series `json:"user,omitempty"`
}
