package echo

import "math"

// Action is the playback correction decided for one position tick.
type Action int

const (
	// ActionOK means the position needs no correction.
	ActionOK Action = iota
	// ActionClamp means the position is before the window; seek to SeekTo
	// and keep playing.
	ActionClamp
	// ActionLoop means the position reached the window end; seek to SeekTo
	// and pause. Echo practice replays on user action, never automatically.
	ActionLoop
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionOK:
		return "ok"
	case ActionClamp:
		return "clamp"
	case ActionLoop:
		return "loop"
	}
	return "unknown"
}

// Decision is the outcome of [Decide] for one playback position.
type Decision struct {
	Action Action
	// SeekTo is the position to seek to for ActionClamp and ActionLoop.
	SeekTo float64
}

// Decide maps the current playback position onto the echo window.
//
// Pure and non-blocking; it runs on every position tick, which can fire
// several times per second. The window end is exclusive: a position at or
// past End loops back to Start. A nil window means no constraint.
func Decide(currentTime float64, w *Window) Decision {
	if w == nil {
		return Decision{Action: ActionOK}
	}
	if currentTime < w.Start {
		return Decision{Action: ActionClamp, SeekTo: w.Start}
	}
	if currentTime >= w.End {
		return Decision{Action: ActionLoop, SeekTo: w.Start}
	}
	return Decision{Action: ActionOK}
}

// seekEndBackoff keeps a clamped seek strictly before the exclusive window
// end, so a seek to the boundary cannot immediately trigger a loop.
const seekEndBackoff = 0.010 // seconds

// ClampSeekTime clamps a user-initiated seek or restore into [Start, End).
//
// Unlike [Decide] it never signals loop or pause. A seek at or past the
// window end lands seekEndBackoff before End, floored at Start, so the
// returned position always satisfies Decide(result, w).Action == ActionOK.
func ClampSeekTime(t float64, w *Window) float64 {
	if w == nil {
		return t
	}
	if t < w.Start {
		return w.Start
	}
	if t >= w.End {
		return math.Max(w.Start, w.End-seekEndBackoff)
	}
	return t
}
