package echo

import (
	"errors"
	"math"
)

// ErrMalformedRegion reports a region whose times cannot form a valid window.
// Playback treats a malformed region as "echo inactive"; analysis calls
// surface it to the caller instead.
var ErrMalformedRegion = errors.New("echo: malformed region")

// Window is a validated echo playback window over one piece of media.
//
// A non-nil Window always satisfies 0 <= Start < End <= duration for the
// media duration it was normalized against. A nil *Window means echo practice
// is inactive and playback is unconstrained; it must not be consulted for
// clamping.
type Window struct {
	Start float64
	End   float64
}

// Duration returns the window length in seconds.
func (w *Window) Duration() float64 {
	return w.End - w.Start
}

// Contains reports whether t falls inside the window's [Start, End) range.
func (w *Window) Contains(t float64) bool {
	return t >= w.Start && t < w.End
}

// NormalizeWindow is the sole constructor for Window values.
//
// It returns nil when active is false, when either time is negative or NaN,
// when the media duration is unknown (non-finite or not positive), or when
// the range collapses to start >= end after clamping to [0, duration].
// Consumers treat the result as opaque and never assemble a Window by hand.
func NormalizeWindow(active bool, start, end, duration float64) *Window {
	if !active {
		return nil
	}
	if math.IsNaN(start) || math.IsNaN(end) || start < 0 || end < 0 {
		return nil
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return nil
	}
	if start > duration {
		start = duration
	}
	if end > duration {
		end = duration
	}
	if start >= end {
		return nil
	}
	return &Window{Start: start, End: end}
}
