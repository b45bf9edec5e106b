// Package transcript defines the transcript line model consumed by the echo
// practice engine.
//
// A transcript is an ordered slice of [Line] values sorted by start time with
// non-overlapping [Start, End) ranges. The engine only ever reads line
// slices; producing them (subtitle parsing, ASR output, manual alignment) is
// the caller's concern.
package transcript

import (
	"fmt"
	"sort"
)

// Line is a single transcript line with its time span in seconds.
type Line struct {
	Start float64 `json:"start" msgpack:"start"`
	End   float64 `json:"end" msgpack:"end"`
	Text  string  `json:"text,omitempty" msgpack:"text,omitempty"`
}

// Duration returns the line's span in seconds.
func (l Line) Duration() float64 {
	return l.End - l.Start
}

// Contains reports whether t falls inside the line's [Start, End) range.
func (l Line) Contains(t float64) bool {
	return t >= l.Start && t < l.End
}

// Sort orders lines by start time, in place. Lines from well-formed subtitle
// sources are already ordered; call this at load boundaries when the source
// is not trusted to be.
func Sort(lines []Line) {
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Start < lines[j].Start
	})
}

// Validate checks the ordering invariants the engine relies on: every line
// has Start < End, lines are sorted by start time, and ranges do not overlap.
func Validate(lines []Line) error {
	for i, l := range lines {
		if l.Start >= l.End {
			return fmt.Errorf("transcript: line %d: start %.3f >= end %.3f", i, l.Start, l.End)
		}
		if i > 0 && l.Start < lines[i-1].End {
			return fmt.Errorf("transcript: line %d overlaps line %d", i, i-1)
		}
	}
	return nil
}

// Span returns the time covered from the first line's start to the last
// line's end, or 0 for an empty transcript.
func Span(lines []Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	return lines[len(lines)-1].End - lines[0].Start
}
