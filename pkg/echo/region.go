package echo

import (
	"sort"

	"github.com/parlo-app/parlo/go/pkg/transcript"
)

// UnresolvedIndex marks a line index that has not been resolved from its
// persisted time yet. It is distinct from 0, which is a valid first line.
const UnresolvedIndex = -1

// FindLineIndexByTime maps a playback position to a transcript line index.
//
// Lines must be sorted by start time with non-overlapping [Start, End)
// ranges. A position inside a line returns that line's index. A position in a
// gap between lines returns whichever neighbor has the closer endpoint, the
// earlier line winning ties. A position before the first line returns 0, past
// the last line returns the last index, and an empty slice returns
// UnresolvedIndex. Total over all inputs: it never panics.
func FindLineIndexByTime(lines []transcript.Line, t float64) int {
	if len(lines) == 0 {
		return UnresolvedIndex
	}
	// First line whose range extends past t; everything before it ends at or
	// before t.
	i := sort.Search(len(lines), func(i int) bool { return lines[i].End > t })
	if i == len(lines) {
		return len(lines) - 1
	}
	if lines[i].Start <= t {
		return i
	}
	if i == 0 {
		return 0
	}
	// t sits in the gap between lines i-1 and i.
	if t-lines[i-1].End <= lines[i].Start-t {
		return i - 1
	}
	return i
}

// RegionState is the persisted echo region for one practice session: the
// selected transcript line span plus its time span in seconds.
//
// Times are written when the learner marks the region and stay valid across
// reloads. Indices may come back as UnresolvedIndex after a reload (only
// times survive some persistence paths) until [Restorer.Restore] re-derives
// them from the transcript. The four fields are always persisted together.
type RegionState struct {
	StartLineIndex int     `json:"startLineIndex" msgpack:"startLineIndex"`
	EndLineIndex   int     `json:"endLineIndex" msgpack:"endLineIndex"`
	StartTime      float64 `json:"startTime" msgpack:"startTime"`
	EndTime        float64 `json:"endTime" msgpack:"endTime"`
}

// Resolved reports whether both line indices are known.
func (s RegionState) Resolved() bool {
	return s.StartLineIndex != UnresolvedIndex && s.EndLineIndex != UnresolvedIndex
}

// MarkRegion builds the region state for a line span the learner selected.
// Indices are clamped to the transcript and never inverted; times are derived
// from the line spans. An empty transcript yields an unresolved state.
func MarkRegion(lines []transcript.Line, startIdx, endIdx int) RegionState {
	if len(lines) == 0 {
		return RegionState{StartLineIndex: UnresolvedIndex, EndLineIndex: UnresolvedIndex}
	}
	startIdx = clampIndex(startIdx, len(lines))
	endIdx = clampIndex(endIdx, len(lines))
	if endIdx < startIdx {
		endIdx = startIdx
	}
	return RegionState{
		StartLineIndex: startIdx,
		EndLineIndex:   endIdx,
		StartTime:      lines[startIdx].Start,
		EndTime:        lines[endIdx].End,
	}
}

// Edge selects which end of a region an adjustment moves.
type Edge int

const (
	// EdgeStart moves the region's first line.
	EdgeStart Edge = iota
	// EdgeEnd moves the region's last line.
	EdgeEnd
)

// AdjustRegion moves one edge of the region by delta whole lines (negative
// toward the transcript start) and re-derives the region times from the line
// spans. The moved edge is clamped to the transcript and the range never
// inverts. Unresolved indices are first resolved from the region times. Pure:
// the caller persists the returned state through its update function.
func AdjustRegion(state RegionState, lines []transcript.Line, edge Edge, delta int) RegionState {
	if len(lines) == 0 {
		return state
	}
	if !state.Resolved() {
		state = resolveIndices(state, lines)
	}
	switch edge {
	case EdgeStart:
		idx := clampIndex(state.StartLineIndex+delta, len(lines))
		if idx > state.EndLineIndex {
			idx = state.EndLineIndex
		}
		state.StartLineIndex = idx
	case EdgeEnd:
		idx := clampIndex(state.EndLineIndex+delta, len(lines))
		if idx < state.StartLineIndex {
			idx = state.StartLineIndex
		}
		state.EndLineIndex = idx
	}
	state.StartTime = lines[state.StartLineIndex].Start
	state.EndTime = lines[state.EndLineIndex].End
	return state
}

// resolveIndices fills unresolved line indices from the region times and
// forces the pair non-inverted.
func resolveIndices(state RegionState, lines []transcript.Line) RegionState {
	if state.StartLineIndex == UnresolvedIndex {
		state.StartLineIndex = FindLineIndexByTime(lines, state.StartTime)
	}
	if state.EndLineIndex == UnresolvedIndex {
		state.EndLineIndex = FindLineIndexByTime(lines, state.EndTime)
	}
	if state.EndLineIndex < state.StartLineIndex {
		state.EndLineIndex = state.StartLineIndex
	}
	return state
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
