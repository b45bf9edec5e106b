package echo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/parlo-app/parlo/go/pkg/transcript"
)

// UpdateFunc persists a corrected region state. Implementations must write
// the four fields together; the engine treats the write as atomic.
type UpdateFunc func(ctx context.Context, state RegionState) error

// Restorer re-resolves persisted echo regions whose line indices were lost,
// typically across a reload where times survive but the transcript arrives
// later.
//
// Restoration is a resolve-once transition keyed by session identity:
// unresolved -> resolving -> resolved. A session whose restoration is already
// running or finished is skipped, so a remounting UI can call Restore as
// often as it likes without duplicate writes. A failed persist returns the
// session to unresolved for a later retry.
type Restorer struct {
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]restorePhase
}

type restorePhase int

const (
	phaseUnresolved restorePhase = iota
	phaseResolving
	phaseResolved
)

// NewRestorer creates a Restorer. A nil logger uses slog.Default().
func NewRestorer(logger *slog.Logger) *Restorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Restorer{
		logger:   logger,
		sessions: make(map[string]restorePhase),
	}
}

// Restore resolves the region's line indices from its persisted times and
// writes the corrected state through update, at most once per session.
//
// It returns the state the caller should use and reports whether this call
// performed the resolution. A state whose indices are already known marks the
// session resolved without writing. An empty transcript leaves the session
// unresolved so a later call can retry once lines are available. Concurrent
// calls for one session never resolve twice.
func (r *Restorer) Restore(ctx context.Context, sessionID string, lines []transcript.Line, state RegionState, update UpdateFunc) (RegionState, bool, error) {
	if state.Resolved() {
		r.setPhase(sessionID, phaseResolved)
		return state, false, nil
	}
	if len(lines) == 0 {
		return state, false, nil
	}

	r.mu.Lock()
	if r.sessions[sessionID] != phaseUnresolved {
		r.mu.Unlock()
		return state, false, nil
	}
	r.sessions[sessionID] = phaseResolving
	r.mu.Unlock()

	resolved := resolveIndices(state, lines)
	if err := update(ctx, resolved); err != nil {
		r.setPhase(sessionID, phaseUnresolved)
		return state, false, fmt.Errorf("echo: persist restored region: %w", err)
	}
	r.logger.Debug("echo: region indices restored",
		"session_id", sessionID,
		"start_line", resolved.StartLineIndex,
		"end_line", resolved.EndLineIndex)
	r.setPhase(sessionID, phaseResolved)
	return resolved, true, nil
}

// Forget drops the session's restoration state, e.g. after echo mode
// deactivates and the region is deleted.
func (r *Restorer) Forget(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}

func (r *Restorer) setPhase(id string, p restorePhase) {
	r.mu.Lock()
	r.sessions[id] = p
	r.mu.Unlock()
}
