package state

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/parlo-app/parlo/go/pkg/echo"
)

// Regions stores one echo region per (profile, session). Writes replace the
// whole state atomically; deleting an absent region is a no-op so echo-mode
// deactivation can always delete blindly.
type Regions struct {
	b backend
}

// Get returns the stored region, or ErrNotFound.
func (r *Regions) Get(_ context.Context, profileID, sessionID string) (echo.RegionState, error) {
	raw, err := r.b.get(regionKey(profileID, sessionID))
	if err != nil {
		return echo.RegionState{}, err
	}
	var st echo.RegionState
	if err := msgpack.Unmarshal(raw, &st); err != nil {
		return echo.RegionState{}, fmt.Errorf("state: decode region %s/%s: %w", profileID, sessionID, err)
	}
	return st, nil
}

// Put stores the region, replacing any previous value.
func (r *Regions) Put(_ context.Context, profileID, sessionID string, st echo.RegionState) error {
	raw, err := msgpack.Marshal(st)
	if err != nil {
		return fmt.Errorf("state: encode region %s/%s: %w", profileID, sessionID, err)
	}
	return r.b.set(regionKey(profileID, sessionID), raw)
}

// Delete removes the region; removing an absent region is not an error.
func (r *Regions) Delete(_ context.Context, profileID, sessionID string) error {
	return r.b.delete(regionKey(profileID, sessionID))
}

// List returns every stored region of a profile keyed by session id.
func (r *Regions) List(_ context.Context, profileID string) (map[string]echo.RegionState, error) {
	prefix := regionPrefix(profileID)
	out := make(map[string]echo.RegionState)
	err := r.b.scan(prefix, func(key, value []byte) error {
		sessionID := string(key[len(prefix):])
		var st echo.RegionState
		if err := msgpack.Unmarshal(value, &st); err != nil {
			return fmt.Errorf("state: decode region %s/%s: %w", profileID, sessionID, err)
		}
		out[sessionID] = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
