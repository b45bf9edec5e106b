package echo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func unresolvedState(start, end float64) RegionState {
	return RegionState{
		StartLineIndex: UnresolvedIndex,
		EndLineIndex:   UnresolvedIndex,
		StartTime:      start,
		EndTime:        end,
	}
}

func TestRestoreResolvesOnce(t *testing.T) {
	lines := contiguousLines()
	r := NewRestorer(nil)
	var calls int
	var persisted RegionState
	update := func(_ context.Context, s RegionState) error {
		calls++
		persisted = s
		return nil
	}

	state := unresolvedState(0.5, 2.5)
	got, did, err := r.Restore(context.Background(), "s1", lines, state, update)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !did {
		t.Fatal("first Restore did not resolve")
	}
	if got.StartLineIndex != 0 || got.EndLineIndex != 2 {
		t.Errorf("resolved indices = (%d,%d), want (0,2)", got.StartLineIndex, got.EndLineIndex)
	}
	if persisted != got {
		t.Errorf("persisted %+v, returned %+v", persisted, got)
	}

	// A remount passes the still-unresolved snapshot again; the session is
	// already resolved, so nothing is written.
	_, did, err = r.Restore(context.Background(), "s1", lines, state, update)
	if err != nil {
		t.Fatalf("second Restore: %v", err)
	}
	if did {
		t.Error("second Restore resolved again")
	}
	if calls != 1 {
		t.Errorf("update called %d times, want 1", calls)
	}
}

func TestRestoreSkipsResolvedState(t *testing.T) {
	r := NewRestorer(nil)
	state := RegionState{StartLineIndex: 0, EndLineIndex: 1, StartTime: 0, EndTime: 2}
	update := func(context.Context, RegionState) error {
		t.Fatal("update called for a resolved state")
		return nil
	}
	got, did, err := r.Restore(context.Background(), "s1", contiguousLines(), state, update)
	if err != nil || did {
		t.Fatalf("Restore = (%v, %v), want no-op", did, err)
	}
	if got != state {
		t.Errorf("state changed: %+v", got)
	}
}

func TestRestoreWaitsForLines(t *testing.T) {
	r := NewRestorer(nil)
	var calls int
	update := func(context.Context, RegionState) error {
		calls++
		return nil
	}
	state := unresolvedState(0.5, 2.5)

	// No transcript yet: stays unresolved.
	_, did, err := r.Restore(context.Background(), "s1", nil, state, update)
	if err != nil || did {
		t.Fatalf("Restore without lines = (%v, %v), want no-op", did, err)
	}

	// Lines arrive, restoration proceeds.
	_, did, err = r.Restore(context.Background(), "s1", contiguousLines(), state, update)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !did || calls != 1 {
		t.Errorf("did=%v calls=%d, want resolution on retry", did, calls)
	}
}

func TestRestoreRetriesAfterFailedPersist(t *testing.T) {
	r := NewRestorer(nil)
	fail := errors.New("disk full")
	calls := 0
	update := func(context.Context, RegionState) error {
		calls++
		if calls == 1 {
			return fail
		}
		return nil
	}
	state := unresolvedState(0.5, 2.5)

	_, did, err := r.Restore(context.Background(), "s1", contiguousLines(), state, update)
	if !errors.Is(err, fail) {
		t.Fatalf("Restore error = %v, want wrapped %v", err, fail)
	}
	if did {
		t.Error("failed Restore reported success")
	}

	_, did, err = r.Restore(context.Background(), "s1", contiguousLines(), state, update)
	if err != nil || !did {
		t.Fatalf("retry = (%v, %v), want success", did, err)
	}
	if calls != 2 {
		t.Errorf("update called %d times, want 2", calls)
	}
}

func TestRestoreForcesNonInvertedRange(t *testing.T) {
	r := NewRestorer(nil)
	var persisted RegionState
	update := func(_ context.Context, s RegionState) error {
		persisted = s
		return nil
	}
	// End time before start time: indices resolve inverted and must be forced
	// back into order.
	state := unresolvedState(2.5, 0.2)
	_, did, err := r.Restore(context.Background(), "s1", contiguousLines(), state, update)
	if err != nil || !did {
		t.Fatalf("Restore = (%v, %v)", did, err)
	}
	if persisted.EndLineIndex < persisted.StartLineIndex {
		t.Errorf("persisted inverted range: %+v", persisted)
	}
	if persisted.StartLineIndex != 2 || persisted.EndLineIndex != 2 {
		t.Errorf("persisted = %+v, want forced (2,2)", persisted)
	}
}

func TestRestoreConcurrent(t *testing.T) {
	r := NewRestorer(nil)
	var calls atomic.Int32
	update := func(context.Context, RegionState) error {
		calls.Add(1)
		return nil
	}
	state := unresolvedState(0.5, 2.5)
	lines := contiguousLines()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = r.Restore(context.Background(), "s1", lines, state, update)
		}()
	}
	wg.Wait()
	if n := calls.Load(); n != 1 {
		t.Errorf("update called %d times across concurrent restores, want 1", n)
	}
}
