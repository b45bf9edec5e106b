// Package offload moves container decoding off the playback path.
//
// A Manager owns one background worker goroutine and a task-queue protocol
// over channels: callers submit decode tasks and await exactly one reply per
// taskId. The same envelope framing backs the analysis service websocket, so
// a remote worker speaks an identical protocol to an in-process one.
package offload

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/parlo-app/parlo/go/pkg/media"
)

// WorkerError reports a failure of the worker itself rather than of a single
// decode; every task pending at the moment of failure receives one.
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string { return "offload: worker: " + e.Message }

// taskQueueDepth bounds how many submitted tasks wait behind the one the
// worker is executing. Submission past the bound blocks in Decode, still
// cancelable through ctx.
const taskQueueDepth = 8

// Manager runs decode tasks on a single background worker goroutine. Tasks
// execute sequentially in submission order. Safe for concurrent use.
type Manager struct {
	logger *slog.Logger
	cache  *media.DecodeCache

	tasks chan Envelope
	quit  chan struct{}
	done  chan struct{}

	mu      sync.Mutex
	pending map[string]chan Envelope
	closed  bool

	closeOnce sync.Once
}

// NewManager starts the worker goroutine. A nil cache gets a private
// default-capacity DecodeCache; a nil logger falls back to slog.Default().
func NewManager(cache *media.DecodeCache, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = media.NewDecodeCache(0, logger)
	}
	m := &Manager{
		logger:  logger,
		cache:   cache,
		tasks:   make(chan Envelope, taskQueueDepth),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		pending: make(map[string]chan Envelope),
	}
	go m.run()
	return m
}

// Decode submits blob to the worker and awaits the reply. startSec/endSec
// bound the region of interest; they only steer the container fast path, the
// decoded result may cover more than the window. The returned offset is the
// chunk start in seconds within the original media (zero unless a chunk fast
// path applied).
//
// Cancelling ctx abandons the task: Decode returns ctx.Err() and a later
// worker reply for it is logged and dropped.
func (m *Manager) Decode(ctx context.Context, blob []byte, startSec, endSec float64) (*media.Audio, float64, error) {
	id := uuid.NewString()
	reply := make(chan Envelope, 1)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, 0, &WorkerError{Message: "worker terminated"}
	}
	m.pending[id] = reply
	m.mu.Unlock()

	task := Envelope{
		Type:      TypeDecode,
		TaskID:    id,
		Blob:      blob,
		StartTime: startSec,
		EndTime:   endSec,
	}
	select {
	case m.tasks <- task:
	case <-ctx.Done():
		m.forget(id)
		return nil, 0, ctx.Err()
	case <-m.done:
		m.forget(id)
		return nil, 0, &WorkerError{Message: "worker terminated"}
	}

	select {
	case rep, ok := <-reply:
		if !ok {
			return nil, 0, &WorkerError{Message: "worker terminated"}
		}
		if rep.Type == TypeError {
			return nil, 0, fmt.Errorf("offload: decode: %s", rep.Error.Message)
		}
		return rep.Data.Audio, rep.Data.ChunkStart, nil
	case <-ctx.Done():
		m.forget(id)
		return nil, 0, ctx.Err()
	}
}

// Close stops the worker and rejects every pending task. Blocks until the
// worker goroutine has exited; safe to call more than once.
func (m *Manager) Close() {
	m.closeOnce.Do(func() { close(m.quit) })
	<-m.done
}

func (m *Manager) run() {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("offload: worker panicked", "panic", r)
		}
		m.failAll()
		close(m.done)
	}()
	for {
		select {
		case <-m.quit:
			return
		case task := <-m.tasks:
			m.deliver(m.execute(task))
		}
	}
}

// execute performs one decode task and builds its reply frame.
func (m *Manager) execute(task Envelope) Envelope {
	blob := task.Blob
	var chunkStart float64
	// Containers whose decoder wants discrete access units get only the
	// frames covering the window; a structural parse failure falls back to
	// the whole blob as one opaque chunk.
	if media.SniffContainer(blob) == media.ContainerMP3 && task.EndTime > task.StartTime {
		if chunk, start, err := media.CutMP3(blob, task.StartTime, task.EndTime); err == nil {
			blob, chunkStart = chunk, start
		} else {
			m.logger.Debug("offload: chunk extraction failed, decoding whole blob",
				"taskId", task.TaskID, "err", err)
		}
	}
	audio, err := m.cache.Get(context.Background(), blob)
	if err != nil {
		return Envelope{Type: TypeError, TaskID: task.TaskID, Error: &ErrorInfo{Message: err.Error()}}
	}
	return Envelope{
		Type:   TypeResult,
		TaskID: task.TaskID,
		Data:   &DecodeResult{Audio: audio, ChunkStart: chunkStart},
	}
}

// deliver routes a reply to its pending slot. A reply with no slot (caller
// gave up, or a duplicate) is logged and dropped rather than treated as
// fatal.
func (m *Manager) deliver(rep Envelope) {
	m.mu.Lock()
	slot, ok := m.pending[rep.TaskID]
	if ok {
		delete(m.pending, rep.TaskID)
	}
	m.mu.Unlock()
	if !ok {
		m.logger.Warn("offload: reply for unknown task dropped", "taskId", rep.TaskID, "type", rep.Type)
		return
	}
	slot <- rep
}

// failAll marks the manager terminated and rejects every pending task by
// closing its slot.
func (m *Manager) failAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for id, slot := range m.pending {
		close(slot)
		delete(m.pending, id)
	}
}

func (m *Manager) forget(id string) {
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
}
