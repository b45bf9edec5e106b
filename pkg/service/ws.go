package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/parlo-app/parlo/go/pkg/offload"
	"github.com/parlo-app/parlo/go/pkg/practice"
)

// TypeAnalyze is the request frame type of the websocket API; replies reuse
// the offload frame types.
const TypeAnalyze = "analyze"

// decoderName is announced in the ready greeting.
const decoderName = "beep"

// wsFrame is the websocket message. Analyze requests flatten the session
// fields alongside the header (the embedded pointer stays nil on reply
// frames so they serialize without session noise); replies carry exactly one
// payload matching their type tag.
type wsFrame struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId,omitempty"`

	*practice.Session

	Result   *practice.EchoAnalysis `json:"result,omitempty"`
	Progress *offload.Progress      `json:"progress,omitempty"`
	Error    *offload.ErrorInfo     `json:"error,omitempty"`
	Ready    *offload.Ready         `json:"ready,omitempty"`
}

// handleWS speaks the offload envelope framing over a websocket: the client
// sends analyze frames, the server streams progress and finishes each taskId
// with exactly one result or error frame. Tasks still in flight when the
// connection goes away are canceled, never left hanging.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("service: ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// One writer goroutine serializes all frames onto the connection; task
	// goroutines only send into out. Write failures are logged and the
	// channel kept draining so no task ever blocks on a dead connection.
	out := make(chan wsFrame, 16)
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for frame := range out {
			if err := conn.WriteJSON(frame); err != nil {
				s.logger.Debug("service: ws write failed", "err", err)
			}
		}
	}()

	out <- wsFrame{Type: offload.TypeReady, Ready: &offload.Ready{Decoder: decoderName}}

	var tasks sync.WaitGroup
	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			break
		}
		switch frame.Type {
		case TypeAnalyze:
			tasks.Add(1)
			go func(f wsFrame) {
				defer tasks.Done()
				s.runTask(ctx, f, out)
			}(frame)
		default:
			out <- wsFrame{
				Type:   offload.TypeError,
				TaskID: frame.TaskID,
				Error:  &offload.ErrorInfo{Message: "unknown frame type: " + frame.Type},
			}
		}
	}

	cancel()
	tasks.Wait()
	close(out)
	<-writeDone
}

func (s *Server) runTask(ctx context.Context, f wsFrame, out chan<- wsFrame) {
	if f.Session == nil {
		out <- wsFrame{Type: offload.TypeError, TaskID: f.TaskID, Error: &offload.ErrorInfo{Message: "analyze frame carries no session"}}
		return
	}
	out <- wsFrame{
		Type:     offload.TypeProgress,
		TaskID:   f.TaskID,
		Progress: &offload.Progress{Loaded: 0, Total: 1, Message: "analyzing"},
	}
	res, err := s.engine.Analyze(ctx, *f.Session)
	if err != nil {
		out <- wsFrame{Type: offload.TypeError, TaskID: f.TaskID, Error: &offload.ErrorInfo{Message: err.Error()}}
		return
	}
	out <- wsFrame{Type: offload.TypeResult, TaskID: f.TaskID, Result: res}
}
