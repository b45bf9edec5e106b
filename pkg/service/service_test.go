package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/parlo-app/parlo/go/pkg/analysis"
	"github.com/parlo-app/parlo/go/pkg/media/mediatest"
	"github.com/parlo-app/parlo/go/pkg/mediastore"
	"github.com/parlo-app/parlo/go/pkg/practice"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	engine := practice.NewEngine(practice.Config{})
	srv := httptest.NewServer(New(engine, nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	session := practice.Session{
		Media:    mediastore.Source{MediaID: "m1", Data: mediatest.ToneWAV(8000, 440, 1.0)},
		Envelope: analysis.EnvelopeOptions{Points: 20},
	}
	body, err := json.Marshal(session)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(srv.URL+"/v1/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out practice.EchoAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Reference.Envelope) != 20 {
		t.Fatalf("envelope points = %d, want 20", len(out.Reference.Envelope))
	}
}

func TestAnalyzeEndpointErrors(t *testing.T) {
	srv := newTestServer(t)

	ghost, _ := json.Marshal(practice.Session{Media: mediastore.Source{MediaID: "ghost"}})
	junk, _ := json.Marshal(practice.Session{Media: mediastore.Source{MediaID: "m1", Data: []byte("junk")}})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", "{nope", http.StatusBadRequest},
		{"unresolvable media", string(ghost), http.StatusNotFound},
		{"undecodable media", string(junk), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/v1/analyze", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	var f wsFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestWebSocketAnalyze(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv)

	greeting := readFrame(t, conn)
	if greeting.Type != "ready" || greeting.Ready == nil || greeting.Ready.Decoder == "" {
		t.Fatalf("greeting = %+v, want a ready frame naming the decoder", greeting)
	}

	req := wsFrame{
		Type:   TypeAnalyze,
		TaskID: "t-1",
		Session: &practice.Session{
			Media:    mediastore.Source{MediaID: "m1", Data: mediatest.ToneWAV(8000, 440, 1.0)},
			Envelope: analysis.EnvelopeOptions{Points: 20},
		},
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}

	progress := 0
	for {
		f := readFrame(t, conn)
		if f.TaskID != "t-1" {
			t.Fatalf("frame for taskId %q, want t-1", f.TaskID)
		}
		switch f.Type {
		case "progress":
			progress++
			continue
		case "result":
			if progress == 0 {
				t.Error("no progress frame before the result")
			}
			if f.Result == nil || len(f.Result.Reference.Envelope) != 20 {
				t.Fatalf("result frame = %+v, want 20 envelope points", f.Result)
			}
			return
		case "error":
			t.Fatalf("task failed: %+v", f.Error)
		default:
			t.Fatalf("unexpected frame type %q", f.Type)
		}
	}
}

func TestWebSocketUnknownType(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv)
	readFrame(t, conn) // ready

	if err := conn.WriteJSON(wsFrame{Type: "bogus", TaskID: "x"}); err != nil {
		t.Fatal(err)
	}
	f := readFrame(t, conn)
	if f.Type != "error" || f.TaskID != "x" || f.Error == nil {
		t.Fatalf("frame = %+v, want an error frame echoing taskId x", f)
	}
}

func TestWebSocketAnalyzeWithoutSession(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv)
	readFrame(t, conn) // ready

	if err := conn.WriteJSON(map[string]string{"type": TypeAnalyze, "taskId": "y"}); err != nil {
		t.Fatal(err)
	}
	f := readFrame(t, conn)
	if f.Type != "error" || f.TaskID != "y" {
		t.Fatalf("frame = %+v, want an error frame for taskId y", f)
	}
}
