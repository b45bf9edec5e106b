// Package service exposes the practice engine over HTTP: a JSON analyze
// endpoint for one-shot requests and a websocket endpoint speaking the
// offload envelope framing for streaming clients.
package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/parlo-app/parlo/go/pkg/media"
	"github.com/parlo-app/parlo/go/pkg/mediastore"
	"github.com/parlo-app/parlo/go/pkg/practice"
)

// Server serves the analysis API for one practice engine.
type Server struct {
	engine   *practice.Engine
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New builds a Server over engine. A nil logger falls back to slog.Default().
func New(engine *practice.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine: engine,
		logger: logger,
		upgrader: websocket.Upgrader{
			// The API serves local player frontends; origin policy is left
			// to the deployment in front of it.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/analyze", s.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/v1/ws", s.handleWS).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var session practice.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed session: " + err.Error()})
		return
	}
	out, err := s.engine.Analyze(r.Context(), session)
	if err != nil {
		status := http.StatusInternalServerError
		var rerr *mediastore.ResolutionError
		var derr *media.DecodeError
		switch {
		case errors.As(err, &rerr):
			status = http.StatusNotFound
		case errors.As(err, &derr):
			status = http.StatusUnprocessableEntity
		default:
			s.logger.Error("service: analyze failed", "mediaId", session.Media.MediaID, "err", err)
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
