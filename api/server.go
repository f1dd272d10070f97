package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/zaruba-app/zaruba/scoring/service"
	"github.com/zaruba-app/zaruba/scoring/session"
	"github.com/zaruba-app/zaruba/transport/websocket"
)

// Error codes surfaced to clients alongside the message.
const (
	CodeValidationError = "validation_error"
	CodeConflictError   = "conflict_error"
	CodeNotFound        = "not_found"
	CodePolicyRejection = "policy_rejection"
	CodeInternalError   = "internal_error"
)

// Server is the HTTP surface: REST endpoints, the WebSocket entry point,
// metrics, and static assets.
type Server struct {
	service   service.ScoringService
	hub       *websocket.Hub
	router    *mux.Router
	staticDir string
}

// NewServer creates an API server over the scoring service and hub.
func NewServer(scoringService service.ScoringService, hub *websocket.Hub) *Server {
	s := &Server{
		service:   scoringService,
		hub:       hub,
		router:    mux.NewRouter(),
		staticDir: "./static/",
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session lifecycle
	api.HandleFunc("/register", s.handleRegister).Methods("POST")
	api.HandleFunc("/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/end_session", s.handleEndSession).Methods("POST")

	// Read-only views
	api.HandleFunc("/products", s.handleProducts).Methods("GET")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{key}", s.handleGetSession).Methods("GET")

	// Realtime gateway
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Observability
	s.router.Handle("/metrics", promhttp.Handler())

	// Static files for the browser UI
	s.router.PathPrefix("/").HandlerFunc(s.handleStatic)
}

// SetStaticDir overrides where browser UI assets are served from.
func (s *Server) SetStaticDir(dir string) {
	s.staticDir = dir
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	http.FileServer(http.Dir(s.staticDir)).ServeHTTP(w, r)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{"error": message, "code": code})
}

// respondServiceError maps the error taxonomy to HTTP statuses and
// categorical codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrValidation):
		respondError(w, http.StatusBadRequest, CodeValidationError, err.Error())
	case errors.Is(err, session.ErrConflict):
		respondError(w, http.StatusConflict, CodeConflictError, err.Error())
	case errors.Is(err, session.ErrNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("unexpected service error")
		respondError(w, http.StatusInternalServerError, CodeInternalError, err.Error())
	}
}

// Session Handlers

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParticipantA string `json:"participant_a"`
		ParticipantB string `json:"participant_b"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidationError, "invalid request body")
		return
	}

	result, err := s.service.Register(r.Context(), req.ParticipantA, req.ParticipantB)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidationError, "invalid request body")
		return
	}

	key, err := s.service.Login(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"session_key": key})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionKey string `json:"session_key"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidationError, "invalid request body")
		return
	}

	if err := s.service.Terminate(r.Context(), req.SessionKey); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"products": s.service.Products(r.Context()),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	info, err := s.service.GetSession(r.Context(), key)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session":     info,
		"connections": s.hub.ConnectionsFor(key),
	})
}

// handleWebSocket is the realtime handshake. A connection against a
// nonexistent session is refused here, before the upgrade: a policy error,
// not a protocol error.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionKey := r.URL.Query().Get("session")
	participant := r.URL.Query().Get("name")
	if sessionKey == "" || participant == "" {
		respondError(w, http.StatusBadRequest, CodeValidationError, "session and name parameters required")
		return
	}

	info, err := s.service.GetSession(r.Context(), sessionKey)
	if err != nil {
		respondError(w, http.StatusNotFound, CodePolicyRejection, "unknown session")
		return
	}
	if participant != info.ParticipantA && participant != info.ParticipantB {
		respondError(w, http.StatusForbidden, CodePolicyRejection, "name is not a participant of this session")
		return
	}

	s.hub.ServeWS(w, r, sessionKey, participant, s.service, info)
}
