package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/birthdai/concierge/internal/agent/model"
	errx "github.com/birthdai/concierge/internal/core/error"
	logx "github.com/birthdai/concierge/pkg/logger"
)

type createSessionRequest struct {
	UserID string `json:"user_id"`
}

type postMessageRequest struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	sess := s.sessions.Create(req.UserID)
	logx.Info().Str("session_id", sess.ID).Str("user_id", sess.UserID).Msg("session created")
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionID"]
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	result, err := s.runner.Invoke(r.Context(), model.QueryInput{
		ConversationID: sess.ID,
		Query:          req.Message,
	})
	if err != nil {
		logx.Error().
			Str("session_id", sess.ID).
			Err(err).
			Msg("turn failed")
		writeJSON(w, errx.StatusOf(err, http.StatusInternalServerError), errorResponse{Error: errx.MessageOf(err)})
		return
	}

	logx.Info().
		Str("session_id", sess.ID).
		Int("sections", len(result.Sections)).
		Int("tool_calls", len(result.ToolTrace)).
		Float64("cost_usd", result.CostUSD).
		Msg("turn completed")
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}
