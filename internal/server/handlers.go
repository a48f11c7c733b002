//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/solaris-energy/operator-assist/internal/agent"
	"github.com/solaris-energy/operator-assist/internal/session"
)

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// ModelInfo describes one registered reasoning model.
type ModelInfo struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Backend     string `json:"backend"`
	Default     bool   `json:"default"`
	Fallback    bool   `json:"fallback"`
}

// ModelsResponse is the response for the list models endpoint.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ChatRequest is the request body for the chat endpoint.
type ChatRequest struct {
	Query     string          `json:"query"`
	SessionID string          `json:"session_id,omitempty"`
	Messages  []agent.Message `json:"messages,omitempty"`
}

// ChatResponse is the response body for the chat endpoint.
type ChatResponse struct {
	SessionID       string                  `json:"session_id"`
	Response        string                  `json:"response"`
	TurbineModel    string                  `json:"turbine_model,omitempty"`
	Citations       []agent.Citation        `json:"citations"`
	ConfidenceScore float64                 `json:"confidence_score"`
	Guardrail       *agent.GuardrailResult  `json:"guardrail_result,omitempty"`
	Metadata        *agent.ResponseMetadata `json:"response_metadata,omitempty"`
	QueryMetadata   *agent.QueryMetadata    `json:"query_metadata,omitempty"`
	DataFetchStatus string                  `json:"data_fetch_status,omitempty"`
	DataPoints      []agent.DataPoint       `json:"data_points,omitempty"`
	Errors          []string                `json:"errors,omitempty"`
	Messages        []agent.Message         `json:"messages"`
}

// SessionResponse is the response for the get session endpoint.
type SessionResponse struct {
	SessionID string          `json:"session_id"`
	Messages  []agent.Message `json:"messages"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleHealth handles the GET /v1/health endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// handleListModels handles the GET /v1/models endpoint.
func (s *Server) handleListModels(w http.ResponseWriter, _ *http.Request) {
	entries := s.registry.Entries()
	models := make([]ModelInfo, 0, len(entries))
	for _, m := range entries {
		models = append(models, ModelInfo{
			Key:         m.Key,
			DisplayName: m.DisplayName,
			Backend:     string(m.Kind),
			Default:     m.Key == s.registry.DefaultKey(),
			Fallback:    m.Key == s.registry.FallbackKey(),
		})
	}
	s.respondJSON(w, http.StatusOK, ModelsResponse{Models: models})
}

// handleChat handles the POST /v1/chat endpoint. A missing query is the
// only hard client error; everything past this point degrades inside the
// pipeline and is reported in the response's errors field.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST",
			"invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "query is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = newSessionID()
	}

	// Inline history takes precedence over the stored session.
	messages := req.Messages
	if len(messages) == 0 {
		var err error
		messages, err = s.sessions.Load(r.Context(), sessionID)
		if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
			// A broken store costs history, not the answer.
			s.logger.Warn("session load failed", "session_id", sessionID, "error", err)
			messages = nil
		}
	}

	st := agent.NewState(sessionID, req.Query, messages)
	s.pipeline.Run(r.Context(), st)

	if err := s.sessions.Save(r.Context(), sessionID, st.Messages); err != nil {
		s.logger.Warn("session save failed", "session_id", sessionID, "error", err)
	}

	s.respondJSON(w, http.StatusOK, ChatResponse{
		SessionID:       sessionID,
		Response:        st.LLMResponse,
		TurbineModel:    st.TurbineModel,
		Citations:       st.Citations,
		ConfidenceScore: st.ConfidenceScore,
		Guardrail:       st.GuardrailResult,
		Metadata:        st.ResponseMetadata,
		QueryMetadata:   st.QueryMetadata,
		DataFetchStatus: st.DataFetchStatus,
		DataPoints:      st.DataPoints,
		Errors:          st.Errors,
		Messages:        st.Messages,
	})
}

// handleGetSession handles the GET /v1/sessions/{id} endpoint.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "session id required")
		return
	}

	messages, err := s.sessions.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			s.respondError(w, http.StatusNotFound, "SESSION_NOT_FOUND",
				"session not found: "+id)
			return
		}
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, SessionResponse{
		SessionID: id,
		Messages:  messages,
	})
}

// handleDeleteSession handles the DELETE /v1/sessions/{id} endpoint.
// Deleting an unknown session is a no-op success.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "session id required")
		return
	}

	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// newSessionID generates a short, unambiguous session identifier.
func newSessionID() string {
	return "session-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// respondJSON sends a JSON response with RFC 8631 Link header for API discovery.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	// RFC 8631: Link header for API documentation discovery
	w.Header().Set("Link", `</v1/openapi.json>; rel="service-desc"`)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
