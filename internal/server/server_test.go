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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/solaris-energy/operator-assist/internal/agent"
	"github.com/solaris-energy/operator-assist/internal/config"
	"github.com/solaris-energy/operator-assist/internal/llm"
	"github.com/solaris-energy/operator-assist/internal/session"
)

// mockPipeline records the state it was run with and fills in a canned
// result the way the real pipeline would.
type mockPipeline struct {
	lastState *agent.State
	response  string
}

func (m *mockPipeline) Run(_ context.Context, st *agent.State) {
	m.lastState = st
	response := m.response
	if response == "" {
		response = "canned answer"
	}
	st.TurbineModel = "SMT60"
	st.LLMResponse = response
	st.ConfidenceScore = 0.9
	st.Citations = []agent.Citation{{Source: "manual.pdf", Excerpt: "excerpt", RelevanceScore: 1.0}}
	st.GuardrailResult = &agent.GuardrailResult{Status: agent.GuardrailSkipped}
	st.Messages = append(st.Messages,
		agent.Message{Role: "user", Content: st.Query},
		agent.Message{Role: "assistant", Content: response},
	)
}

// mapStore is a Store backed by a plain map, without TTL handling.
type mapStore struct {
	sessions map[string][]agent.Message
	loadErr  error
	saveErr  error
}

func newMapStore() *mapStore {
	return &mapStore{sessions: make(map[string][]agent.Message)}
}

func (m *mapStore) Load(_ context.Context, id string) ([]agent.Message, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	msgs, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return msgs, nil
}

func (m *mapStore) Save(_ context.Context, id string, messages []agent.Message) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[id] = messages
	return nil
}

func (m *mapStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func newTestServer(pipeline *mockPipeline, store *mapStore) *Server {
	cfg := config.DefaultConfig()
	reg := llm.NewRegistry([]llm.Model{
		{Key: "nova", DisplayName: "Nova Pro", Kind: llm.BackendManaged},
		{Key: "grok", DisplayName: "Grok", Kind: llm.BackendExternalHTTP},
	}, "nova", "grok")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, pipeline, store, reg, logger)
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&mockPipeline{}, newMapStore())

	w := doRequest(s, http.MethodGet, "/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
}

func TestListModelsEndpoint(t *testing.T) {
	s := newTestServer(&mockPipeline{}, newMapStore())

	w := doRequest(s, http.MethodGet, "/v1/models", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp ModelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Models) != 2 {
		t.Fatalf("got %d models, want 2", len(resp.Models))
	}
	if !resp.Models[0].Default || resp.Models[0].Key != "nova" {
		t.Errorf("first model = %+v, want default nova", resp.Models[0])
	}
	if !resp.Models[1].Fallback || resp.Models[1].Backend != "http" {
		t.Errorf("second model = %+v, want http fallback", resp.Models[1])
	}
}

func TestChatRequiresQuery(t *testing.T) {
	s := newTestServer(&mockPipeline{}, newMapStore())

	tests := []struct {
		name string
		body any
	}{
		{"empty query", ChatRequest{Query: ""}},
		{"whitespace query", ChatRequest{Query: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, http.MethodPost, "/v1/chat", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if resp.Error.Code != "INVALID_REQUEST" {
				t.Errorf("code = %q", resp.Error.Code)
			}
		})
	}
}

func TestChatInvalidBody(t *testing.T) {
	s := newTestServer(&mockPipeline{}, newMapStore())

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestChatNewSession(t *testing.T) {
	pipeline := &mockPipeline{}
	store := newMapStore()
	s := newTestServer(pipeline, store)

	w := doRequest(s, http.MethodPost, "/v1/chat", ChatRequest{Query: "smt60 vibration"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !strings.HasPrefix(resp.SessionID, "session-") {
		t.Errorf("SessionID = %q, want generated id", resp.SessionID)
	}
	if resp.Response != "canned answer" {
		t.Errorf("Response = %q", resp.Response)
	}
	if resp.ConfidenceScore != 0.9 || len(resp.Citations) != 1 {
		t.Errorf("unexpected response payload: %+v", resp)
	}

	// The conversation was persisted under the generated id.
	saved := store.sessions[resp.SessionID]
	if len(saved) != 2 {
		t.Fatalf("saved %d messages, want 2", len(saved))
	}
	if saved[1].Role != "assistant" || saved[1].Content != "canned answer" {
		t.Errorf("saved turn = %+v", saved[1])
	}
}

func TestChatResponseFieldNames(t *testing.T) {
	s := newTestServer(&mockPipeline{}, newMapStore())

	w := doRequest(s, http.MethodPost, "/v1/chat", ChatRequest{Query: "q"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// Clients bind to the documented key names, so the wire shape is
	// part of the contract.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	for _, key := range []string{"guardrail_result", "confidence_score", "messages"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("response missing key %q", key)
		}
	}
	for _, key := range []string{"guardrail", "metadata"} {
		if _, ok := raw[key]; ok {
			t.Errorf("response carries undocumented key %q", key)
		}
	}
}

func TestChatExistingSessionHistory(t *testing.T) {
	pipeline := &mockPipeline{}
	store := newMapStore()
	store.sessions["session-abc"] = []agent.Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	s := newTestServer(pipeline, store)

	w := doRequest(s, http.MethodPost, "/v1/chat", ChatRequest{
		Query:     "follow-up",
		SessionID: "session-abc",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if len(pipeline.lastState.Messages) < 2 ||
		pipeline.lastState.Messages[0].Content != "earlier question" {
		t.Errorf("pipeline did not receive stored history: %+v", pipeline.lastState.Messages)
	}

	var resp ChatResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.SessionID != "session-abc" {
		t.Errorf("SessionID = %q, want the caller's id", resp.SessionID)
	}
	if len(store.sessions["session-abc"]) != 4 {
		t.Errorf("saved %d messages, want 4", len(store.sessions["session-abc"]))
	}
}

func TestChatInlineHistoryOverridesStore(t *testing.T) {
	pipeline := &mockPipeline{}
	store := newMapStore()
	store.sessions["session-abc"] = []agent.Message{
		{Role: "user", Content: "stored question"},
	}
	s := newTestServer(pipeline, store)

	w := doRequest(s, http.MethodPost, "/v1/chat", ChatRequest{
		Query:     "follow-up",
		SessionID: "session-abc",
		Messages: []agent.Message{
			{Role: "user", Content: "inline question"},
			{Role: "assistant", Content: "inline answer"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if pipeline.lastState.Messages[0].Content != "inline question" {
		t.Errorf("pipeline received %+v, want the inline history", pipeline.lastState.Messages[0])
	}

	var resp ChatResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	// Inline history plus the two new turns comes back and is persisted.
	if len(resp.Messages) != 4 {
		t.Errorf("response has %d messages, want 4", len(resp.Messages))
	}
	if len(store.sessions["session-abc"]) != 4 {
		t.Errorf("saved %d messages, want 4", len(store.sessions["session-abc"]))
	}
}

func TestChatSessionLoadFailureDegrades(t *testing.T) {
	pipeline := &mockPipeline{}
	store := newMapStore()
	store.loadErr = io.ErrUnexpectedEOF
	s := newTestServer(pipeline, store)

	w := doRequest(s, http.MethodPost, "/v1/chat", ChatRequest{
		Query:     "q",
		SessionID: "session-abc",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite store failure", w.Code)
	}
	if len(pipeline.lastState.Messages) != 2 {
		t.Errorf("pipeline should start with empty history, got %+v", pipeline.lastState.Messages)
	}
}

func TestGetSession(t *testing.T) {
	store := newMapStore()
	store.sessions["session-abc"] = []agent.Message{
		{Role: "user", Content: "q"},
		{Role: "assistant", Content: "a"},
	}
	s := newTestServer(&mockPipeline{}, store)

	w := doRequest(s, http.MethodGet, "/v1/sessions/session-abc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.SessionID != "session-abc" || len(resp.Messages) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	s := newTestServer(&mockPipeline{}, newMapStore())

	w := doRequest(s, http.MethodGet, "/v1/sessions/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var resp ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "SESSION_NOT_FOUND" {
		t.Errorf("code = %q", resp.Error.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	store := newMapStore()
	store.sessions["session-abc"] = []agent.Message{{Role: "user", Content: "q"}}
	s := newTestServer(&mockPipeline{}, store)

	w := doRequest(s, http.MethodDelete, "/v1/sessions/session-abc", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if _, ok := store.sessions["session-abc"]; ok {
		t.Error("session not deleted")
	}

	// Deleting again is still a success.
	w = doRequest(s, http.MethodDelete, "/v1/sessions/session-abc", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("repeat delete status = %d, want 204", w.Code)
	}
}

func TestOpenAPIEndpoint(t *testing.T) {
	s := newTestServer(&mockPipeline{}, newMapStore())

	w := doRequest(s, http.MethodGet, "/v1/openapi.json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var spec OpenAPISpec
	if err := json.Unmarshal(w.Body.Bytes(), &spec); err != nil {
		t.Fatalf("failed to parse spec: %v", err)
	}
	if spec.OpenAPI != "3.0.3" {
		t.Errorf("openapi = %q", spec.OpenAPI)
	}
	for _, path := range []string{"/health", "/models", "/chat", "/sessions/{id}"} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}
}

func TestNewSessionIDFormat(t *testing.T) {
	id := newSessionID()
	if !strings.HasPrefix(id, "session-") {
		t.Errorf("id = %q, want session- prefix", id)
	}
	if len(id) != len("session-")+12 {
		t.Errorf("id length = %d, want 12 hex chars after the prefix", len(id))
	}
	if id == newSessionID() {
		t.Error("ids must be unique")
	}
}

func TestCORSMiddleware(t *testing.T) {
	pipeline := &mockPipeline{}
	store := newMapStore()
	s := newTestServer(pipeline, store)
	s.config.Server.CORS.Enabled = true
	s.config.Server.CORS.AllowedOrigins = []string{"https://ops.solaris.example"}

	handler := s.applyMiddleware(s.mux)

	req := httptest.NewRequest(http.MethodOptions, "/v1/chat", nil)
	req.Header.Set("Origin", "https://ops.solaris.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://ops.solaris.example" {
		t.Errorf("allow-origin = %q", got)
	}

	// Disallowed origin gets no CORS headers.
	req = httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin = %q, want empty", got)
	}
}
