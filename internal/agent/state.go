//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

// Package agent implements the retrieval-augmented reasoning pipeline for
// turbine operator questions.
//
// The pipeline is a fixed sequence of stages over one shared State. Each
// stage returns a partial Update which the runner merges; failures are
// recorded in the state's error log and never abort the pipeline.
package agent

// Message represents a single conversation turn.
type Message struct {
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// QueryMetadata describes the enriched query record built by the
// transform stage.
type QueryMetadata struct {
	DetectedModel string   `json:"detected_model,omitempty"`
	Language      string   `json:"language"`
	RecentContext []string `json:"recent_context,omitempty"`
	Timestamp     string   `json:"timestamp"`
}

// NeighborChunk is a chunk adjacent to a retrieval hit, attached during
// context stitching.
type NeighborChunk struct {
	ChunkIndex int    `json:"chunk_index"`
	Content    string `json:"content"`
}

// RetrievalHit is a single document chunk returned by the knowledge
// retriever, with its stitched neighbors.
type RetrievalHit struct {
	Content      string          `json:"content"`
	Source       string          `json:"source"`
	Page         *int            `json:"page,omitempty"`
	Section      string          `json:"section,omitempty"`
	ChunkIndex   int             `json:"chunk_index"`
	TurbineModel string          `json:"turbine_model,omitempty"`
	DocumentType string          `json:"document_type,omitempty"`
	Score        float64         `json:"score"`
	Neighbors    []NeighborChunk `json:"neighbors,omitempty"`
}

// Citation is a normalized, scored reference to a source excerpt.
// Derived deterministically from a RetrievalHit; never mutated afterwards.
type Citation struct {
	Source         string  `json:"source"`
	Page           *int    `json:"page,omitempty"`
	Section        string  `json:"section,omitempty"`
	Excerpt        string  `json:"excerpt"`
	RelevanceScore float64 `json:"relevance_score"`
}

// DataPoint is a single telemetry reading.
type DataPoint struct {
	Variable  string  `json:"variable"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit,omitempty"`
	Timestamp string  `json:"timestamp"`
}

// ResponseMetadata records which reasoning backend produced the answer.
type ResponseMetadata struct {
	ModelKey          string `json:"model_key"`
	ModelName         string `json:"model_name"`
	ExternalAttempted bool   `json:"external_attempted"`
	FallbackUsed      bool   `json:"fallback_used"`
	GeneratedAt       string `json:"generated_at"`
}

// Guardrail result statuses.
const (
	GuardrailSkipped = "skipped"
	GuardrailPassed  = "passed"
	GuardrailBlocked = "blocked"
	GuardrailError   = "error"
)

// GuardrailResult is the outcome of the content-safety gate.
type GuardrailResult struct {
	Status     string `json:"status"`
	Compliance string `json:"compliance,omitempty"`
	Details    string `json:"details,omitempty"`
}

// Telemetry fetch statuses.
const (
	FetchDisabled = "disabled"
	FetchOK       = "ok"
	FetchError    = "error"
)

// State is the single record threaded through all pipeline stages.
// It is created fresh per request and discarded after the response is
// returned; session identity lives with the caller.
type State struct {
	SessionID           string
	Query               string
	TransformedQuery    string
	QueryMetadata       *QueryMetadata
	Messages            []Message
	TurbineModel        string
	DataPoints          []DataPoint
	DataFetchStatus     string
	RetrievedDocuments  []RetrievalHit
	HierarchicalContext string
	Citations           []Citation
	LLMResponse         string
	ResponseMetadata    *ResponseMetadata
	ConfidenceScore     float64
	GuardrailResult     *GuardrailResult
	Errors              []string
}

// NewState creates the pipeline state for one incoming request.
func NewState(sessionID, query string, messages []Message) *State {
	return &State{
		SessionID: sessionID,
		Query:     query,
		Messages:  messages,
	}
}

// Update is the partial result of a single stage. Nil pointer fields are
// left untouched by Apply; slice fields are appended. No stage can remove
// a value an earlier stage set.
type Update struct {
	TransformedQuery    *string
	QueryMetadata       *QueryMetadata
	TurbineModel        *string
	DataPoints          []DataPoint
	DataFetchStatus     *string
	RetrievedDocuments  []RetrievalHit
	HierarchicalContext *string
	Citations           []Citation
	LLMResponse         *string
	ResponseMetadata    *ResponseMetadata
	ConfidenceScore     *float64
	GuardrailResult     *GuardrailResult
	Errors              []string
}

// Apply merges a stage's partial update into the state.
func (s *State) Apply(u Update) {
	if u.TransformedQuery != nil {
		s.TransformedQuery = *u.TransformedQuery
	}
	if u.QueryMetadata != nil {
		s.QueryMetadata = u.QueryMetadata
	}
	if u.TurbineModel != nil {
		s.TurbineModel = *u.TurbineModel
	}
	if len(u.DataPoints) > 0 {
		s.DataPoints = append(s.DataPoints, u.DataPoints...)
	}
	if u.DataFetchStatus != nil {
		s.DataFetchStatus = *u.DataFetchStatus
	}
	if len(u.RetrievedDocuments) > 0 {
		s.RetrievedDocuments = append(s.RetrievedDocuments, u.RetrievedDocuments...)
	}
	if u.HierarchicalContext != nil {
		s.HierarchicalContext = *u.HierarchicalContext
	}
	if len(u.Citations) > 0 {
		s.Citations = append(s.Citations, u.Citations...)
	}
	if u.LLMResponse != nil {
		s.LLMResponse = *u.LLMResponse
	}
	if u.ResponseMetadata != nil {
		s.ResponseMetadata = u.ResponseMetadata
	}
	if u.ConfidenceScore != nil {
		s.ConfidenceScore = *u.ConfidenceScore
	}
	if u.GuardrailResult != nil {
		s.GuardrailResult = u.GuardrailResult
	}
	if len(u.Errors) > 0 {
		s.Errors = append(s.Errors, u.Errors...)
	}
}

// ptr returns a pointer to v. Stages use it to mark Update fields as set.
func ptr[T any](v T) *T {
	return &v
}
