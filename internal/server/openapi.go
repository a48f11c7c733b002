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
	"net/http"
)

// OpenAPISpec represents the OpenAPI v3 specification.
type OpenAPISpec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       OpenAPIInfo            `json:"info"`
	Servers    []OpenAPIServer        `json:"servers"`
	Paths      map[string]OpenAPIPath `json:"paths"`
	Components OpenAPIComponents      `json:"components"`
}

// OpenAPIInfo contains API metadata.
type OpenAPIInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// OpenAPIServer describes a server.
type OpenAPIServer struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// OpenAPIPath contains operations for a path.
type OpenAPIPath struct {
	Get    *OpenAPIOperation `json:"get,omitempty"`
	Post   *OpenAPIOperation `json:"post,omitempty"`
	Put    *OpenAPIOperation `json:"put,omitempty"`
	Delete *OpenAPIOperation `json:"delete,omitempty"`
}

// OpenAPIOperation describes an API operation.
type OpenAPIOperation struct {
	Summary     string                     `json:"summary"`
	Description string                     `json:"description,omitempty"`
	OperationID string                     `json:"operationId"`
	Tags        []string                   `json:"tags,omitempty"`
	Parameters  []OpenAPIParameter         `json:"parameters,omitempty"`
	RequestBody *OpenAPIRequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]OpenAPIResponse `json:"responses"`
}

// OpenAPIParameter describes a parameter.
type OpenAPIParameter struct {
	Name        string        `json:"name"`
	In          string        `json:"in"`
	Description string        `json:"description,omitempty"`
	Required    bool          `json:"required"`
	Schema      OpenAPISchema `json:"schema"`
}

// OpenAPIRequestBody describes a request body.
type OpenAPIRequestBody struct {
	Description string                      `json:"description,omitempty"`
	Required    bool                        `json:"required"`
	Content     map[string]OpenAPIMediaType `json:"content"`
}

// OpenAPIResponse describes a response.
type OpenAPIResponse struct {
	Description string                      `json:"description"`
	Content     map[string]OpenAPIMediaType `json:"content,omitempty"`
}

// OpenAPIMediaType describes a media type.
type OpenAPIMediaType struct {
	Schema OpenAPISchema `json:"schema"`
}

// OpenAPISchema describes a schema.
type OpenAPISchema struct {
	Type        string                   `json:"type,omitempty"`
	Format      string                   `json:"format,omitempty"`
	Description string                   `json:"description,omitempty"`
	Properties  map[string]OpenAPISchema `json:"properties,omitempty"`
	Items       *OpenAPISchema           `json:"items,omitempty"`
	Required    []string                 `json:"required,omitempty"`
	Default     any                      `json:"default,omitempty"`
	Ref         string                   `json:"$ref,omitempty"`
}

// OpenAPIComponents contains reusable components.
type OpenAPIComponents struct {
	Schemas map[string]OpenAPISchema `json:"schemas"`
}

// handleOpenAPI handles the GET /v1/openapi.json endpoint.
func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	spec := BuildOpenAPISpec()
	s.respondJSON(w, http.StatusOK, spec)
}

// BuildOpenAPISpec constructs the OpenAPI v3 specification.
// This is exported so it can be used to generate static documentation.
func BuildOpenAPISpec() OpenAPISpec {
	errorContent := map[string]OpenAPIMediaType{
		"application/json": {
			Schema: OpenAPISchema{Ref: "#/components/schemas/ErrorResponse"},
		},
	}

	return OpenAPISpec{
		OpenAPI: "3.0.3",
		Info: OpenAPIInfo{
			Title:       "Solaris Operator Assist API",
			Description: "REST API for turbine operator questions answered from site documentation and live telemetry",
			Version:     "1.0.0",
		},
		Servers: []OpenAPIServer{
			{
				URL:         "/v1",
				Description: "API v1",
			},
		},
		Paths: map[string]OpenAPIPath{
			"/health": {
				Get: &OpenAPIOperation{
					Summary:     "Health check",
					Description: "Check if the server is running and healthy",
					OperationID: "getHealth",
					Tags:        []string{"System"},
					Responses: map[string]OpenAPIResponse{
						"200": {
							Description: "Server is healthy",
							Content: map[string]OpenAPIMediaType{
								"application/json": {
									Schema: OpenAPISchema{Ref: "#/components/schemas/HealthResponse"},
								},
							},
						},
					},
				},
			},
			"/models": {
				Get: &OpenAPIOperation{
					Summary:     "List reasoning models",
					Description: "Get the registered reasoning models and which of them are the default and fallback",
					OperationID: "listModels",
					Tags:        []string{"Models"},
					Responses: map[string]OpenAPIResponse{
						"200": {
							Description: "List of models",
							Content: map[string]OpenAPIMediaType{
								"application/json": {
									Schema: OpenAPISchema{Ref: "#/components/schemas/ModelsResponse"},
								},
							},
						},
					},
				},
			},
			"/chat": {
				Post: &OpenAPIOperation{
					Summary:     "Ask a question",
					Description: "Run an operator question through the assist pipeline and return the answer with citations",
					OperationID: "chat",
					Tags:        []string{"Chat"},
					RequestBody: &OpenAPIRequestBody{
						Description: "Chat request",
						Required:    true,
						Content: map[string]OpenAPIMediaType{
							"application/json": {
								Schema: OpenAPISchema{Ref: "#/components/schemas/ChatRequest"},
							},
						},
					},
					Responses: map[string]OpenAPIResponse{
						"200": {
							Description: "Chat response",
							Content: map[string]OpenAPIMediaType{
								"application/json": {
									Schema: OpenAPISchema{Ref: "#/components/schemas/ChatResponse"},
								},
							},
						},
						"400": {
							Description: "Invalid request",
							Content:     errorContent,
						},
						"500": {
							Description: "Server error",
							Content:     errorContent,
						},
					},
				},
			},
			"/sessions/{id}": {
				Get: &OpenAPIOperation{
					Summary:     "Get session history",
					Description: "Return the stored conversation for a session",
					OperationID: "getSession",
					Tags:        []string{"Sessions"},
					Parameters: []OpenAPIParameter{
						{
							Name:        "id",
							In:          "path",
							Description: "Session identifier",
							Required:    true,
							Schema:      OpenAPISchema{Type: "string"},
						},
					},
					Responses: map[string]OpenAPIResponse{
						"200": {
							Description: "Session history",
							Content: map[string]OpenAPIMediaType{
								"application/json": {
									Schema: OpenAPISchema{Ref: "#/components/schemas/SessionResponse"},
								},
							},
						},
						"404": {
							Description: "Session not found",
							Content:     errorContent,
						},
					},
				},
				Delete: &OpenAPIOperation{
					Summary:     "Delete session",
					Description: "Remove the stored conversation for a session",
					OperationID: "deleteSession",
					Tags:        []string{"Sessions"},
					Parameters: []OpenAPIParameter{
						{
							Name:        "id",
							In:          "path",
							Description: "Session identifier",
							Required:    true,
							Schema:      OpenAPISchema{Type: "string"},
						},
					},
					Responses: map[string]OpenAPIResponse{
						"204": {
							Description: "Session deleted",
						},
					},
				},
			},
		},
		Components: OpenAPIComponents{
			Schemas: map[string]OpenAPISchema{
				"HealthResponse": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"status": {
							Type:        "string",
							Description: "Health status",
						},
					},
					Required: []string{"status"},
				},
				"ModelsResponse": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"models": {
							Type:        "array",
							Description: "Registered reasoning models",
							Items: &OpenAPISchema{
								Ref: "#/components/schemas/ModelInfo",
							},
						},
					},
					Required: []string{"models"},
				},
				"ModelInfo": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"key": {
							Type:        "string",
							Description: "Registry key",
						},
						"display_name": {
							Type:        "string",
							Description: "Human-readable model name",
						},
						"backend": {
							Type:        "string",
							Description: "Backend kind (bedrock or http)",
						},
						"default": {
							Type:        "boolean",
							Description: "Whether this is the primary model",
						},
						"fallback": {
							Type:        "boolean",
							Description: "Whether this is the fallback model",
						},
					},
					Required: []string{"key", "backend"},
				},
				"Message": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"role": {
							Type:        "string",
							Description: "Message role (user or assistant)",
						},
						"content": {
							Type:        "string",
							Description: "Message content",
						},
						"timestamp": {
							Type:        "string",
							Description: "Turn timestamp (RFC 3339)",
						},
					},
					Required: []string{"role", "content"},
				},
				"ChatRequest": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"query": {
							Type:        "string",
							Description: "The operator question to answer",
						},
						"session_id": {
							Type:        "string",
							Description: "Session to continue; omit to start a new one",
						},
						"messages": {
							Type:        "array",
							Description: "Inline conversation history; overrides the stored session",
							Items: &OpenAPISchema{
								Ref: "#/components/schemas/Message",
							},
						},
					},
					Required: []string{"query"},
				},
				"ChatResponse": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"session_id": {
							Type:        "string",
							Description: "Session identifier for follow-up questions",
						},
						"response": {
							Type:        "string",
							Description: "The generated answer",
						},
						"turbine_model": {
							Type:        "string",
							Description: "Canonical turbine model detected in the question",
						},
						"citations": {
							Type:        "array",
							Description: "Supporting source excerpts",
							Items: &OpenAPISchema{
								Ref: "#/components/schemas/Citation",
							},
						},
						"confidence_score": {
							Type:        "number",
							Format:      "double",
							Description: "Answer confidence in [0, 1]",
						},
						"data_fetch_status": {
							Type:        "string",
							Description: "Telemetry fetch outcome (disabled, ok, or error)",
						},
						"errors": {
							Type:        "array",
							Description: "Non-fatal failures recorded during processing",
							Items:       &OpenAPISchema{Type: "string"},
						},
						"messages": {
							Type:        "array",
							Description: "Conversation including the new turns, oldest first",
							Items: &OpenAPISchema{
								Ref: "#/components/schemas/Message",
							},
						},
					},
					Required: []string{"session_id", "response", "citations", "confidence_score", "messages"},
				},
				"Citation": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"source": {
							Type:        "string",
							Description: "Source document",
						},
						"page": {
							Type:        "integer",
							Description: "Page number, when known",
						},
						"section": {
							Type:        "string",
							Description: "Section heading, when known",
						},
						"excerpt": {
							Type:        "string",
							Description: "Supporting excerpt",
						},
						"relevance_score": {
							Type:        "number",
							Format:      "double",
							Description: "Normalized relevance in [0, 1]",
						},
					},
					Required: []string{"source", "excerpt", "relevance_score"},
				},
				"SessionResponse": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"session_id": {
							Type:        "string",
							Description: "Session identifier",
						},
						"messages": {
							Type:        "array",
							Description: "Stored conversation, oldest first",
							Items: &OpenAPISchema{
								Ref: "#/components/schemas/Message",
							},
						},
					},
					Required: []string{"session_id", "messages"},
				},
				"ErrorResponse": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"error": {
							Ref: "#/components/schemas/ErrorDetail",
						},
					},
					Required: []string{"error"},
				},
				"ErrorDetail": {
					Type: "object",
					Properties: map[string]OpenAPISchema{
						"code": {
							Type:        "string",
							Description: "Error code",
						},
						"message": {
							Type:        "string",
							Description: "Error message",
						},
					},
					Required: []string{"code", "message"},
				},
			},
		},
	}
}
