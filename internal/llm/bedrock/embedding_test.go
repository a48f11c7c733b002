//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

package bedrock

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestEmbeddingProvider_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "amazon.titan-embed-text-v1") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.InputText != "hello world" {
			t.Errorf("inputText = %q", req.InputText)
		}

		resp := embeddingResponse{Embedding: []float32{0.1, 0.2, 0.3}}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	provider := NewEmbeddingProvider("test-key",
		WithEmbeddingClient(NewClient("test-key", WithBaseURL(server.URL))))

	embedding, err := provider.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(embedding) != 3 {
		t.Errorf("expected 3 dimensions, got %d", len(embedding))
	}
}

func TestEmbeddingProvider_EmbedEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embedding": []}`))
	}))
	defer server.Close()

	provider := NewEmbeddingProvider("test-key",
		WithEmbeddingClient(NewClient("test-key", WithBaseURL(server.URL))))

	if _, err := provider.Embed(context.Background(), "q"); err == nil {
		t.Fatal("expected error for empty embedding")
	}
}

func TestEmbeddingProvider_EmbedBatch(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		resp := embeddingResponse{Embedding: []float32{float32(calls)}}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	provider := NewEmbeddingProvider("test-key",
		WithEmbeddingClient(NewClient("test-key", WithBaseURL(server.URL))))

	embeddings, err := provider.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(embeddings))
	}
	// One invocation per input.
	if calls != 2 {
		t.Errorf("got %d invocations, want 2", calls)
	}
}

func TestEmbeddingProvider_EmbedBatch_Empty(t *testing.T) {
	provider := NewEmbeddingProvider("test-key")

	embeddings, err := provider.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if embeddings != nil {
		t.Error("expected nil for empty input")
	}
}

func TestEmbeddingProvider_Dimensions(t *testing.T) {
	provider := NewEmbeddingProvider("test-key")
	if provider.Dimensions() != 1536 {
		t.Errorf("expected 1536 dimensions, got %d", provider.Dimensions())
	}

	provider = NewEmbeddingProvider("test-key", WithDimensions(1024))
	if provider.Dimensions() != 1024 {
		t.Errorf("expected 1024 dimensions, got %d", provider.Dimensions())
	}
}
