//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

// Package llm provides interfaces and shared types for reasoning and
// embedding backends.
package llm

import "context"

// EmbeddingProvider generates vector embeddings from text.
type EmbeddingProvider interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// Returns embeddings in the same order as input texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the dimensionality of embeddings produced.
	Dimensions() int

	// ModelName returns the name of the model being used.
	ModelName() string
}

// ReasoningProvider generates an answer from an assembled prompt.
type ReasoningProvider interface {
	// Invoke generates a response for the given request. An empty string
	// with a nil error means the backend produced no usable output; the
	// caller decides whether to fall back.
	Invoke(ctx context.Context, req ReasoningRequest) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// ReasoningRequest represents a request to a reasoning backend.
type ReasoningRequest struct {
	// SystemPrompt is the system-level instruction for the model.
	SystemPrompt string

	// UserPrompt is the current user message, including any retrieved
	// documentation context.
	UserPrompt string

	// History is the prior conversation, oldest first. Roles must already
	// be normalized to "user" or "assistant".
	History []Message

	// MaxTokens is the maximum number of tokens to generate.
	// If 0, uses the provider's default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0+ = creative).
	// If negative, uses the provider's default.
	Temperature float64
}

// Message represents a message in the conversation.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}
