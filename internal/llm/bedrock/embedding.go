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
	"fmt"

	"github.com/solaris-energy/operator-assist/internal/llm"
)

// EmbeddingProvider implements the llm.EmbeddingProvider interface using
// Titan text embeddings.
type EmbeddingProvider struct {
	client     *Client
	model      string
	dimensions int
}

// NewEmbeddingProvider creates a new Bedrock embedding provider.
func NewEmbeddingProvider(apiKey string, opts ...EmbeddingOption) *EmbeddingProvider {
	p := &EmbeddingProvider{
		client:     NewClient(apiKey),
		model:      "amazon.titan-embed-text-v1",
		dimensions: 1536, // Default for titan-embed-text-v1
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EmbeddingOption configures the embedding provider.
type EmbeddingOption func(*EmbeddingProvider)

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) EmbeddingOption {
	return func(p *EmbeddingProvider) {
		p.model = model
	}
}

// WithDimensions sets the expected embedding dimensions.
func WithDimensions(dims int) EmbeddingOption {
	return func(p *EmbeddingProvider) {
		p.dimensions = dims
	}
}

// WithEmbeddingClient sets a custom client.
func WithEmbeddingClient(client *Client) EmbeddingOption {
	return func(p *EmbeddingProvider) {
		p.client = client
	}
}

// embeddingRequest is the Titan embedding invoke payload.
type embeddingRequest struct {
	InputText string `json:"inputText"`
}

// embeddingResponse is the Titan embedding invoke response.
type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed generates an embedding for a single text.
func (p *EmbeddingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	respBody, err := p.client.InvokeModel(ctx, p.model, embeddingRequest{InputText: text})
	if err != nil {
		return nil, err
	}

	var resp embeddingResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Embedding, nil
}

// EmbedBatch generates embeddings for multiple texts. Titan embeds one
// input per invocation, so the batch is issued sequentially.
func (p *EmbeddingProvider) EmbedBatch(
	ctx context.Context,
	texts []string,
) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := p.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the dimensionality of embeddings.
func (p *EmbeddingProvider) Dimensions() int {
	return p.dimensions
}

// ModelName returns the model name.
func (p *EmbeddingProvider) ModelName() string {
	return p.model
}

// Ensure EmbeddingProvider implements the interface.
var _ llm.EmbeddingProvider = (*EmbeddingProvider)(nil)
