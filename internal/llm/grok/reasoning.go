//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

package grok

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/solaris-energy/operator-assist/internal/llm"
)

// ReasoningProvider implements the llm.ReasoningProvider interface.
type ReasoningProvider struct {
	client      *Client
	model       string
	maxTokens   int
	temperature float64
}

// NewReasoningProvider creates a new Grok reasoning provider.
func NewReasoningProvider(apiKey string, opts ...ReasoningOption) *ReasoningProvider {
	p := &ReasoningProvider{
		client:      NewClient(apiKey),
		model:       defaultModel,
		maxTokens:   2048,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReasoningOption configures the reasoning provider.
type ReasoningOption func(*ReasoningProvider)

// WithModel sets the model.
func WithModel(model string) ReasoningOption {
	return func(p *ReasoningProvider) {
		p.model = model
	}
}

// WithMaxTokens sets the default max tokens.
func WithMaxTokens(tokens int) ReasoningOption {
	return func(p *ReasoningProvider) {
		p.maxTokens = tokens
	}
}

// WithTemperature sets the default temperature.
func WithTemperature(temp float64) ReasoningOption {
	return func(p *ReasoningProvider) {
		p.temperature = temp
	}
}

// WithReasoningClient sets a custom client.
func WithReasoningClient(client *Client) ReasoningOption {
	return func(p *ReasoningProvider) {
		p.client = client
	}
}

// chatMessage is a message in the chat completions format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request format for the chat completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

// chatResponse is the response format from the chat completions API.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Invoke generates a response from the configured Grok model.
func (p *ReasoningProvider) Invoke(
	ctx context.Context,
	req llm.ReasoningRequest,
) (string, error) {
	maxTokens := p.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	temperature := p.temperature
	if req.Temperature >= 0 {
		temperature = req.Temperature
	}

	messages := make([]chatMessage, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.History {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserPrompt})

	chatReq := chatRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	resp, err := p.client.request(ctx, http.MethodPost, "/chat/completions", chatReq)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", parseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	// An empty choices array is a valid but unusable response; the caller
	// treats the empty string as a fallback trigger.
	if len(chatResp.Choices) == 0 {
		return "", nil
	}
	return chatResp.Choices[0].Message.Content, nil
}

// ModelName returns the model name.
func (p *ReasoningProvider) ModelName() string {
	return p.model
}

// Ensure ReasoningProvider implements the interface.
var _ llm.ReasoningProvider = (*ReasoningProvider)(nil)
