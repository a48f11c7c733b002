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
	"strings"

	"github.com/solaris-energy/operator-assist/internal/llm"
)

// ReasoningProvider implements the llm.ReasoningProvider interface over
// the Bedrock runtime. The request and response payloads differ per model
// family (Claude, Nova, Titan); the family is derived from the model id.
type ReasoningProvider struct {
	client      *Client
	model       string
	maxTokens   int
	temperature float64
}

// NewReasoningProvider creates a new Bedrock reasoning provider.
func NewReasoningProvider(apiKey string, opts ...ReasoningOption) *ReasoningProvider {
	p := &ReasoningProvider{
		client:      NewClient(apiKey),
		model:       "amazon.nova-pro-v1:0",
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

// WithModel sets the model id.
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

// contentBlock is a single text block in Claude's message format.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// claudeMessage is a message in Claude's format.
type claudeMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// claudeRequest is the Claude-family invoke payload.
type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	System           string          `json:"system"`
	Messages         []claudeMessage `json:"messages"`
}

// claudeResponse is the Claude-family invoke response.
type claudeResponse struct {
	Content []contentBlock `json:"content"`
}

// novaText is a single text block in Nova's message format.
type novaText struct {
	Text string `json:"text"`
}

// novaMessage is a message in Nova's format.
type novaMessage struct {
	Role    string     `json:"role"`
	Content []novaText `json:"content"`
}

// novaRequest is the Nova-family invoke payload. The system prompt is a
// separate field, not part of the messages array.
type novaRequest struct {
	System          []novaText    `json:"system"`
	Messages        []novaMessage `json:"messages"`
	InferenceConfig struct {
		MaxTokens   int     `json:"maxTokens"`
		Temperature float64 `json:"temperature"`
	} `json:"inferenceConfig"`
}

// novaResponse is the Nova-family invoke response.
type novaResponse struct {
	Output struct {
		Message struct {
			Content []novaText `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

// titanRequest is the Titan text-generation invoke payload.
type titanRequest struct {
	InputText            string `json:"inputText"`
	TextGenerationConfig struct {
		MaxTokenCount int     `json:"maxTokenCount"`
		Temperature   float64 `json:"temperature"`
	} `json:"textGenerationConfig"`
}

// titanResponse is the Titan text-generation invoke response.
type titanResponse struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

// Invoke generates a response from the configured Bedrock model.
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

	model := strings.ToLower(p.model)
	switch {
	case strings.Contains(model, "nova"):
		return p.invokeNova(ctx, req, maxTokens, temperature)
	case strings.Contains(model, "titan"):
		return p.invokeTitan(ctx, req, maxTokens, temperature)
	default:
		// Claude payloads are also the fallback for unknown families.
		return p.invokeClaude(ctx, req, maxTokens, temperature)
	}
}

// invokeClaude invokes a Claude-family model.
func (p *ReasoningProvider) invokeClaude(
	ctx context.Context,
	req llm.ReasoningRequest,
	maxTokens int,
	temperature float64,
) (string, error) {
	messages := make([]claudeMessage, 0, len(req.History)+1)
	for _, m := range req.History {
		messages = append(messages, claudeMessage{
			Role:    m.Role,
			Content: []contentBlock{{Type: "text", Text: m.Content}},
		})
	}
	messages = append(messages, claudeMessage{
		Role:    "user",
		Content: []contentBlock{{Type: "text", Text: req.UserPrompt}},
	})

	body := claudeRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		System:           req.SystemPrompt,
		Messages:         messages,
	}

	respBody, err := p.client.InvokeModel(ctx, p.model, body)
	if err != nil {
		return "", err
	}

	var resp claudeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	return sb.String(), nil
}

// invokeNova invokes a Nova-family model.
func (p *ReasoningProvider) invokeNova(
	ctx context.Context,
	req llm.ReasoningRequest,
	maxTokens int,
	temperature float64,
) (string, error) {
	messages := make([]novaMessage, 0, len(req.History)+1)
	for _, m := range req.History {
		messages = append(messages, novaMessage{
			Role:    m.Role,
			Content: []novaText{{Text: m.Content}},
		})
	}
	messages = append(messages, novaMessage{
		Role:    "user",
		Content: []novaText{{Text: req.UserPrompt}},
	})

	body := novaRequest{
		System:   []novaText{{Text: req.SystemPrompt}},
		Messages: messages,
	}
	body.InferenceConfig.MaxTokens = maxTokens
	body.InferenceConfig.Temperature = temperature

	respBody, err := p.client.InvokeModel(ctx, p.model, body)
	if err != nil {
		return "", err
	}

	var resp novaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Output.Message.Content {
		sb.WriteString(c.Text)
	}
	return sb.String(), nil
}

// invokeTitan invokes a Titan text-generation model. Titan has no message
// history; system and user prompts are concatenated into a single input.
func (p *ReasoningProvider) invokeTitan(
	ctx context.Context,
	req llm.ReasoningRequest,
	maxTokens int,
	temperature float64,
) (string, error) {
	body := titanRequest{
		InputText: req.SystemPrompt + "\n\n" + req.UserPrompt,
	}
	body.TextGenerationConfig.MaxTokenCount = maxTokens
	body.TextGenerationConfig.Temperature = temperature

	respBody, err := p.client.InvokeModel(ctx, p.model, body)
	if err != nil {
		return "", err
	}

	var resp titanResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].OutputText, nil
}

// ModelName returns the model id.
func (p *ReasoningProvider) ModelName() string {
	return p.model
}

// Ensure ReasoningProvider implements the interface.
var _ llm.ReasoningProvider = (*ReasoningProvider)(nil)
