//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

// Package factory provides functions to create LLM providers and the
// reasoning model registry from configuration.
package factory

import (
	"fmt"
	"strings"

	"github.com/solaris-energy/operator-assist/internal/config"
	"github.com/solaris-energy/operator-assist/internal/llm"
	"github.com/solaris-energy/operator-assist/internal/llm/bedrock"
	"github.com/solaris-energy/operator-assist/internal/llm/grok"
	"github.com/solaris-energy/operator-assist/internal/llm/openai"
)

// Provider constants for matching configuration values.
const (
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"
	BackendHTTP     = "http"
)

// NewEmbeddingProvider creates an embedding provider based on configuration.
func NewEmbeddingProvider(
	cfg config.EmbeddingConfig,
	apiKeys *config.LoadedKeys,
) (llm.EmbeddingProvider, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case ProviderBedrock:
		if apiKeys.Bedrock == "" {
			return nil, fmt.Errorf("Bedrock API key not configured")
		}
		clientOpts := []bedrock.ClientOption{}
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, bedrock.WithBaseURL(cfg.Endpoint))
		}
		opts := []bedrock.EmbeddingOption{
			bedrock.WithEmbeddingClient(bedrock.NewClient(apiKeys.Bedrock, clientOpts...)),
		}
		if cfg.Model != "" {
			opts = append(opts, bedrock.WithEmbeddingModel(cfg.Model))
		}
		return bedrock.NewEmbeddingProvider(apiKeys.Bedrock, opts...), nil

	case ProviderOpenAI:
		if apiKeys.OpenAI == "" {
			return nil, fmt.Errorf("OpenAI API key not configured")
		}
		opts := []openai.EmbeddingOption{}
		if cfg.Endpoint != "" {
			opts = append(opts, openai.WithEmbeddingClient(
				openai.NewClient(apiKeys.OpenAI, openai.WithBaseURL(cfg.Endpoint))))
		}
		if cfg.Model != "" {
			opts = append(opts, openai.WithEmbeddingModel(cfg.Model))
		}
		return openai.NewEmbeddingProvider(apiKeys.OpenAI, opts...), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

// NewRegistry builds the reasoning model registry from configuration.
func NewRegistry(
	cfg config.ModelsConfig,
	apiKeys *config.LoadedKeys,
) (*llm.Registry, error) {
	entries := make([]llm.Model, 0, len(cfg.Entries))

	for _, e := range cfg.Entries {
		switch strings.ToLower(e.Backend) {
		case ProviderBedrock:
			if apiKeys.Bedrock == "" {
				return nil, fmt.Errorf("model %q: Bedrock API key not configured", e.Key)
			}
			opts := []bedrock.ReasoningOption{
				bedrock.WithModel(e.ModelID),
				bedrock.WithMaxTokens(e.MaxTokens),
				bedrock.WithTemperature(e.Temperature),
			}
			if e.Endpoint != "" {
				opts = append(opts, bedrock.WithReasoningClient(
					bedrock.NewClient(apiKeys.Bedrock, bedrock.WithBaseURL(e.Endpoint))))
			}
			entries = append(entries, llm.Model{
				Key:         e.Key,
				DisplayName: e.DisplayName,
				Kind:        llm.BackendManaged,
				Provider:    bedrock.NewReasoningProvider(apiKeys.Bedrock, opts...),
				MaxTokens:   e.MaxTokens,
				Temperature: e.Temperature,
			})

		case BackendHTTP:
			if apiKeys.Grok == "" {
				return nil, fmt.Errorf("model %q: Grok API key not configured", e.Key)
			}
			opts := []grok.ReasoningOption{
				grok.WithMaxTokens(e.MaxTokens),
				grok.WithTemperature(e.Temperature),
				grok.WithReasoningClient(
					grok.NewClient(apiKeys.Grok, grok.WithBaseURL(e.Endpoint))),
			}
			if e.ModelID != "" {
				opts = append(opts, grok.WithModel(e.ModelID))
			}
			entries = append(entries, llm.Model{
				Key:         e.Key,
				DisplayName: e.DisplayName,
				Kind:        llm.BackendExternalHTTP,
				Provider:    grok.NewReasoningProvider(apiKeys.Grok, opts...),
				MaxTokens:   e.MaxTokens,
				Temperature: e.Temperature,
			})

		default:
			return nil, fmt.Errorf("model %q: unknown backend: %s", e.Key, e.Backend)
		}
	}

	return llm.NewRegistry(entries, cfg.Default, cfg.Fallback), nil
}
