//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// errAPIKeyNotFound marks the absence of a key at every configured
// location, as opposed to a key that exists but cannot be read.
var errAPIKeyNotFound = errors.New("api key not found")

// Environment variable names for API keys.
const (
	EnvBedrockAPIKey = "AWS_BEARER_TOKEN_BEDROCK"
	EnvGrokAPIKey    = "GROK_API_KEY"
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvSearchAPIKey  = "SEARCH_API_KEY"
)

// Default API key file paths (relative to home directory).
const (
	DefaultBedrockKeyFile = ".bedrock-api-key"
	DefaultGrokKeyFile    = ".grok-api-key"
	DefaultOpenAIKeyFile  = ".openai-api-key"
	DefaultSearchKeyFile  = ".search-api-key"
)

// LoadedKeys holds all loaded API keys.
type LoadedKeys struct {
	Bedrock string
	Grok    string
	OpenAI  string
	Search  string
}

// APIKeyLoader handles loading API keys from configured paths, environment
// variables, or default file locations.
type APIKeyLoader struct {
	config APIKeysConfig
}

// NewAPIKeyLoader creates a new API key loader with the given configuration.
func NewAPIKeyLoader(cfg APIKeysConfig) *APIKeyLoader {
	return &APIKeyLoader{config: cfg}
}

// LoadBedrockKey loads the Bedrock API key.
func (l *APIKeyLoader) LoadBedrockKey() (string, error) {
	return l.loadKey(
		l.config.Bedrock,
		EnvBedrockAPIKey,
		DefaultBedrockKeyFile,
		"Bedrock",
	)
}

// LoadGrokKey loads the Grok (x.ai) API key.
func (l *APIKeyLoader) LoadGrokKey() (string, error) {
	return l.loadKey(
		l.config.Grok,
		EnvGrokAPIKey,
		DefaultGrokKeyFile,
		"Grok",
	)
}

// LoadOpenAIKey loads the OpenAI API key.
func (l *APIKeyLoader) LoadOpenAIKey() (string, error) {
	return l.loadKey(
		l.config.OpenAI,
		EnvOpenAIAPIKey,
		DefaultOpenAIKeyFile,
		"OpenAI",
	)
}

// LoadSearchKey loads the search index API key. Unlike the model provider
// keys, a missing search key is not an error: the index may allow
// unauthenticated access inside the network boundary. A key file that
// exists but cannot be read still fails.
func (l *APIKeyLoader) LoadSearchKey() (string, error) {
	key, err := l.loadKey(
		l.config.Search,
		EnvSearchAPIKey,
		DefaultSearchKeyFile,
		"Search",
	)
	if errors.Is(err, errAPIKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

// LoadRequiredKeys loads the API keys required by the given configuration.
// A key is required when at least one configured component uses its backend.
func (l *APIKeyLoader) LoadRequiredKeys(cfg *Config) (*LoadedKeys, error) {
	keys := &LoadedKeys{}
	needed := make(map[string]bool)

	needed[strings.ToLower(cfg.Embedding.Provider)] = true
	for _, e := range cfg.Models.Entries {
		needed[strings.ToLower(e.Backend)] = true
	}
	if cfg.Guardrail.Enabled {
		needed["bedrock"] = true
	}

	if needed["bedrock"] {
		key, err := l.LoadBedrockKey()
		if err != nil {
			return nil, err
		}
		keys.Bedrock = key
	}

	if needed["http"] {
		key, err := l.LoadGrokKey()
		if err != nil {
			return nil, err
		}
		keys.Grok = key
	}

	if needed["openai"] {
		key, err := l.LoadOpenAIKey()
		if err != nil {
			return nil, err
		}
		keys.OpenAI = key
	}

	key, err := l.LoadSearchKey()
	if err != nil {
		return nil, err
	}
	keys.Search = key

	return keys, nil
}

// loadKey loads an API key with the following priority:
// 1. Configured file path (if specified in config)
// 2. Environment variable
// 3. Default file location (~/.provider-api-key)
func (l *APIKeyLoader) loadKey(
	configPath, envVar, defaultFile, providerName string,
) (string, error) {
	// Priority 1: Configured file path
	if configPath != "" {
		path := expandKeyPath(configPath)
		return readKeyFile(path, providerName)
	}

	// Priority 2: Environment variable
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}

	// Priority 3: Default file location
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	path := filepath.Join(homeDir, defaultFile)

	// Check if default file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf(
			"%s API key not found: set %s environment variable or create %s: %w",
			providerName, envVar, path, errAPIKeyNotFound)
	}

	return readKeyFile(path, providerName)
}

// readKeyFile reads an API key from a file.
func readKeyFile(path, providerName string) (string, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%s API key file not found: %s: %w",
			providerName, path, errAPIKeyNotFound)
	}

	// Read the key
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s API key: %w", providerName, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%s API key file is empty: %s", providerName, path)
	}

	return key, nil
}

// expandKeyPath expands ~ to the user's home directory.
func expandKeyPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
