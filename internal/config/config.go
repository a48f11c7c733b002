//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

// Package config handles configuration loading and validation for the
// Solaris Operator Assist Server.
package config

// Config is the root configuration structure for the server.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	APIKeys    APIKeysConfig    `yaml:"api_keys"`
	Search     SearchConfig     `yaml:"search"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Models     ModelsConfig     `yaml:"models"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Guardrail  GuardrailConfig  `yaml:"guardrail"`
	Confidence ConfidenceConfig `yaml:"confidence"`
	Detector   []DetectorEntry  `yaml:"detector"`
	Session    SessionConfig    `yaml:"session"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	ListenAddress string     `yaml:"listen_address"`
	Port          int        `yaml:"port"`
	TLS           TLSConfig  `yaml:"tls"`
	CORS          CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) settings.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"` // Origins to allow, or ["*"] for all
}

// TLSConfig contains TLS/HTTPS settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// APIKeysConfig contains paths to files containing API keys for external
// services. If not specified, keys are loaded from environment variables or
// default file locations (~/.bedrock-api-key, ~/.grok-api-key,
// ~/.openai-api-key, ~/.search-api-key).
type APIKeysConfig struct {
	Bedrock string `yaml:"bedrock"` // Path to file containing Bedrock API key
	Grok    string `yaml:"grok"`    // Path to file containing Grok (x.ai) API key
	OpenAI  string `yaml:"openai"`  // Path to file containing OpenAI API key
	Search  string `yaml:"search"`  // Path to file containing search index API key
}

// SearchConfig contains settings for the document search index.
type SearchConfig struct {
	Endpoint       string `yaml:"endpoint"`        // Index endpoint, e.g. https://search.internal:9200
	Index          string `yaml:"index"`           // Index name holding document chunks
	TimeoutSeconds int    `yaml:"timeout_seconds"` // Per-request timeout
	TopK           int    `yaml:"top_k"`           // Number of hits per query
	NeighborWindow int    `yaml:"neighbor_window"` // Adjacent chunks fetched around each hit
	ExcerptBudget  int    `yaml:"excerpt_budget"`  // Citation excerpt length in characters
}

// EmbeddingConfig contains settings for the embedding backend.
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "bedrock" or "openai"
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"` // Override base URL (optional)
}

// ModelsConfig defines the reasoning model registry.
type ModelsConfig struct {
	Default  string       `yaml:"default"`  // Key of the primary model
	Fallback string       `yaml:"fallback"` // Key of the fallback model
	Entries  []ModelEntry `yaml:"entries"`
}

// ModelEntry describes a single reasoning backend.
//
// Backend "bedrock" entries invoke the managed LLM runtime and require
// model_id. Backend "http" entries call an external reasoning API and
// require endpoint (the API key comes from the api_keys section).
type ModelEntry struct {
	Key         string  `yaml:"key"`
	DisplayName string  `yaml:"display_name"`
	Backend     string  `yaml:"backend"` // "bedrock" or "http"
	ModelID     string  `yaml:"model_id"`
	Endpoint    string  `yaml:"endpoint"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// TelemetryConfig contains settings for the telemetry gateway.
type TelemetryConfig struct {
	Enabled         bool     `yaml:"enabled"`
	Endpoint        string   `yaml:"endpoint"`
	LookbackMinutes int      `yaml:"lookback_minutes"`
	Variables       []string `yaml:"variables"`
	TimeoutSeconds  int      `yaml:"timeout_seconds"`
}

// GuardrailConfig contains settings for the content-safety guardrail.
type GuardrailConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Endpoint       string `yaml:"endpoint"`
	GuardrailID    string `yaml:"guardrail_id"`
	Version        string `yaml:"version"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ConfidenceConfig contains the confidence blending parameters.
//
// The constants are heuristic tuning values; they live in configuration
// so operators can adjust them without a rebuild.
type ConfidenceConfig struct {
	Floor           float64 `yaml:"floor"`            // Confidence with no citations
	Base            float64 `yaml:"base"`             // Base confidence with citations
	RelevanceWeight float64 `yaml:"relevance_weight"` // Weight of mean citation relevance
	TelemetryBonus  float64 `yaml:"telemetry_bonus"`  // Bonus when telemetry is present
	Cap             float64 `yaml:"cap"`              // Upper bound on confidence
	MinThreshold    float64 `yaml:"min_threshold"`    // Below this, warn in the response
}

// DetectorEntry maps free-text aliases to a canonical turbine model.
// Entries are scanned in declaration order; the first alias match wins.
type DetectorEntry struct {
	Model   string   `yaml:"model"`
	Aliases []string `yaml:"aliases"`
}

// SessionConfig contains settings for conversation history persistence.
type SessionConfig struct {
	Backend  string         `yaml:"backend"` // "memory", "redis", or "postgres"
	TTLHours int            `yaml:"ttl_hours"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`

	// Certificate-based authentication
	SSLCert   string `yaml:"ssl_cert"`
	SSLKey    string `yaml:"ssl_key"`
	SSLRootCA string `yaml:"ssl_root_ca"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress: "0.0.0.0",
			Port:          8080,
			TLS: TLSConfig{
				Enabled: false,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Search: SearchConfig{
			Index:          "turbine-documents",
			TimeoutSeconds: 25,
			TopK:           5,
			NeighborWindow: 1,
			ExcerptBudget:  500,
		},
		Embedding: EmbeddingConfig{
			Provider: "bedrock",
			Model:    "amazon.titan-embed-text-v1",
		},
		Telemetry: TelemetryConfig{
			LookbackMinutes: 60,
			TimeoutSeconds:  10,
		},
		Guardrail: GuardrailConfig{
			TimeoutSeconds: 10,
		},
		Confidence: ConfidenceConfig{
			Floor:           0.40,
			Base:            0.55,
			RelevanceWeight: 0.35,
			TelemetryBonus:  0.05,
			Cap:             0.98,
			MinThreshold:    0.75,
		},
		Detector: DefaultDetectorEntries(),
		Session: SessionConfig{
			Backend:  "memory",
			TTLHours: 720, // 30 days
		},
	}
}

// DefaultDetectorEntries returns the built-in turbine alias table.
func DefaultDetectorEntries() []DetectorEntry {
	return []DetectorEntry{
		{Model: "SMT60", Aliases: []string{"smt60", "smt 60", "smt-60", "taurus 60", "taurus-60"}},
		{Model: "SMT130", Aliases: []string{"smt130", "smt 130", "smt-130", "titan 130", "titan-130"}},
		{Model: "TM2500", Aliases: []string{"tm2500", "tm 2500", "tm-2500"}},
	}
}
