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
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// ValidationError represents a single configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors and returns all validation
// errors found.
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateSearch()...)
	errs = append(errs, c.validateEmbedding()...)
	errs = append(errs, c.validateModels()...)
	errs = append(errs, c.validateTelemetry()...)
	errs = append(errs, c.validateGuardrail()...)
	errs = append(errs, c.validateConfidence()...)
	errs = append(errs, c.validateDetector()...)
	errs = append(errs, c.validateSession()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateServer validates server configuration.
func (c *Config) validateServer() ValidationErrors {
	var errs ValidationErrors

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Message: "must be between 1 and 65535",
		})
	}

	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			errs = append(errs, ValidationError{
				Field:   "server.tls.cert_file",
				Message: "required when TLS is enabled",
			})
		} else if _, err := os.Stat(expandPath(c.Server.TLS.CertFile)); err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.tls.cert_file",
				Message: fmt.Sprintf("file not found: %s", c.Server.TLS.CertFile),
			})
		}

		if c.Server.TLS.KeyFile == "" {
			errs = append(errs, ValidationError{
				Field:   "server.tls.key_file",
				Message: "required when TLS is enabled",
			})
		} else if _, err := os.Stat(expandPath(c.Server.TLS.KeyFile)); err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.tls.key_file",
				Message: fmt.Sprintf("file not found: %s", c.Server.TLS.KeyFile),
			})
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: "must be one of: debug, info, warn, error",
		})
	}

	return errs
}

// validateSearch validates the search index configuration.
func (c *Config) validateSearch() ValidationErrors {
	var errs ValidationErrors

	if c.Search.Endpoint == "" {
		errs = append(errs, ValidationError{
			Field:   "search.endpoint",
			Message: "search index endpoint is required",
		})
	}
	if c.Search.TopK < 1 {
		errs = append(errs, ValidationError{
			Field:   "search.top_k",
			Message: "must be at least 1",
		})
	}
	if c.Search.NeighborWindow < 0 {
		errs = append(errs, ValidationError{
			Field:   "search.neighbor_window",
			Message: "must not be negative",
		})
	}

	return errs
}

// validateEmbedding validates the embedding backend configuration.
func (c *Config) validateEmbedding() ValidationErrors {
	var errs ValidationErrors

	switch strings.ToLower(c.Embedding.Provider) {
	case "bedrock", "openai":
	default:
		errs = append(errs, ValidationError{
			Field:   "embedding.provider",
			Message: fmt.Sprintf("unknown provider: %s", c.Embedding.Provider),
		})
	}

	return errs
}

// validateModels validates the reasoning model registry.
func (c *Config) validateModels() ValidationErrors {
	var errs ValidationErrors

	seen := make(map[string]bool)
	for i, e := range c.Models.Entries {
		field := fmt.Sprintf("models.entries[%d]", i)

		if e.Key == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".key",
				Message: "key is required",
			})
			continue
		}
		if seen[e.Key] {
			errs = append(errs, ValidationError{
				Field:   field + ".key",
				Message: fmt.Sprintf("duplicate model key: %s", e.Key),
			})
		}
		seen[e.Key] = true

		switch strings.ToLower(e.Backend) {
		case "bedrock":
			if e.ModelID == "" {
				errs = append(errs, ValidationError{
					Field:   field + ".model_id",
					Message: "required for bedrock backend",
				})
			}
		case "http":
			if e.Endpoint == "" {
				errs = append(errs, ValidationError{
					Field:   field + ".endpoint",
					Message: "required for http backend",
				})
			}
		default:
			errs = append(errs, ValidationError{
				Field:   field + ".backend",
				Message: fmt.Sprintf("must be \"bedrock\" or \"http\", got %q", e.Backend),
			})
		}
	}

	if c.Models.Default != "" && !seen[c.Models.Default] {
		errs = append(errs, ValidationError{
			Field:   "models.default",
			Message: fmt.Sprintf("no entry with key %q", c.Models.Default),
		})
	}
	if c.Models.Fallback != "" && !seen[c.Models.Fallback] {
		errs = append(errs, ValidationError{
			Field:   "models.fallback",
			Message: fmt.Sprintf("no entry with key %q", c.Models.Fallback),
		})
	}

	return errs
}

// validateTelemetry validates the telemetry gateway configuration.
func (c *Config) validateTelemetry() ValidationErrors {
	var errs ValidationErrors

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		errs = append(errs, ValidationError{
			Field:   "telemetry.endpoint",
			Message: "required when telemetry is enabled",
		})
	}
	if c.Telemetry.LookbackMinutes < 0 {
		errs = append(errs, ValidationError{
			Field:   "telemetry.lookback_minutes",
			Message: "must not be negative",
		})
	}

	return errs
}

// validateGuardrail validates the guardrail configuration.
func (c *Config) validateGuardrail() ValidationErrors {
	var errs ValidationErrors

	if c.Guardrail.Enabled {
		if c.Guardrail.Endpoint == "" {
			errs = append(errs, ValidationError{
				Field:   "guardrail.endpoint",
				Message: "required when guardrail is enabled",
			})
		}
		if c.Guardrail.GuardrailID == "" {
			errs = append(errs, ValidationError{
				Field:   "guardrail.guardrail_id",
				Message: "required when guardrail is enabled",
			})
		}
	}

	return errs
}

// validateConfidence validates the confidence blending parameters.
func (c *Config) validateConfidence() ValidationErrors {
	var errs ValidationErrors

	inUnit := func(field string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "must be between 0 and 1",
			})
		}
	}

	inUnit("confidence.floor", c.Confidence.Floor)
	inUnit("confidence.base", c.Confidence.Base)
	inUnit("confidence.relevance_weight", c.Confidence.RelevanceWeight)
	inUnit("confidence.telemetry_bonus", c.Confidence.TelemetryBonus)
	inUnit("confidence.cap", c.Confidence.Cap)
	inUnit("confidence.min_threshold", c.Confidence.MinThreshold)

	return errs
}

// validateDetector validates the turbine alias table.
func (c *Config) validateDetector() ValidationErrors {
	var errs ValidationErrors

	for i, e := range c.Detector {
		field := fmt.Sprintf("detector[%d]", i)
		if e.Model == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".model",
				Message: "model is required",
			})
		}
		if len(e.Aliases) == 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".aliases",
				Message: "at least one alias is required",
			})
		}
	}

	return errs
}

// validateSession validates the session store configuration.
func (c *Config) validateSession() ValidationErrors {
	var errs ValidationErrors

	switch strings.ToLower(c.Session.Backend) {
	case "memory":
	case "redis":
		if c.Session.Redis.Address == "" {
			errs = append(errs, ValidationError{
				Field:   "session.redis.address",
				Message: "required for redis backend",
			})
		}
	case "postgres":
		if c.Session.Database.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "session.database.host",
				Message: "required for postgres backend",
			})
		}
		if c.Session.Database.Database == "" {
			errs = append(errs, ValidationError{
				Field:   "session.database.database",
				Message: "required for postgres backend",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "session.backend",
			Message: fmt.Sprintf("must be \"memory\", \"redis\" or \"postgres\", got %q", c.Session.Backend),
		})
	}

	if c.Session.TTLHours < 0 {
		errs = append(errs, ValidationError{
			Field:   "session.ttl_hours",
			Message: "must not be negative",
		})
	}

	return errs
}
