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

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the default configuration file name.
	ConfigFileName = "operator-assist.yaml"

	// SystemConfigPath is the system-wide configuration path.
	SystemConfigPath = "/etc/solaris/" + ConfigFileName
)

// Load loads the configuration from the specified path, or searches
// default locations if path is empty.
//
// Search order:
//  1. Explicit path (if provided)
//  2. /etc/solaris/operator-assist.yaml
//  3. operator-assist.yaml (in the binary's directory)
func Load(path string) (*Config, error) {
	configPath, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}

	return loadFromFile(configPath)
}

// findConfigFile finds the configuration file using the search order.
func findConfigFile(explicitPath string) (string, error) {
	// If explicit path provided, use it
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	// Search order for config file
	searchPaths := []string{
		SystemConfigPath,
		getBinaryDirConfigPath(),
	}

	for _, p := range searchPaths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no configuration file found; searched: %v", searchPaths)
}

// getBinaryDirConfigPath returns the path to config file in the binary's
// directory.
func getBinaryDirConfigPath() string {
	executable, err := os.Executable()
	if err != nil {
		return ""
	}

	// Resolve symlinks to get the actual binary location
	executable, err = filepath.EvalSymlinks(executable)
	if err != nil {
		return ""
	}

	return filepath.Join(filepath.Dir(executable), ConfigFileName)
}

// loadFromFile loads and parses the configuration from a YAML file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults applies default values where not specified.
func applyDefaults(cfg *Config) {
	if cfg.Search.TimeoutSeconds == 0 {
		cfg.Search.TimeoutSeconds = 25
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 5
	}
	if cfg.Search.NeighborWindow == 0 {
		cfg.Search.NeighborWindow = 1
	}
	if cfg.Search.ExcerptBudget == 0 {
		cfg.Search.ExcerptBudget = 500
	}
	if cfg.Search.Index == "" {
		cfg.Search.Index = "turbine-documents"
	}

	if cfg.Telemetry.LookbackMinutes == 0 {
		cfg.Telemetry.LookbackMinutes = 60
	}
	if cfg.Telemetry.TimeoutSeconds == 0 {
		cfg.Telemetry.TimeoutSeconds = 10
	}

	if cfg.Guardrail.TimeoutSeconds == 0 {
		cfg.Guardrail.TimeoutSeconds = 10
	}
	if cfg.Guardrail.Version == "" {
		cfg.Guardrail.Version = "DRAFT"
	}

	for i := range cfg.Models.Entries {
		e := &cfg.Models.Entries[i]
		if e.MaxTokens == 0 {
			e.MaxTokens = 2048
		}
		if e.Temperature == 0 {
			e.Temperature = 0.7
		}
		if e.DisplayName == "" {
			e.DisplayName = e.Key
		}
	}

	if cfg.Session.Backend == "" {
		cfg.Session.Backend = "memory"
	}
	if cfg.Session.TTLHours == 0 {
		cfg.Session.TTLHours = 720
	}
	if cfg.Session.Database.Port == 0 {
		cfg.Session.Database.Port = 5432
	}
	if cfg.Session.Database.SSLMode == "" {
		cfg.Session.Database.SSLMode = "prefer"
	}
	if cfg.Session.Redis.Address == "" {
		cfg.Session.Redis.Address = "localhost:6379"
	}

	if len(cfg.Detector) == 0 {
		cfg.Detector = DefaultDetectorEntries()
	}
}
