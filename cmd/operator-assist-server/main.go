//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/solaris-energy/operator-assist/internal/agent"
	"github.com/solaris-energy/operator-assist/internal/config"
	"github.com/solaris-energy/operator-assist/internal/guardrail"
	"github.com/solaris-energy/operator-assist/internal/llm/factory"
	"github.com/solaris-energy/operator-assist/internal/search"
	"github.com/solaris-energy/operator-assist/internal/server"
	"github.com/solaris-energy/operator-assist/internal/session"
	"github.com/solaris-energy/operator-assist/internal/telemetrygw"
)

// Version information - set via ldflags during build
var (
	version   = "1.0.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help message")
		showOpenAPI = flag.Bool("openapi", false, "Output OpenAPI specification and exit")
		configPath  = flag.String("config", "", "Path to configuration file")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Solaris Operator Assist Server - turbine documentation and telemetry assistant

Usage:
    operator-assist-server [options]

Options:
    -config string
        Path to configuration file. If not specified, searches:
        1. /etc/solaris/operator-assist.yaml
        2. operator-assist.yaml (in binary directory)

    -openapi
        Output OpenAPI v3 specification as JSON and exit

    -version
        Show version information and exit

    -help
        Show this help message and exit
`)
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Solaris Operator Assist Server\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Build Time: %s\n", buildTime)
		fmt.Printf("  Git Commit: %s\n", gitCommit)
		os.Exit(0)
	}

	if *showOpenAPI {
		spec := server.BuildOpenAPISpec()
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(spec); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode OpenAPI spec: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up logger at the configured level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		"models", len(cfg.Models.Entries),
		"telemetry", cfg.Telemetry.Enabled,
		"guardrail", cfg.Guardrail.Enabled,
		"session_backend", cfg.Session.Backend)

	// Load API keys for the configured backends
	keys, err := config.NewAPIKeyLoader(cfg.APIKeys).LoadRequiredKeys(cfg)
	if err != nil {
		return fmt.Errorf("failed to load API keys: %w", err)
	}

	// Embedding provider and reasoning model registry
	embedder, err := factory.NewEmbeddingProvider(cfg.Embedding, keys)
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}

	registry, err := factory.NewRegistry(cfg.Models, keys)
	if err != nil {
		return fmt.Errorf("failed to create model registry: %w", err)
	}

	// Document search index
	index := search.NewClient(cfg.Search.Endpoint,
		search.WithIndex(cfg.Search.Index),
		search.WithAPIKey(keys.Search),
		search.WithTimeout(cfg.Search.TimeoutSeconds),
	)

	// Optional collaborators
	var telemetry agent.TelemetryGateway
	if cfg.Telemetry.Enabled {
		telemetry = telemetrygw.NewClient(cfg.Telemetry.Endpoint,
			telemetrygw.WithTimeout(cfg.Telemetry.TimeoutSeconds))
	}

	var guard agent.GuardrailEvaluator
	if cfg.Guardrail.Enabled {
		guard = guardrail.NewClient(cfg.Guardrail.Endpoint, cfg.Guardrail.GuardrailID,
			guardrail.WithVersion(cfg.Guardrail.Version),
			guardrail.WithAPIKey(keys.Bedrock),
			guardrail.WithTimeout(cfg.Guardrail.TimeoutSeconds),
		)
	}

	// Session store
	ctx := context.Background()
	sessions, err := session.New(ctx, cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logger.Error("failed to close session store", "error", err)
		}
	}()

	// Assemble the pipeline
	pipeline := agent.New(agent.Options{
		Config:    cfg,
		Embedder:  embedder,
		Index:     index,
		Telemetry: telemetry,
		Registry:  registry,
		Guard:     guard,
		Logger:    logger,
	})

	// Create and start server
	srv := server.New(cfg, pipeline, sessions, registry, logger)

	// Handle graceful shutdown
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return err
	case sig := <-shutdownCh:
		logger.Info("received shutdown signal", "signal", sig)

		// Give 30 seconds for graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}

// logLevel maps the configured level name to a slog level.
func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
