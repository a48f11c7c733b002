//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

package agent

import (
	"context"
	"log/slog"

	"github.com/solaris-energy/operator-assist/internal/config"
	"github.com/solaris-energy/operator-assist/internal/guardrail"
	"github.com/solaris-energy/operator-assist/internal/llm"
	"github.com/solaris-energy/operator-assist/internal/search"
	"github.com/solaris-energy/operator-assist/internal/telemetrygw"
)

// SearchIndex is the document index surface the retrieval stage needs.
type SearchIndex interface {
	HybridSearch(ctx context.Context, req search.Request) ([]search.Hit, error)
	GetByIDs(ctx context.Context, ids []string) ([]search.Hit, error)
}

// TelemetryGateway fetches recent turbine readings.
type TelemetryGateway interface {
	Fetch(ctx context.Context, turbineModel string, variables []string, lookbackMinutes int) ([]telemetrygw.Reading, error)
}

// GuardrailEvaluator checks generated text against content-safety policy.
type GuardrailEvaluator interface {
	Evaluate(ctx context.Context, text string, attributes map[string]string) (*guardrail.Verdict, error)
}

// Agent runs the operator-assist pipeline. Safe for concurrent use; all
// per-request data lives in the State.
type Agent struct {
	cfg       *config.Config
	detector  *Detector
	embedder  llm.EmbeddingProvider
	index     SearchIndex
	telemetry TelemetryGateway
	registry  *llm.Registry
	guard     GuardrailEvaluator
	logger    *slog.Logger
}

// Options configures an Agent. Telemetry and Guard may be nil; the
// corresponding stages then report "disabled" / "skipped".
type Options struct {
	Config    *config.Config
	Embedder  llm.EmbeddingProvider
	Index     SearchIndex
	Telemetry TelemetryGateway
	Registry  *llm.Registry
	Guard     GuardrailEvaluator
	Logger    *slog.Logger
}

// New creates an Agent.
func New(opts Options) *Agent {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		cfg:       opts.Config,
		detector:  NewDetector(opts.Config.Detector),
		embedder:  opts.Embedder,
		index:     opts.Index,
		telemetry: opts.Telemetry,
		registry:  opts.Registry,
		guard:     opts.Guard,
		logger:    logger,
	}
}
