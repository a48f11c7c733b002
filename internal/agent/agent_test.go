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
	"fmt"
	"io"
	"log/slog"

	"github.com/solaris-energy/operator-assist/internal/config"
	"github.com/solaris-energy/operator-assist/internal/guardrail"
	"github.com/solaris-energy/operator-assist/internal/llm"
	"github.com/solaris-energy/operator-assist/internal/search"
	"github.com/solaris-energy/operator-assist/internal/telemetrygw"
)

// mockEmbedder returns a fixed vector or error.
type mockEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int   { return len(m.vector) }
func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

// mockIndex serves canned search hits and neighbor documents.
type mockIndex struct {
	hits      []search.Hit
	searchErr error

	neighbors   map[string]search.Hit
	neighborErr error

	searchCalls int
	mgetIDs     [][]string
}

func (m *mockIndex) HybridSearch(_ context.Context, _ search.Request) ([]search.Hit, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.hits, nil
}

func (m *mockIndex) GetByIDs(_ context.Context, ids []string) ([]search.Hit, error) {
	m.mgetIDs = append(m.mgetIDs, ids)
	if m.neighborErr != nil {
		return nil, m.neighborErr
	}
	var out []search.Hit
	for _, id := range ids {
		if h, ok := m.neighbors[id]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

// mockTelemetry returns canned readings or an error.
type mockTelemetry struct {
	readings []telemetrygw.Reading
	err      error
	calls    int

	lastModel     string
	lastVariables []string
}

func (m *mockTelemetry) Fetch(
	_ context.Context,
	turbineModel string,
	variables []string,
	_ int,
) ([]telemetrygw.Reading, error) {
	m.calls++
	m.lastModel = turbineModel
	m.lastVariables = variables
	if m.err != nil {
		return nil, m.err
	}
	return m.readings, nil
}

// mockReasoner implements llm.ReasoningProvider with scripted behavior.
type mockReasoner struct {
	response string
	err      error
	calls    int
	lastReq  llm.ReasoningRequest
}

func (m *mockReasoner) Invoke(_ context.Context, req llm.ReasoningRequest) (string, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockReasoner) ModelName() string { return "mock-reasoner" }

// mockGuard returns a canned verdict or an error.
type mockGuard struct {
	verdict  *guardrail.Verdict
	err      error
	calls    int
	lastText string
}

func (m *mockGuard) Evaluate(
	_ context.Context,
	text string,
	_ map[string]string,
) (*guardrail.Verdict, error) {
	m.calls++
	m.lastText = text
	if m.err != nil {
		return nil, m.err
	}
	return m.verdict, nil
}

// testRegistry builds a registry from key/provider pairs. Every model is
// a managed backend unless the key starts with "ext-".
func testRegistry(defaultKey, fallbackKey string, providers map[string]*mockReasoner, order ...string) *llm.Registry {
	entries := make([]llm.Model, 0, len(order))
	for _, key := range order {
		kind := llm.BackendManaged
		if len(key) > 4 && key[:4] == "ext-" {
			kind = llm.BackendExternalHTTP
		}
		entries = append(entries, llm.Model{
			Key:         key,
			DisplayName: "Model " + key,
			Kind:        kind,
			Provider:    providers[key],
			MaxTokens:   512,
			Temperature: 0.5,
		})
	}
	return llm.NewRegistry(entries, defaultKey, fallbackKey)
}

// newTestAgent builds an Agent with default config and the given mocks.
// Nil mocks leave the corresponding stage disabled.
func newTestAgent(opts Options) *Agent {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Registry == nil {
		opts.Registry = llm.NewRegistry(nil, "", "")
	}
	return New(opts)
}

// intp is a test helper for optional page numbers.
func intp(v int) *int { return &v }

// errFor builds a distinguishable sentinel error.
func errFor(what string) error { return fmt.Errorf("%s unavailable", what) }
