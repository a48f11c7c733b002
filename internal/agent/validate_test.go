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
	"strings"
	"testing"

	"github.com/solaris-energy/operator-assist/internal/config"
	"github.com/solaris-energy/operator-assist/internal/guardrail"
)

func TestBlendConfidence(t *testing.T) {
	cc := config.DefaultConfig().Confidence

	tests := []struct {
		name      string
		citations []Citation
		telemetry bool
		want      float64
	}{
		{"no citations", nil, false, 0.40},
		{"no citations with telemetry", nil, true, 0.45},
		{"perfect relevance", []Citation{{RelevanceScore: 1.0}}, false, 0.90},
		{"perfect relevance with telemetry", []Citation{{RelevanceScore: 1.0}}, true, 0.95},
		{"mean relevance", []Citation{{RelevanceScore: 1.0}, {RelevanceScore: 0.5}}, false, 0.813},
		{"bonus on top of full relevance", []Citation{{RelevanceScore: 1.0}, {RelevanceScore: 1.0}, {RelevanceScore: 1.0}}, true, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blendConfidence(cc, tt.citations, tt.telemetry); got != tt.want {
				t.Errorf("blendConfidence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlendConfidenceCap(t *testing.T) {
	cc := config.ConfidenceConfig{
		Floor: 0.4, Base: 0.9, RelevanceWeight: 0.35,
		TelemetryBonus: 0.05, Cap: 0.98, MinThreshold: 0.75,
	}
	got := blendConfidence(cc, []Citation{{RelevanceScore: 1.0}}, true)
	if got != 0.98 {
		t.Errorf("blendConfidence = %v, want capped at 0.98", got)
	}
}

func TestValidateStageGuardrailSkipped(t *testing.T) {
	a := newTestAgent(Options{})
	st := NewState("s1", "q", nil)
	st.LLMResponse = "answer"
	st.Citations = []Citation{{RelevanceScore: 1.0}}
	st.Apply(a.validateStage(context.Background(), st))

	if st.GuardrailResult == nil || st.GuardrailResult.Status != GuardrailSkipped {
		t.Errorf("GuardrailResult = %+v, want skipped", st.GuardrailResult)
	}
	if st.LLMResponse != "answer" {
		t.Errorf("response modified: %q", st.LLMResponse)
	}
	if st.ConfidenceScore != 0.90 {
		t.Errorf("ConfidenceScore = %v, want 0.90", st.ConfidenceScore)
	}
}

func TestValidateStageGuardrailPassed(t *testing.T) {
	guard := &mockGuard{verdict: &guardrail.Verdict{
		Action: guardrail.ActionNone, Compliance: "compliant",
	}}
	a := newTestAgent(Options{Guard: guard})
	st := NewState("s1", "q", nil)
	st.LLMResponse = "answer"
	st.Citations = []Citation{{RelevanceScore: 1.0}}
	st.Apply(a.validateStage(context.Background(), st))

	if st.GuardrailResult.Status != GuardrailPassed {
		t.Errorf("status = %q, want passed", st.GuardrailResult.Status)
	}
	if guard.lastText != "answer" {
		t.Errorf("guardrail evaluated %q, want the generated answer", guard.lastText)
	}
	if st.LLMResponse != "answer" {
		t.Errorf("response modified: %q", st.LLMResponse)
	}
}

func TestValidateStageGuardrailBlocked(t *testing.T) {
	guard := &mockGuard{verdict: &guardrail.Verdict{
		Action:     guardrail.ActionIntervened,
		Compliance: "restricted_procedures",
		Details:    "topic policy",
	}}
	a := newTestAgent(Options{Guard: guard})
	st := NewState("s1", "q", nil)
	st.LLMResponse = "dangerous answer"
	st.Citations = []Citation{{RelevanceScore: 1.0}}
	st.Apply(a.validateStage(context.Background(), st))

	if st.GuardrailResult.Status != GuardrailBlocked {
		t.Fatalf("status = %q, want blocked", st.GuardrailResult.Status)
	}
	if st.GuardrailResult.Compliance != "restricted_procedures" {
		t.Errorf("compliance = %q", st.GuardrailResult.Compliance)
	}
	if !strings.HasPrefix(st.LLMResponse, "I can't share that response.") {
		t.Errorf("blocked response not replaced: %q", st.LLMResponse)
	}
	if strings.Contains(st.LLMResponse, "dangerous") {
		t.Error("original answer leaked through the refusal")
	}
	if len(st.Errors) != 1 {
		t.Errorf("Errors = %v, want the block recorded", st.Errors)
	}
}

func TestValidateStageGuardrailErrorFailsOpen(t *testing.T) {
	guard := &mockGuard{err: errFor("guardrail")}
	a := newTestAgent(Options{Guard: guard})
	st := NewState("s1", "q", nil)
	st.LLMResponse = "answer"
	st.Citations = []Citation{{RelevanceScore: 1.0}}
	st.Apply(a.validateStage(context.Background(), st))

	if st.GuardrailResult.Status != GuardrailError {
		t.Errorf("status = %q, want error", st.GuardrailResult.Status)
	}
	if !strings.HasPrefix(st.LLMResponse, "answer") {
		t.Errorf("response should be delivered on guardrail failure: %q", st.LLMResponse)
	}
	if len(st.Errors) != 1 {
		t.Errorf("Errors = %v, want the failure recorded", st.Errors)
	}
}

func TestValidateStageLowConfidenceWarning(t *testing.T) {
	a := newTestAgent(Options{})
	st := NewState("s1", "q", nil)
	st.LLMResponse = "answer"
	// No citations: confidence 0.40, below the 0.75 threshold.
	st.Apply(a.validateStage(context.Background(), st))

	if !strings.HasSuffix(st.LLMResponse, lowConfidenceWarning) {
		t.Errorf("low-confidence warning missing: %q", st.LLMResponse)
	}
	if st.ConfidenceScore != 0.40 {
		t.Errorf("ConfidenceScore = %v, want 0.40", st.ConfidenceScore)
	}
	found := false
	for _, e := range st.Errors {
		if strings.Contains(e, "below threshold") {
			found = true
		}
	}
	if !found {
		t.Errorf("Errors = %v, want a below-threshold entry", st.Errors)
	}
}

func TestValidateStageBlockedAndLowConfidence(t *testing.T) {
	guard := &mockGuard{verdict: &guardrail.Verdict{Action: guardrail.ActionIntervened, Compliance: "blocked"}}
	a := newTestAgent(Options{Guard: guard})
	st := NewState("s1", "q", nil)
	st.LLMResponse = "answer"
	st.Apply(a.validateStage(context.Background(), st))

	if !strings.HasPrefix(st.LLMResponse, "I can't share that response.") {
		t.Errorf("refusal missing: %q", st.LLMResponse)
	}
	if !strings.HasSuffix(st.LLMResponse, lowConfidenceWarning) {
		t.Errorf("warning should append to the refusal: %q", st.LLMResponse)
	}
}
