//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

package guardrail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEvaluateCompliant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/guardrail/gr-123/version/2/apply" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body["source"] != "OUTPUT" {
			t.Errorf("source = %v", body["source"])
		}
		ctxAttrs := body["context"].(map[string]interface{})
		if ctxAttrs["turbine_model"] != "SMT60" {
			t.Errorf("context = %v", ctxAttrs)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"action": "NONE"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "gr-123", WithVersion("2"))
	verdict, err := c.Evaluate(context.Background(), "safe answer", map[string]string{
		"turbine_model": "SMT60",
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !verdict.Compliant() {
		t.Error("expected compliant verdict")
	}
	if verdict.Compliance != "compliant" {
		t.Errorf("compliance = %q", verdict.Compliance)
	}
}

func TestEvaluateIntervened(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"action": "GUARDRAIL_INTERVENED",
			"assessments": [{"topicPolicy": {"topics": [
				{"name": "restricted_procedures", "action": "BLOCKED"}
			]}}],
			"outputs": [{"text": "blocked by policy"}]
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "gr-123")
	verdict, err := c.Evaluate(context.Background(), "unsafe answer", nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if verdict.Compliant() {
		t.Error("expected non-compliant verdict")
	}
	if verdict.Compliance != "restricted_procedures" {
		t.Errorf("compliance = %q", verdict.Compliance)
	}
	if verdict.Details != "blocked by policy" {
		t.Errorf("details = %q", verdict.Details)
	}
}

func TestEvaluateIntervenedWithoutTopics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"action": "GUARDRAIL_INTERVENED"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "gr-123")
	verdict, err := c.Evaluate(context.Background(), "answer", nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if verdict.Compliance != "blocked" {
		t.Errorf("compliance = %q, want generic blocked code", verdict.Compliance)
	}
}

func TestEvaluateServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`boom`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "gr-123")
	if _, err := c.Evaluate(context.Background(), "answer", nil); err == nil {
		t.Fatal("expected error")
	}
}
