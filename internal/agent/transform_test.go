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
	"testing"
)

func TestTransformStageDetectsModel(t *testing.T) {
	a := newTestAgent(Options{})
	st := NewState("s1", "Why did the SMT60 trip on high vibration?", nil)

	st.Apply(a.transformStage(context.Background(), st))

	if st.TurbineModel != "SMT60" {
		t.Errorf("TurbineModel = %q, want SMT60", st.TurbineModel)
	}
	want := "Why did the SMT60 trip on high vibration? (turbine model: SMT60)"
	if st.TransformedQuery != want {
		t.Errorf("TransformedQuery = %q, want %q", st.TransformedQuery, want)
	}
	if st.QueryMetadata == nil {
		t.Fatal("QueryMetadata not set")
	}
	if st.QueryMetadata.DetectedModel != "SMT60" {
		t.Errorf("DetectedModel = %q, want SMT60", st.QueryMetadata.DetectedModel)
	}
	if st.QueryMetadata.Language != "en" {
		t.Errorf("Language = %q, want en", st.QueryMetadata.Language)
	}
	if st.QueryMetadata.Timestamp == "" {
		t.Error("Timestamp not set")
	}
	if len(st.Errors) != 0 {
		t.Errorf("unexpected errors: %v", st.Errors)
	}
}

func TestTransformStageNoModel(t *testing.T) {
	a := newTestAgent(Options{})
	st := NewState("s1", "what does alarm code 223 mean?", nil)

	st.Apply(a.transformStage(context.Background(), st))

	if st.TurbineModel != "" {
		t.Errorf("TurbineModel = %q, want empty", st.TurbineModel)
	}
	if st.TransformedQuery != st.Query {
		t.Errorf("TransformedQuery = %q, want unmodified query", st.TransformedQuery)
	}
}

func TestTransformStageRecentContext(t *testing.T) {
	a := newTestAgent(Options{})
	st := NewState("s1", "and the restart procedure?", []Message{
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "a1"},
		{Role: "user", Content: "q2"},
		{Role: "assistant", Content: "a2"},
		{Role: "user", Content: "q3"},
		{Role: "user", Content: "q4"},
	})

	st.Apply(a.transformStage(context.Background(), st))

	got := st.QueryMetadata.RecentContext
	want := []string{"q2", "q3", "q4"}
	if len(got) != len(want) {
		t.Fatalf("RecentContext = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RecentContext[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLanguageHint(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "high exhaust temperature after start", "en"},
		{"empty", "", "en"},
		{"mostly non-ascii", "タービンの起動手順は?", "unknown-non-ascii"},
		{"accented but mostly ascii", "the café's turbine exhaust reading", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := languageHint(tt.text); got != tt.want {
				t.Errorf("languageHint(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
