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
	"time"
)

// stage is one pipeline step. Stages return a partial update and never an
// error; failures are carried in Update.Errors.
type stage struct {
	name string
	run  func(context.Context, *State) Update
}

// Run executes the pipeline over the given state, then appends the new
// user and assistant turns to the conversation. It never fails: degraded
// stages leave their mark in State.Errors and the pipeline carries on.
func (a *Agent) Run(ctx context.Context, st *State) {
	stages := []stage{
		{"transform", a.transformStage},
		{"telemetry", a.telemetryStage},
		{"retrieve", a.retrieveStage},
		{"reason", a.reasonStage},
		{"validate", a.validateStage},
	}

	start := time.Now()
	for _, sg := range stages {
		stageStart := time.Now()
		u := sg.run(ctx, st)
		st.Apply(u)
		a.logger.Debug("stage complete",
			"stage", sg.name,
			"session_id", st.SessionID,
			"duration", time.Since(stageStart),
			"errors", len(u.Errors))
	}

	now := time.Now().UTC().Format(time.RFC3339)
	st.Messages = append(st.Messages,
		Message{Role: "user", Content: st.Query, Timestamp: now},
		Message{Role: "assistant", Content: st.LLMResponse, Timestamp: now},
	)

	a.logger.Info("pipeline complete",
		"session_id", st.SessionID,
		"turbine_model", st.TurbineModel,
		"documents", len(st.RetrievedDocuments),
		"confidence", st.ConfidenceScore,
		"duration", time.Since(start),
		"errors", len(st.Errors))
}
