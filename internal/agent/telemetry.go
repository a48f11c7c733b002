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
	"time"
)

// telemetryStage fetches recent readings for the detected turbine model.
// A gateway failure degrades to an empty reading set; the pipeline
// continues on documentation alone.
func (a *Agent) telemetryStage(ctx context.Context, st *State) Update {
	var u Update

	tcfg := a.cfg.Telemetry
	if !tcfg.Enabled || a.telemetry == nil {
		u.DataFetchStatus = ptr(FetchDisabled)
		return u
	}

	fetchCtx := ctx
	if tcfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, time.Duration(tcfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	readings, err := a.telemetry.Fetch(fetchCtx, st.TurbineModel, tcfg.Variables, tcfg.LookbackMinutes)
	if err != nil {
		a.logger.Warn("telemetry fetch failed", "turbine_model", st.TurbineModel, "error", err)
		u.DataFetchStatus = ptr(FetchError)
		u.Errors = append(u.Errors, fmt.Sprintf("telemetry: fetch failed: %v", err))
		return u
	}

	points := make([]DataPoint, 0, len(readings))
	for _, r := range readings {
		points = append(points, DataPoint{
			Variable:  r.Variable,
			Value:     r.Value,
			Unit:      r.Unit,
			Timestamp: r.Timestamp,
		})
	}
	u.DataPoints = points
	u.DataFetchStatus = ptr(FetchOK)
	return u
}
