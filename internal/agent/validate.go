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

	"github.com/solaris-energy/operator-assist/internal/config"
)

// safeRefusalMessage replaces a response the guardrail blocked.
const safeRefusalMessage = "I can't share that response. Please rephrase " +
	"your question, or contact your site operations supervisor for guidance."

// lowConfidenceWarning is appended when confidence falls below the
// configured threshold.
const lowConfidenceWarning = "\n\nNote: this answer is based on limited " +
	"supporting documentation and may be incomplete. Verify against the " +
	"official maintenance manuals before taking action."

// validateStage scores the answer's confidence, runs the guardrail when
// configured, and annotates or replaces the response accordingly. A
// guardrail service failure fails open: the answer is delivered and the
// error recorded.
func (a *Agent) validateStage(ctx context.Context, st *State) Update {
	var u Update

	confidence := blendConfidence(a.cfg.Confidence, st.Citations, len(st.DataPoints) > 0)
	response := st.LLMResponse
	result := &GuardrailResult{Status: GuardrailSkipped}

	if a.guard != nil {
		verdict, err := a.guard.Evaluate(ctx, response, map[string]string{
			"confidence":    fmt.Sprintf("%.3f", confidence),
			"turbine_model": st.TurbineModel,
		})
		switch {
		case err != nil:
			a.logger.Warn("guardrail evaluation failed", "error", err)
			result = &GuardrailResult{Status: GuardrailError}
			u.Errors = append(u.Errors, fmt.Sprintf("guardrail: evaluation failed: %v", err))
		case !verdict.Compliant():
			result = &GuardrailResult{
				Status:     GuardrailBlocked,
				Compliance: verdict.Compliance,
				Details:    verdict.Details,
			}
			response = safeRefusalMessage
			u.Errors = append(u.Errors, fmt.Sprintf("guardrail: response blocked (%s)", verdict.Compliance))
		default:
			result = &GuardrailResult{
				Status:     GuardrailPassed,
				Compliance: verdict.Compliance,
			}
		}
	}

	if confidence < a.cfg.Confidence.MinThreshold {
		response += lowConfidenceWarning
		u.Errors = append(u.Errors, fmt.Sprintf(
			"validation: confidence %.3f below threshold %.3f",
			confidence, a.cfg.Confidence.MinThreshold))
	}

	u.LLMResponse = ptr(response)
	u.ConfidenceScore = ptr(confidence)
	u.GuardrailResult = result
	return u
}

// blendConfidence computes the answer confidence from citation relevance
// and telemetry availability. With no citations the score starts at the
// floor; otherwise it is the base plus the weighted mean relevance. The
// telemetry bonus applies in both cases before capping.
func blendConfidence(cc config.ConfidenceConfig, citations []Citation, hasTelemetry bool) float64 {
	var confidence float64
	if len(citations) == 0 {
		confidence = cc.Floor
	} else {
		sum := 0.0
		for _, c := range citations {
			sum += c.RelevanceScore
		}
		confidence = cc.Base + cc.RelevanceWeight*(sum/float64(len(citations)))
	}

	if hasTelemetry {
		confidence += cc.TelemetryBonus
	}
	if confidence > cc.Cap {
		confidence = cc.Cap
	}
	return round3(confidence)
}
