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
	"os"
	"strings"
	"time"

	"github.com/solaris-energy/operator-assist/internal/llm"
)

// envModelKey overrides the primary reasoning model at the process level.
const envModelKey = "ASSIST_LLM_MODEL"

// baselineModelKey is the last-resort model key when nothing else resolves.
const baselineModelKey = "nova"

// historyLimit is the number of prior turns included in the prompt.
const historyLimit = 5

// systemPrompt is the fixed instruction for every reasoning backend.
const systemPrompt = "You are an expert assistant for gas turbine operations " +
	"and troubleshooting. Use the provided documentation context to answer " +
	"questions accurately. Always cite your sources. If the context doesn't " +
	"contain relevant information, say so clearly."

// reasoningFailureMessage is returned when every backend fails.
const reasoningFailureMessage = "I encountered an error processing your request."

// reasonStage invokes the primary reasoning model and, if it errors or
// returns an empty answer, invokes the fallback model exactly once. When
// both fail the response is a fixed apology and the failure is recorded.
func (a *Agent) reasonStage(ctx context.Context, st *State) Update {
	var u Update

	primary, ok := a.resolvePrimary()
	if !ok {
		u.Errors = append(u.Errors, "reasoning: no models configured")
		u.LLMResponse = ptr(reasoningFailureMessage)
		u.ResponseMetadata = &ResponseMetadata{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		}
		return u
	}

	req := a.buildReasoningRequest(st)
	meta := ResponseMetadata{
		ModelKey:          primary.Key,
		ModelName:         primary.DisplayName,
		ExternalAttempted: primary.Kind == llm.BackendExternalHTTP,
	}

	text, err := invokeModel(ctx, primary, req)
	if err != nil || text == "" {
		if err != nil {
			a.logger.Warn("primary model failed", "model", primary.Key, "error", err)
			u.Errors = append(u.Errors, fmt.Sprintf("reasoning: %s failed: %v", primary.Key, err))
		} else {
			a.logger.Warn("primary model returned empty response", "model", primary.Key)
			u.Errors = append(u.Errors, fmt.Sprintf("reasoning: %s returned empty response", primary.Key))
		}

		if fallback, ok := a.resolveFallback(primary.Key); ok {
			meta.ModelKey = fallback.Key
			meta.ModelName = fallback.DisplayName
			meta.FallbackUsed = true

			text, err = invokeModel(ctx, fallback, req)
			if err != nil {
				u.Errors = append(u.Errors, fmt.Sprintf("reasoning: fallback %s failed: %v", fallback.Key, err))
				text = ""
			}
		}
	}

	if text == "" {
		u.Errors = append(u.Errors, "reasoning: all models failed to produce a response")
		text = reasoningFailureMessage
	}

	meta.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	u.LLMResponse = ptr(text)
	u.ResponseMetadata = &meta
	return u
}

// invokeModel calls a model with its registered inference parameters.
func invokeModel(ctx context.Context, m llm.Model, req llm.ReasoningRequest) (string, error) {
	req.MaxTokens = m.MaxTokens
	req.Temperature = m.Temperature
	return m.Provider.Invoke(ctx, req)
}

// resolvePrimary picks the primary model: environment override, then the
// configured default, then the first registered entry, then the baseline
// key.
func (a *Agent) resolvePrimary() (llm.Model, bool) {
	if key := os.Getenv(envModelKey); key != "" {
		if m, ok := a.registry.Get(key); ok {
			return m, true
		}
		a.logger.Warn("model override not registered, ignoring", "key", key)
	}
	if key := a.registry.DefaultKey(); key != "" {
		if m, ok := a.registry.Get(key); ok {
			return m, true
		}
	}
	if m, ok := a.registry.First(); ok {
		return m, true
	}
	return a.registry.Get(baselineModelKey)
}

// resolveFallback picks the fallback model, skipping whichever key the
// primary attempt used: the configured fallback, then the baseline key,
// then the configured default.
func (a *Agent) resolveFallback(primaryKey string) (llm.Model, bool) {
	for _, key := range []string{a.registry.FallbackKey(), baselineModelKey, a.registry.DefaultKey()} {
		if key == "" || key == primaryKey {
			continue
		}
		if m, ok := a.registry.Get(key); ok {
			return m, true
		}
	}
	return llm.Model{}, false
}

// buildReasoningRequest assembles the prompt from the retrieved context,
// telemetry readings, and the normalized conversation history.
func (a *Agent) buildReasoningRequest(st *State) llm.ReasoningRequest {
	var b strings.Builder

	b.WriteString("Context from documentation:\n")
	b.WriteString(st.HierarchicalContext)
	b.WriteString("\n\n")

	if len(st.DataPoints) > 0 {
		b.WriteString("Recent telemetry readings:\n")
		for _, p := range st.DataPoints {
			fmt.Fprintf(&b, "- %s: %g", p.Variable, p.Value)
			if p.Unit != "" {
				b.WriteString(" " + p.Unit)
			}
			if p.Timestamp != "" {
				b.WriteString(" at " + p.Timestamp)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("User question: ")
	b.WriteString(st.Query)
	b.WriteString("\n")
	if st.TransformedQuery != "" && st.TransformedQuery != st.Query {
		b.WriteString("Search query used: ")
		b.WriteString(st.TransformedQuery)
		b.WriteString("\n")
	}
	b.WriteString("\nAnswer the question using the context above. Cite the " +
		"sources you rely on. If the context does not cover the question, " +
		"say that the documentation does not contain this information.")

	return llm.ReasoningRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   b.String(),
		History:      promptHistory(st.Messages, historyLimit),
	}
}

// promptHistory converts the last limit stored turns into provider
// messages, coercing any unexpected role to "assistant".
func promptHistory(messages []Message, limit int) []llm.Message {
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		role := strings.ToLower(m.Role)
		if role != "user" && role != "assistant" {
			role = "assistant"
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}
	return history
}
