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
	"unicode"
)

// maxRecentTurns bounds how many prior user turns are carried in the
// query metadata.
const maxRecentTurns = 3

// transformStage enriches the raw query: detects the turbine model,
// estimates the language, collects recent user turns, and builds the
// model-qualified search query.
func (a *Agent) transformStage(_ context.Context, st *State) Update {
	var u Update

	model := a.detector.Detect(st.Query)
	transformed := st.Query
	if model != "" {
		transformed = fmt.Sprintf("%s (turbine model: %s)", st.Query, model)
		u.TurbineModel = ptr(model)
	}
	u.TransformedQuery = ptr(transformed)

	u.QueryMetadata = &QueryMetadata{
		DetectedModel: model,
		Language:      languageHint(st.Query),
		RecentContext: recentUserTurns(st.Messages, maxRecentTurns),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	return u
}

// languageHint classifies the query as English or unknown using a cheap
// non-ASCII character ratio. Anything above 20% non-ASCII is treated as
// not confidently English.
func languageHint(text string) string {
	if text == "" {
		return "en"
	}
	total := 0
	nonASCII := 0
	for _, r := range text {
		total++
		if r > unicode.MaxASCII {
			nonASCII++
		}
	}
	if float64(nonASCII)/float64(total) > 0.2 {
		return "unknown-non-ascii"
	}
	return "en"
}

// recentUserTurns returns the contents of up to limit most recent user
// turns, oldest first.
func recentUserTurns(messages []Message, limit int) []string {
	var turns []string
	for _, m := range messages {
		if m.Role == "user" {
			turns = append(turns, m.Content)
		}
	}
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns
}
