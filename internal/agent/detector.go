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
	"strings"

	"github.com/solaris-energy/operator-assist/internal/config"
)

// Detector maps free-text turbine mentions to canonical model names using
// a configured alias table.
type Detector struct {
	entries []config.DetectorEntry
}

// NewDetector creates a detector from the configured alias table. Entry
// order is significant: the first entry with a matching alias wins.
func NewDetector(entries []config.DetectorEntry) *Detector {
	if len(entries) == 0 {
		entries = config.DefaultDetectorEntries()
	}
	return &Detector{entries: entries}
}

// Detect returns the canonical turbine model mentioned in text, or "" if
// no alias matches. Matching is case-insensitive substring search.
func (d *Detector) Detect(text string) string {
	lowered := strings.ToLower(text)
	for _, e := range d.entries {
		for _, alias := range e.Aliases {
			if alias == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(alias)) {
				return e.Model
			}
		}
	}
	return ""
}
