//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

package llm

// BackendKind discriminates the two reasoning backend variants.
type BackendKind string

const (
	// BackendManaged is the managed LLM runtime (Bedrock).
	BackendManaged BackendKind = "bedrock"

	// BackendExternalHTTP is a third-party reasoning API reached over HTTP.
	BackendExternalHTTP BackendKind = "http"
)

// Model is a registered reasoning backend with its inference parameters.
type Model struct {
	Key         string
	DisplayName string
	Kind        BackendKind
	Provider    ReasoningProvider
	MaxTokens   int
	Temperature float64
}

// Registry holds the configured reasoning models. It is built once at
// startup and read-only thereafter.
type Registry struct {
	entries     []Model
	byKey       map[string]int
	defaultKey  string
	fallbackKey string
}

// NewRegistry creates a registry from the given models. Entry order is
// preserved; the first entry is the last-resort primary when no default
// is configured.
func NewRegistry(entries []Model, defaultKey, fallbackKey string) *Registry {
	byKey := make(map[string]int, len(entries))
	for i, e := range entries {
		if _, ok := byKey[e.Key]; !ok {
			byKey[e.Key] = i
		}
	}
	return &Registry{
		entries:     entries,
		byKey:       byKey,
		defaultKey:  defaultKey,
		fallbackKey: fallbackKey,
	}
}

// Get returns the model registered under key.
func (r *Registry) Get(key string) (Model, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Model{}, false
	}
	return r.entries[i], true
}

// First returns the first registered model.
func (r *Registry) First() (Model, bool) {
	if len(r.entries) == 0 {
		return Model{}, false
	}
	return r.entries[0], true
}

// Entries returns all registered models in declaration order.
func (r *Registry) Entries() []Model {
	out := make([]Model, len(r.entries))
	copy(out, r.entries)
	return out
}

// DefaultKey returns the configured default model key, or "".
func (r *Registry) DefaultKey() string {
	return r.defaultKey
}

// FallbackKey returns the configured fallback model key, or "".
func (r *Registry) FallbackKey() string {
	return r.fallbackKey
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.entries)
}
