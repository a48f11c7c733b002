//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

// Package guardrail provides a client for the content-safety guardrail
// service.
package guardrail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10

// Actions returned by the guardrail service.
const (
	ActionNone       = "NONE"
	ActionIntervened = "GUARDRAIL_INTERVENED"
)

// Verdict is the outcome of a guardrail evaluation.
type Verdict struct {
	Action     string // ActionNone or ActionIntervened
	Compliance string // e.g. "compliant", "blocked_topic", "pii"
	Details    string
}

// Compliant reports whether the evaluated text may be delivered as-is.
func (v *Verdict) Compliant() bool {
	return v.Action != ActionIntervened
}

// Client is a guardrail service client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	guardrailID string
	version     string
}

// NewClient creates a new guardrail client.
func NewClient(endpoint, guardrailID string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout * time.Second,
		},
		baseURL:     endpoint,
		guardrailID: guardrailID,
		version:     "DRAFT",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithVersion sets the guardrail version.
func WithVersion(version string) ClientOption {
	return func(c *Client) {
		c.version = version
	}
}

// WithAPIKey sets the API key used as a bearer token.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(seconds int) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = time.Duration(seconds) * time.Second
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// applyRequest is the evaluation request payload.
type applyRequest struct {
	Source  string `json:"source"`
	Content []struct {
		Text struct {
			Text string `json:"text"`
		} `json:"text"`
	} `json:"content"`
	Context map[string]string `json:"context,omitempty"`
}

// applyResponse is the evaluation response payload.
type applyResponse struct {
	Action      string `json:"action"`
	Assessments []struct {
		TopicPolicy struct {
			Topics []struct {
				Name   string `json:"name"`
				Action string `json:"action"`
			} `json:"topics"`
		} `json:"topicPolicy"`
	} `json:"assessments"`
	Outputs []struct {
		Text string `json:"text"`
	} `json:"outputs"`
}

// Evaluate submits generated text plus contextual attributes to the
// guardrail and returns its verdict.
func (c *Client) Evaluate(
	ctx context.Context,
	text string,
	attributes map[string]string,
) (*Verdict, error) {
	reqBody := applyRequest{
		Source:  "OUTPUT",
		Context: attributes,
	}
	reqBody.Content = make([]struct {
		Text struct {
			Text string `json:"text"`
		} `json:"text"`
	}, 1)
	reqBody.Content[0].Text.Text = text

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	path := fmt.Sprintf("/guardrail/%s/version/%s/apply",
		url.PathEscape(c.guardrailID), url.PathEscape(c.version))

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("guardrail error (status %d): %s", resp.StatusCode, string(body))
	}

	var applyResp applyResponse
	if err := json.Unmarshal(body, &applyResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return toVerdict(&applyResp), nil
}

// toVerdict condenses the assessment payload into a Verdict.
func toVerdict(resp *applyResponse) *Verdict {
	v := &Verdict{
		Action:     resp.Action,
		Compliance: "compliant",
	}

	if resp.Action != ActionIntervened {
		return v
	}

	// Collect the violated topic names as the compliance code.
	var topics []string
	for _, a := range resp.Assessments {
		for _, t := range a.TopicPolicy.Topics {
			if t.Action != "" && t.Action != "NONE" {
				topics = append(topics, t.Name)
			}
		}
	}
	if len(topics) > 0 {
		v.Compliance = strings.Join(topics, ",")
	} else {
		v.Compliance = "blocked"
	}

	if len(resp.Outputs) > 0 {
		v.Details = resp.Outputs[0].Text
	}
	return v
}
