//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

// Package telemetrygw provides a client for the turbine telemetry gateway.
package telemetrygw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10

// Reading is a single time-series data point from the gateway.
type Reading struct {
	Variable  string  `json:"variable"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Timestamp string  `json:"timestamp"`
}

// Client is a telemetry gateway client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new telemetry gateway client.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout * time.Second,
		},
		baseURL: endpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the client.
type ClientOption func(*Client)

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

// fetchRequest is the gateway query payload.
type fetchRequest struct {
	TurbineModel    string   `json:"turbine_model"`
	Variables       []string `json:"variables,omitempty"`
	LookbackMinutes int      `json:"lookback_minutes"`
}

// fetchResponse is the gateway response payload.
type fetchResponse struct {
	Readings []Reading `json:"readings"`
}

// Fetch retrieves recent readings for a turbine model over a fixed
// lookback window.
func (c *Client) Fetch(
	ctx context.Context,
	turbineModel string,
	variables []string,
	lookbackMinutes int,
) ([]Reading, error) {
	reqBody := fetchRequest{
		TurbineModel:    turbineModel,
		Variables:       variables,
		LookbackMinutes: lookbackMinutes,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/readings", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
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
		return nil, fmt.Errorf("gateway error (status %d): %s", resp.StatusCode, string(body))
	}

	var fetchResp fetchResponse
	if err := json.Unmarshal(body, &fetchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return fetchResp.Readings, nil
}
