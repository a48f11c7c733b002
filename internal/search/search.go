//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Hit is a single document chunk returned by the index.
type Hit struct {
	ID           string
	Content      string
	Source       string
	Page         *int
	Section      string
	ChunkIndex   int
	TurbineModel string
	DocumentType string
	Score        float64
}

// Request describes a hybrid search.
type Request struct {
	Query        string
	Vector       []float32
	TurbineModel string // Optional exact-match filter
	DocumentType string // Optional exact-match filter
	TopK         int
}

// ChunkID returns the deterministic document id for a chunk of a source.
// The ingestion pipeline writes chunks under the same convention, which is
// what makes neighbor lookup by id possible.
func ChunkID(source string, chunkIndex int) string {
	return fmt.Sprintf("%s::%d", source, chunkIndex)
}

// docSource is the stored document shape.
type docSource struct {
	Text         string `json:"text"`
	Source       string `json:"source"`
	TurbineModel string `json:"turbine_model"`
	DocumentType string `json:"document_type"`
	Metadata     struct {
		Page       *int   `json:"page"`
		Section    string `json:"section"`
		ChunkIndex int    `json:"chunk_index"`
	} `json:"metadata"`
}

// searchResponse is the index's search response shape.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string    `json:"_id"`
			Score  float64   `json:"_score"`
			Source docSource `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// mgetResponse is the index's multi-get response shape.
type mgetResponse struct {
	Docs []struct {
		ID     string    `json:"_id"`
		Found  bool      `json:"found"`
		Source docSource `json:"_source"`
	} `json:"docs"`
}

// HybridSearch issues a combined k-NN and lexical query against the index.
// The two legs are joined with a logical OR (minimum_should_match 1) and
// optionally constrained by exact-match filters.
func (c *Client) HybridSearch(ctx context.Context, req Request) ([]Hit, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = 5
	}

	should := []map[string]interface{}{
		{
			"knn": map[string]interface{}{
				"embedding": map[string]interface{}{
					"vector": req.Vector,
					"k":      topK,
				},
			},
		},
		{
			"multi_match": map[string]interface{}{
				"query":     req.Query,
				"fields":    []string{"text^2", "source"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
	}

	must := []map[string]interface{}{}
	if req.TurbineModel != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"turbine_model": req.TurbineModel},
		})
	}
	if req.DocumentType != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"document_type": req.DocumentType},
		})
	}

	body := map[string]interface{}{
		"size": topK,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"must":                 must,
				"minimum_should_match": 1,
			},
		},
		"_source": []string{"text", "metadata", "source", "turbine_model", "document_type"},
	}

	respBody, err := c.request(ctx, http.MethodPost, "/"+url.PathEscape(c.index)+"/_search", body)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	hits := make([]Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		hits = append(hits, toHit(h.ID, h.Score, h.Source))
	}
	return hits, nil
}

// GetByIDs fetches document chunks by id. Missing ids are skipped rather
// than reported; neighbor stitching treats absence as an empty neighbor.
func (c *Client) GetByIDs(ctx context.Context, ids []string) ([]Hit, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	body := map[string]interface{}{"ids": ids}

	respBody, err := c.request(ctx, http.MethodPost, "/"+url.PathEscape(c.index)+"/_mget", body)
	if err != nil {
		return nil, err
	}

	var resp mgetResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse mget response: %w", err)
	}

	hits := make([]Hit, 0, len(resp.Docs))
	for _, d := range resp.Docs {
		if !d.Found {
			continue
		}
		hits = append(hits, toHit(d.ID, 0, d.Source))
	}
	return hits, nil
}

// toHit converts a stored document to a Hit.
func toHit(id string, score float64, src docSource) Hit {
	return Hit{
		ID:           id,
		Content:      src.Text,
		Source:       src.Source,
		Page:         src.Metadata.Page,
		Section:      src.Metadata.Section,
		ChunkIndex:   src.Metadata.ChunkIndex,
		TurbineModel: src.TurbineModel,
		DocumentType: src.DocumentType,
		Score:        score,
	}
}
