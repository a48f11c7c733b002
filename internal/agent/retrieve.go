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
	"math"
	"sort"
	"strings"

	"github.com/solaris-energy/operator-assist/internal/search"
)

// noDocumentsMessage is the context placeholder when retrieval produced
// nothing usable. The reasoning prompt carries it verbatim so the model
// acknowledges the gap instead of inventing sources.
const noDocumentsMessage = "No relevant documentation found in the knowledge base."

// retrieveStage embeds the transformed query, runs the hybrid search,
// stitches neighbor chunks around each hit, and derives the hierarchical
// context plus normalized citations. Every failure degrades: an error is
// recorded and downstream stages see the no-documents placeholder.
func (a *Agent) retrieveStage(ctx context.Context, st *State) Update {
	var u Update

	vector, err := a.embedder.Embed(ctx, st.TransformedQuery)
	if err != nil {
		a.logger.Warn("query embedding failed", "error", err)
		u.Errors = append(u.Errors, fmt.Sprintf("retrieval: embedding failed: %v", err))
		u.HierarchicalContext = ptr(noDocumentsMessage)
		return u
	}

	hits, err := a.index.HybridSearch(ctx, search.Request{
		Query:        st.TransformedQuery,
		Vector:       vector,
		TurbineModel: st.TurbineModel,
		TopK:         a.cfg.Search.TopK,
	})
	if err != nil {
		a.logger.Warn("hybrid search failed", "error", err)
		u.Errors = append(u.Errors, fmt.Sprintf("retrieval: search failed: %v", err))
		u.HierarchicalContext = ptr(noDocumentsMessage)
		return u
	}

	docs := make([]RetrievalHit, 0, len(hits))
	for _, h := range hits {
		doc := RetrievalHit{
			Content:      h.Content,
			Source:       h.Source,
			Page:         h.Page,
			Section:      h.Section,
			ChunkIndex:   h.ChunkIndex,
			TurbineModel: h.TurbineModel,
			DocumentType: h.DocumentType,
			Score:        h.Score,
		}

		neighbors, err := a.fetchNeighbors(ctx, h)
		if err != nil {
			// A missing neighbor never suppresses the hit itself.
			u.Errors = append(u.Errors, fmt.Sprintf(
				"retrieval: neighbor fetch failed for %s chunk %d: %v",
				h.Source, h.ChunkIndex, err))
		}
		doc.Neighbors = neighbors
		docs = append(docs, doc)
	}

	u.RetrievedDocuments = docs
	u.HierarchicalContext = ptr(buildHierarchicalContext(docs, a.cfg.Search.ExcerptBudget))
	u.Citations = buildCitations(docs, a.cfg.Search.ExcerptBudget)
	return u
}

// fetchNeighbors loads the chunks adjacent to a hit, within the configured
// window, ordered by chunk index. Chunks missing from the index are
// silently absent.
func (a *Agent) fetchNeighbors(ctx context.Context, hit search.Hit) ([]NeighborChunk, error) {
	window := a.cfg.Search.NeighborWindow
	if window <= 0 {
		return nil, nil
	}

	var ids []string
	for offset := -window; offset <= window; offset++ {
		idx := hit.ChunkIndex + offset
		if offset == 0 || idx < 0 {
			continue
		}
		ids = append(ids, search.ChunkID(hit.Source, idx))
	}
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := a.index.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	neighbors := make([]NeighborChunk, 0, len(found))
	for _, n := range found {
		neighbors = append(neighbors, NeighborChunk{
			ChunkIndex: n.ChunkIndex,
			Content:    n.Content,
		})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		return neighbors[i].ChunkIndex < neighbors[j].ChunkIndex
	})
	return neighbors, nil
}

// buildHierarchicalContext renders the retrieved chunks as a numbered
// document list. Each hit keeps its full content; neighbor chunks are
// indented beneath it, truncated to the excerpt budget.
func buildHierarchicalContext(docs []RetrievalHit, excerptBudget int) string {
	if len(docs) == 0 {
		return noDocumentsMessage
	}

	sections := make([]string, 0, len(docs))
	for i, d := range docs {
		var b strings.Builder
		fmt.Fprintf(&b, "[Document %d - Source: %s", i+1, d.Source)
		if d.Page != nil {
			fmt.Fprintf(&b, ", Page %d", *d.Page)
		}
		if d.Section != "" {
			fmt.Fprintf(&b, ", Section: %s", d.Section)
		}
		b.WriteString("]\n")
		b.WriteString(d.Content)
		for _, n := range d.Neighbors {
			b.WriteString("\n    ")
			b.WriteString(truncateExcerpt(n.Content, excerptBudget))
		}
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n\n")
}

// buildCitations derives one citation per retrieved document with scores
// normalized against the best raw score of the batch.
func buildCitations(docs []RetrievalHit, excerptBudget int) []Citation {
	if len(docs) == 0 {
		return nil
	}

	maxRaw := 0.0
	for _, d := range docs {
		if d.Score > maxRaw {
			maxRaw = d.Score
		}
	}
	// Lexical-only result sets can carry zero or negative scores; fall
	// back to a unit divisor so normalization stays defined.
	if maxRaw <= 0 {
		maxRaw = 1.0
	}

	citations := make([]Citation, 0, len(docs))
	for _, d := range docs {
		score := d.Score / maxRaw
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		citations = append(citations, Citation{
			Source:         d.Source,
			Page:           d.Page,
			Section:        d.Section,
			Excerpt:        truncateExcerpt(d.Content, excerptBudget),
			RelevanceScore: round3(score),
		})
	}
	return citations
}

// truncateExcerpt trims text to at most budget characters, ending with an
// ellipsis when truncated. The budget counts runes, not bytes, so
// multibyte source documents are never cut mid-character.
func truncateExcerpt(text string, budget int) string {
	if budget <= 3 || len(text) <= budget {
		return text
	}
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget-3]) + "..."
}

// round3 rounds to three decimal places.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
