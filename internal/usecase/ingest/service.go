// Package ingest appends segments to the corpus: normalization,
// trigram extraction and optional vectorization happen here, so the
// stored folded form is always a function of the stored NFC form.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/lexikon/internal/domain"
	"github.com/kailas-cloud/lexikon/internal/domain/language"
	"github.com/kailas-cloud/lexikon/internal/domain/segment"
	"github.com/kailas-cloud/lexikon/internal/textnorm"
	"github.com/kailas-cloud/lexikon/internal/trigram"
)

// Request is a single segment to ingest.
type Request struct {
	Language string
	WorkRef  string
	Text     string
	// Embed requests vectorization. Requires an embedding provider;
	// a provider failure fails the whole ingest rather than silently
	// writing a lexical-only segment.
	Embed bool
}

// Service handles segment ingestion.
type Service struct {
	repo      Repository
	embed     Embedder // nil when no embedding provider is configured
	vectorDim int
}

// New creates an ingest service. vectorDim is the configured embedding
// dimension; embeddings of any other length are rejected.
func New(repo Repository, embed Embedder, vectorDim int) *Service {
	return &Service{repo: repo, embed: embed, vectorDim: vectorDim}
}

// Ingest normalizes, vectorizes and persists one segment.
func (s *Service) Ingest(ctx context.Context, req Request) (segment.Segment, error) {
	if strings.TrimSpace(req.Text) == "" {
		return segment.Segment{}, fmt.Errorf("%w: text is required", domain.ErrInvalidSegment)
	}

	lang := language.Normalize(req.Language)
	nfc, folded := textnorm.Normalize(req.Text)

	var embedding []float32
	if req.Embed {
		vec, err := s.embedText(ctx, nfc)
		if err != nil {
			return segment.Segment{}, err
		}
		embedding = vec
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return segment.Segment{}, fmt.Errorf("allocate segment id: %w", err)
	}

	seg, err := segment.New(
		id, lang, req.WorkRef, nfc, folded, len(trigram.Extract(folded)), embedding,
	)
	if err != nil {
		return segment.Segment{}, err
	}

	if err := s.repo.Put(ctx, &seg); err != nil {
		return segment.Segment{}, fmt.Errorf("persist segment: %w", err)
	}
	return seg, nil
}

// Get returns a stored segment.
func (s *Service) Get(ctx context.Context, id int64) (segment.Segment, error) {
	seg, err := s.repo.Get(ctx, id)
	if err != nil {
		return segment.Segment{}, fmt.Errorf("get segment: %w", err)
	}
	return seg, nil
}

func (s *Service) embedText(ctx context.Context, nfc string) ([]float32, error) {
	if s.embed == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingProviderError)
	}

	result, err := s.embed.Embed(ctx, nfc)
	if err != nil {
		return nil, fmt.Errorf("vectorize segment: %w", err)
	}
	if s.vectorDim > 0 && len(result.Embedding) != s.vectorDim {
		return nil, fmt.Errorf(
			"vector dimension mismatch: got %d, want %d: %w",
			len(result.Embedding), s.vectorDim, domain.ErrVectorDimMismatch,
		)
	}
	return result.Embedding, nil
}
