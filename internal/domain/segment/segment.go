// Package segment holds the immutable corpus text segment.
package segment

import (
	"fmt"

	"github.com/kailas-cloud/lexikon/internal/domain"
)

// Segment is a single unit of source text (one line, verse, or sentence).
// Segments are immutable once ingested: the folded form is derived from
// the NFC form at write time and never recomputed.
type Segment struct {
	id           int64
	language     string
	workRef      string
	textNFC      string
	folded       string
	trigramCount int
	embedding    []float32
}

// New creates a validated segment.
func New(
	id int64, language, workRef, textNFC, folded string,
	trigramCount int, embedding []float32,
) (Segment, error) {
	if id <= 0 {
		return Segment{}, fmt.Errorf("%w: id must be positive", domain.ErrInvalidSegment)
	}
	if language == "" {
		return Segment{}, fmt.Errorf("%w: language is required", domain.ErrInvalidSegment)
	}
	if workRef == "" {
		return Segment{}, fmt.Errorf("%w: work ref is required", domain.ErrInvalidSegment)
	}
	if textNFC == "" {
		return Segment{}, fmt.Errorf("%w: text is required", domain.ErrInvalidSegment)
	}
	return Segment{
		id: id, language: language, workRef: workRef,
		textNFC: textNFC, folded: folded,
		trigramCount: trigramCount, embedding: embedding,
	}, nil
}

// Reconstruct rebuilds a segment from storage without validation.
func Reconstruct(
	id int64, language, workRef, textNFC, folded string,
	trigramCount int, embedding []float32,
) Segment {
	return Segment{
		id: id, language: language, workRef: workRef,
		textNFC: textNFC, folded: folded,
		trigramCount: trigramCount, embedding: embedding,
	}
}

// ID returns the stable segment identifier.
func (s *Segment) ID() int64 { return s.id }

// Language returns the canonical language code.
func (s *Segment) Language() string { return s.language }

// WorkRef returns the human-readable work reference (e.g. "Il.1.1").
func (s *Segment) WorkRef() string { return s.workRef }

// TextNFC returns the NFC display form of the text.
func (s *Segment) TextNFC() string { return s.textNFC }

// Folded returns the accent-folded fuzzy-match key.
func (s *Segment) Folded() string { return s.folded }

// TrigramCount returns the number of distinct trigrams in the folded form.
func (s *Segment) TrigramCount() int { return s.trigramCount }

// Embedding returns the pre-computed embedding vector, nil when absent.
func (s *Segment) Embedding() []float32 { return s.embedding }

// HasEmbedding reports whether the segment carries an embedding.
func (s *Segment) HasEmbedding() bool { return len(s.embedding) > 0 }
