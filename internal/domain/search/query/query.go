// Package query holds the validated hybrid search request.
package query

import (
	"fmt"

	"github.com/kailas-cloud/lexikon/internal/domain"
)

// Fallback defaults for the surfaces (HTTP, SDK) that distinguish an
// unset knob from an explicit zero. New itself never applies them.
const (
	DefaultLimit     = 20
	MaxLimit         = 100
	DefaultThreshold = 0.05
)

// Query is a validated hybrid search request.
type Query struct {
	text      string
	language  string
	limit     int
	threshold float64
	useVector bool
}

// New creates a validated query. limit 0 is a valid cap (the search
// returns no hits), a negative limit is rejected, and anything above
// MaxLimit is clamped. useVector nil means "vector channel allowed".
func New(text, language string, limit int, threshold float64, useVector *bool) (Query, error) {
	if language == "" {
		return Query{}, fmt.Errorf("%w: language is required", domain.ErrInvalidQuery)
	}
	if limit < 0 {
		return Query{}, fmt.Errorf(
			"%w: limit must be non-negative, got %d", domain.ErrInvalidQuery, limit,
		)
	}
	if threshold < 0 || threshold > 1 {
		return Query{}, fmt.Errorf(
			"%w: threshold must be in [0,1], got %g", domain.ErrInvalidQuery, threshold,
		)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	vec := true
	if useVector != nil {
		vec = *useVector
	}
	return Query{
		text: text, language: language,
		limit: limit, threshold: threshold, useVector: vec,
	}, nil
}

// Text returns the raw query text.
func (q *Query) Text() string { return q.text }

// Language returns the caller-supplied language code.
func (q *Query) Language() string { return q.language }

// Limit returns the result-count cap.
func (q *Query) Limit() int { return q.limit }

// Threshold returns the lexical similarity floor.
func (q *Query) Threshold() float64 { return q.threshold }

// UseVector reports whether the vector channel may run.
func (q *Query) UseVector() bool { return q.useVector }
