package domain

import "errors"

var (
	// ErrInvalidQuery signals a malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidSegment signals a malformed text segment.
	ErrInvalidSegment = errors.New("invalid segment")
	// ErrSegmentNotFound signals a missing segment.
	ErrSegmentNotFound = errors.New("segment not found")
	// ErrVectorDimMismatch signals an embedding dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)
