package lexikon

import "github.com/kailas-cloud/lexikon/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrInvalidSegment         = domain.ErrInvalidSegment
	ErrSegmentNotFound        = domain.ErrSegmentNotFound
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
