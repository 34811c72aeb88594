package search

import (
	"context"

	"github.com/kailas-cloud/lexikon/internal/domain"
	"github.com/kailas-cloud/lexikon/internal/domain/search/hit"
)

// Repository defines the storage contract for the retrieval channels.
type Repository interface {
	// Lexical runs trigram-similarity retrieval over the folded corpus.
	Lexical(ctx context.Context, folded, language string, limit int, threshold float64) ([]hit.Hit, error)

	// KNN runs vector similarity retrieval with a language tag filter.
	KNN(ctx context.Context, vector []float32, language string, limit int) ([]hit.Hit, error)

	// Capability probes whether KNN search can produce candidates.
	Capability(ctx context.Context) domain.VectorCapability
}

// Embedder vectorizes query text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
