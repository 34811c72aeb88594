package ingest

import (
	"context"

	"github.com/kailas-cloud/lexikon/internal/domain"
	"github.com/kailas-cloud/lexikon/internal/domain/segment"
)

// Repository defines the storage contract for segment ingestion.
type Repository interface {
	// NextID allocates the next segment id.
	NextID(ctx context.Context) (int64, error)

	// Put persists a segment and its posting sets.
	Put(ctx context.Context, seg *segment.Segment) error

	// Get returns a stored segment by id.
	Get(ctx context.Context, id int64) (segment.Segment, error)
}

// Embedder vectorizes segment text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
