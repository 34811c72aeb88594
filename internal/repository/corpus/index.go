package corpus

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/lexikon/internal/db"
)

// HNSWConfig tunes the vector index build.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// EnsureIndex creates the FT vector index over segment hashes if it
// does not exist yet. Safe to call on every startup.
func (w *Writer) EnsureIndex(ctx context.Context, dim int, hnsw HNSWConfig) error {
	def := &db.IndexDefinition{
		Name:              IndexName,
		Prefixes:          []string{segKeyPrefix},
		TagField:          fieldLang,
		VectorField:       fieldEmbedding,
		VectorAlgo:        db.VectorHNSW,
		VectorDim:         dim,
		VectorDistance:    db.DistanceCosine,
		VectorM:           hnsw.M,
		VectorEFConstruct: hnsw.EFConstruct,
	}

	if err := w.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("ensure segment index: %w", err)
	}
	return nil
}
