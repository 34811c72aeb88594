package corpus

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/lexikon/internal/db"
	"github.com/kailas-cloud/lexikon/internal/domain"
	"github.com/kailas-cloud/lexikon/internal/domain/segment"
	"github.com/kailas-cloud/lexikon/internal/trigram"
)

// writeStore is the consumer interface for corpus writes (ISP).
type writeStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	SAddMulti(ctx context.Context, items []db.SetAddItem) error
	Incr(ctx context.Context, key string) (int64, error)
	IncrBy(ctx context.Context, key string, val int64) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// Writer implements the append side of the segment store: segment
// hashes, per-trigram posting sets and the embedded-row counter.
type Writer struct {
	store writeStore
}

// NewWriter creates a corpus write repository.
func NewWriter(s writeStore) *Writer {
	return &Writer{store: s}
}

// NextID allocates the next segment id from the sequence counter.
func (w *Writer) NextID(ctx context.Context) (int64, error) {
	id, err := w.store.Incr(ctx, seqKey)
	if err != nil {
		return 0, fmt.Errorf("next segment id: %w", err)
	}
	return id, nil
}

// Put persists a segment: the record hash, one posting-set member per
// distinct trigram of the folded text, and the embedded-row counter
// bump when the segment carries an embedding. The corpus is
// append-only, so a crash between the steps leaves at worst a segment
// reachable through fewer posting sets than it should be.
func (w *Writer) Put(ctx context.Context, seg *segment.Segment) error {
	key := segKey(seg.ID())

	if err := w.store.HSet(ctx, key, segmentToFields(seg)); err != nil {
		return fmt.Errorf("put segment %d: %w", seg.ID(), err)
	}

	tris := trigram.Extract(seg.Folded())
	if len(tris) > 0 {
		member := strconv.FormatInt(seg.ID(), 10)
		items := make([]db.SetAddItem, len(tris))
		for i, tri := range tris {
			items[i] = db.SetAddItem{
				Key:     triKey(seg.Language(), tri),
				Members: []string{member},
			}
		}
		if err := w.store.SAddMulti(ctx, items); err != nil {
			return fmt.Errorf("put postings for segment %d: %w", seg.ID(), err)
		}
	}

	if seg.HasEmbedding() {
		if err := w.store.IncrBy(ctx, embCountKey, 1); err != nil {
			return fmt.Errorf("bump embedded count for segment %d: %w", seg.ID(), err)
		}
	}

	return nil
}

// Get returns a stored segment by id.
func (w *Writer) Get(ctx context.Context, id int64) (segment.Segment, error) {
	fields, err := w.store.HGetAll(ctx, segKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return segment.Segment{}, domain.ErrSegmentNotFound
		}
		return segment.Segment{}, fmt.Errorf("get segment %d: %w", id, err)
	}
	return segmentFromFields(id, fields)
}
