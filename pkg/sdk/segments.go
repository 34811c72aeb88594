package lexikon

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lexikon/internal/domain/segment"
	"github.com/kailas-cloud/lexikon/internal/logger"
	ingestuc "github.com/kailas-cloud/lexikon/internal/usecase/ingest"
)

// SegmentService ingests and reads corpus segments.
type SegmentService struct {
	svc    ingestUseCase
	logger *zap.Logger
}

// Ingest normalizes and persists one segment.
func (s *SegmentService) Ingest(ctx context.Context, seg Segment) (StoredSegment, error) {
	ctx = logger.ContextWith(ctx, s.logger)

	stored, err := s.svc.Ingest(ctx, ingestuc.Request{
		Language: seg.Language,
		WorkRef:  seg.WorkRef,
		Text:     seg.Text,
		Embed:    seg.Embed,
	})
	if err != nil {
		return StoredSegment{}, fmt.Errorf("ingest segment: %w", err)
	}
	return storedFromDomain(&stored), nil
}

// Get returns a stored segment by id.
func (s *SegmentService) Get(ctx context.Context, id int64) (StoredSegment, error) {
	seg, err := s.svc.Get(ctx, id)
	if err != nil {
		return StoredSegment{}, err
	}
	return storedFromDomain(&seg), nil
}

func storedFromDomain(seg *segment.Segment) StoredSegment {
	return StoredSegment{
		ID:           seg.ID(),
		Language:     seg.Language(),
		WorkRef:      seg.WorkRef(),
		Text:         seg.TextNFC(),
		Folded:       seg.Folded(),
		TrigramCount: seg.TrigramCount(),
		HasEmbedding: seg.HasEmbedding(),
	}
}
