// Package search implements hybrid retrieval: the lexical and vector
// channels fanned out per query and blended into one ranked list.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lexikon/internal/domain"
	"github.com/kailas-cloud/lexikon/internal/domain/language"
	"github.com/kailas-cloud/lexikon/internal/domain/search/hit"
	"github.com/kailas-cloud/lexikon/internal/domain/search/query"
	"github.com/kailas-cloud/lexikon/internal/logger"
	"github.com/kailas-cloud/lexikon/internal/metrics"
	"github.com/kailas-cloud/lexikon/internal/textnorm"
)

// Service is the hybrid search orchestrator.
type Service struct {
	repo  Repository
	embed Embedder // nil when no embedding provider is configured
}

// New creates a search service. embed may be nil; the vector channel
// then degrades to empty on every call.
func New(repo Repository, embed Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// Search runs both retrieval channels and blends their candidates.
// A blank query is a UI no-op, not an error. Vector-channel failures
// are absorbed here; only lexical failures propagate, since that
// channel is load-bearing.
func (s *Service) Search(ctx context.Context, q *query.Query) ([]hit.Hit, error) {
	if strings.TrimSpace(q.Text()) == "" {
		metrics.SearchRequestsTotal.WithLabelValues(q.Language(), "empty_query").Inc()
		return nil, nil
	}

	lang := language.Normalize(q.Language())
	nfc, folded := textnorm.Normalize(q.Text())

	lexStart := time.Now()
	lexical, err := s.repo.Lexical(ctx, folded, lang, q.Limit(), q.Threshold())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(lang, "error").Inc()
		return nil, fmt.Errorf("lexical channel: %w", err)
	}
	metrics.SearchChannelDuration.WithLabelValues("lexical").Observe(time.Since(lexStart).Seconds())
	metrics.SearchChannelHits.WithLabelValues("lexical").Observe(float64(len(lexical)))

	var vector []hit.Hit
	if q.UseVector() {
		vecStart := time.Now()
		vector = s.vectorCandidates(ctx, nfc, lang, q.Limit())
		metrics.SearchChannelDuration.WithLabelValues("vector").Observe(time.Since(vecStart).Seconds())
		metrics.SearchChannelHits.WithLabelValues("vector").Observe(float64(len(vector)))
	}

	metrics.SearchRequestsTotal.WithLabelValues(lang, "ok").Inc()
	return blend(lexical, vector, q.Limit()), nil
}

// vectorCandidates runs the vector channel. Every failure mode here is
// a graceful degrade to nil: missing capability, provider errors and
// KNN errors alike. Embeddings are an enhancement layer, never a
// reason to fail a search.
func (s *Service) vectorCandidates(ctx context.Context, nfc, lang string, limit int) []hit.Hit {
	log := logger.FromContext(ctx)

	if s.embed == nil {
		return nil
	}

	if capability := s.repo.Capability(ctx); capability != domain.VectorReady {
		metrics.SearchVectorDegradedTotal.Inc()
		log.Debug("vector channel degraded",
			zap.Stringer("capability", capability),
			zap.String("language", lang))
		return nil
	}

	emb, err := s.embed.Embed(ctx, nfc)
	if err != nil {
		metrics.SearchVectorDegradedTotal.Inc()
		log.Warn("query embedding failed", zap.Error(err))
		return nil
	}
	if len(emb.Embedding) == 0 {
		metrics.SearchVectorDegradedTotal.Inc()
		return nil
	}

	hits, err := s.repo.KNN(ctx, emb.Embedding, lang, limit)
	if err != nil {
		metrics.SearchVectorDegradedTotal.Inc()
		log.Warn("knn query failed", zap.Error(err))
		return nil
	}
	return hits
}
