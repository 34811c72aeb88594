package lexikon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lexikon/internal/db"
	dbRedis "github.com/kailas-cloud/lexikon/internal/db/redis"
	"github.com/kailas-cloud/lexikon/internal/domain"
	"github.com/kailas-cloud/lexikon/internal/domain/search/hit"
	"github.com/kailas-cloud/lexikon/internal/domain/search/query"
	"github.com/kailas-cloud/lexikon/internal/domain/segment"
	"github.com/kailas-cloud/lexikon/internal/logger"
	corpusrepo "github.com/kailas-cloud/lexikon/internal/repository/corpus"
	healthuc "github.com/kailas-cloud/lexikon/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/lexikon/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/lexikon/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal usecase interfaces, substitutable in tests.
type searchUseCase interface {
	Search(ctx context.Context, q *query.Query) ([]hit.Hit, error)
}

type ingestUseCase interface {
	Ingest(ctx context.Context, req ingestuc.Request) (segment.Segment, error)
	Get(ctx context.Context, id int64) (segment.Segment, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the lexikon SDK entry point.
type Client struct {
	store     db.Store
	writer    *corpusrepo.Writer
	searchSvc searchUseCase
	ingestSvc ingestUseCase
	healthSvc healthUseCase
	vectorDim int
	hnsw      corpusrepo.HNSWConfig
	logger    *zap.Logger
}

// New creates a lexikon Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions: domain.DefaultVectorConfig().Dimensions,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("lexikon: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("lexikon: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("lexikon: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	log := cfg.logger
	if log == nil {
		log = zap.NewNop()
	}

	repo := corpusrepo.New(store)
	writer := corpusrepo.NewWriter(store)

	var domEmb domain.Embedder
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	return &Client{
		store:     store,
		writer:    writer,
		searchSvc: searchuc.New(repo, domEmb),
		ingestSvc: ingestuc.New(writer, domEmb, cfg.vectorDimensions),
		healthSvc: healthuc.New(store, nil, repo),
		vectorDim: cfg.vectorDimensions,
		hnsw: corpusrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		},
		logger: log,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndex creates the segment vector index if missing.
// Call once before the first embedded ingest.
func (c *Client) EnsureIndex(ctx context.Context) error {
	if err := c.writer.EnsureIndex(ctx, c.vectorDim, c.hnsw); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// Search runs a hybrid lexical+vector search over the corpus.
// A zero Limit or Threshold means "unset" on this surface and takes
// the server default, matching the HTTP API's treatment of an absent
// query parameter.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]SearchHit, error) {
	ctx = logger.ContextWith(ctx, c.logger)

	limit := req.Limit
	if limit == 0 {
		limit = query.DefaultLimit
	}
	threshold := req.Threshold
	if threshold == 0 {
		threshold = query.DefaultThreshold
	}

	q, err := query.New(req.Query, req.Language, limit, threshold, req.UseVector)
	if err != nil {
		return nil, err
	}

	hits, err := c.searchSvc.Search(ctx, &q)
	if err != nil {
		return nil, err
	}

	out := make([]SearchHit, len(hits))
	for i := range hits {
		out[i] = SearchHit{
			SegmentID: hits[i].SegmentID(),
			WorkRef:   hits[i].WorkRef(),
			Text:      hits[i].TextNFC(),
			Score:     hits[i].Score(),
			Reasons:   hits[i].Reasons().Strings(),
		}
	}
	return out, nil
}

// Segments returns the segment ingestion service.
func (c *Client) Segments() *SegmentService {
	return &SegmentService{svc: c.ingestSvc, logger: c.logger}
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:       string(report.Status),
		Checks:       checks,
		VectorSearch: report.VectorSearch,
	}
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
