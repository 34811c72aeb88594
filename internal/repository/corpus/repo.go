// Package corpus implements the read side of the segment store: the
// lexical (trigram) and vector (KNN) retrieval channels.
package corpus

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/kailas-cloud/lexikon/internal/db"
	"github.com/kailas-cloud/lexikon/internal/domain"
	"github.com/kailas-cloud/lexikon/internal/domain/search/hit"
	"github.com/kailas-cloud/lexikon/internal/domain/search/reason"
	"github.com/kailas-cloud/lexikon/internal/trigram"
)

// store is the consumer interface for corpus reads (ISP).
type store interface {
	SMembersMulti(ctx context.Context, keys []string) ([][]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsVectorSearch(ctx context.Context) bool
}

// Repo implements the retrieval channel contracts over db.Store.
type Repo struct {
	store store
}

// New creates a corpus read repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Lexical runs trigram-similarity retrieval over the folded corpus.
// Candidates are generated from the posting sets of the query's
// trigrams, so a segment sharing no trigram is never considered; the
// similarity floor is applied before ranking. Ordering is similarity
// DESC, then work ref ASC for a deterministic tie-break.
func (r *Repo) Lexical(
	ctx context.Context, folded, language string, limit int, threshold float64,
) ([]hit.Hit, error) {
	if limit <= 0 {
		return nil, nil
	}

	queryTris := trigram.Extract(folded)
	if len(queryTris) == 0 {
		return nil, nil
	}

	keys := make([]string, len(queryTris))
	for i, tri := range queryTris {
		keys[i] = triKey(language, tri)
	}

	postings, err := r.store.SMembersMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("lexical postings: %w", err)
	}

	// Shared-trigram count per candidate segment. Posting sets hold
	// distinct trigrams, so each set contributes at most once per id.
	shared := make(map[string]int)
	for _, members := range postings {
		for _, id := range members {
			shared[id]++
		}
	}
	if len(shared) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(shared))
	for id := range shared {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic fetch order

	segKeys := make([]string, len(ids))
	for i, id := range ids {
		segKeys[i] = segKeyPrefix + id
	}

	hashes, err := r.store.HGetAllMulti(ctx, segKeys)
	if err != nil {
		return nil, fmt.Errorf("lexical segments: %w", err)
	}

	candidates := make([]hit.Hit, 0, len(ids))
	for i, fields := range hashes {
		if len(fields) == 0 {
			continue // posting set referenced a missing segment
		}
		id, err := strconv.ParseInt(ids[i], 10, 64)
		if err != nil {
			continue
		}

		triCount, err := strconv.Atoi(fields[fieldTriCount])
		if err != nil || triCount <= 0 {
			continue // corrupt record, a similarity over it would be unbounded
		}
		sim := trigram.SimilarityFromCounts(shared[ids[i]], len(queryTris), triCount)
		if sim < threshold {
			continue
		}

		candidates = append(candidates, hit.New(
			id, fields[fieldWorkRef], fields[fieldTextNFC], sim, reason.Lexical,
		))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score() != candidates[j].Score() {
			return candidates[i].Score() > candidates[j].Score()
		}
		return candidates[i].WorkRef() < candidates[j].WorkRef()
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// KNN runs vector similarity retrieval. The caller is expected to have
// checked Capability first; an FT error here still surfaces, since it
// means the probe and the query disagree about the world.
func (r *Repo) KNN(
	ctx context.Context, vector []float32, language string, limit int,
) ([]hit.Hit, error) {
	if limit <= 0 || len(vector) == 0 {
		return nil, nil
	}

	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    IndexName,
		Language:     language,
		Vector:       vector,
		K:            limit,
		ReturnFields: []string{fieldWorkRef, fieldTextNFC},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}
	if res == nil || res.Total == 0 {
		return nil, nil
	}

	hits := make([]hit.Hit, 0, len(res.Entries))
	for _, entry := range res.Entries {
		id, err := segIDFromKey(entry.Key)
		if err != nil {
			continue
		}
		hits = append(hits, hit.New(
			id, entry.Fields[fieldWorkRef], entry.Fields[fieldTextNFC],
			entry.Score, reason.Vector,
		))
	}
	return hits, nil
}

// Capability probes vector readiness: FT module present, index created,
// and at least one segment ingested with an embedding.
func (r *Repo) Capability(ctx context.Context) domain.VectorCapability {
	if !r.store.SupportsVectorSearch(ctx) {
		return domain.VectorUnavailable
	}

	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil || !exists {
		return domain.VectorUnavailable
	}

	raw, err := r.store.Get(ctx, embCountKey)
	if err != nil {
		return domain.VectorEmpty
	}
	count, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || count <= 0 {
		return domain.VectorEmpty
	}
	return domain.VectorReady
}
