// Package db defines the storage facade over Redis for the lexikon corpus.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	HashStore
	SetStore
	KVStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based key-value operations. Segment records
// are stored as one hash per segment.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// SetAddItem holds a single key+members pair for pipelined SADD.
type SetAddItem struct {
	Key     string
	Members []string
}

// SetStore provides set operations. Trigram posting lists are stored as
// one set of segment ids per (language, trigram) pair.
type SetStore interface {
	SAddMulti(ctx context.Context, items []SetAddItem) error
	SMembersMulti(ctx context.Context, keys []string) ([][]string, error)
}

// KVStore provides simple key-value operations (counters, embedding cache).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Incr(ctx context.Context, key string) (int64, error)
	IncrBy(ctx context.Context, key string, val int64) error
}

// IndexManager provides FT vector index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	// SupportsVectorSearch probes whether the server exposes the FT
	// search module at all. False means the vector channel can never run.
	SupportsVectorSearch(ctx context.Context) bool
}

// Searcher provides KNN search over FT vector indexes.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
