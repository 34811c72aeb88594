package health

import (
	"context"

	"github.com/kailas-cloud/lexikon/internal/domain"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// VectorProber reports whether the vector channel can serve queries.
type VectorProber interface {
	Capability(ctx context.Context) domain.VectorCapability
}
