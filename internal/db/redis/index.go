package redis

import (
	"context"
	"strconv"

	"github.com/kailas-cloud/lexikon/internal/db"
)

// CreateIndex creates the FT vector index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	args := buildCreateArgs(def)
	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

// SupportsVectorSearch probes for the FT search module. A server without
// RediSearch rejects FT._LIST with "unknown command"; any other failure
// is also treated as unavailable so the vector channel degrades instead
// of erroring.
func (s *Store) SupportsVectorSearch(ctx context.Context) bool {
	cmd := s.b().Arbitrary("FT._LIST").Build()
	return s.do(ctx, cmd).Error() == nil
}

func buildCreateArgs(idx *db.IndexDefinition) []string {
	args := []string{idx.Name, "ON", "HASH"}

	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}

	args = append(args, "SCHEMA", idx.TagField, "TAG")

	algo := idx.VectorAlgo
	if algo == "" {
		algo = db.VectorHNSW
	}
	distance := idx.VectorDistance
	if distance == "" {
		distance = db.DistanceCosine
	}

	vectorArgs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(idx.VectorDim),
		"DISTANCE_METRIC", string(distance),
	}
	if algo == db.VectorHNSW {
		if idx.VectorM > 0 {
			vectorArgs = append(vectorArgs, "M", strconv.Itoa(idx.VectorM))
		}
		if idx.VectorEFConstruct > 0 {
			vectorArgs = append(vectorArgs, "EF_CONSTRUCTION", strconv.Itoa(idx.VectorEFConstruct))
		}
	}

	args = append(args, idx.VectorField, "VECTOR", string(algo), strconv.Itoa(len(vectorArgs)))
	args = append(args, vectorArgs...)

	return args
}
