package db

import "errors"

// DistanceMetric used by FT.SEARCH vector similarity queries.
type DistanceMetric string

const (
	// DistanceCosine is cosine distance.
	DistanceCosine DistanceMetric = "COSINE"
	// DistanceL2 is Euclidean distance.
	DistanceL2 DistanceMetric = "L2"
)

// VectorAlgorithm selects the indexing algorithm for vector fields in FT.CREATE.
type VectorAlgorithm string

const (
	// VectorHNSW uses the HNSW algorithm.
	VectorHNSW VectorAlgorithm = "HNSW"
	// VectorFlat uses the FLAT (brute-force) algorithm.
	VectorFlat VectorAlgorithm = "FLAT"
)

// IndexDefinition describes the FT index over segment hashes: one TAG
// field for the language filter and one VECTOR field for embeddings.
type IndexDefinition struct {
	Name        string
	Prefixes    []string
	TagField    string
	VectorField string

	VectorAlgo        VectorAlgorithm
	VectorDim         int
	VectorDistance    DistanceMetric
	VectorM           int // HNSW M: max edges per node
	VectorEFConstruct int // HNSW EF_CONSTRUCTION: build-time dynamic list size
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if idx.TagField == "" {
		return errors.New("tag field is required")
	}
	if idx.VectorField == "" {
		return errors.New("vector field is required")
	}
	if idx.VectorDim <= 0 {
		return errors.New("vector field requires positive DIM")
	}
	return nil
}
