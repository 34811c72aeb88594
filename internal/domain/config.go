package domain

// KeyPrefix namespaces every Redis key written by lexikon.
const KeyPrefix = "lexikon:"

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model               string
	Dimensions          int
	DistanceMetric      string
	Algorithm           string
	DocumentInstruction string
	QueryInstruction    string
}

// DefaultVectorConfig returns the default configuration tuned for Qwen3-Embedding-8B.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:               "Qwen3-Embedding-8B",
		Dimensions:          1024,
		DistanceMetric:      "cosine",
		Algorithm:           "hnsw",
		DocumentInstruction: "Represent this ancient-language passage for semantic search",
		QueryInstruction:    "Represent this query for retrieving similar passages",
	}
}
