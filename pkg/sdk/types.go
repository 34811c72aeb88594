package lexikon

// SearchRequest is a hybrid search query.
type SearchRequest struct {
	Query    string
	Language string
	// Limit caps the result count. 0 means the server default, so this
	// surface cannot request an empty result on purpose; negative
	// values are rejected.
	Limit int
	// Threshold is the lexical similarity floor in (0,1]. 0 means the
	// server default.
	Threshold float64
	// UseVector disables the vector channel when set to false.
	// nil means "allowed".
	UseVector *bool
}

// SearchHit is one blended search result.
type SearchHit struct {
	SegmentID int64
	WorkRef   string
	Text      string
	Score     float64
	Reasons   []string
}

// Segment is a corpus text unit to ingest.
type Segment struct {
	Language string
	WorkRef  string
	Text     string
	// Embed requests vectorization through the configured Embedder.
	Embed bool
}

// StoredSegment is a persisted corpus segment.
type StoredSegment struct {
	ID           int64
	Language     string
	WorkRef      string
	Text         string
	Folded       string
	TrigramCount int
	HasEmbedding bool
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status       string            // "ok" / "degraded"
	Checks       map[string]string // component -> "ok"/"error"
	VectorSearch string            // "ready" / "empty" / "unavailable"
}
