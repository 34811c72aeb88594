package chi

// Wire types for the hand-written JSON API.

// ErrorCode is a machine-readable error discriminator.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeValidationFailed       ErrorCode = "validation_failed"
	CodeSegmentNotFound        ErrorCode = "segment_not_found"
	CodeVectorDimMismatch      ErrorCode = "vector_dim_mismatch"
	CodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	CodeRateLimited            ErrorCode = "rate_limited"
	CodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchHitItem is one blended search result.
type SearchHitItem struct {
	SegmentID int64    `json:"segment_id"`
	WorkRef   string   `json:"work_ref"`
	Text      string   `json:"text"`
	Score     float64  `json:"score"`
	Reasons   []string `json:"reasons"`
}

// SearchResponse is the GET /v1/search payload.
type SearchResponse struct {
	Items []SearchHitItem `json:"items"`
	Total int             `json:"total"`
}

// IngestRequest is the POST /v1/segments body.
type IngestRequest struct {
	Language string `json:"language"`
	WorkRef  string `json:"work_ref"`
	Text     string `json:"text"`
	Embed    bool   `json:"embed,omitempty"`
}

// SegmentResponse is the stored-segment payload.
type SegmentResponse struct {
	ID           int64  `json:"id"`
	Language     string `json:"language"`
	WorkRef      string `json:"work_ref"`
	Text         string `json:"text"`
	Folded       string `json:"folded"`
	TrigramCount int    `json:"trigram_count"`
	HasEmbedding bool   `json:"has_embedding"`
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status       string            `json:"status"`
	Checks       map[string]string `json:"checks"`
	VectorSearch string            `json:"vector_search,omitempty"`
}
