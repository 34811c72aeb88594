package domain

// VectorCapability is the tri-state outcome of the vector readiness
// probe. Anything short of VectorReady degrades the vector channel to
// empty instead of erroring.
type VectorCapability int

const (
	// VectorUnavailable means the FT module or the index is absent.
	VectorUnavailable VectorCapability = iota
	// VectorEmpty means the index exists but no segment has an embedding.
	VectorEmpty
	// VectorReady means KNN search can produce candidates.
	VectorReady
)

// String implements fmt.Stringer for log fields.
func (c VectorCapability) String() string {
	switch c {
	case VectorEmpty:
		return "empty"
	case VectorReady:
		return "ready"
	default:
		return "unavailable"
	}
}
