// Package hit holds the request-scoped search result value.
package hit

import "github.com/kailas-cloud/lexikon/internal/domain/search/reason"

// Hit is a single blended search result. Constructed fresh per search
// call, returned to the caller, never persisted.
type Hit struct {
	segmentID int64
	workRef   string
	textNFC   string
	score     float64
	reasons   reason.Set
}

// New creates a search hit.
func New(segmentID int64, workRef, textNFC string, score float64, reasons reason.Set) Hit {
	return Hit{
		segmentID: segmentID, workRef: workRef, textNFC: textNFC,
		score: score, reasons: reasons,
	}
}

// SegmentID returns the segment identifier.
func (h *Hit) SegmentID() int64 { return h.segmentID }

// WorkRef returns the human-readable work reference (e.g. "Il.1.1").
func (h *Hit) WorkRef() string { return h.workRef }

// TextNFC returns the NFC display text.
func (h *Hit) TextNFC() string { return h.textNFC }

// Score returns the blended relevance score in [0,1].
func (h *Hit) Score() float64 { return h.score }

// Reasons returns the provenance channel set.
func (h *Hit) Reasons() reason.Set { return h.reasons }
