package search

import (
	"sort"

	"github.com/kailas-cloud/lexikon/internal/domain/search/hit"
)

// blend merges the two channel result lists into one ranked list.
// Each channel's raw scores are min-max normalized independently, then
// every segment gets the mean of the normalized scores from whichever
// channels produced it. Mean, not sum: a segment hit by one channel is
// never penalized for missing from the other, while consensus between
// channels still ranks it at the top of both distributions.
func blend(lexical, vector []hit.Hit, limit int) []hit.Hit {
	if limit <= 0 {
		return nil
	}

	lexNorm := normalizeScores(lexical)
	vecNorm := normalizeScores(vector)

	type entry struct {
		hit hit.Hit
		sum float64
		n   int
	}

	// Insertion order (lexical first) is the deterministic secondary
	// sort key, so identical inputs always rank identically.
	order := make([]int64, 0, len(lexical)+len(vector))
	merged := make(map[int64]*entry, len(lexical)+len(vector))

	add := func(h hit.Hit, norm float64) {
		id := h.SegmentID()
		if e, ok := merged[id]; ok {
			e.sum += norm
			e.n++
			e.hit = hit.New(
				id, e.hit.WorkRef(), e.hit.TextNFC(), 0,
				e.hit.Reasons().Union(h.Reasons()),
			)
			return
		}
		merged[id] = &entry{hit: h, sum: norm, n: 1}
		order = append(order, id)
	}

	for _, h := range lexical {
		add(h, lexNorm[h.SegmentID()])
	}
	for _, h := range vector {
		add(h, vecNorm[h.SegmentID()])
	}

	blended := make([]hit.Hit, 0, len(order))
	for _, id := range order {
		e := merged[id]
		blended = append(blended, hit.New(
			id, e.hit.WorkRef(), e.hit.TextNFC(), e.sum/float64(e.n), e.hit.Reasons(),
		))
	}

	sort.SliceStable(blended, func(i, j int) bool {
		return blended[i].Score() > blended[j].Score()
	})

	if len(blended) > limit {
		blended = blended[:limit]
	}
	return blended
}

// normalizeScores min-max normalizes one channel's raw scores onto
// [0,1]. A channel with zero or one distinct score value is degenerate:
// every member normalizes to 1.0. Anything else divides by zero or
// zeroes out a single-hit channel unfairly.
func normalizeScores(hits []hit.Hit) map[int64]float64 {
	if len(hits) == 0 {
		return nil
	}

	minScore, maxScore := hits[0].Score(), hits[0].Score()
	for _, h := range hits[1:] {
		if h.Score() < minScore {
			minScore = h.Score()
		}
		if h.Score() > maxScore {
			maxScore = h.Score()
		}
	}

	norm := make(map[int64]float64, len(hits))
	if maxScore == minScore {
		for _, h := range hits {
			norm[h.SegmentID()] = 1.0
		}
		return norm
	}

	spread := maxScore - minScore
	for _, h := range hits {
		norm[h.SegmentID()] = (h.Score() - minScore) / spread
	}
	return norm
}
