// Package trigram extracts character trigrams from folded text and
// scores fuzzy similarity over them, with pg_trgm-comparable semantics.
package trigram

import (
	"sort"
	"strings"
	"unicode"
)

// Extract returns the distinct trigrams of the folded text, sorted.
// Each word is padded with two leading and one trailing space before
// 3-gram extraction, so short words still yield boundary trigrams and
// word order does not leak into the set.
func Extract(folded string) []string {
	set := make(map[string]struct{})
	for _, word := range splitWords(folded) {
		padded := []rune("  " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Similarity computes Jaccard set-overlap similarity between two sorted
// trigram slices: |A∩B| / |A∪B|. Both empty → 0.
func Similarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			shared++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return SimilarityFromCounts(shared, len(a), len(b))
}

// SimilarityFromCounts computes Jaccard similarity from a shared-trigram
// count and the two set sizes. Used by the lexical channel, which counts
// overlap via posting sets without materializing the candidate's trigrams.
func SimilarityFromCounts(shared, lenA, lenB int) float64 {
	union := lenA + lenB - shared
	if union <= 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

// splitWords splits folded text on any non-letter, non-digit runes.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
