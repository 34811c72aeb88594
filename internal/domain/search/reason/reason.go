// Package reason tracks which retrieval channels produced a search hit.
package reason

// Set is a fixed-size flag set of retrieval channels. There are exactly
// two channels, so a byte-wide bitmask beats an allocated map.
type Set uint8

const (
	// Lexical marks a hit produced by trigram similarity.
	Lexical Set = 1 << iota
	// Vector marks a hit produced by embedding similarity.
	Vector
)

// Has reports whether all channels in other are present in s.
func (s Set) Has(other Set) bool { return s&other == other }

// Union returns the channels present in either set.
func (s Set) Union(other Set) Set { return s | other }

// Count returns the number of channels in the set.
func (s Set) Count() int {
	n := 0
	if s.Has(Lexical) {
		n++
	}
	if s.Has(Vector) {
		n++
	}
	return n
}

// Strings returns the channel names in sorted order.
func (s Set) Strings() []string {
	out := make([]string, 0, 2)
	if s.Has(Lexical) {
		out = append(out, "lexical")
	}
	if s.Has(Vector) {
		out = append(out, "vector")
	}
	return out
}
