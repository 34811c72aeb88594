// Package textnorm canonicalizes corpus text into its NFC display form
// and its accent-folded fuzzy-match key.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransform decomposes base characters from combining marks and
// drops every nonspacing mark (Mn), which removes accents, breathings
// and other diacritics while preserving base letters.
var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Normalize returns the NFC form of the trimmed input and its
// accent-folded key. Pure function: no I/O, no locale dependency.
func Normalize(text string) (nfc, folded string) {
	trimmed := strings.TrimSpace(text)
	nfc = norm.NFC.String(trimmed)
	return nfc, Fold(nfc)
}

// Fold strips diacritics and lowercases. Folding an already-folded
// string returns it unchanged, so stored and query keys always collide
// for accented and unaccented spellings of the same word.
func Fold(text string) string {
	stripped, _, err := transform.String(foldTransform, text)
	if err != nil {
		// transform.String only fails on a misbehaving Transformer;
		// runes.Remove and norm.NFD never error on valid UTF-8.
		stripped = text
	}
	return strings.ToLower(stripped)
}
