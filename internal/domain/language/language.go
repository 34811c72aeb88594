// Package language normalizes corpus language codes.
package language

// aliases maps legacy language codes to their canonical corpus codes.
// The corpus was originally ingested under bare ISO 639-3 codes; the
// product later split Classical and Koine Greek, so old callers still
// send "grc".
var aliases = map[string]string{
	"grc": "grc-cls",
	"la":  "lat",
}

// Normalize maps a legacy language code to its canonical form.
// Unknown codes pass through unchanged: they simply match no segments.
func Normalize(code string) string {
	if canonical, ok := aliases[code]; ok {
		return canonical
	}
	return code
}
