package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// stripDiacritics removes combining marks after NFD decomposition.
func stripDiacritics(s string) string {
	decomp := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomp))
	for _, r := range decomp {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize reduces a title to its comparison key: lowercase ASCII letters
// and digits only. Width/compatibility forms are folded (NFKC) and diacritics
// dropped first, so "Café" keys as "cafe"; anything still outside [a-z0-9]
// after that is deleted. Total and idempotent; an empty or non-Latin title
// yields "".
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Unicode normalization (NFKC) to fold width/compatibility forms (full-width, etc.)
	s = norm.NFKC.String(s)

	// Remove diacritics (é -> e, ñ -> n, ō -> o)
	s = stripDiacritics(s)

	s = strings.ToLower(s)

	return reNonAlnum.ReplaceAllString(s, "")
}
