// Package ascii transliterates arbitrary Unicode field names and values to
// an ASCII skeleton, the way ScriptRock/pdf's internal/encoding package
// normalizes decoded PDF strings with golang.org/x/text/unicode/norm.
//
// The mapping is deterministic and platform-independent: Unicode NFD
// decomposition splits a precomposed character like 'í' into 'i' + a
// combining acute accent, then the combining marks are stripped, leaving the
// ASCII skeleton. Non-ASCII characters with no such decomposition (CJK,
// emoji) fall back to '?'; combining marks on their own are dropped.
package ascii

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes decomposed combining marks (category Mn) after NFD
// decomposition, leaving the base letters behind.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ToASCII transliterates s to its ASCII skeleton. Every byte of the result
// is in [0x00, 0x7F]. Characters that still aren't ASCII after mark removal
// (e.g. CJK ideographs) are replaced with '?'.
func ToASCII(s string) string {
	decomposed, _, err := transform.String(stripMarks, s)
	if err != nil {
		decomposed = s
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

// IsASCII reports whether every byte of s is in [0x00, 0x7F].
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
