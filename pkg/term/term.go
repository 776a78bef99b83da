// Package term derives academic term letters (A through D) from raw catalog identifiers.
package term

import (
	"regexp"
	"strings"
)

// DefaultLetter is returned by ExtractLetter when nothing in the input names a term.
const DefaultLetter = "A"

var (
	sectionPattern = regexp.MustCompile(`(?i)^([ABCD])`)
	textPattern    = regexp.MustCompile(`(?i)\b([ABCD])\s+Term\b`)

	names = map[string]string{
		"A": "A Term",
		"B": "B Term",
		"C": "C Term",
		"D": "D Term",
	}
)

// ExtractLetter returns the term letter for a section. The leading character of the section
// number wins over the raw term text. When neither matches the result is DefaultLetter, which is
// indistinguishable from a genuine A term; use Lookup when the difference matters.
func ExtractLetter(raw, sectionNumber string) string {
	letter, _ := Lookup(raw, sectionNumber)
	return letter
}

// Lookup applies the same heuristic as ExtractLetter and reports whether a pattern matched.
func Lookup(raw, sectionNumber string) (string, bool) {
	if sectionNumber != "" {
		if m := sectionPattern.FindStringSubmatch(sectionNumber); m != nil {
			return strings.ToUpper(m[1]), true
		}
	}
	if raw != "" {
		if m := textPattern.FindStringSubmatch(raw); m != nil {
			return strings.ToUpper(m[1]), true
		}
	}
	return DefaultLetter, false
}

// FormatName renders a letter as "<Letter> Term". Unknown input is trimmed, upper-cased and passed
// through.
func FormatName(letter string) string {
	upper := Normalize(letter)
	if name, ok := names[upper]; ok {
		return name
	}
	return upper + " Term"
}

// IsValidLetter reports whether s is exactly one of A, B, C or D after trimming.
func IsValidLetter(s string) bool {
	_, ok := names[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// NeedsRepair reports whether a stored computed term is missing or one of the legacy placeholder
// values written by older clients.
func NeedsRepair(computed string) bool {
	trimmed := strings.TrimSpace(computed)
	switch strings.ToLower(trimmed) {
	case "", "undefined", "null":
		return true
	}
	return !IsValidLetter(trimmed)
}

// Normalize upper-cases and trims a term letter for set membership checks.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
