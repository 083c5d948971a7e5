package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// replaces the whitespace code points the portal likes to emit
// (nbsp variants, tabs, carriage returns) with ordinary spaces.
var spaceReplacer = strings.NewReplacer(
	" ", " ",
	" ", " ",
	" ", " ",
	"\r", " ",
	"\n", " ",
	"\t", " ",
)

// CleanSingleLine coerces raw cell text into a single trimmed line.
// Idempotent: cleaning a cleaned string is a no-op.
func CleanSingleLine(s string) string {
	s = spaceReplacer.Replace(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// RemoveDiacritics maps "Aprobación" to "Aprobacion" and so on.
// Values keep their accents; this is for comparisons only.
func RemoveDiacritics(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeLabel produces the comparison form of an on-page label:
// lowercased, accent-stripped, whitespace collapsed to single spaces.
func NormalizeLabel(s string) string {
	s = CleanSingleLine(s)
	s = RemoveDiacritics(s)
	return strings.ToLower(s)
}

// OnlyDigits keeps the decimal digits of s, dropping everything else.
func OnlyDigits(s string) string {
	var out strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			out.WriteRune(c)
		}
	}
	return out.String()
}

// SplitLines returns the non-empty trimmed lines of a block of text.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "\n")
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = CleanSingleLine(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
