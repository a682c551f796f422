package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeKey turns a scraped city label into the lookup key used by
// the alias table: case folded, trimmed, inner whitespace collapsed to
// a single space.
func NormalizeKey(label string) string {
	label = strings.ToLower(label)
	label = strings.Trim(label, " \n\t")
	return whitespaceRegex.ReplaceAllString(label, " ")
}
