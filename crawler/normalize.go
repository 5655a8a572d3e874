package crawler

import (
	"strings"
)

// CleanText collapses every whitespace run (including newlines) to a single
// space, trims the ends, and repairs stray spaces left in front of periods
// and commas by fragment joining. Total: empty or all-space input yields "".
func CleanText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, " .", ".")
	return strings.ReplaceAll(text, " ,", ",")
}
