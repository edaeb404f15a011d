// Package textwrap provides greedy line filling for text-oriented writers.
package textwrap

import "strings"

// DefaultColumns is the line width used when a caller passes width <= 0.
const DefaultColumns = 72

// Fill re-flows text to the given width using a greedy fill: words are
// packed onto lines until the next word would exceed width. A word longer
// than width gets a line of its own and is never split. Existing newlines
// are treated as ordinary word separators.
func Fill(text string, width int) string {
	if width <= 0 {
		width = DefaultColumns
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if i == 0 {
			b.WriteString(w)
			lineLen = len(w)
			continue
		}
		if lineLen+1+len(w) > width {
			b.WriteByte('\n')
			b.WriteString(w)
			lineLen = len(w)
			continue
		}
		b.WriteByte(' ')
		b.WriteString(w)
		lineLen += 1 + len(w)
	}
	return b.String()
}

// Collapse joins all whitespace runs into single spaces without re-flowing.
// Used by the wrap=none policy, which emits each paragraph on one line.
func Collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
