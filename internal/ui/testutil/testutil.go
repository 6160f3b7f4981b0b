// Package testutil provides helpers for asserting on rendered views.
package testutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes escape sequences so views can be compared as text.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// ContainsLine reports whether any line of the plain view contains substr.
func ContainsLine(view, substr string) bool {
	return FindLine(view, substr) != ""
}

// FindLine returns the first plain line containing substr, or "".
func FindLine(view, substr string) string {
	for line := range strings.SplitSeq(StripANSI(view), "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// CountLines returns the number of non-blank lines.
func CountLines(view string) int {
	n := 0
	for line := range strings.SplitSeq(StripANSI(view), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// MaxWidth returns the widest line in cells, ignoring escape sequences.
func MaxWidth(view string) int {
	w := 0
	for line := range strings.SplitSeq(view, "\n") {
		w = max(w, ansi.StringWidth(line))
	}
	return w
}
