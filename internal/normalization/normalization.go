package normalization

import (
	"strings"
)

func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimInputString keeps the caller's casing. Themes and titles are
// user-facing labels, lowercasing them would mangle display.
func TrimInputString(input string) string {
	return strings.TrimSpace(input)
}
