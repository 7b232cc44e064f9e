package markup

import (
	"regexp"
	"strings"
)

var (
	// markerPattern matches any complete {{...}} marker.
	markerPattern = regexp.MustCompile(`\{\{[^{}]+\}\}`)

	// helperPattern matches {{name expression}}. The name cannot start with a
	// block sigil and the expression must start like an operand, so that
	// {{price * 1.2}} stays an ordinary placeholder. Matches built with a word
	// operator are filtered out by helperMatches.
	helperPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][\w.-]*)\s+([\w"'@$(\[][^{}]*?)\s*\}\}`)

	blockOpenPattern  = regexp.MustCompile(`\{\{#[^{}]*\}\}`)
	blockClosePattern = regexp.MustCompile(`\{\{/[^{}]*\}\}`)
)

// blockDepth is the number of block-open markers minus block-close markers.
func blockDepth(s string) int {
	return len(blockOpenPattern.FindAllStringIndex(s, -1)) - len(blockClosePattern.FindAllStringIndex(s, -1))
}

// openBrackets reports whether s has more {{ than }}.
func openBrackets(s string) bool {
	return strings.Count(s, "{{") > strings.Count(s, "}}")
}

func hasMarker(s string) bool {
	return markerPattern.MatchString(s)
}

// wellFormed reports whether every brace pair of s belongs to a complete
// marker and at least one marker is present.
func wellFormed(s string) bool {
	if !hasMarker(s) {
		return false
	}
	rest := markerPattern.ReplaceAllString(s, "")
	return !strings.Contains(rest, "{{") && !strings.Contains(rest, "}}")
}

func hasBlockOpen(s string) bool {
	return blockOpenPattern.MatchString(s)
}

// isLayout reports whether s is indentation between elements rather than content.
func isLayout(s string) bool {
	return strings.TrimSpace(s) == "" && strings.ContainsAny(s, "\r\n")
}
