package util

import (
	"regexp"
	"strings"
)

var (
	scriptBlockRegex   = regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`)
	javascriptURIRegex = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRegex  = regexp.MustCompile(`(?i)on\w+=`)

	// markupPatternRegex matches the start of a script tag, a javascript: URI
	// or an inline event handler attribute.
	markupPatternRegex = regexp.MustCompile(`(?i)<script|javascript:|on\w+=`)

	// sqlKeywordRegex matches common SQL statement keywords anywhere in s.
	sqlKeywordRegex = regexp.MustCompile(`(?i)(drop|delete|union|select|insert|update|create|alter|exec)`)
)

// Sanitize removes script blocks, javascript: schemes and on<event>= tokens
// from s in a single pass, then trims surrounding whitespace.
//
// It is a heuristic filter, not a complete XSS sanitizer: entities are not
// decoded and nested or unterminated tags are not handled.
func Sanitize(s string) string {
	s = scriptBlockRegex.ReplaceAllString(s, "")
	s = javascriptURIRegex.ReplaceAllString(s, "")
	s = eventHandlerRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// SanitizeValue applies Sanitize to strings and returns any other value unchanged.
func SanitizeValue(v any) any {
	if s, ok := v.(string); ok {
		return Sanitize(s)
	}
	return v
}

// ContainsMarkup reports whether s contains a script tag opener, a
// javascript: URI or an inline event handler.
func ContainsMarkup(s string) bool {
	return markupPatternRegex.MatchString(s)
}

// ContainsSQLKeyword reports whether s contains a SQL statement keyword.
func ContainsSQLKeyword(s string) bool {
	return sqlKeywordRegex.MatchString(s)
}
