package helpers

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	htmlCommentRegex = regexp.MustCompile(`<!--[\s\S]*?-->`)
	multiSpaceRegex  = regexp.MustCompile(`\s+`)
)

// StripHTML removes HTML tags from a string and decodes HTML entities.
// OpenAlex titles regularly carry inline markup such as <i> or <sub>.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	s = htmlCommentRegex.ReplaceAllString(s, "")
	s = htmlTagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	return NormalizeWhitespace(s)
}

// IsHTML checks if a string appears to contain HTML markup.
func IsHTML(s string) bool {
	return htmlTagRegex.MatchString(s)
}

// NormalizeWhitespace collapses all whitespace runs to single spaces and trims.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(multiSpaceRegex.ReplaceAllString(s, " "))
}

// NormalizeTitle is the comparison key for exact title matching:
// markup removed, whitespace collapsed, lower-cased. Punctuation is kept.
func NormalizeTitle(s string) string {
	if IsHTML(s) {
		s = StripHTML(s)
	}
	return strings.ToLower(NormalizeWhitespace(s))
}

// TruncateText shortens s to at most maxLen characters, adding an ellipsis
// and preferring a word boundary. It never splits a multi-byte character.
func TruncateText(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}

	truncated := string(runes[:maxLen-3])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace >= 0 && utf8.RuneCountInString(truncated[:lastSpace]) > maxLen/2 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}
