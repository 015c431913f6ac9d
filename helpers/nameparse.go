// Package helpers holds small text utilities shared by the API clients and renderers.
package helpers

import (
	"regexp"
	"strings"
)

// ParsedName is a personal name split into its parts.
type ParsedName struct {
	Full   string
	Given  string
	Middle string
	Family string
	Prefix string
	Suffix string
}

var (
	// Suffixes that appear after a name
	suffixes = []string{"Jr.", "Jr", "Sr.", "Sr", "III", "II", "IV", "PhD", "Ph.D.", "MD", "M.D."}

	// Name prefixes (nobiliary particles)
	prefixes = []string{"van", "von", "de", "del", "della", "di", "da", "le", "la", "du", "des", "den", "der", "ter", "ten", "al-", "el-", "ibn"}

	// Pattern for "Last, First Middle" format
	invertedNameRegex = regexp.MustCompile(`^([^,]+),\s*(.+)$`)
)

// ParseName parses a name string into its components.
// Handles both "First Last" and "Last, First" formats; returns nil for blank input.
func ParseName(name string) *ParsedName {
	name = NormalizeWhitespace(name)
	if name == "" {
		return nil
	}

	result := &ParsedName{Full: name}

	if matches := invertedNameRegex.FindStringSubmatch(name); matches != nil {
		result.Family = strings.TrimSpace(matches[1])
		rest := strings.TrimSpace(matches[2])
		rest, result.Suffix = extractSuffix(rest)

		parts := strings.Fields(rest)
		if len(parts) > 0 {
			result.Given = parts[0]
		}
		if len(parts) > 1 {
			result.Middle = strings.Join(parts[1:], " ")
		}
		return result
	}

	name, result.Suffix = extractSuffix(name)
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return nil
	case 1:
		// A single token is searched as a given name, matching ORCID's
		// given-names field which is what users usually type.
		result.Given = parts[0]
		return result
	}

	familyStart := len(parts) - 1
	if familyStart > 1 && isPrefix(parts[familyStart-1]) {
		result.Prefix = parts[familyStart-1]
		familyStart--
	}

	result.Given = parts[0]
	result.Family = strings.Join(parts[familyStart:], " ")
	if familyStart > 1 {
		result.Middle = strings.Join(parts[1:familyStart], " ")
	}

	return result
}

// HasFamily reports whether a family name was recognised.
func (n *ParsedName) HasFamily() bool {
	return n != nil && n.Family != ""
}

// extractSuffix extracts a suffix from a name string.
func extractSuffix(name string) (string, string) {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, ", "+suffix) {
			return strings.TrimSuffix(name, ", "+suffix), suffix
		}
		if strings.HasSuffix(name, " "+suffix) {
			return strings.TrimSuffix(name, " "+suffix), suffix
		}
	}
	return name, ""
}

// isPrefix checks if a word is a nobiliary particle.
func isPrefix(word string) bool {
	lower := strings.ToLower(word)
	for _, prefix := range prefixes {
		if lower == prefix {
			return true
		}
	}
	return false
}

// SplitNames splits a CSV cell of names joined with sep, dropping blanks.
func SplitNames(names, sep string) []string {
	if strings.TrimSpace(names) == "" {
		return nil
	}
	parts := strings.Split(names, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
