package compose

import (
	"regexp"
	"strings"
)

// indentPattern matches a nested key with nothing after its colon
var indentPattern = regexp.MustCompile(`^(\s+)\S+\s*:\s*$`)

// isSectionsIntroducer reports whether line opens the services block
func isSectionsIntroducer(line, key string) bool {
	return strings.HasPrefix(strings.ToLower(line), strings.ToLower(key)+":")
}

// indentOf returns the leading whitespace of a bare nested key line
func indentOf(line string) (string, bool) {
	m := indentPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// DetectIndent returns the indent unit of lines: the leading whitespace of the
// first bare "key:" line after the sections introducer. It returns "" when the
// introducer is missing or no such line follows it.
func DetectIndent(lines []string, sectionsKey string) string {
	found := false
	for _, line := range lines {
		if !found {
			found = isSectionsIntroducer(line, sectionsKey)
			continue
		}
		if unit, ok := indentOf(line); ok {
			return unit
		}
	}
	return ""
}
