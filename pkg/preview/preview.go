// Package preview renders the difference between a compose file and its
// rewritten form so a dry run can show what configure would change.
package preview

import (
	"github.com/arthur-debert/composetune/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// ContextLines is the number of unchanged lines shown around each hunk
const ContextLines = 3

// UnifiedDiff returns a unified diff of before and after labelled with path.
// Identical inputs yield an empty string.
func UnifiedDiff(path string, before, after []byte) (string, error) {
	if string(before) == string(after) {
		return "", nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path + " (before)",
		ToFile:   path + " (after)",
		Context:  ContextLines,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "failed to diff %s", path).
			WithDetail("path", path)
	}
	return text, nil
}

// Counts reports how many lines a unified diff adds and removes, ignoring
// the file headers.
func Counts(diff string) (added, removed int) {
	for _, line := range difflib.SplitLines(diff) {
		switch {
		case len(line) >= 3 && (line[:3] == "+++" || line[:3] == "---"):
		case len(line) > 0 && line[0] == '+':
			added++
		case len(line) > 0 && line[0] == '-':
			removed++
		}
	}
	return added, removed
}
