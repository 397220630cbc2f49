package config

import (
	"strings"

	"github.com/arthur-debert/composetune/pkg/errors"
)

// ParseOverrides turns key=value pairs into an override map.
// Keys are dotted paths such as curator.close_count and are lowercased.
func ParseOverrides(pairs []string) (map[string]interface{}, error) {
	overrides := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" || strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") {
			return nil, errors.Newf(errors.ErrInvalidInput, "override %q must look like section.key=value", pair).
				WithDetail("override", pair)
		}
		overrides[key] = value
	}
	return overrides, nil
}
