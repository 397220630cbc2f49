package config

import (
	"strings"

	"github.com/arthur-debert/composetune/pkg/errors"
	"github.com/arthur-debert/composetune/pkg/settings"
	toml "github.com/pelletier/go-toml/v2"
)

// Encode renders resolved settings as a settings file
func Encode(s *settings.Settings) ([]byte, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode settings")
	}
	return data, nil
}

// GenerateTemplate returns the embedded defaults with every value commented out
func GenerateTemplate() string {
	return commentOutConfigValues(DefaultsContent())
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines as-is
		if trimmed == "" {
			result = append(result, line)
			continue
		}

		// Keep lines that are already comments
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [curator], [forward]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		// Comment out configuration value lines
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
