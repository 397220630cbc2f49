package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedDiff(t *testing.T) {
	before := []byte("services:\n  logstash:\n    restart: \"no\"\n")
	after := []byte("services:\n  logstash:\n    ports:\n      - 0.0.0.0:5044:5044\n    restart: always\n")

	diff, err := UnifiedDiff("docker-compose.yml", before, after)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(diff, "--- docker-compose.yml (before)\n+++ docker-compose.yml (after)\n"), diff)
	assert.Contains(t, diff, "-    restart: \"no\"\n")
	assert.Contains(t, diff, "+    ports:\n")
	assert.Contains(t, diff, "+    restart: always\n")
	assert.Contains(t, diff, " services:\n")

	added, removed := Counts(diff)
	assert.Equal(t, 3, added)
	assert.Equal(t, 1, removed)
}

func TestUnifiedDiffIdentical(t *testing.T) {
	diff, err := UnifiedDiff("docker-compose.yml", []byte("a\n"), []byte("a\n"))
	require.NoError(t, err)
	assert.Empty(t, diff)

	added, removed := Counts(diff)
	assert.Zero(t, added)
	assert.Zero(t, removed)
}
