//go:build unix

package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemOwnershipRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n"), 0644))

	keeper := System()
	owner, err := keeper.Capture(path)
	require.NoError(t, err)
	assert.Equal(t, os.Geteuid(), owner.UID)
	assert.Equal(t, os.Getegid(), owner.GID)

	// chown to the current owner is always permitted
	require.NoError(t, keeper.Restore(path, owner))

	again, err := keeper.Capture(path)
	require.NoError(t, err)
	assert.Equal(t, owner, again)
}

func TestSystemOwnershipMissingFile(t *testing.T) {
	_, err := System().Capture(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestOwnershipString(t *testing.T) {
	assert.Equal(t, "1000:100", Ownership{UID: 1000, GID: 100}.String())
}
