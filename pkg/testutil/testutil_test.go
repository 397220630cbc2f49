package testutil

import (
	"io"
	"os"
	"testing"

	"github.com/arthur-debert/composetune/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemFS(t *testing.T) {
	fs := MemFS(t, map[string]string{
		"/opt/stack/docker-compose.yml": "services:\n",
	})
	assert.Equal(t, "services:\n", ReadFile(t, fs, "/opt/stack/docker-compose.yml"))
}

func TestFaultyFsWriteLimit(t *testing.T) {
	fs := NewFaultyFs(MemFS(t, nil))
	fs.WriteLimit = 4

	f, err := fs.Create("/out")
	require.NoError(t, err)

	n, err := io.WriteString(f, "abcdef")
	assert.Equal(t, 4, n)
	assert.ErrorIs(t, err, ErrInjected)

	_, err = f.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 4, fs.Written())
}

func TestFaultyFsRenameAndOpen(t *testing.T) {
	fs := NewFaultyFs(MemFS(t, map[string]string{"/a": "x"}))

	fs.RenameFails = true
	assert.ErrorIs(t, fs.Rename("/a", "/b"), ErrInjected)

	fs.OpenFails["/a"] = true
	_, err := fs.Open("/a")
	assert.ErrorIs(t, err, ErrInjected)
	_, err = fs.OpenFile("/a", os.O_RDONLY, 0)
	assert.ErrorIs(t, err, ErrInjected)
}

func TestRecordingOwners(t *testing.T) {
	owners := NewRecordingOwners(filesystem.Ownership{UID: 1000, GID: 1000})
	owners.SetOwner("/root.yml", filesystem.Ownership{UID: 0, GID: 0})

	got, err := owners.Capture("/root.yml")
	require.NoError(t, err)
	assert.Equal(t, filesystem.Ownership{}, got)

	got, err = owners.Capture("/other.yml")
	require.NoError(t, err)
	assert.Equal(t, filesystem.Ownership{UID: 1000, GID: 1000}, got)

	require.NoError(t, owners.Restore("/other.yml", filesystem.Ownership{UID: 5, GID: 6}))
	assert.Equal(t, filesystem.Ownership{UID: 5, GID: 6}, owners.Owner("/other.yml"))
	assert.Len(t, owners.Calls(), 3)
	assert.Len(t, owners.Restores(), 1)
}
