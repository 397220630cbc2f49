// Package testutil provides fixtures for testing composetune components.
//
// Key components:
//   - MemFS: afero in-memory filesystem seeded from a map of files
//   - FaultyFs: afero wrapper that injects write, rename and open failures
//   - RecordingOwners: ownership keeper that records captures and restores
//   - Settings: a valid baseline settings value tests can mutate
//
// Usage guidelines:
//   - Tests touching compose files should run on MemFS, not the real disk
//   - Only pkg/filesystem tests exercise real chown and rename
//   - Each test builds its own filesystem; nothing is shared
package testutil
