package testutil

import (
	"sync"

	"github.com/arthur-debert/composetune/pkg/filesystem"
	"github.com/stretchr/testify/mock"
)

// OwnerCall is one Capture or Restore seen by RecordingOwners
type OwnerCall struct {
	Op    string
	Path  string
	Owner filesystem.Ownership
}

// RecordingOwners is an in-memory OwnershipKeeper. Capture reports the owner
// set with SetOwner, or Default. Restore records the owner it was given.
type RecordingOwners struct {
	mu      sync.Mutex
	Default filesystem.Ownership
	owners  map[string]filesystem.Ownership
	calls   []OwnerCall

	CaptureErr error
	RestoreErr error
}

// NewRecordingOwners returns a keeper reporting def for unknown paths
func NewRecordingOwners(def filesystem.Ownership) *RecordingOwners {
	return &RecordingOwners{Default: def, owners: make(map[string]filesystem.Ownership)}
}

// SetOwner fixes the owner Capture reports for path
func (r *RecordingOwners) SetOwner(path string, owner filesystem.Ownership) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[path] = owner
}

// Owner returns the current owner of path
func (r *RecordingOwners) Owner(path string) filesystem.Ownership {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.owners[path]; ok {
		return owner
	}
	return r.Default
}

// Calls returns every call in order
func (r *RecordingOwners) Calls() []OwnerCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OwnerCall(nil), r.calls...)
}

// Restores returns only the Restore calls
func (r *RecordingOwners) Restores() []OwnerCall {
	var restores []OwnerCall
	for _, call := range r.Calls() {
		if call.Op == "restore" {
			restores = append(restores, call)
		}
	}
	return restores
}

func (r *RecordingOwners) Capture(path string) (filesystem.Ownership, error) {
	owner := r.Owner(path)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, OwnerCall{Op: "capture", Path: path, Owner: owner})
	if r.CaptureErr != nil {
		return filesystem.Ownership{}, r.CaptureErr
	}
	return owner, nil
}

func (r *RecordingOwners) Restore(path string, owner filesystem.Ownership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, OwnerCall{Op: "restore", Path: path, Owner: owner})
	if r.RestoreErr != nil {
		return r.RestoreErr
	}
	r.owners[path] = owner
	return nil
}

// MockOwners is a testify mock of filesystem.OwnershipKeeper, for tests that
// assert exact calls and arguments
type MockOwners struct {
	mock.Mock
}

func (m *MockOwners) Capture(path string) (filesystem.Ownership, error) {
	args := m.Called(path)
	return args.Get(0).(filesystem.Ownership), args.Error(1)
}

func (m *MockOwners) Restore(path string, owner filesystem.Ownership) error {
	args := m.Called(path, owner)
	return args.Error(0)
}
