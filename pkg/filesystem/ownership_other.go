//go:build !unix

package filesystem

import "os"

// systemOwnership has nothing to preserve on platforms without numeric owners
type systemOwnership struct{}

func (systemOwnership) Capture(path string) (Ownership, error) {
	if _, err := os.Stat(path); err != nil {
		return Ownership{}, err
	}
	return Ownership{UID: -1, GID: -1}, nil
}

func (systemOwnership) Restore(path string, owner Ownership) error {
	return nil
}
