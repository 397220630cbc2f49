//go:build unix

package filesystem

import (
	"golang.org/x/sys/unix"
)

type systemOwnership struct{}

func (systemOwnership) Capture(path string) (Ownership, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Ownership{}, err
	}
	return Ownership{UID: int(st.Uid), GID: int(st.Gid)}, nil
}

func (systemOwnership) Restore(path string, owner Ownership) error {
	return unix.Chown(path, owner.UID, owner.GID)
}
