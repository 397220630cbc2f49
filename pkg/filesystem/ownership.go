package filesystem

import "fmt"

// Ownership is a numeric owner and group
type Ownership struct {
	UID int
	GID int
}

func (o Ownership) String() string {
	return fmt.Sprintf("%d:%d", o.UID, o.GID)
}

// OwnershipKeeper reads a file's owner before an edit and puts it back after
type OwnershipKeeper interface {
	Capture(path string) (Ownership, error)
	Restore(path string, owner Ownership) error
}

// System returns the keeper for the host operating system
func System() OwnershipKeeper {
	return systemOwnership{}
}
