package filesystem

import (
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/composetune/pkg/errors"
	"github.com/spf13/afero"
)

// ReplaceFile writes a new version of path through a staging file in the same
// directory and renames it over path. write receives the staging file. If
// write or any later step fails the staging file is removed and path is left
// as it was.
func ReplaceFile(fs afero.Fs, path string, perm os.FileMode, write func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	staging, err := afero.TempFile(fs, dir, "."+base+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create staging file for %s", path).
			WithDetail("path", path)
	}
	stagingName := staging.Name()

	defer func() {
		if err != nil {
			_ = staging.Close()
			_ = fs.Remove(stagingName)
		}
	}()

	if err = write(staging); err != nil {
		return err
	}
	if err = staging.Sync(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot flush staging file for %s", path).
			WithDetail("path", path)
	}
	if err = staging.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot close staging file for %s", path).
			WithDetail("path", path)
	}
	if err = fs.Chmod(stagingName, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot set mode on staging file for %s", path).
			WithDetail("path", path)
	}
	if err = fs.Rename(stagingName, path); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot replace %s", path).
			WithDetail("path", path)
	}
	return nil
}
