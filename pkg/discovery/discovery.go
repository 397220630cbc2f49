// Package discovery finds the install directory and the compose files a
// configure run rewrites.
package discovery

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/composetune/pkg/errors"
	"github.com/arthur-debert/composetune/pkg/logging"
	"github.com/spf13/afero"
)

const (
	// ComposeGlob matches every compose file in an install directory
	ComposeGlob = "docker-compose*.yml"
	// MarkerFile identifies an install directory
	MarkerFile = "docker-compose.yml"
)

// Targets is the install directory and the files to rewrite in it
type Targets struct {
	InstallPath string
	Files       []string
}

// FindTargets returns the files to configure. An explicit file is used alone
// and its directory becomes the install path; otherwise every ComposeGlob
// match in installPath is returned in lexical order.
func FindTargets(fs afero.Fs, installPath, explicitFile string) (*Targets, error) {
	logger := logging.GetLogger("discovery")

	if explicitFile != "" {
		path, err := filepath.Abs(explicitFile)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve %s", explicitFile).
				WithDetail("path", explicitFile)
		}
		info, err := fs.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(err, errors.ErrFileNotFound, "compose file %s does not exist", path).
					WithDetail("path", path)
			}
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", path).
				WithDetail("path", path)
		}
		if info.IsDir() {
			return nil, errors.Newf(errors.ErrInvalidInput, "%s is a directory, not a compose file", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Using explicit compose file")
		return &Targets{InstallPath: filepath.Dir(path), Files: []string{path}}, nil
	}

	info, err := fs.Stat(installPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInstallPath, "install path %s is not accessible", installPath).
			WithDetail("path", installPath)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrInstallPath, "install path %s is not a directory", installPath).
			WithDetail("path", installPath)
	}

	matches, err := afero.Glob(fs, filepath.Join(installPath, ComposeGlob))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "bad compose glob")
	}

	var files []string
	for _, match := range matches {
		if info, err := fs.Stat(match); err == nil && !info.IsDir() {
			files = append(files, match)
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, errors.Newf(errors.ErrFileNotFound, "no %s files in %s", ComposeGlob, installPath).
			WithDetail("path", installPath)
	}

	logger.Info().Str("installPath", installPath).Int("count", len(files)).Msg("Found compose files")
	return &Targets{InstallPath: installPath, Files: files}, nil
}

// DetectInstallPath returns the first candidate directory holding MarkerFile
func DetectInstallPath(fs afero.Fs, candidates []string) (string, error) {
	logger := logging.GetLogger("discovery")

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		info, err := fs.Stat(filepath.Join(candidate, MarkerFile))
		if err == nil && !info.IsDir() {
			logger.Debug().Str("installPath", candidate).Msg("Install path detected")
			return candidate, nil
		}
		logger.Trace().Str("candidate", candidate).Msg("No compose file here")
	}

	return "", errors.Newf(errors.ErrInstallPath, "no %s found; pass --install-path or --configure-file", MarkerFile).
		WithDetail("candidates", candidates)
}

// DefaultCandidates lists where an install usually lives relative to this
// process: the working directory, the executable's directory and its parent
func DefaultCandidates() []string {
	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir := filepath.Dir(exe)
		candidates = append(candidates, dir, filepath.Dir(dir))
	}
	return candidates
}
