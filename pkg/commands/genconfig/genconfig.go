// Package genconfig runs the gen-config command
package genconfig

import (
	"path/filepath"

	"github.com/arthur-debert/composetune/pkg/config"
	"github.com/arthur-debert/composetune/pkg/errors"
	"github.com/arthur-debert/composetune/pkg/logging"
	"github.com/spf13/afero"
)

// GenConfigOptions holds options for the gen-config command
type GenConfigOptions struct {
	// Template prints the commented defaults instead of resolved settings
	Template bool
	// ConfigFile and Set feed the resolver like they do for configure
	ConfigFile string
	Set        []string
	// WritePath writes the content there instead of returning it only
	WritePath string
	// Force replaces an existing file at WritePath
	Force bool

	FileSystem afero.Fs
	HostIDs    func() (uid, gid int)
	SkipEnv    bool
}

// GenConfigResult holds the generated settings file
type GenConfigResult struct {
	ConfigContent string
	FileWritten   string
	// Skipped is set when WritePath already existed and Force was not given
	Skipped bool
}

// GenConfig renders a settings file and optionally writes it
func GenConfig(opts GenConfigOptions) (*GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	result := &GenConfigResult{}
	if opts.Template {
		result.ConfigContent = config.GenerateTemplate()
	} else {
		overrides, err := config.ParseOverrides(opts.Set)
		if err != nil {
			return nil, err
		}
		s, err := config.Load(config.Options{
			ConfigFile: opts.ConfigFile,
			Overrides:  overrides,
			HostIDs:    opts.HostIDs,
			SkipEnv:    opts.SkipEnv,
		})
		if err != nil {
			return nil, err
		}
		data, err := config.Encode(s)
		if err != nil {
			return nil, err
		}
		result.ConfigContent = string(data)
	}

	if opts.WritePath == "" {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	fs := opts.FileSystem
	if fs == nil {
		fs = afero.NewOsFs()
	}

	if exists, _ := afero.Exists(fs, opts.WritePath); exists && !opts.Force {
		logger.Warn().Str("path", opts.WritePath).Msg("Config file already exists, skipping")
		result.Skipped = true
		return result, nil
	}

	dir := filepath.Dir(opts.WritePath)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to create directory %s", dir).
			WithDetail("path", dir)
	}
	if err := afero.WriteFile(fs, opts.WritePath, []byte(result.ConfigContent), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write config to %s", opts.WritePath).
			WithDetail("path", opts.WritePath)
	}

	logger.Info().Str("path", opts.WritePath).Msg("Written config file")
	result.FileWritten = opts.WritePath
	return result, nil
}
