// Package configure runs the configure command: it finds the compose files
// of an installation, resolves settings and rewrites or previews each file.
package configure

import (
	"context"

	"github.com/arthur-debert/composetune/pkg/compose"
	"github.com/arthur-debert/composetune/pkg/config"
	"github.com/arthur-debert/composetune/pkg/discovery"
	"github.com/arthur-debert/composetune/pkg/filesystem"
	"github.com/arthur-debert/composetune/pkg/logging"
	"github.com/arthur-debert/composetune/pkg/output"
	"github.com/arthur-debert/composetune/pkg/preview"
	"github.com/arthur-debert/composetune/pkg/settings"
	"github.com/spf13/afero"
)

// ConfigureOptions holds options for the configure command
type ConfigureOptions struct {
	// InstallPath holds the compose files. Empty means detect it.
	InstallPath string
	// ConfigureFile restricts the run to one compose file
	ConfigureFile string
	// ConfigFile is an optional settings file
	ConfigFile string
	// Set holds key=value overrides
	Set []string
	// ExposeLogstash defaults the ingest port to published
	ExposeLogstash bool
	// RestartServices defaults the restart policy to unless-stopped
	RestartServices bool
	DryRun          bool

	FileSystem afero.Fs
	Owners     filesystem.OwnershipKeeper
	// Candidates are searched for an installation when InstallPath is
	// empty. Nil uses discovery.DefaultCandidates.
	Candidates []string
	HostIDs    func() (uid, gid int)
	SkipEnv    bool
}

// ConfigureResult is what a configure run did
type ConfigureResult struct {
	InstallPath string
	Settings    *settings.Settings
	Files       []compose.FileResult
	// Diffs maps each previewed path to its unified diff
	Diffs  map[string]string
	DryRun bool
}

// Report converts the result for printing
func (r *ConfigureResult) Report() output.Report {
	report := output.Report{DryRun: r.DryRun}
	for _, file := range r.Files {
		report.Files = append(report.Files, output.NewFileReport(file, r.Diffs[file.Target.Path]))
	}
	return report
}

// FlagDefaults turns the dedicated flags into the low-priority settings
// layer, so a settings file or --set can still override them
func FlagDefaults(exposeLogstash, restartServices bool) map[string]interface{} {
	defaults := map[string]interface{}{}
	if exposeLogstash {
		defaults["logstash.expose"] = true
	}
	if restartServices {
		defaults["restart"] = string(settings.RestartUnlessStopped)
	}
	return defaults
}

// Configure discovers, resolves and rewrites. When a rewrite fails the
// result still lists the files finished before it.
func Configure(ctx context.Context, opts ConfigureOptions) (*ConfigureResult, error) {
	logger := logging.GetLogger("commands.configure")
	logger.Debug().Str("command", "Configure").Bool("dryRun", opts.DryRun).Msg("Executing command")

	fs := opts.FileSystem
	if fs == nil {
		fs = afero.NewOsFs()
	}

	installPath := opts.InstallPath
	if installPath == "" && opts.ConfigureFile == "" {
		candidates := opts.Candidates
		if candidates == nil {
			candidates = discovery.DefaultCandidates()
		}
		detected, err := discovery.DetectInstallPath(fs, candidates)
		if err != nil {
			return nil, err
		}
		installPath = detected
	}

	targets, err := discovery.FindTargets(fs, installPath, opts.ConfigureFile)
	if err != nil {
		return nil, err
	}

	overrides, err := config.ParseOverrides(opts.Set)
	if err != nil {
		return nil, err
	}

	s, err := config.Load(config.Options{
		ConfigFile: opts.ConfigFile,
		Defaults:   FlagDefaults(opts.ExposeLogstash, opts.RestartServices),
		Overrides:  overrides,
		HostIDs:    opts.HostIDs,
		SkipEnv:    opts.SkipEnv,
	})
	if err != nil {
		return nil, err
	}

	rewriter := compose.NewRewriter(compose.RewriterOptions{FS: fs, Owners: opts.Owners})
	result := &ConfigureResult{
		InstallPath: targets.InstallPath,
		Settings:    s,
		DryRun:      opts.DryRun,
	}

	if opts.DryRun {
		result.Diffs = make(map[string]string, len(targets.Files))
		for _, path := range targets.Files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			file, err := rewriter.Preview(path, s)
			if err != nil {
				return nil, err
			}
			diff, err := preview.UnifiedDiff(path, file.Original, file.Rewritten)
			if err != nil {
				return nil, err
			}
			result.Files = append(result.Files, *file)
			result.Diffs[path] = diff
		}
	} else {
		files, err := rewriter.RewriteAll(ctx, targets.Files, s)
		result.Files = files
		if err != nil {
			// the files already rewritten stay rewritten; report them
			return result, err
		}
	}

	logger.Info().
		Str("command", "Configure").
		Str("installPath", result.InstallPath).
		Int("fileCount", len(result.Files)).
		Msg("Command finished")
	return result, nil
}
