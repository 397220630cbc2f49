package compose

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/composetune/pkg/errors"
	"github.com/arthur-debert/composetune/pkg/filesystem"
	"github.com/arthur-debert/composetune/pkg/logging"
	"github.com/arthur-debert/composetune/pkg/settings"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Target is a file about to be rewritten and the owner it must keep
type Target struct {
	Path  string
	Owner filesystem.Ownership
}

// FileResult describes one rewritten or previewed file
type FileResult struct {
	Target Target
	Stats  Stats
	// Original and Rewritten are only filled by Preview
	Original  []byte
	Rewritten []byte
}

// Changed reports whether the rewrite altered the file
func (r FileResult) Changed() bool {
	return r.Stats.Changed()
}

// RewriterOptions configures a Rewriter. Zero values select the OS
// filesystem, the host ownership keeper and DefaultLayout.
type RewriterOptions struct {
	FS     afero.Fs
	Owners filesystem.OwnershipKeeper
	Layout *Layout
}

// Rewriter edits compose files in place
type Rewriter struct {
	fs     afero.Fs
	owners filesystem.OwnershipKeeper
	layout Layout
	logger zerolog.Logger
}

// NewRewriter creates a rewriter
func NewRewriter(opts RewriterOptions) *Rewriter {
	r := &Rewriter{
		fs:     opts.FS,
		owners: opts.Owners,
		layout: DefaultLayout(),
		logger: logging.GetLogger("compose.rewriter"),
	}
	if r.fs == nil {
		r.fs = afero.NewOsFs()
	}
	if r.owners == nil {
		r.owners = filesystem.System()
	}
	if opts.Layout != nil {
		r.layout = *opts.Layout
	}
	return r
}

// Layout returns the layout the rewriter keys on
func (r *Rewriter) Layout() Layout {
	return r.layout
}

// Rewrite streams src through a fresh pipeline into dst. Line terminators are
// kept as they were, including a missing newline on the last line.
func (r *Rewriter) Rewrite(src io.Reader, dst io.Writer, s *settings.Settings) (Stats, error) {
	pipeline := NewPipeline(s, r.layout)
	reader := bufio.NewReader(src)
	writer := bufio.NewWriter(dst)

	for {
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return pipeline.Stats(), errors.Wrap(readErr, errors.ErrFileAccess, "cannot read input")
		}
		if raw == "" && readErr == io.EOF {
			break
		}

		line, terminator := splitTerminator(raw)
		out := pipeline.Process(line)
		if err := writeLines(writer, out, terminator); err != nil {
			return pipeline.Stats(), errors.Wrap(err, errors.ErrFileWrite, "cannot write output")
		}

		if readErr == io.EOF {
			break
		}
	}

	if err := writer.Flush(); err != nil {
		return pipeline.Stats(), errors.Wrap(err, errors.ErrFileWrite, "cannot write output")
	}

	state := pipeline.State()
	if !state.SectionsFound || state.IndentUnit == "" {
		r.logger.Debug().
			Bool("sectionsFound", state.SectionsFound).
			Msg("No service indent detected, section rules skipped")
	}
	return pipeline.Stats(), nil
}

func splitTerminator(raw string) (string, string) {
	switch {
	case strings.HasSuffix(raw, "\r\n"):
		return raw[:len(raw)-2], "\r\n"
	case strings.HasSuffix(raw, "\n"):
		return raw[:len(raw)-1], "\n"
	default:
		return raw, ""
	}
}

// writeLines writes out with terminator after each line. Lines synthesized
// after a final unterminated line get a plain newline between them.
func writeLines(w *bufio.Writer, out []string, terminator string) error {
	for i, line := range out {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		sep := terminator
		if i < len(out)-1 && sep == "" {
			sep = "\n"
		}
		if _, err := w.WriteString(sep); err != nil {
			return err
		}
	}
	return nil
}

// RewriteFile rewrites path in place. The owner is captured before anything
// is written and restored afterwards whether or not the rewrite succeeded.
func (r *Rewriter) RewriteFile(path string, s *settings.Settings) (result *FileResult, err error) {
	logger := r.logger.With().Str("path", path).Logger()
	defer logging.LogOperationStart(logger, "rewrite")()

	info, err := r.stat(path)
	if err != nil {
		return nil, err
	}

	owner, captureErr := r.owners.Capture(path)
	if captureErr != nil {
		return nil, errors.Wrapf(captureErr, errors.ErrOwnership, "cannot read owner of %s", path).
			WithDetail("path", path)
	}
	target := Target{Path: path, Owner: owner}

	defer func() {
		restoreErr := r.owners.Restore(path, owner)
		if restoreErr == nil {
			return
		}
		wrapped := errors.Wrapf(restoreErr, errors.ErrOwnership, "cannot restore owner %s on %s", owner, path).
			WithDetail("path", path)
		if err == nil {
			result, err = nil, wrapped
			return
		}
		logger.Error().Err(wrapped).Msg("Owner restore failed after rewrite error")
	}()

	src, openErr := r.fs.Open(path)
	if openErr != nil {
		return nil, errors.Wrapf(openErr, errors.ErrFileAccess, "cannot open %s", path).
			WithDetail("path", path)
	}
	defer src.Close()

	var stats Stats
	err = filesystem.ReplaceFile(r.fs, path, info.Mode().Perm(), func(w io.Writer) error {
		var rewriteErr error
		stats, rewriteErr = r.Rewrite(src, w, s)
		return rewriteErr
	})
	if err != nil {
		return nil, withPath(err, path)
	}

	logger.Info().
		Str("owner", owner.String()).
		Int("lines", stats.Lines).
		Int("rewritten", stats.Rewritten).
		Int("inserted", stats.Inserted).
		Int("dropped", stats.Dropped).
		Msg("Rewrote compose file")

	return &FileResult{Target: target, Stats: stats}, nil
}

// Preview runs the rewrite without touching path and returns both versions
func (r *Rewriter) Preview(path string, s *settings.Settings) (*FileResult, error) {
	if _, err := r.stat(path); err != nil {
		return nil, err
	}
	original, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path).
			WithDetail("path", path)
	}

	var out bytes.Buffer
	stats, err := r.Rewrite(bytes.NewReader(original), &out, s)
	if err != nil {
		return nil, withPath(err, path)
	}
	return &FileResult{
		Target:    Target{Path: path},
		Stats:     stats,
		Original:  original,
		Rewritten: out.Bytes(),
	}, nil
}

// RewriteAll rewrites paths one after another in the given order. The first
// failure stops the run; results for the files already done are returned
// with the error. ctx is only checked between files.
func (r *Rewriter) RewriteAll(ctx context.Context, paths []string, s *settings.Settings) ([]FileResult, error) {
	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := r.RewriteFile(path, s)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}
	return results, nil
}

func (r *Rewriter) stat(path string) (os.FileInfo, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "compose file %s does not exist", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path).
			WithDetail("path", path)
	}
	if info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is a directory", path).
			WithDetail("path", path)
	}
	return info, nil
}

// withPath makes sure a coded error names the file it is about
func withPath(err error, path string) error {
	details := errors.GetErrorDetails(err)
	if details == nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot rewrite %s", path).WithDetail("path", path)
	}
	if _, ok := details["path"]; !ok {
		return errors.Wrapf(err, errors.GetErrorCode(err), "cannot rewrite %s", path).WithDetail("path", path)
	}
	return err
}
