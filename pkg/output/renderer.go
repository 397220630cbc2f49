// Package output renders configure reports, rule listings and errors.
//
// Reports are produced in two phases: Go templates expand the data, and a
// "style" template function applies the lipgloss styles registered in
// pkg/output/styles. In no-color mode the style function is the identity.
package output

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/arthur-debert/composetune/pkg/compose"
	"github.com/arthur-debert/composetune/pkg/errors"
	"github.com/arthur-debert/composetune/pkg/logging"
	"github.com/arthur-debert/composetune/pkg/output/styles"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer writes styled output to a writer
type Renderer struct {
	templates *template.Template
	writer    io.Writer
	noColor   bool
}

// RuleHit is one rule and how often it matched in a file
type RuleHit struct {
	Name string
	Hits int
}

// FileReport is the printable summary of one rewritten file
type FileReport struct {
	Path      string
	Changed   bool
	Lines     int
	Rewritten int
	Inserted  int
	Dropped   int
	Rules     []RuleHit
	Diff      string
}

// Report is everything a configure run prints
type Report struct {
	DryRun bool
	Files  []FileReport
}

// NewFileReport summarises a rewrite result. diff may be empty.
func NewFileReport(result compose.FileResult, diff string) FileReport {
	report := FileReport{
		Path:      result.Target.Path,
		Changed:   result.Changed(),
		Lines:     result.Stats.Lines,
		Rewritten: result.Stats.Rewritten,
		Inserted:  result.Stats.Inserted,
		Dropped:   result.Stats.Dropped,
		Diff:      diff,
	}
	for name, hits := range result.Stats.RuleHits {
		report.Rules = append(report.Rules, RuleHit{Name: name, Hits: hits})
	}
	sort.Slice(report.Rules, func(i, j int) bool { return report.Rules[i].Name < report.Rules[j].Name })
	return report
}

// NewRenderer creates a Renderer writing to w. With noColor set every style
// is dropped and the output is plain text.
func NewRenderer(w io.Writer, noColor bool) (*Renderer, error) {
	log := logging.GetLogger("output.Renderer")
	log.Debug().
		Bool("noColor", noColor).
		Str("NO_COLOR_env", os.Getenv("NO_COLOR")).
		Str("TERM", os.Getenv("TERM")).
		Msg("Creating renderer with color settings")

	r := &Renderer{writer: w, noColor: noColor}

	tmpl, err := template.New("output").Funcs(template.FuncMap{
		"style":  r.style,
		"diff":   r.diff,
		"indent": describeIndent,
	}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse templates")
	}
	r.templates = tmpl
	return r, nil
}

func (r *Renderer) style(name, text string) string {
	if r.noColor {
		return text
	}
	return styles.GetStyle(name).Render(text)
}

// diff styles a unified diff line by line
func (r *Renderer) diff(text string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			body = r.style("DiffHeader", body)
		case strings.HasPrefix(body, "@@"):
			body = r.style("DiffHunk", body)
		case strings.HasPrefix(body, "+"):
			body = r.style("DiffAdd", body)
		case strings.HasPrefix(body, "-"):
			body = r.style("DiffDel", body)
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func describeIndent(unit string) string {
	switch {
	case unit == "":
		return "none"
	case strings.Trim(unit, "\t") == "":
		return fmt.Sprintf("%d tab(s)", len(unit))
	case strings.Trim(unit, " ") == "":
		return fmt.Sprintf("%d space(s)", len(unit))
	default:
		return fmt.Sprintf("%q", unit)
	}
}

func (r *Renderer) execute(name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to execute template %s", name)
	}
	if _, err := io.Copy(r.writer, &buf); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write output")
	}
	return nil
}

// RenderReport prints the outcome of a configure run
func (r *Renderer) RenderReport(report Report) error {
	return r.execute("report.tmpl", report)
}

// RenderSections prints what the tracker found in path
func (r *Renderer) RenderSections(path string, report compose.SectionReport) error {
	return r.execute("sections.tmpl", struct {
		Path   string
		Report compose.SectionReport
	}{path, report})
}

// RenderError renders an error message with appropriate styling
func (r *Renderer) RenderError(err error) error {
	line := r.style("Error", "Error:") + " " + err.Error()
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			line += "\n" + r.style("Muted", fmt.Sprintf("  %s: %v", k, details[k]))
		}
	}
	_, writeErr := fmt.Fprintln(r.writer, line)
	return writeErr
}

// RenderMessage renders a simple message with optional styling
func (r *Renderer) RenderMessage(style, message string) error {
	_, err := fmt.Fprintln(r.writer, r.style(style, message))
	return err
}
