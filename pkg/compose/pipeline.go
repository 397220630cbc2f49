package compose

import (
	"github.com/arthur-debert/composetune/pkg/settings"
)

// Stats counts what a pipeline did to one file
type Stats struct {
	Lines     int
	Rewritten int
	Inserted  int
	Dropped   int
	RuleHits  map[string]int
}

// Changed reports whether any output line differs from the input
func (s Stats) Changed() bool {
	return s.Rewritten > 0 || s.Inserted > 0 || s.Dropped > 0
}

// Pipeline carries one file's lines through the tracker, the editor and the
// rule table. It holds per-file state and must not be reused across files.
type Pipeline struct {
	settings *settings.Settings
	layout   Layout
	rules    []Rule
	editor   Editor
	tracker  *Tracker
	stats    Stats
}

// NewPipeline returns a pipeline using DefaultRules for layout
func NewPipeline(s *settings.Settings, layout Layout) *Pipeline {
	return NewPipelineWithRules(s, layout, DefaultRules(layout))
}

// NewPipelineWithRules returns a pipeline with a custom rule table
func NewPipelineWithRules(s *settings.Settings, layout Layout, rules []Rule) *Pipeline {
	return &Pipeline{
		settings: s,
		layout:   layout,
		rules:    rules,
		editor:   NewEditor(layout),
		tracker:  NewTracker(layout),
		stats:    Stats{RuleHits: make(map[string]int)},
	}
}

// Process consumes one line, without its terminator, and returns the lines
// to emit in its place: none, the line itself (possibly rewritten), or the
// line followed by synthesized lines.
func (p *Pipeline) Process(line string) []string {
	p.stats.Lines++
	ctx := LineContext{
		Settings: p.settings,
		State:    p.tracker.Observe(line),
		Layout:   p.layout,
	}

	if out, handled := p.editor.Edit(line, ctx); handled {
		if len(out) == 0 {
			p.stats.Dropped++
		} else {
			p.stats.Inserted += len(out) - 1
		}
		return out
	}

	if i := FirstMatch(p.rules, line, ctx); i >= 0 {
		rule := p.rules[i]
		rewritten := rule.Apply(line, ctx)
		p.stats.RuleHits[rule.Name]++
		if rewritten != line {
			p.stats.Rewritten++
		}
		return []string{rewritten}
	}

	return []string{line}
}

// State returns the tracker state after the last processed line
func (p *Pipeline) State() ParserState {
	return p.tracker.State()
}

// Stats returns the counters collected so far
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// TransformLines runs lines through a fresh pipeline
func TransformLines(lines []string, s *settings.Settings, layout Layout) []string {
	p := NewPipeline(s, layout)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, p.Process(line)...)
	}
	return out
}
