package compose

import "strings"

// Editor handles the edits that change the line count: publishing the ingest
// port under its service header, and dropping a previously published copy.
// Together they make the ports block an idempotent upsert.
type Editor struct {
	layout Layout
}

// NewEditor returns an editor for layout
func NewEditor(layout Layout) Editor {
	return Editor{layout: layout}
}

// PortsHeader is the synthesized "ports:" line for a file with the given unit
func (e Editor) PortsHeader(unit string) string {
	return strings.Repeat(unit, 2) + "ports:"
}

// PortItem is the synthesized published-port list item
func (e Editor) PortItem(unit string) string {
	return strings.Repeat(unit, 3) + "- " + e.layout.PortBinding()
}

// Edit returns the replacement lines for line and whether the editor handled
// it. An unhandled line goes on to the rule table.
func (e Editor) Edit(line string, ctx LineContext) ([]string, bool) {
	state := ctx.State
	if state.IndentUnit == "" || state.Section != e.layout.IngestSection {
		return nil, false
	}

	if state.SectionStart {
		if !ctx.Settings.Logstash.Expose {
			return nil, false
		}
		return []string{line, e.PortsHeader(state.IndentUnit), e.PortItem(state.IndentUnit)}, true
	}

	trimmed := strings.TrimRight(line, " \t")
	if trimmed == e.PortsHeader(state.IndentUnit) || e.isPublishedPort(trimmed, state.IndentUnit) {
		return nil, true
	}
	return nil, false
}

// isPublishedPort matches any list item at item depth that publishes the
// ingest port, whatever address it was bound to
func (e Editor) isPublishedPort(line, unit string) bool {
	binding := ":" + e.layout.IngestPort + ":" + e.layout.IngestPort
	return strings.HasPrefix(line, strings.Repeat(unit, 3)+"-") && strings.HasSuffix(line, binding)
}
