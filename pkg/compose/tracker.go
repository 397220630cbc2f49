package compose

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// ParserState is what the tracker knows after observing a line.
// Empty IndentUnit means the unit is not known yet; empty Section means the
// cursor is not inside a service.
type ParserState struct {
	SectionsFound bool
	IndentUnit    string
	Section       string
	// SectionStart is true only for the header line of Section
	SectionStart bool
	Line         int
}

// Depth returns n indent units, or "" while the unit is unknown
func (s ParserState) Depth(n int) string {
	return strings.Repeat(s.IndentUnit, n)
}

// Tracker follows a compose file line by line and reports which service each
// line belongs to. The indent unit is fixed by the first bare nested key after
// the services introducer and never changes afterwards.
type Tracker struct {
	sectionsKey string
	state       ParserState
	header      *regexp.Regexp
}

// NewTracker returns a tracker in the before-sections state
func NewTracker(layout Layout) *Tracker {
	return &Tracker{sectionsKey: layout.SectionsKey}
}

// State returns the state after the last observed line
func (t *Tracker) State() ParserState {
	return t.state
}

// Observe advances the state machine by one line and returns the new state.
// The line that fixes the indent unit is also checked as a header, so the
// first service is tracked like the others.
func (t *Tracker) Observe(line string) ParserState {
	t.state.Line++
	t.state.SectionStart = false

	switch {
	case !t.state.SectionsFound:
		t.state.SectionsFound = isSectionsIntroducer(line, t.sectionsKey)
	case t.state.IndentUnit == "":
		if unit, ok := indentOf(line); ok {
			t.state.IndentUnit = unit
			t.header = regexp.MustCompile(`^` + regexp.QuoteMeta(unit) + `(\S+)\s*:\s*$`)
		}
	}

	if t.header != nil {
		if m := t.header.FindStringSubmatch(line); m != nil {
			t.state.Section = strings.ToLower(m[1])
			t.state.SectionStart = true
		}
	}

	return t.state
}

// SectionHeader is one service header found by ScanSections
type SectionHeader struct {
	Name string
	Line int
}

// SectionReport summarises what the tracker saw in a whole file
type SectionReport struct {
	SectionsFound bool
	IndentUnit    string
	Sections      []SectionHeader
}

// ScanSections runs a tracker over r without rewriting anything
func ScanSections(r io.Reader, layout Layout) (SectionReport, error) {
	tracker := NewTracker(layout)
	var report SectionReport

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		state := tracker.Observe(scanner.Text())
		if state.SectionStart {
			report.Sections = append(report.Sections, SectionHeader{Name: state.Section, Line: state.Line})
		}
	}
	if err := scanner.Err(); err != nil {
		return report, err
	}

	final := tracker.State()
	report.SectionsFound = final.SectionsFound
	report.IndentUnit = final.IndentUnit
	return report, nil
}
