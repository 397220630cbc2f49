package compose

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observeAll(layout Layout, lines ...string) []ParserState {
	tracker := NewTracker(layout)
	states := make([]ParserState, 0, len(lines))
	for _, line := range lines {
		states = append(states, tracker.Observe(line))
	}
	return states
}

func TestTrackerTransitions(t *testing.T) {
	states := observeAll(DefaultLayout(),
		"version: '3.7'",
		"services:",
		"  elasticsearch:",
		"    environment:",
		"      PUID: 1000",
		"  logstash:",
		"    restart: always",
	)

	before := states[0]
	assert.False(t, before.SectionsFound)
	assert.Empty(t, before.IndentUnit)

	introducer := states[1]
	assert.True(t, introducer.SectionsFound)
	assert.Empty(t, introducer.IndentUnit)
	assert.Empty(t, introducer.Section)

	first := states[2]
	assert.Equal(t, "  ", first.IndentUnit)
	assert.Equal(t, "elasticsearch", first.Section)
	assert.True(t, first.SectionStart)

	nested := states[3]
	assert.Equal(t, "elasticsearch", nested.Section)
	assert.False(t, nested.SectionStart, "a deeper key must not start a section")

	assert.Equal(t, "elasticsearch", states[4].Section)

	second := states[5]
	assert.Equal(t, "logstash", second.Section)
	assert.True(t, second.SectionStart)

	last := states[6]
	assert.Equal(t, "logstash", last.Section)
	assert.False(t, last.SectionStart)
	assert.Equal(t, 7, last.Line)
}

func TestTrackerIndentNeverChanges(t *testing.T) {
	states := observeAll(DefaultLayout(),
		"services:",
		"  arkime:",
		"    volumes:",
		"    zeek:",
	)

	for _, state := range states[1:] {
		assert.Equal(t, "  ", state.IndentUnit)
	}
	assert.Equal(t, "arkime", states[3].Section, "four-space key is not a header with a two-space unit")
}

func TestTrackerLowercasesSections(t *testing.T) {
	states := observeAll(DefaultLayout(), "services:", "  LogStash:")
	assert.Equal(t, "logstash", states[1].Section)
}

func TestTrackerWithoutIntroducer(t *testing.T) {
	states := observeAll(DefaultLayout(),
		"volumes:",
		"  logstash:",
		"restart: always",
	)
	for _, state := range states {
		assert.False(t, state.SectionsFound)
		assert.Empty(t, state.IndentUnit)
		assert.Empty(t, state.Section)
	}
}

func TestParserStateDepth(t *testing.T) {
	assert.Equal(t, "", ParserState{}.Depth(3))
	assert.Equal(t, "\t\t", ParserState{IndentUnit: "\t"}.Depth(2))
}

func TestScanSections(t *testing.T) {
	f, err := os.Open("testdata/docker-compose.yml")
	require.NoError(t, err)
	defer f.Close()

	report, err := ScanSections(f, DefaultLayout())
	require.NoError(t, err)

	assert.True(t, report.SectionsFound)
	assert.Equal(t, "  ", report.IndentUnit)
	assert.Equal(t, []SectionHeader{
		{Name: "elasticsearch", Line: 48},
		{Name: "curator", Line: 58},
		{Name: "logstash", Line: 63},
		{Name: "nginx-proxy", Line: 75},
	}, report.Sections)
}

func TestScanSectionsCustomKey(t *testing.T) {
	layout := DefaultLayout()
	layout.SectionsKey = "jobs"

	report, err := ScanSections(strings.NewReader("services:\n  a:\njobs:\n    build:\n"), layout)
	require.NoError(t, err)
	assert.Equal(t, "    ", report.IndentUnit)
	assert.Equal(t, []SectionHeader{{Name: "build", Line: 4}}, report.Sections)
}
