package compose

import (
	"os"
	"strings"
	"testing"

	"github.com/arthur-debert/composetune/pkg/settings"
	"github.com/arthur-debert/composetune/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const twoServices = `services:
  elasticsearch:
    image: es
  logstash:
    image: ls
`

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func fixtureLines(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile("testdata/docker-compose.yml")
	require.NoError(t, err)
	return lines(string(data))
}

func TestPortToggle(t *testing.T) {
	s := testutil.Settings()
	s.Logstash.Expose = true

	exposed := TransformLines(lines(twoServices), s, DefaultLayout())
	assert.Equal(t, []string{
		"services:",
		"  elasticsearch:",
		"    image: es",
		"  logstash:",
		"    ports:",
		"      - 0.0.0.0:5044:5044",
		"    image: ls",
	}, exposed)

	s.Logstash.Expose = false
	hidden := TransformLines(exposed, s, DefaultLayout())
	assert.Equal(t, lines(twoServices), hidden)
}

func TestPortExposureIsIdempotent(t *testing.T) {
	s := testutil.Settings()
	s.Logstash.Expose = true

	once := TransformLines(lines(twoServices), s, DefaultLayout())
	twice := TransformLines(once, s, DefaultLayout())
	assert.Equal(t, once, twice)
}

func TestPortSuppressionMatchesAnyBindAddress(t *testing.T) {
	input := []string{
		"services:",
		"  logstash:",
		"    ports:",
		"      - 127.0.0.1:5044:5044  ",
		"    image: ls",
		"  filebeat:",
		"    ports:",
		"      - 0.0.0.0:5044:5044",
	}

	got := TransformLines(input, testutil.Settings(), DefaultLayout())
	assert.Equal(t, []string{
		"services:",
		"  logstash:",
		"    image: ls",
		"  filebeat:",
		"    ports:",
		"      - 0.0.0.0:5044:5044",
	}, got, "only the ingest service is edited")
}

func TestEditorNeedsIndent(t *testing.T) {
	s := testutil.Settings()
	s.Logstash.Expose = true

	input := []string{"logstash:", "  ports:", "    - 0.0.0.0:5044:5044"}
	assert.Equal(t, input, TransformLines(input, s, DefaultLayout()))
}

func TestEditorUsesFileIndent(t *testing.T) {
	s := testutil.Settings()
	s.Logstash.Expose = true

	got := TransformLines([]string{"services:", "\tlogstash:", "\t\timage: ls"}, s, DefaultLayout())
	assert.Equal(t, []string{"services:", "\tlogstash:", "\t\tports:", "\t\t\t- 0.0.0.0:5044:5044", "\t\timage: ls"}, got)
}

func TestPipelineStats(t *testing.T) {
	s := testutil.Settings()
	s.Logstash.Expose = true
	s.PUID = 2000

	p := NewPipeline(s, DefaultLayout())
	for _, line := range []string{"services:", "  logstash:", "    ports:", "      PUID: 1000", "      PGID: 1000"} {
		p.Process(line)
	}

	stats := p.Stats()
	assert.Equal(t, 5, stats.Lines)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 1, stats.Rewritten, "PGID matched but kept its value")
	assert.Equal(t, map[string]int{"PUID": 1, "PGID": 1}, stats.RuleHits)
	assert.True(t, stats.Changed())
	assert.Equal(t, "logstash", p.State().Section)
}

func TestPipelineWithCustomRules(t *testing.T) {
	rules := []Rule{valueRule("ONLY", func(s *settings.Settings) string { return "x" })}
	p := NewPipelineWithRules(testutil.Settings(), DefaultLayout(), rules)

	assert.Equal(t, []string{"ONLY: x"}, p.Process("ONLY: y"))
	assert.Equal(t, []string{"PUID: 1"}, p.Process("PUID: 1"))
}

func TestFixtureRewriteIsIdempotent(t *testing.T) {
	variants := map[string]func(s *settings.Settings){
		"baseline": func(s *settings.Settings) {},
		"everything on": func(s *settings.Settings) {
			s.Restart = settings.RestartUnlessStopped
			s.Logstash = settings.Logstash{Expose: true, SSL: true}
			s.Forward = settings.Forward{Host: "10.0.0.5:9200", SSL: true}
			s.Curator.Snapshots = true
			s.Curator.SnapshotDir = "/srv/snapshots"
			s.Memory = settings.Memory{Elasticsearch: "31g", Logstash: "3500m"}
			s.Auth = settings.Auth{LDAPServerType: settings.LDAPOpen, LDAPStartTLS: true}
		},
	}

	for name, mutate := range variants {
		t.Run(name, func(t *testing.T) {
			s := testutil.Settings()
			mutate(s)

			once := TransformLines(fixtureLines(t), s, DefaultLayout())
			twice := TransformLines(once, s, DefaultLayout())
			assert.Equal(t, once, twice)
		})
	}
}

func TestFixtureRewriteStaysValidYAML(t *testing.T) {
	s := testutil.Settings()
	s.Restart = settings.RestartAlways
	s.Logstash.Expose = true
	s.Forward = settings.Forward{Host: "10.0.0.5:9200", SSL: true, SSLVerify: true}

	out := TransformLines(fixtureLines(t), s, DefaultLayout())

	var doc struct {
		Services map[string]struct {
			Restart     string         `yaml:"restart"`
			Ports       []string       `yaml:"ports"`
			Volumes     []string       `yaml:"volumes"`
			Environment map[string]any `yaml:"environment"`
		} `yaml:"services"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(strings.Join(out, "\n")), &doc))

	logstash := doc.Services["logstash"]
	assert.Equal(t, []string{"0.0.0.0:5044:5044"}, logstash.Ports)
	assert.Contains(t, logstash.Volumes, "./logstash/certs/logstash.keystore:/usr/share/logstash/config/logstash.keystore:rw")
	assert.Equal(t, "10.0.0.5:9200", logstash.Environment["ES_EXTERNAL_HOSTS"])
	assert.Equal(t, "true", logstash.Environment["ES_EXTERNAL_SSL_CERTIFICATE_VERIFICATION"])

	for name, service := range doc.Services {
		assert.Equal(t, "always", service.Restart, "service %s", name)
		if name != "logstash" {
			assert.Empty(t, service.Ports, "service %s", name)
		}
	}
}
