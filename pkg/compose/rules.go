package compose

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arthur-debert/composetune/pkg/settings"
)

// valuePlaceholder marks where a rule's rendered value goes in its Replacement
const valuePlaceholder = "{value}"

// LineContext is everything a rule may look at besides the line itself
type LineContext struct {
	Settings *settings.Settings
	State    ParserState
	Layout   Layout
}

// Rule rewrites one configuration field.
//
// A rule is selected when Token occurs anywhere in the line, or, for rules
// without a token, when Pattern matches. Guard can narrow the selection
// further. Once selected the rule owns the line even if Pattern then changes
// nothing.
type Rule struct {
	Name string
	// Action says what the rule does, for listings
	Action  string
	Token   string
	Pattern *regexp.Regexp
	Guard   func(ctx LineContext) bool
	// Render produces the new right-hand side from settings
	Render func(s *settings.Settings) string
	// Replacement is a regexp replacement template containing valuePlaceholder
	Replacement string
	// Rewrite replaces the template step for rules that are not a plain
	// capture-and-replace
	Rewrite func(line string, ctx LineContext) string
}

// Matches reports whether the rule is selected for line
func (r Rule) Matches(line string, ctx LineContext) bool {
	if r.Token != "" {
		if !strings.Contains(line, r.Token) {
			return false
		}
	} else if !r.Pattern.MatchString(line) {
		return false
	}
	return r.Guard == nil || r.Guard(ctx)
}

// Apply returns the rewritten line
func (r Rule) Apply(line string, ctx LineContext) string {
	if r.Rewrite != nil {
		return r.Rewrite(line, ctx)
	}
	value := strings.ReplaceAll(r.Render(ctx.Settings), "$", "$$")
	return r.Pattern.ReplaceAllString(line, strings.ReplaceAll(r.Replacement, valuePlaceholder, value))
}

// FirstMatch returns the index of the first rule selected for line, or -1
func FirstMatch(rules []Rule, line string, ctx LineContext) int {
	for i, rule := range rules {
		if rule.Matches(line, ctx) {
			return i
		}
	}
	return -1
}

func quoted(v string) string {
	return "'" + v + "'"
}

func quotedBool(b bool) string {
	if b {
		return "'true'"
	}
	return "'false'"
}

func keyPattern(token string) *regexp.Regexp {
	return regexp.MustCompile(`(` + regexp.QuoteMeta(token) + `\s*:\s*)(\S+)`)
}

// valueRule swaps the value after "TOKEN:"
func valueRule(token string, render func(s *settings.Settings) string) Rule {
	return Rule{
		Name:        token,
		Action:      "set value",
		Token:       token,
		Pattern:     keyPattern(token),
		Render:      render,
		Replacement: "${1}" + valuePlaceholder,
	}
}

// uncommentRule is a valueRule that also drops a leading comment marker
func uncommentRule(token string, render func(s *settings.Settings) string) Rule {
	return Rule{
		Name:        token,
		Action:      "uncomment and set value",
		Token:       token,
		Pattern:     regexp.MustCompile(`(#\s*)?(` + regexp.QuoteMeta(token) + `\s*:\s*)(\S+)`),
		Render:      render,
		Replacement: "${2}" + valuePlaceholder,
	}
}

// heapRule changes only the size suffix of -Xms and -Xmx flags
func heapRule(token string, render func(s *settings.Settings) string) Rule {
	return Rule{
		Name:        token,
		Action:      "set heap size",
		Token:       token,
		Pattern:     regexp.MustCompile(`(-Xm[sx])(\w+)`),
		Render:      render,
		Replacement: "${1}" + valuePlaceholder,
	}
}

func inSection(ctx LineContext) bool {
	return ctx.State.Section != ""
}

// DefaultRules returns the rule table in evaluation order
func DefaultRules(layout Layout) []Rule {
	return []Rule{
		{
			Name:        "restart",
			Action:      "set restart policy",
			Pattern:     regexp.MustCompile(`^(\s*restart\s*:)[ \t]*(\S*)`),
			Guard:       inSection,
			Render:      func(s *settings.Settings) string { return s.Restart.Rendered() },
			Replacement: "${1} " + valuePlaceholder,
		},
		valueRule("PUID", func(s *settings.Settings) string { return strconv.Itoa(s.PUID) }),
		valueRule("PGID", func(s *settings.Settings) string { return strconv.Itoa(s.PGID) }),
		valueRule("NGINX_BASIC_AUTH", func(s *settings.Settings) string { return quotedBool(s.Auth.Basic) }),
		valueRule("NGINX_LDAP_TLS_STUNNEL_PROTOCOL", func(s *settings.Settings) string { return quoted(string(s.Auth.LDAPServerType)) }),
		valueRule("NGINX_LDAP_TLS_STUNNEL", func(s *settings.Settings) string { return quotedBool(s.LDAPStunnel()) }),
		valueRule("ZEEK_EXTRACTOR_MODE", func(s *settings.Settings) string { return quoted(string(s.FileExtraction.CarveMode)) }),
		valueRule("EXTRACTED_FILE_PRESERVATION", func(s *settings.Settings) string { return quoted(string(s.FileExtraction.PreserveMode)) }),
		valueRule("VTOT_API2_KEY", func(s *settings.Settings) string { return quoted(s.VirusTotalKey()) }),
		valueRule("EXTRACTED_FILE_ENABLE_YARA", func(s *settings.Settings) string { return quotedBool(s.FileExtraction.Yara) }),
		valueRule("EXTRACTED_FILE_ENABLE_CAPA", func(s *settings.Settings) string { return quotedBool(s.FileExtraction.Capa) }),
		valueRule("EXTRACTED_FILE_ENABLE_CLAMAV", func(s *settings.Settings) string { return quotedBool(s.FileExtraction.ClamAV) }),
		valueRule("EXTRACTED_FILE_ENABLE_FRESHCLAM", func(s *settings.Settings) string { return quotedBool(s.FileExtraction.FreshClam) }),
		valueRule("PCAP_ENABLE_NETSNIFF", func(s *settings.Settings) string { return quotedBool(s.Capture.NetSniff) }),
		valueRule("PCAP_ENABLE_TCPDUMP", func(s *settings.Settings) string { return quotedBool(s.Capture.TCPDump) }),
		valueRule("PCAP_IFACE", func(s *settings.Settings) string { return quoted(s.Capture.Interfaces) }),
		heapRule("ES_JAVA_OPTS", func(s *settings.Settings) string { return s.Memory.Elasticsearch }),
		heapRule("LS_JAVA_OPTS", func(s *settings.Settings) string { return s.Memory.Logstash }),
		valueRule("ZEEK_AUTO_ANALYZE_PCAP_FILES", func(s *settings.Settings) string { return quotedBool(s.Analysis.AutoZeek) }),
		valueRule("LOGSTASH_REVERSE_DNS", func(s *settings.Settings) string { return quotedBool(s.Analysis.ReverseDNS) }),
		valueRule("LOGSTASH_OUI_LOOKUP", func(s *settings.Settings) string { return quotedBool(s.Analysis.OUILookup) }),
		valueRule("FREQ_LOOKUP", func(s *settings.Settings) string { return quotedBool(s.Analysis.FreqLookup) }),
		valueRule("BEATS_SSL", func(s *settings.Settings) string { return quotedBool(s.BeatsSSL()) }),
		valueRule("CURATOR_SNAPSHOT_DISABLED", func(s *settings.Settings) string {
			if s.Curator.Snapshots {
				return "'False'"
			}
			return "'True'"
		}),
		{
			Name:    "snapshot-volume",
			Action:  "set volume source",
			Pattern: regexp.MustCompile(`^(\s*-\s*)(.+?)(:` + regexp.QuoteMeta(layout.BackupMount) + `(?::\S+)?\s*)$`),
			Guard: func(ctx LineContext) bool {
				return ctx.State.Section == ctx.Layout.StorageSection && ctx.Settings.Curator.SnapshotDir != ""
			},
			Render:      func(s *settings.Settings) string { return s.Curator.SnapshotDir },
			Replacement: "${1}" + valuePlaceholder + "${3}",
		},
		valueRule("CURATOR_CLOSE_COUNT", func(s *settings.Settings) string { return strconv.Itoa(s.Curator.CloseCount) }),
		valueRule("CURATOR_CLOSE_UNITS", func(s *settings.Settings) string { return s.Curator.CloseUnits }),
		valueRule("CURATOR_DELETE_COUNT", func(s *settings.Settings) string { return strconv.Itoa(s.Curator.DeleteCount) }),
		valueRule("CURATOR_DELETE_UNITS", func(s *settings.Settings) string { return s.Curator.DeleteUnits }),
		valueRule("CURATOR_DELETE_GIGS", func(s *settings.Settings) string { return strconv.Itoa(s.Curator.DeleteOverGigs) }),
		uncommentRule("ES_EXTERNAL_HOSTS", func(s *settings.Settings) string { return quoted(s.Forward.Host) }),
		// must stay ahead of ES_EXTERNAL_SSL, whose token is a prefix of this one
		uncommentRule("ES_EXTERNAL_SSL_CERTIFICATE_VERIFICATION", func(s *settings.Settings) string { return quotedBool(s.ForwardSSLVerify()) }),
		uncommentRule("ES_EXTERNAL_SSL", func(s *settings.Settings) string { return quotedBool(s.Forward.SSL) }),
		{
			Name:    "keystore-volume",
			Action:  "uncomment volume",
			Pattern: regexp.MustCompile(`^\s*#.+:` + regexp.QuoteMeta(layout.KeystoreMount) + `(:r[ow])?\s*$`),
			Guard: func(ctx LineContext) bool {
				return ctx.Settings.Forward.Enabled()
			},
			Rewrite: uncommentVolume,
		},
	}
}

// uncommentVolume removes one comment marker from a commented volume item.
// A line with no leading whitespace is re-indented to list-item depth.
func uncommentVolume(line string, ctx LineContext) string {
	body := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(body)]
	if indent == "" {
		indent = ctx.State.Depth(3)
		if indent == "" {
			indent = strings.Repeat(" ", 6)
		}
	}
	body = strings.TrimLeft(strings.TrimPrefix(body, "#"), " \t")
	return indent + body
}
