// Package settings holds the resolved values the compose rewriter projects
// into docker-compose files.
//
// A Settings value is built once per run by the config resolver, validated
// there, and then only read. Nothing in the rewriter mutates it.
package settings

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/composetune/pkg/errors"
)

// RestartPolicy is the container restart behaviour written to every service
type RestartPolicy string

const (
	RestartNo            RestartPolicy = "no"
	RestartOnFailure     RestartPolicy = "on-failure"
	RestartAlways        RestartPolicy = "always"
	RestartUnlessStopped RestartPolicy = "unless-stopped"
)

// RestartPolicies lists the accepted restart policies
var RestartPolicies = []RestartPolicy{RestartNo, RestartOnFailure, RestartAlways, RestartUnlessStopped}

// UnmarshalText accepts any letter case, so Always and always are the same policy
func (p *RestartPolicy) UnmarshalText(text []byte) error {
	*p = RestartPolicy(normalizeEnum(text))
	return nil
}

// Rendered returns the on-disk form. A bare no is a YAML boolean, so it is quoted.
func (p RestartPolicy) Rendered() string {
	if p == RestartNo {
		return `"no"`
	}
	return string(p)
}

// LDAPServerType selects the directory-server compatibility mode
type LDAPServerType string

const (
	LDAPWindows LDAPServerType = "winldap"
	LDAPOpen    LDAPServerType = "openldap"
)

// LDAPServerTypes lists the accepted directory-server modes
var LDAPServerTypes = []LDAPServerType{LDAPWindows, LDAPOpen}

func (t *LDAPServerType) UnmarshalText(text []byte) error {
	*t = LDAPServerType(normalizeEnum(text))
	return nil
}

// CarveMode selects which files Zeek extracts
type CarveMode string

const (
	CarveNone        CarveMode = "none"
	CarveKnown       CarveMode = "known"
	CarveMapped      CarveMode = "mapped"
	CarveAll         CarveMode = "all"
	CarveInteresting CarveMode = "interesting"
)

// CarveModes lists the accepted carve modes
var CarveModes = []CarveMode{CarveNone, CarveKnown, CarveMapped, CarveAll, CarveInteresting}

func (m *CarveMode) UnmarshalText(text []byte) error {
	*m = CarveMode(normalizeEnum(text))
	return nil
}

// PreserveMode selects which extracted files are kept
type PreserveMode string

const (
	PreserveQuarantined PreserveMode = "quarantined"
	PreserveAll         PreserveMode = "all"
	PreserveNone        PreserveMode = "none"
)

// PreserveModes lists the accepted preserve modes
var PreserveModes = []PreserveMode{PreserveQuarantined, PreserveAll, PreserveNone}

func (m *PreserveMode) UnmarshalText(text []byte) error {
	*m = PreserveMode(normalizeEnum(text))
	return nil
}

// normalizeEnum leaves membership to Validate
func normalizeEnum(text []byte) string {
	return strings.ToLower(strings.TrimSpace(string(text)))
}

// TimeUnits lists the accepted curator age units
var TimeUnits = []string{"seconds", "minutes", "hours", "days", "weeks", "months", "years"}

var memoryPattern = regexp.MustCompile(`^\d+[kKmMgG]?$`)

// VirusTotalDisabled is written when no VirusTotal key is configured
const VirusTotalDisabled = "0"

// Settings is every user or host resolved value the rewriter needs
type Settings struct {
	PUID    int           `koanf:"puid" toml:"puid"`
	PGID    int           `koanf:"pgid" toml:"pgid"`
	Restart RestartPolicy `koanf:"restart" toml:"restart"`

	Memory         Memory         `koanf:"memory" toml:"memory"`
	Auth           Auth           `koanf:"auth" toml:"auth"`
	Curator        Curator        `koanf:"curator" toml:"curator"`
	Analysis       Analysis       `koanf:"analysis" toml:"analysis"`
	FileExtraction FileExtraction `koanf:"file_extraction" toml:"file_extraction"`
	Capture        Capture        `koanf:"capture" toml:"capture"`
	Logstash       Logstash       `koanf:"logstash" toml:"logstash"`
	Forward        Forward        `koanf:"forward" toml:"forward"`
}

// Memory holds JVM heap sizes such as 16g or 2500m
type Memory struct {
	Elasticsearch string `koanf:"elasticsearch" toml:"elasticsearch"`
	Logstash      string `koanf:"logstash" toml:"logstash"`
}

// Auth selects between basic auth and a directory server
type Auth struct {
	Basic          bool           `koanf:"basic" toml:"basic"`
	LDAPServerType LDAPServerType `koanf:"ldap_server_type" toml:"ldap_server_type"`
	LDAPStartTLS   bool           `koanf:"ldap_start_tls" toml:"ldap_start_tls"`
}

// Curator is the index snapshot and retention policy
type Curator struct {
	Snapshots      bool   `koanf:"snapshots" toml:"snapshots"`
	SnapshotDir    string `koanf:"snapshot_dir" toml:"snapshot_dir"`
	CloseCount     int    `koanf:"close_count" toml:"close_count"`
	CloseUnits     string `koanf:"close_units" toml:"close_units"`
	DeleteCount    int    `koanf:"delete_count" toml:"delete_count"`
	DeleteUnits    string `koanf:"delete_units" toml:"delete_units"`
	DeleteOverGigs int    `koanf:"delete_over_gigs" toml:"delete_over_gigs"`
}

// Analysis toggles log enrichment
type Analysis struct {
	AutoZeek   bool `koanf:"auto_zeek" toml:"auto_zeek"`
	ReverseDNS bool `koanf:"reverse_dns" toml:"reverse_dns"`
	OUILookup  bool `koanf:"oui_lookup" toml:"oui_lookup"`
	FreqLookup bool `koanf:"freq_lookup" toml:"freq_lookup"`
}

// FileExtraction is the Zeek file carving and scanning policy
type FileExtraction struct {
	CarveMode    CarveMode    `koanf:"carve_mode" toml:"carve_mode"`
	PreserveMode PreserveMode `koanf:"preserve_mode" toml:"preserve_mode"`
	VTotAPIKey   string       `koanf:"vtot_api_key" toml:"vtot_api_key"`
	Yara         bool         `koanf:"yara" toml:"yara"`
	Capa         bool         `koanf:"capa" toml:"capa"`
	ClamAV       bool         `koanf:"clamav" toml:"clamav"`
	FreshClam    bool         `koanf:"freshclam" toml:"freshclam"`
}

// Capture is the local packet capture policy
type Capture struct {
	Interfaces string `koanf:"interfaces" toml:"interfaces"`
	NetSniff   bool   `koanf:"netsniff" toml:"netsniff"`
	TCPDump    bool   `koanf:"tcpdump" toml:"tcpdump"`
}

// Logstash controls exposure of the beats ingest port
type Logstash struct {
	Expose bool `koanf:"expose" toml:"expose"`
	SSL    bool `koanf:"ssl" toml:"ssl"`
}

// Forward configures shipping logs to an external Elasticsearch
type Forward struct {
	Host      string `koanf:"host" toml:"host"`
	SSL       bool   `koanf:"ssl" toml:"ssl"`
	SSLVerify bool   `koanf:"ssl_verify" toml:"ssl_verify"`
}

// Enabled reports whether forwarding has a destination
func (f Forward) Enabled() bool {
	return f.Host != ""
}

// BeatsSSL is true only when the port is exposed and SSL was requested
func (s *Settings) BeatsSSL() bool {
	return s.Logstash.Expose && s.Logstash.SSL
}

// LDAPStunnel is true when StartTLS is used against a directory server
func (s *Settings) LDAPStunnel() bool {
	return !s.Auth.Basic && s.Auth.LDAPStartTLS
}

// ForwardSSLVerify is true when forwarding over SSL with certificate checks
func (s *Settings) ForwardSSLVerify() bool {
	return s.Forward.SSL && s.Forward.SSLVerify
}

// VirusTotalKey returns the configured key or the disabled sentinel
func (s *Settings) VirusTotalKey() string {
	if len(s.FileExtraction.VTotAPIKey) <= 1 {
		return VirusTotalDisabled
	}
	return s.FileExtraction.VTotAPIKey
}

// Normalize applies the resolver's clean-ups and returns the result.
// Singular time units become plural, short VirusTotal keys become the sentinel,
// and forwarding SSL flags are cleared when there is no host.
func Normalize(s Settings) Settings {
	s.Curator.CloseUnits = pluralUnit(s.Curator.CloseUnits)
	s.Curator.DeleteUnits = pluralUnit(s.Curator.DeleteUnits)
	s.FileExtraction.VTotAPIKey = s.VirusTotalKey()
	s.Forward.Host = strings.TrimSpace(s.Forward.Host)
	if !s.Forward.Enabled() {
		s.Forward.SSL = false
		s.Forward.SSLVerify = false
	}
	if !s.Logstash.Expose {
		s.Logstash.SSL = false
	}
	if s.Auth.Basic {
		s.Auth.LDAPStartTLS = false
	}
	return s
}

func pluralUnit(unit string) string {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit != "" && !strings.HasSuffix(unit, "s") {
		unit += "s"
	}
	return unit
}

// Validate checks enum membership and numeric ranges
func (s *Settings) Validate() error {
	var problems []string

	if s.PUID < 0 {
		problems = append(problems, fmt.Sprintf("puid must not be negative, got %d", s.PUID))
	}
	if s.PGID < 0 {
		problems = append(problems, fmt.Sprintf("pgid must not be negative, got %d", s.PGID))
	}
	if !contains(RestartPolicies, s.Restart) {
		problems = append(problems, fmt.Sprintf("restart must be one of %v, got %q", RestartPolicies, s.Restart))
	}
	if !s.Auth.Basic && !contains(LDAPServerTypes, s.Auth.LDAPServerType) {
		problems = append(problems, fmt.Sprintf("auth.ldap_server_type must be one of %v, got %q", LDAPServerTypes, s.Auth.LDAPServerType))
	}
	if !contains(CarveModes, s.FileExtraction.CarveMode) {
		problems = append(problems, fmt.Sprintf("file_extraction.carve_mode must be one of %v, got %q", CarveModes, s.FileExtraction.CarveMode))
	}
	if !contains(PreserveModes, s.FileExtraction.PreserveMode) {
		problems = append(problems, fmt.Sprintf("file_extraction.preserve_mode must be one of %v, got %q", PreserveModes, s.FileExtraction.PreserveMode))
	}
	if !contains(TimeUnits, s.Curator.CloseUnits) {
		problems = append(problems, fmt.Sprintf("curator.close_units must be one of %v, got %q", TimeUnits, s.Curator.CloseUnits))
	}
	if !contains(TimeUnits, s.Curator.DeleteUnits) {
		problems = append(problems, fmt.Sprintf("curator.delete_units must be one of %v, got %q", TimeUnits, s.Curator.DeleteUnits))
	}
	if s.Curator.CloseCount < 0 || s.Curator.DeleteCount < 0 || s.Curator.DeleteOverGigs < 0 {
		problems = append(problems, "curator counts must not be negative")
	}
	for name, size := range map[string]string{"memory.elasticsearch": s.Memory.Elasticsearch, "memory.logstash": s.Memory.Logstash} {
		if !memoryPattern.MatchString(size) {
			problems = append(problems, fmt.Sprintf("%s must look like 16g or 2500m, got %q", name, size))
		}
	}

	if len(problems) > 0 {
		return errors.Newf(errors.ErrConfigValid, "invalid settings: %s", strings.Join(problems, "; ")).
			WithDetail("problems", problems)
	}
	return nil
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
