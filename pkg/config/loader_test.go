package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/composetune/pkg/errors"
	"github.com/arthur-debert/composetune/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rootIDs() (int, int) { return 0, 0 }

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(Options{HostIDs: rootIDs, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, 1000, s.PUID)
	assert.Equal(t, 1000, s.PGID)
	assert.Equal(t, settings.RestartNo, s.Restart)
	assert.Equal(t, settings.Memory{Elasticsearch: "8g", Logstash: "3g"}, s.Memory)
	assert.True(t, s.Auth.Basic)
	assert.Equal(t, settings.LDAPWindows, s.Auth.LDAPServerType)
	assert.Equal(t, settings.Curator{
		SnapshotDir:    "./elasticsearch-backup",
		CloseCount:     99,
		CloseUnits:     "years",
		DeleteCount:    99,
		DeleteUnits:    "years",
		DeleteOverGigs: 9000000,
	}, s.Curator)
	assert.Equal(t, settings.Analysis{AutoZeek: true, OUILookup: true, FreqLookup: true}, s.Analysis)
	assert.Equal(t, settings.CarveNone, s.FileExtraction.CarveMode)
	assert.Equal(t, "0", s.FileExtraction.VTotAPIKey)
	assert.Equal(t, "lo", s.Capture.Interfaces)
	assert.Equal(t, settings.Logstash{}, s.Logstash, "ssl is dropped while the port is closed")
	assert.False(t, s.Forward.Enabled())
}

func TestLoadHostIDs(t *testing.T) {
	s, err := Load(Options{HostIDs: func() (int, int) { return 1001, 1002 }, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, 1001, s.PUID)
	assert.Equal(t, 1002, s.PGID)

	s, err = Load(Options{HostIDs: func() (int, int) { return 1001, 0 }, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, 1000, s.PUID, "a root group falls back as a pair")
}

func TestLoadLayerPriority(t *testing.T) {
	flagDefaults := map[string]interface{}{
		"restart":         "unless-stopped",
		"logstash.expose": true,
	}

	t.Run("flag defaults apply", func(t *testing.T) {
		s, err := Load(Options{HostIDs: rootIDs, SkipEnv: true, Defaults: flagDefaults})
		require.NoError(t, err)
		assert.Equal(t, settings.RestartUnlessStopped, s.Restart)
		assert.Equal(t, settings.Logstash{Expose: true, SSL: true}, s.Logstash)
	})

	t.Run("file beats flag defaults", func(t *testing.T) {
		path := writeConfig(t, "settings.toml", "restart = \"always\"\n[logstash]\nssl = false\n")
		s, err := Load(Options{HostIDs: rootIDs, SkipEnv: true, Defaults: flagDefaults, ConfigFile: path})
		require.NoError(t, err)
		assert.Equal(t, settings.RestartAlways, s.Restart)
		assert.Equal(t, settings.Logstash{Expose: true, SSL: false}, s.Logstash)
	})

	t.Run("environment beats file", func(t *testing.T) {
		t.Setenv("COMPOSETUNE_RESTART", "on-failure")
		t.Setenv("COMPOSETUNE_CURATOR__DELETE_OVER_GIGS", "500")
		t.Setenv("COMPOSETUNE_FORWARD__HOST", " 10.0.0.5:9200 ")
		t.Setenv("COMPOSETUNE_FORWARD__SSL", "true")

		path := writeConfig(t, "settings.toml", "restart = \"always\"\n")
		s, err := Load(Options{HostIDs: rootIDs, ConfigFile: path})
		require.NoError(t, err)
		assert.Equal(t, settings.RestartOnFailure, s.Restart)
		assert.Equal(t, 500, s.Curator.DeleteOverGigs)
		assert.Equal(t, settings.Forward{Host: "10.0.0.5:9200", SSL: true}, s.Forward)
	})

	t.Run("overrides beat environment", func(t *testing.T) {
		t.Setenv("COMPOSETUNE_RESTART", "on-failure")

		s, err := Load(Options{HostIDs: rootIDs, Overrides: map[string]interface{}{"restart": "always", "puid": "4242"}})
		require.NoError(t, err)
		assert.Equal(t, settings.RestartAlways, s.Restart)
		assert.Equal(t, 4242, s.PUID)
	})
}

func TestLoadEnumsIgnoreCase(t *testing.T) {
	t.Setenv("COMPOSETUNE_FILE_EXTRACTION__PRESERVE_MODE", "None")

	path := writeConfig(t, "settings.toml", "[auth]\nbasic = false\nldap_server_type = \"OpenLDAP\"\n")
	s, err := Load(Options{
		HostIDs:    rootIDs,
		ConfigFile: path,
		Overrides:  map[string]interface{}{"restart": "Always", "file_extraction.carve_mode": "KNOWN"},
	})
	require.NoError(t, err)

	assert.Equal(t, settings.RestartAlways, s.Restart)
	assert.Equal(t, settings.LDAPOpen, s.Auth.LDAPServerType)
	assert.Equal(t, settings.CarveKnown, s.FileExtraction.CarveMode)
	assert.Equal(t, settings.PreserveNone, s.FileExtraction.PreserveMode)
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeConfig(t, "settings.yml", `
curator:
  close_count: "30"
  close_units: Day
file_extraction:
  carve_mode: interesting
  vtot_api_key: x
capture:
  interfaces: eth0,eth1
  tcpdump: true
`)
	s, err := Load(Options{HostIDs: rootIDs, SkipEnv: true, ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, 30, s.Curator.CloseCount)
	assert.Equal(t, "days", s.Curator.CloseUnits)
	assert.Equal(t, settings.CarveInteresting, s.FileExtraction.CarveMode)
	assert.Equal(t, settings.VirusTotalDisabled, s.FileExtraction.VTotAPIKey)
	assert.Equal(t, settings.Capture{Interfaces: "eth0,eth1", TCPDump: true}, s.Capture)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		opts func(t *testing.T) Options
		code errors.ErrorCode
	}{
		{
			name: "missing settings file",
			opts: func(t *testing.T) Options {
				return Options{ConfigFile: filepath.Join(t.TempDir(), "nope.toml")}
			},
			code: errors.ErrConfigLoad,
		},
		{
			name: "unsupported extension",
			opts: func(t *testing.T) Options {
				return Options{ConfigFile: writeConfig(t, "settings.ini", "restart=always\n")}
			},
			code: errors.ErrConfigParse,
		},
		{
			name: "malformed toml",
			opts: func(t *testing.T) Options {
				return Options{ConfigFile: writeConfig(t, "settings.toml", "restart = \n[[")}
			},
			code: errors.ErrConfigParse,
		},
		{
			name: "unknown key",
			opts: func(t *testing.T) Options {
				return Options{Overrides: map[string]interface{}{"curator.close_cuont": "3"}}
			},
			code: errors.ErrConfigParse,
		},
		{
			name: "wrong type",
			opts: func(t *testing.T) Options {
				return Options{Overrides: map[string]interface{}{"puid": "lots"}}
			},
			code: errors.ErrConfigParse,
		},
		{
			name: "invalid enum",
			opts: func(t *testing.T) Options {
				return Options{Overrides: map[string]interface{}{"file_extraction.preserve_mode": "some"}}
			},
			code: errors.ErrConfigValid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts(t)
			opts.HostIDs = rootIDs
			opts.SkipEnv = true

			s, err := Load(opts)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestParseOverrides(t *testing.T) {
	got, err := ParseOverrides([]string{"Curator.Close_Count=30", "forward.host=10.0.0.5:9200", "vtot=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"curator.close_count": "30",
		"forward.host":        "10.0.0.5:9200",
		"vtot":                "a=b",
	}, got)

	for _, bad := range []string{"restart", "=always", "curator.=3", ".puid=1"} {
		_, err := ParseOverrides([]string{bad})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), bad)
	}
}

func TestDefaultConfigFile(t *testing.T) {
	path := DefaultConfigFile()
	assert.True(t, filepath.IsAbs(path), path)
	assert.Equal(t, filepath.Join("composetune", "settings.toml"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}
