package testutil

import "github.com/arthur-debert/composetune/pkg/settings"

// Settings returns valid settings matching the stock compose files. Each call
// returns a fresh value.
func Settings() *settings.Settings {
	return &settings.Settings{
		PUID:    1000,
		PGID:    1000,
		Restart: settings.RestartNo,
		Memory: settings.Memory{
			Elasticsearch: "4g",
			Logstash:      "2g",
		},
		Auth: settings.Auth{
			Basic:          true,
			LDAPServerType: settings.LDAPWindows,
		},
		Curator: settings.Curator{
			CloseCount:     10,
			CloseUnits:     "years",
			DeleteCount:    99,
			DeleteUnits:    "years",
			DeleteOverGigs: 1000000,
		},
		Analysis: settings.Analysis{
			OUILookup: true,
		},
		FileExtraction: settings.FileExtraction{
			CarveMode:    settings.CarveNone,
			PreserveMode: settings.PreserveQuarantined,
			VTotAPIKey:   settings.VirusTotalDisabled,
		},
		Capture: settings.Capture{
			Interfaces: "lo",
		},
	}
}
