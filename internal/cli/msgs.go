package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort      = "Tune a Malcolm installation's docker-compose files"
	MsgConfigureShort = "Rewrite compose files to match settings"
	MsgGenConfigShort = "Print or write a settings file"
	MsgRulesShort     = "List the rewrite rules in evaluation order"
	MsgSectionsShort  = "Show the service sections found in a compose file"
	MsgSectionsLong   = "Sections runs the section tracker over a compose file without changing it and lists each service header with its line number and the detected indent unit."

	// Group titles
	MsgGroupCore = "COMMANDS:"
	MsgGroupMisc = "MISC:"

	// Status messages
	MsgNothingChanged = "All compose files already match the settings."
	MsgConfigWritten  = "Wrote %s\n"
	MsgConfigSkipped  = "%s already exists; use --force to replace it\n"

	// Flag descriptions
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun         = "Preview changes without writing them"
	MsgFlagStyles         = "Load output styles from a YAML file"
	MsgFlagInstallPath    = "Malcolm installation directory holding docker-compose*.yml"
	MsgFlagConfigureFile  = "Rewrite only this compose file"
	MsgFlagConfig         = "Settings file (.toml, .yaml or .yml)"
	MsgFlagSet            = "Override one setting, as section.key=value (repeatable)"
	MsgFlagExposeLogstash = "Publish the Logstash beats port unless settings say otherwise"
	MsgFlagRestart        = "Restart services unless-stopped unless settings say otherwise"
	MsgFlagWrite          = "Write to a file instead of stdout"
	MsgFlagTemplate       = "Print commented defaults instead of resolved settings"
	MsgFlagForce          = "Replace an existing settings file"
	MsgFlagFormat         = "Output format: auto, term, text or markdown"

	// Error messages
	MsgErrNoCommand = "no command specified"
	MsgErrFormat    = "invalid --format"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/configure-long.txt
	msgConfigureLongRaw string
	MsgConfigureLong    = strings.TrimSpace(msgConfigureLongRaw)

	//go:embed msgs/configure-example.txt
	msgConfigureExampleRaw string
	MsgConfigureExample    = strings.TrimRight(msgConfigureExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
