package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/composetune/pkg/errors"
	"github.com/arthur-debert/composetune/pkg/logging"
	"github.com/arthur-debert/composetune/pkg/settings"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var log = logging.GetLogger("config")

// EnvPrefix starts every environment variable the loader reads.
// COMPOSETUNE_CURATOR__CLOSE_COUNT sets curator.close_count.
const EnvPrefix = "COMPOSETUNE_"

// Options selects the layers Load merges, lowest priority first:
// embedded defaults, host ids, Defaults, ConfigFile, environment, Overrides.
type Options struct {
	// ConfigFile is an optional .toml, .yaml or .yml settings file
	ConfigFile string
	// Defaults are flag-driven defaults that any other source can override
	Defaults map[string]interface{}
	// Overrides win over every other source
	Overrides map[string]interface{}
	// HostIDs reports the invoking user's uid and gid. Nil uses the process ids.
	HostIDs func() (uid, gid int)
	// SkipEnv ignores COMPOSETUNE_ variables
	SkipEnv bool
}

// Load resolves, normalizes and validates settings
func Load(opts Options) (*settings.Settings, error) {
	k, err := Layers(opts)
	if err != nil {
		return nil, err
	}

	s, err := decode(k)
	if err != nil {
		return nil, err
	}

	normalized := settings.Normalize(*s)
	if err := normalized.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("puid", normalized.PUID).
		Int("pgid", normalized.PGID).
		Str("restart", string(normalized.Restart)).
		Bool("expose", normalized.Logstash.Expose).
		Bool("forward", normalized.Forward.Enabled()).
		Msg("Settings resolved")

	return &normalized, nil
}

// Layers merges every source into one koanf instance without decoding it
func Layers(opts Options) (*koanf.Koanf, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. Host ids
	hostIDs := opts.HostIDs
	if hostIDs == nil {
		hostIDs = processIDs
	}
	if err := k.Load(confmap.Provider(hostDefaults(hostIDs()), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load host defaults")
	}

	// 3. Flag defaults
	if len(opts.Defaults) > 0 {
		if err := k.Load(confmap.Provider(opts.Defaults, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load flag defaults")
		}
	}

	// 4. Settings file
	if opts.ConfigFile != "" {
		if err := loadFile(k, opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	// 5. Environment
	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
		}), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
		}
	}

	// 6. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	return k, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	logger := log.With().Str("configFile", path).Logger()

	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read settings file %s", path).
			WithDetail("path", path)
	}

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		return errors.Newf(errors.ErrConfigParse, "settings file %s must be .toml, .yaml or .yml", path).
			WithDetail("path", path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse settings file %s", path).
			WithDetail("path", path)
	}

	logger.Debug().Msg("Settings file loaded")
	return nil
}

func decode(k *koanf.Koanf) (*settings.Settings, error) {
	var s settings.Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				trimStringHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode settings")
	}
	return &s, nil
}

// trimStringHookFunc strips surrounding blanks from string values, which
// environment variables and --set pairs often carry
func trimStringHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		return strings.TrimSpace(reflect.ValueOf(data).String()), nil
	}
}

func processIDs() (int, int) {
	return os.Getuid(), os.Getgid()
}

// hostDefaults prefers the invoking user's ids. Root, and platforms without
// numeric ids, keep the embedded 1000.
func hostDefaults(uid, gid int) map[string]interface{} {
	if uid <= 0 || gid <= 0 {
		return map[string]interface{}{}
	}
	return map[string]interface{}{"puid": uid, "pgid": gid}
}

// DefaultConfigFile is where gen-config writes and configure looks for a
// settings file when none is named: $XDG_CONFIG_HOME/composetune/settings.toml
func DefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "composetune", "settings.toml")
}
