// Package config resolves the settings a configure run projects into compose
// files. Values are layered with koanf from embedded defaults, host ids,
// flag defaults, an optional settings file, the environment and explicit
// overrides, then decoded, normalized and validated.
package config
