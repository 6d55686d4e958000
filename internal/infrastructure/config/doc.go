// Package config provides configuration loading for HomeGuard Core.
//
// Configuration is layered: hardcoded defaults, then a YAML file, then
// HOMEGUARD_* environment variable overrides. The loaded configuration is
// validated before use; a missing JWT secret or an out-of-range port is a
// startup failure, not a runtime surprise.
package config
