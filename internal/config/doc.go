// Package config loads, normalizes, and validates rollcall's TOML
// configuration.
//
// Load resolves the config path (explicit flag, ROLLCALL_CONFIG env var,
// ~/.config/rollcall/config.toml, then a project-local rollcall.toml),
// decodes it over the defaults, expands every path field, and validates the
// result. Components receive the *Config by injection; nothing reads
// configuration globals at runtime.
package config
