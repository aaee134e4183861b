// Package config loads, normalizes, and validates kinetic configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// KINETIC_API_TOKEN. The Config type centralizes every knob the daemon and CLI
// need, so data, workspace, output, and cache directories plus the external
// engine settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
