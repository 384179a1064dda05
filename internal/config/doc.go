// Package config loads and validates ingestd configuration.
//
// Configuration is YAML with ${VAR} environment variable expansion.
// Optional fields fall back to documented defaults; Validate enforces
// required fields before anything connects to the outside world.
package config
