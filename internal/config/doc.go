// Package config loads, normalizes, and validates anydl configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the API_BASE_URL environment
// override. The resulting Config is built once at startup and handed to the
// backend client, fetcher, and orchestrator as an immutable value.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, positive wait bounds, and clear validation errors.
package config
