// Package config loads, normalizes, and validates autosub configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML or YAML files, loads a .env file from the working directory, and
// honours environment fallbacks such as GEMINI_API_KEY and OPENAI_API_KEY.
// Command-line flags are layered on top by the CLI after Load returns.
package config
