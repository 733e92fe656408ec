// Package config loads, normalizes, and validates captioner configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GEMINI_API_KEY, OPENAI_API_KEY, and CAPTIONER_PROXY. The resulting Config is
// built once by the CLI and handed to the acquisition pipeline by parameter,
// so core packages never consult the environment themselves.
package config
