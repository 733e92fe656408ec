// Package services defines shared utilities consumed by the acquisition
// pipeline, the transcript service, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp resource IDs, acquisition paths, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (not found, invalid cursor, timeout, external tool) so callers can branch
//     with errors.Is and the CLI can pick an exit code.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across the pipeline.
package services
