// Package transcripts is the top-level transcript workflow: cache lookup,
// caption acquisition, normalization to plain text, cache store, and
// cursor-based paging.
//
// Open wires the concrete collaborators from configuration. Service itself
// depends only on the Acquirer and Cache interfaces, so tests drive it with
// fakes.
package transcripts
