// Package transcriptcache stores normalized transcripts in a local SQLite
// database so repeat requests skip acquisition entirely.
//
// Entries are keyed by resource id, track kind, and language. Writes retry
// briefly on SQLITE_BUSY so concurrent CLI invocations sharing one cache file
// do not fail spuriously.
package transcriptcache
