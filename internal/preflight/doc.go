// Package preflight provides readiness checks for the directories,
// executables, and transcription endpoints captioner depends on.
//
// The CLI "captioner deps" command prints every result. The fetch command
// runs the filesystem checks before acquisition so a read-only temp
// directory fails fast instead of surfacing as a missing caption.
package preflight
