// Package artifact manages the temporary files produced while acquiring
// captions.
//
// Paths are derived from a hash of the resource key plus a nanosecond
// timestamp and a process-wide sequence, so concurrent acquisitions for the
// same or different resources never collide and no lock is needed. A Scope
// ties artifacts to one operation and releases them with a single deferred
// Close. Release is best effort: failures are logged, never returned.
package artifact
