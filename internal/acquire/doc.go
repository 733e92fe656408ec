// Package acquire resolves raw caption text for a remote video.
//
// The Orchestrator asks an Extractor for a caption track first. Whatever the
// tool's exit status, it then probes the caption artifact: a non-empty file
// counts as success even when the tool reported an error. Only when that
// primary path fails, and only when a Transcriber is configured, it downloads
// audio and transcribes it once. The two paths never overlap. Each external
// call has its own timeout, and every artifact is released through a scoped
// defer on success, failure, timeout, and cancellation.
package acquire
