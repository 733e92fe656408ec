// Package language canonicalizes the language names and tags callers pass
// with caption requests.
//
// yt-dlp, WhisperX, and the hosted transcription APIs each expect a bare
// ISO 639-1 code, so every request language goes through Canonicalize once
// when the request is built.
package language
