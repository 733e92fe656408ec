// Package captions detects and normalizes caption dialects.
//
// Detect classifies raw text as SRT, WebVTT, ASS/SSA, or LRC using ordered,
// first-match-wins rules and never fails. Parse runs the matching line
// scanner, passes every payload line through CleanLine, and joins the
// surviving fragments with single spaces, producing timestamp-free prose
// suitable for pagination. Garbage input yields an empty transcript rather
// than an error; only an out-of-range Format reports ErrUnsupportedFormat.
package captions
