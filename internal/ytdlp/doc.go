// Package ytdlp drives the yt-dlp executable for the primary caption path
// and for audio downloads feeding transcription.
//
// ArgsBuilder turns the extraction config into typed argument lists that can
// be inspected in tests without spawning anything. Client runs them through
// command.Run, which kills the whole process group when a call's context
// expires.
package ytdlp
