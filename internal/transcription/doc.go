// Package transcription provides the speech-to-text fallback used when no
// caption track is available.
//
// Three providers are supported: whisperx run locally through uvx, Gemini
// via google.golang.org/genai, and any OpenAI-compatible
// /audio/transcriptions endpoint. Each returns subtitle text (SRT or VTT)
// so the transcript keeps its timing structure through parsing.
package transcription
