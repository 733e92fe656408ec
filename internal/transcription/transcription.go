package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"captioner/internal/acquire"
	"captioner/internal/captions"
	"captioner/internal/config"
	"captioner/internal/services"
)

// Provider names accepted in [transcription].provider.
const (
	ProviderWhisperX = "whisperx"
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
)

// New returns the configured transcriber, or nil when transcription is
// disabled. A nil transcriber disables the orchestrator's fallback path.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (acquire.Transcriber, error) {
	if cfg == nil || !cfg.Transcription.Enabled {
		return nil, nil
	}
	t := cfg.Transcription
	switch strings.ToLower(strings.TrimSpace(t.Provider)) {
	case ProviderWhisperX, "":
		return NewWhisperX(WhisperXConfig{Model: t.WhisperXModel, CUDAEnabled: t.WhisperXCUDAEnabled}, logger), nil
	case ProviderGemini:
		g, err := NewGemini(ctx, GeminiConfig{APIKey: t.GeminiAPIKey, Model: t.GeminiModel}, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{APIKey: t.OpenAIAPIKey, Model: t.OpenAIModel, BaseURL: t.OpenAIBaseURL}, logger), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "transcription", "new", fmt.Sprintf("unknown provider %q", t.Provider), nil)
	}
}

// subtitleFormat narrows format to a dialect every provider can emit.
// Timed providers only speak SRT and VTT.
func subtitleFormat(format captions.Format) captions.Format {
	if format == captions.VTT {
		return captions.VTT
	}
	return captions.SRT
}

// stripFences removes a surrounding markdown code fence from model output.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[idx+1:]
	} else {
		return ""
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
