package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"captioner/internal/captions"
	"captioner/internal/language"
	"captioner/internal/logging"
	"captioner/internal/services"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey string
	Model  string
}

type generateFunc func(ctx context.Context, model string, contents []*genai.Content) (string, error)

// Gemini sends the audio inline to a Gemini model and asks for timed
// captions back.
type Gemini struct {
	model    string
	generate generateFunc
	logger   *slog.Logger
}

// NewGemini builds a Gemini client for cfg.
func NewGemini(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gemini", "new", "api key required", nil)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "gemini", "new", "create client", err)
	}
	g := newGemini(cfg.Model, func(ctx context.Context, model string, contents []*genai.Content) (string, error) {
		result, err := client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)})
		if err != nil {
			return "", err
		}
		if len(result.Candidates) == 0 {
			reason := "no reason"
			if result.PromptFeedback != nil {
				reason = string(result.PromptFeedback.BlockReason)
			}
			return "", fmt.Errorf("gemini returned no candidates: %s", reason)
		}
		return result.Text(), nil
	}, logger)
	return g, nil
}

func newGemini(model string, generate generateFunc, logger *slog.Logger) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{model: model, generate: generate, logger: logging.NewComponentLogger(logger, "gemini")}
}

// Name identifies the provider in logs.
func (g *Gemini) Name() string { return ProviderGemini }

// Transcribe uploads audioPath inline and returns the model's captions.
func (g *Gemini) Transcribe(ctx context.Context, audioPath, lang string, format captions.Format) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "gemini", "read audio", filepath.Base(audioPath), err)
	}
	format = subtitleFormat(format)
	parts := []*genai.Part{
		genai.NewPartFromText(geminiPrompt(lang, format)),
		genai.NewPartFromBytes(data, audioMIMEType(audioPath)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	logging.WithContext(ctx, g.logger).Debug("gemini transcription",
		logging.String("model", g.model),
		logging.Int("audio_bytes", len(data)),
	)
	text, err := g.generate(ctx, g.model, contents)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "gemini", "generate", g.model, err)
	}
	return stripFences(text), nil
}

func geminiPrompt(lang string, format captions.Format) string {
	name := "the spoken language"
	if lang != "" {
		name = language.DisplayName(lang)
	}
	return fmt.Sprintf(
		"Transcribe this audio verbatim in %s. Respond only with a valid %s subtitle file "+
			"with accurate timestamps. Do not translate, summarize, or add commentary.",
		name, strings.ToUpper(format.String()),
	)
}

var audioMIMETypes = map[string]string{
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".opus": "audio/ogg",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".aac":  "audio/aac",
}

func audioMIMEType(path string) string {
	if t, ok := audioMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return "application/octet-stream"
}
