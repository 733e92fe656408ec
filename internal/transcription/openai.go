package transcription

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"captioner/internal/captions"
	"captioner/internal/language"
	"captioner/internal/logging"
	"captioner/internal/services"
)

const (
	DefaultOpenAIModel   = "whisper-1"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	maxErrorBody         = 2048
)

// OpenAIConfig configures any OpenAI-compatible /audio/transcriptions endpoint.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAI posts the audio file as multipart form data and requests the
// transcript as a subtitle file.
type OpenAI struct {
	cfg    OpenAIConfig
	client *http.Client
	logger *slog.Logger
}

// NewOpenAI creates an OpenAI-compatible transcriber. Request deadlines come
// from the caller's context.
func NewOpenAI(cfg OpenAIConfig, logger *slog.Logger) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &OpenAI{cfg: cfg, client: &http.Client{}, logger: logging.NewComponentLogger(logger, "openai")}
}

// WithHTTPClient overrides the HTTP client (for testing).
func (o *OpenAI) WithHTTPClient(client *http.Client) {
	if client != nil {
		o.client = client
	}
}

// Name identifies the provider in logs.
func (o *OpenAI) Name() string { return ProviderOpenAI }

// Transcribe uploads audioPath and returns the response body.
func (o *OpenAI) Transcribe(ctx context.Context, audioPath, lang string, format captions.Format) (string, error) {
	body, contentType, err := o.buildForm(audioPath, lang, subtitleFormat(format))
	if err != nil {
		return "", err
	}
	endpoint := o.cfg.BaseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "openai", "build request", endpoint, err)
	}
	if o.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	}
	req.Header.Set("Content-Type", contentType)

	logging.WithContext(ctx, o.logger).Debug("openai transcription",
		logging.String("model", o.cfg.Model),
		logging.String("endpoint", endpoint),
	)
	resp, err := o.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "openai", "request", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "openai", "read response", endpoint, err)
	}
	if resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(data))
		if len(detail) > maxErrorBody {
			detail = detail[:maxErrorBody]
		}
		marker := services.ErrExternalTool
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			marker = services.ErrTransient
		}
		return "", services.Wrap(marker, "openai", "transcribe", fmt.Sprintf("http %d: %s", resp.StatusCode, detail), nil)
	}
	return string(data), nil
}

func (o *OpenAI) buildForm(audioPath, lang string, format captions.Format) (io.Reader, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", services.Wrap(services.ErrValidation, "openai", "open audio", filepath.Base(audioPath), err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{"model", o.cfg.Model},
		{"response_format", format.String()},
	}
	if code := language.ToISO2(lang); code != "" {
		fields = append(fields, [2]string{"language", code})
	}
	for _, field := range fields {
		if err := mw.WriteField(field[0], field[1]); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", field[0], err)
		}
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, "", fmt.Errorf("copy audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &body, mw.FormDataContentType(), nil
}
