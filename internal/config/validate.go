package config

import (
	"errors"
	"fmt"
	"strings"
)

var knownFormats = map[string]struct{}{"srt": {}, "vtt": {}, "ass": {}, "lrc": {}}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExtraction(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validatePagination(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if err := ensurePositiveMap(map[string]int{
		"extraction.caption_timeout_seconds": c.Extraction.CaptionTimeoutSeconds,
		"extraction.audio_timeout_seconds":   c.Extraction.AudioTimeoutSeconds,
	}); err != nil {
		return err
	}
	if !strings.Contains(c.Extraction.URLTemplate, "%s") {
		return errors.New("extraction.url_template must contain a %s placeholder for the resource id")
	}
	if _, ok := knownFormats[c.Extraction.DefaultFormat]; !ok {
		return fmt.Errorf("extraction.default_format: unsupported value %q (want srt, vtt, ass, or lrc)", c.Extraction.DefaultFormat)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if !c.Transcription.Enabled {
		return nil
	}
	if c.Transcription.TimeoutSeconds <= 0 {
		return errors.New("transcription.timeout_seconds must be positive")
	}
	if _, ok := knownFormats[c.Transcription.OutputFormat]; !ok {
		return fmt.Errorf("transcription.output_format: unsupported value %q", c.Transcription.OutputFormat)
	}
	switch c.Transcription.Provider {
	case "whisperx":
	case "gemini":
		if c.Transcription.GeminiAPIKey == "" {
			return errors.New("transcription.gemini_api_key must be set when transcription.provider is gemini (or set GEMINI_API_KEY)")
		}
	case "openai":
		if c.Transcription.OpenAIAPIKey == "" {
			return errors.New("transcription.openai_api_key must be set when transcription.provider is openai (or set OPENAI_API_KEY)")
		}
	default:
		return fmt.Errorf("transcription.provider: unsupported value %q (want whisperx, gemini, or openai)", c.Transcription.Provider)
	}
	return nil
}

func (c *Config) validatePagination() error {
	p := c.Pagination
	if p.MinWindow < 1 {
		return errors.New("pagination.min_window must be at least 1")
	}
	if p.MinWindow > p.MaxWindow {
		return errors.New("pagination.min_window must not exceed pagination.max_window")
	}
	if p.DefaultWindow < p.MinWindow || p.DefaultWindow > p.MaxWindow {
		return errors.New("pagination.default_window must be between min_window and max_window")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
