package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeExtraction(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizePagination()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = defaultTempDir()
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CachePath) == "" {
		c.Paths.CachePath = defaultCachePath()
	}
	if c.Paths.CachePath, err = expandPath(c.Paths.CachePath); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeExtraction() error {
	c.Extraction.Binary = strings.TrimSpace(c.Extraction.Binary)
	if c.Extraction.Binary == "" {
		c.Extraction.Binary = defaultExtractionBinary
	}
	c.Extraction.URLTemplate = strings.TrimSpace(c.Extraction.URLTemplate)
	if c.Extraction.URLTemplate == "" {
		c.Extraction.URLTemplate = defaultURLTemplate
	}
	c.Extraction.Proxy = strings.TrimSpace(c.Extraction.Proxy)
	if c.Extraction.Proxy == "" {
		if value, ok := os.LookupEnv("CAPTIONER_PROXY"); ok {
			c.Extraction.Proxy = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Extraction.CookiesFile) != "" {
		var err error
		if c.Extraction.CookiesFile, err = expandPath(strings.TrimSpace(c.Extraction.CookiesFile)); err != nil {
			return fmt.Errorf("extraction.cookies_file: %w", err)
		}
	}
	if c.Extraction.Retries < 0 {
		c.Extraction.Retries = 0
	}
	if c.Extraction.SleepRequestsSeconds < 0 {
		c.Extraction.SleepRequestsSeconds = 0
	}
	if c.Extraction.SettleDelayMillis < 0 {
		c.Extraction.SettleDelayMillis = 0
	}
	c.Extraction.DefaultFormat = strings.ToLower(strings.TrimSpace(c.Extraction.DefaultFormat))
	if c.Extraction.DefaultFormat == "" {
		c.Extraction.DefaultFormat = defaultFormat
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = defaultProvider
	}
	c.Transcription.OutputFormat = strings.ToLower(strings.TrimSpace(c.Transcription.OutputFormat))
	if c.Transcription.OutputFormat == "" {
		c.Transcription.OutputFormat = "srt"
	}
	c.Transcription.WhisperXModel = strings.TrimSpace(c.Transcription.WhisperXModel)
	if c.Transcription.WhisperXModel == "" {
		c.Transcription.WhisperXModel = defaultWhisperXModel
	}
	c.Transcription.GeminiAPIKey = strings.TrimSpace(c.Transcription.GeminiAPIKey)
	if c.Transcription.GeminiAPIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Transcription.GeminiAPIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("GOOGLE_API_KEY"); ok {
			c.Transcription.GeminiAPIKey = strings.TrimSpace(value)
		}
	}
	c.Transcription.GeminiModel = strings.TrimSpace(c.Transcription.GeminiModel)
	if c.Transcription.GeminiModel == "" {
		c.Transcription.GeminiModel = defaultGeminiModel
	}
	c.Transcription.OpenAIAPIKey = strings.TrimSpace(c.Transcription.OpenAIAPIKey)
	if c.Transcription.OpenAIAPIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Transcription.OpenAIAPIKey = strings.TrimSpace(value)
		}
	}
	c.Transcription.OpenAIModel = strings.TrimSpace(c.Transcription.OpenAIModel)
	if c.Transcription.OpenAIModel == "" {
		c.Transcription.OpenAIModel = defaultOpenAIModel
	}
	c.Transcription.OpenAIBaseURL = strings.TrimRight(strings.TrimSpace(c.Transcription.OpenAIBaseURL), "/")
	if c.Transcription.OpenAIBaseURL == "" {
		c.Transcription.OpenAIBaseURL = defaultOpenAIBaseURL
	}
}

func (c *Config) normalizePagination() {
	if c.Pagination.MinWindow <= 0 {
		c.Pagination.MinWindow = defaultMinWindow
	}
	if c.Pagination.MaxWindow <= 0 {
		c.Pagination.MaxWindow = defaultMaxWindow
	}
	if c.Pagination.DefaultWindow <= 0 {
		c.Pagination.DefaultWindow = defaultWindow
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
