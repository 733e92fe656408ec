package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and cache locations.
type Paths struct {
	TempDir   string `toml:"temp_dir"`
	LogDir    string `toml:"log_dir"`
	CachePath string `toml:"cache_path"`
}

// Extraction configures the yt-dlp driver used for the primary caption path
// and for audio downloads feeding the transcription fallback.
type Extraction struct {
	Binary                string `toml:"binary"`
	URLTemplate           string `toml:"url_template"`
	CaptionTimeoutSeconds int    `toml:"caption_timeout_seconds"`
	AudioTimeoutSeconds   int    `toml:"audio_timeout_seconds"`
	Retries               int    `toml:"retries"`
	Proxy                 string `toml:"proxy"`
	CookiesFile           string `toml:"cookies_file"`
	SleepRequestsSeconds  int    `toml:"sleep_requests_seconds"`
	SettleDelayMillis     int    `toml:"settle_delay_ms"`
	DefaultFormat         string `toml:"default_format"`
}

// Transcription configures the speech-to-text fallback.
type Transcription struct {
	Enabled             bool   `toml:"enabled"`
	Provider            string `toml:"provider"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
	OutputFormat        string `toml:"output_format"`
	WhisperXModel       string `toml:"whisperx_model"`
	WhisperXCUDAEnabled bool   `toml:"whisperx_cuda_enabled"`
	GeminiAPIKey        string `toml:"gemini_api_key"`
	GeminiModel         string `toml:"gemini_model"`
	OpenAIAPIKey        string `toml:"openai_api_key"`
	OpenAIModel         string `toml:"openai_model"`
	OpenAIBaseURL       string `toml:"openai_base_url"`
}

// Pagination bounds the window sizes callers may request.
type Pagination struct {
	MinWindow     int `toml:"min_window"`
	MaxWindow     int `toml:"max_window"`
	DefaultWindow int `toml:"default_window"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for captioner. It is loaded
// once at process start and passed by value or pointer into the components
// that need it; nothing below the CLI reads the environment directly.
//
// Configuration sections by subsystem:
//   - Paths: temp artifacts, logs, and the transcript cache database
//   - Extraction: yt-dlp invocation and per-call timeouts
//   - Transcription: fallback provider selection and credentials
//   - Pagination: window size bounds
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Extraction    Extraction    `toml:"extraction"`
	Transcription Transcription `toml:"transcription"`
	Pagination    Pagination    `toml:"pagination"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("captioner.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the temp, log, and cache directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.TempDir, c.Paths.LogDir}
	if c.Paths.CachePath != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.CachePath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CaptionTimeout returns the primary-path extraction budget.
func (c *Config) CaptionTimeout() time.Duration {
	return time.Duration(c.Extraction.CaptionTimeoutSeconds) * time.Second
}

// AudioTimeout returns the audio download budget for the fallback path.
func (c *Config) AudioTimeout() time.Duration {
	return time.Duration(c.Extraction.AudioTimeoutSeconds) * time.Second
}

// TranscriptionTimeout returns the budget for one transcription call.
func (c *Config) TranscriptionTimeout() time.Duration {
	return time.Duration(c.Transcription.TimeoutSeconds) * time.Second
}

// SettleDelay is the pause between an extraction run and the output probe.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Extraction.SettleDelayMillis) * time.Millisecond
}

// ExtractionBinary returns the yt-dlp executable name.
func (c *Config) ExtractionBinary() string {
	if bin := strings.TrimSpace(c.Extraction.Binary); bin != "" {
		return bin
	}
	return defaultExtractionBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "captioner", "transcripts.db")
	}
	return "~/.cache/captioner/transcripts.db"
}

func defaultTempDir() string {
	return filepath.Join(os.TempDir(), "captioner")
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}
