package testsupport

import (
	"path/filepath"
	"testing"

	"captioner/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Transcription is disabled and the settle delay is zero unless an option
// says otherwise.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CachePath = filepath.Join(base, "cache", "transcripts.db")
	cfgVal.Extraction.SettleDelayMillis = 0
	cfgVal.Transcription.Enabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithTranscription enables the fallback with the given provider.
func WithTranscription(provider string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.Enabled = true
		b.cfg.Transcription.Provider = provider
	}
}

// WithWindows overrides the pagination bounds.
func WithWindows(minWindow, maxWindow, defaultWindow int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pagination.MinWindow = minWindow
		b.cfg.Pagination.MaxWindow = maxWindow
		b.cfg.Pagination.DefaultWindow = defaultWindow
	}
}
