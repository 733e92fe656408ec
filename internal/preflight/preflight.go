package preflight

import (
	"context"
	"strings"

	"captioner/internal/config"
	"captioner/internal/transcription"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks plus, when network is true, a
// reachability check for the configured transcription provider.
func RunAll(ctx context.Context, cfg *config.Config, network bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir),
		CheckCacheAccess(cfg.Paths.CachePath),
	}

	if !cfg.Transcription.Enabled {
		return results
	}
	switch strings.ToLower(cfg.Transcription.Provider) {
	case transcription.ProviderGemini:
		if strings.TrimSpace(cfg.Transcription.GeminiAPIKey) == "" {
			results = append(results, Result{Name: "Gemini transcription", Detail: "API key missing"})
		} else {
			results = append(results, Result{Name: "Gemini transcription", Passed: true, Detail: "API key configured"})
		}
	case transcription.ProviderOpenAI:
		if network {
			results = append(results, CheckOpenAI(ctx, cfg.Transcription.OpenAIBaseURL, cfg.Transcription.OpenAIAPIKey))
		}
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
