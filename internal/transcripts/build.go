package transcripts

import (
	"context"
	"fmt"
	"log/slog"

	"captioner/internal/acquire"
	"captioner/internal/artifact"
	"captioner/internal/captions"
	"captioner/internal/config"
	"captioner/internal/logging"
	"captioner/internal/transcriptcache"
	"captioner/internal/transcription"
	"captioner/internal/ytdlp"
)

// Runtime is a fully wired Service plus the resources it owns.
type Runtime struct {
	*Service
	Orchestrator *acquire.Orchestrator
	Cache        *transcriptcache.Cache
}

// Close releases the cache database.
func (r *Runtime) Close() error {
	if r == nil || r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}

// BuildOptions adjust Open.
type BuildOptions struct {
	// NoCache disables the transcript cache entirely.
	NoCache bool
}

// Open wires yt-dlp, the configured transcriber, the artifact manager, and
// the transcript cache from cfg.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts BuildOptions) (*Runtime, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	defaultFormat, err := captions.ParseFormat(cfg.Extraction.DefaultFormat)
	if err != nil {
		return nil, fmt.Errorf("extraction.default_format: %w", err)
	}
	transcriptFormat, err := captions.ParseFormat(cfg.Transcription.OutputFormat)
	if err != nil {
		return nil, fmt.Errorf("transcription.output_format: %w", err)
	}

	artifacts := artifact.NewManager(cfg.Paths.TempDir, logger)
	if err := artifacts.Prepare(); err != nil {
		return nil, err
	}
	transcriber, err := transcription.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	orchestrator := acquire.New(artifacts, ytdlp.New(ytdlp.OptionsFromConfig(cfg), logger), transcriber, acquire.Options{
		Timeouts: acquire.Timeouts{
			Captions:      cfg.CaptionTimeout(),
			Audio:         cfg.AudioTimeout(),
			Transcription: cfg.TranscriptionTimeout(),
		},
		SettleDelay:      cfg.SettleDelay(),
		DefaultFormat:    defaultFormat,
		TranscriptFormat: transcriptFormat,
	}, logger)

	rt := &Runtime{Orchestrator: orchestrator}
	var cache Cache
	if !opts.NoCache {
		rt.Cache, err = transcriptcache.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open transcript cache: %w", err)
		}
		cache = rt.Cache
	}
	rt.Service = New(orchestrator, cache, Windows{
		Min:     cfg.Pagination.MinWindow,
		Max:     cfg.Pagination.MaxWindow,
		Default: cfg.Pagination.DefaultWindow,
	}, logger)
	return rt, nil
}
