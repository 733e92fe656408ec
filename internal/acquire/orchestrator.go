package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"captioner/internal/artifact"
	"captioner/internal/captions"
	"captioner/internal/command"
	"captioner/internal/logging"
	"captioner/internal/services"
)

// Options configures an Orchestrator.
type Options struct {
	// Timeouts apply when the per-call Timeouts leave a field at zero.
	Timeouts Timeouts
	// SettleDelay is the pause between a tool exiting and the output probe.
	SettleDelay time.Duration
	// DefaultFormat is requested from the extractor when the caller has no preference.
	DefaultFormat captions.Format
	// TranscriptFormat is the dialect asked of the transcriber.
	TranscriptFormat captions.Format
}

// Orchestrator runs the primary caption path and, only when that fails, the
// audio transcription fallback.
type Orchestrator struct {
	artifacts   *artifact.Manager
	extractor   Extractor
	transcriber Transcriber
	opts        Options
	logger      *slog.Logger
}

// New builds an orchestrator. A nil transcriber disables the fallback path.
// Zero fields in opts.Timeouts take their value from DefaultTimeouts.
func New(artifacts *artifact.Manager, extractor Extractor, transcriber Transcriber, opts Options, logger *slog.Logger) *Orchestrator {
	opts.Timeouts = opts.Timeouts.orDefaults(DefaultTimeouts)
	return &Orchestrator{
		artifacts:   artifacts,
		extractor:   extractor,
		transcriber: transcriber,
		opts:        opts,
		logger:      logging.NewComponentLogger(logger, "acquire"),
	}
}

// FallbackEnabled reports whether a transcriber is configured.
func (o *Orchestrator) FallbackEnabled() bool {
	return o.transcriber != nil
}

// attempt is the outcome of one acquisition path.
type attempt struct {
	payload Payload
	ok      bool
	note    string
}

// Acquire resolves raw caption text for req. Every artifact it allocates is
// released before it returns. When neither path yields text the error wraps
// services.ErrNotFound and summarizes each attempt.
func (o *Orchestrator) Acquire(ctx context.Context, req Request, timeouts Timeouts) (Payload, error) {
	if req.ResourceID == "" {
		return Payload{}, services.Wrap(services.ErrValidation, "acquire", "acquire", "resource id is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return Payload{}, interrupted("before primary path", err)
	}
	timeouts = timeouts.orDefaults(o.opts.Timeouts)

	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	ctx = services.WithResourceID(ctx, req.ResourceID)
	logger := logging.WithContext(ctx, o.logger)

	scope := o.artifacts.NewScope()
	defer scope.Close()

	started := time.Now()
	notes := make([]string, 0, 2)

	primary := o.primary(services.WithPath(ctx, string(ProvenancePrimary)), scope, req, timeouts.Captions)
	if primary.ok {
		logger.Info("captions acquired",
			logging.String("provenance", string(ProvenancePrimary)),
			logging.String("format", primary.payload.Format.String()),
			logging.Duration("elapsed", time.Since(started)),
		)
		return primary.payload, nil
	}
	notes = append(notes, "primary: "+primary.note)

	if err := ctx.Err(); err != nil {
		return Payload{}, interrupted("between primary and fallback paths", err)
	}

	if o.transcriber == nil {
		notes = append(notes, "fallback: transcription disabled")
		logger.Info("fallback skipped", logging.String("reason", "transcription disabled"))
	} else {
		fallback := o.fallback(services.WithPath(ctx, string(ProvenanceFallback)), scope, req, timeouts)
		if fallback.ok {
			logger.Info("captions acquired",
				logging.String("provenance", string(ProvenanceFallback)),
				logging.String("transcriber", o.transcriber.Name()),
				logging.String("format", fallback.payload.Format.String()),
				logging.Duration("elapsed", time.Since(started)),
			)
			return fallback.payload, nil
		}
		notes = append(notes, "fallback: "+fallback.note)
		if err := ctx.Err(); err != nil {
			return Payload{}, interrupted("during fallback path", err)
		}
	}

	summary := strings.Join(notes, "; ")
	logger.Info("no captions found", logging.String("attempts", summary))
	return Payload{}, services.Wrap(services.ErrNotFound, "acquire", "acquire",
		fmt.Sprintf("no transcript for %s (%s)", req.ResourceID, summary), nil)
}

func (o *Orchestrator) primary(ctx context.Context, scope *artifact.Scope, req Request, budget time.Duration) attempt {
	logger := logging.WithContext(ctx, o.logger)
	out := scope.Allocate("captions", req.ResourceID)

	format := o.opts.DefaultFormat
	if req.PreferredFormat != nil {
		format = *req.PreferredFormat
	}
	job := CaptionJob{
		ResourceID: req.ResourceID,
		TrackKind:  req.TrackKind,
		Language:   req.Language,
		Format:     format,
		Output:     out,
	}

	callCtx, cancel := context.WithTimeout(ctx, budget)
	_, runErr := o.extractor.ExtractCaptions(callCtx, job)
	cancel()
	outcome := toolOutcome(runErr)

	if err := o.settle(ctx); err != nil {
		return attempt{note: "interrupted while waiting for output"}
	}

	path, found := out.Find(captionExtensions(format)...)
	if !found {
		logger.Info("primary path produced no caption file",
			logging.String("tool_outcome", outcome),
			logging.Error(runErr),
		)
		return attempt{note: outcome + ", no caption file"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logging.WarnWithContext(logger, "caption file unreadable", "caption_read_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "falling back to transcription"),
		)
		return attempt{note: "caption file unreadable"}
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return attempt{note: outcome + ", caption file empty"}
	}
	if runErr != nil {
		logging.WarnWithContext(logger, "extraction tool reported failure but wrote captions", "primary_partial_success",
			logging.String("tool_outcome", outcome),
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, "the tool may have failed after writing subtitles"),
			logging.String(logging.FieldImpact, "using the caption file that was written"),
		)
	}
	return attempt{ok: true, payload: Payload{
		Content:    content,
		Format:     captions.Detect(content),
		Provenance: ProvenancePrimary,
	}}
}

func (o *Orchestrator) fallback(ctx context.Context, scope *artifact.Scope, req Request, timeouts Timeouts) attempt {
	logger := logging.WithContext(ctx, o.logger)
	out := scope.Allocate("audio", req.ResourceID)

	callCtx, cancel := context.WithTimeout(ctx, timeouts.Audio)
	_, runErr := o.extractor.ExtractAudio(callCtx, AudioJob{ResourceID: req.ResourceID, Output: out})
	cancel()
	outcome := toolOutcome(runErr)

	if err := o.settle(ctx); err != nil {
		return attempt{note: "interrupted while waiting for audio"}
	}
	audioPath, found := out.Find()
	if !found {
		logger.Info("audio download produced no file",
			logging.String("tool_outcome", outcome),
			logging.Error(runErr),
		)
		return attempt{note: outcome + ", no audio file"}
	}

	transCtx, cancel := context.WithTimeout(ctx, timeouts.Transcription)
	defer cancel()
	text, err := o.transcriber.Transcribe(transCtx, audioPath, req.Language, o.opts.TranscriptFormat)
	if err != nil {
		kind := toolOutcome(err)
		if errors.Is(transCtx.Err(), context.DeadlineExceeded) {
			kind = "timeout"
		}
		logging.WarnWithContext(logger, "transcription failed", "transcription_failed",
			logging.String("transcriber", o.transcriber.Name()),
			logging.String("outcome", kind),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the transcription provider configuration"),
			logging.String(logging.FieldImpact, "no transcript for this resource"),
		)
		return attempt{note: fmt.Sprintf("%s transcription %s", o.transcriber.Name(), kind)}
	}
	if strings.TrimSpace(text) == "" {
		return attempt{note: o.transcriber.Name() + " returned no text"}
	}
	return attempt{ok: true, payload: Payload{
		Content:    text,
		Format:     captions.Detect(text),
		Provenance: ProvenanceFallback,
	}}
}

// settle waits for the configured delay so files written just before the
// tool exited become visible. It returns early if ctx ends.
func (o *Orchestrator) settle(ctx context.Context) error {
	if o.opts.SettleDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(o.opts.SettleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// toolOutcome names a tool result for diagnostics only; every failure kind
// leads to the same fallback-then-NotFound behavior.
func toolOutcome(err error) string {
	switch {
	case err == nil:
		return "tool ran"
	case command.IsNotFound(err):
		return "tool not found"
	case command.IsTimeout(err):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case command.IsExit(err):
		return "non-zero exit"
	default:
		return "tool error"
	}
}

func captionExtensions(preferred captions.Format) []string {
	exts := []string{preferred.Extension()}
	for _, f := range captions.Formats() {
		if f != preferred {
			exts = append(exts, f.Extension())
		}
	}
	return exts
}

func interrupted(stage string, err error) error {
	return services.Wrap(services.ErrTimeout, "acquire", "acquire", "interrupted "+stage, err)
}
