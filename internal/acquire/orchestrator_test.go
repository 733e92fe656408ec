package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"captioner/internal/artifact"
	"captioner/internal/captions"
	"captioner/internal/logging"
	"captioner/internal/services"
)

const sampleVTT = "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nHello world\n"

type fakeExtractor struct {
	captions      func(ctx context.Context, job CaptionJob) error
	audio         func(ctx context.Context, job AudioJob) error
	captionCalls  atomic.Int32
	audioCalls    atomic.Int32
	lastCaptionMu sync.Mutex
	lastCaption   CaptionJob
}

func (f *fakeExtractor) ExtractCaptions(ctx context.Context, job CaptionJob) (string, error) {
	f.captionCalls.Add(1)
	f.lastCaptionMu.Lock()
	f.lastCaption = job
	f.lastCaptionMu.Unlock()
	if f.captions == nil {
		return "", nil
	}
	return "", f.captions(ctx, job)
}

func (f *fakeExtractor) ExtractAudio(ctx context.Context, job AudioJob) (string, error) {
	f.audioCalls.Add(1)
	if f.audio == nil {
		return "", nil
	}
	return "", f.audio(ctx, job)
}

type fakeTranscriber struct {
	transcribe func(ctx context.Context, audioPath string) (string, error)
	calls      atomic.Int32
	lastLang   string
}

func (f *fakeTranscriber) Name() string { return "fake" }

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath, language string, _ captions.Format) (string, error) {
	f.calls.Add(1)
	f.lastLang = language
	return f.transcribe(ctx, audioPath)
}

func writeOutput(path, suffix, content string) error {
	return os.WriteFile(path+suffix, []byte(content), 0o644)
}

func newTestOrchestrator(t *testing.T, ext Extractor, tr Transcriber) (*Orchestrator, string) {
	t.Helper()
	dir := t.TempDir()
	opts := Options{
		Timeouts:         Timeouts{Captions: time.Second, Audio: time.Second, Transcription: time.Second},
		DefaultFormat:    captions.VTT,
		TranscriptFormat: captions.SRT,
	}
	return New(artifact.NewManager(dir, logging.NewNop()), ext, tr, opts, logging.NewNop()), dir
}

func mustRequest(t *testing.T, preferred *captions.Format) Request {
	t.Helper()
	req, err := NewRequest("dQw4w9WgXcQ", TrackOfficial, "en-US", preferred)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("artifacts leaked: %v", names)
	}
}

func TestAcquirePrimarySuccess(t *testing.T) {
	ext := &fakeExtractor{captions: func(_ context.Context, job CaptionJob) error {
		return writeOutput(job.Output.Path(), ".en.vtt", sampleVTT)
	}}
	o, dir := newTestOrchestrator(t, ext, nil)

	payload, err := o.Acquire(context.Background(), mustRequest(t, nil), Timeouts{})
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if payload.Provenance != ProvenancePrimary || payload.Format != captions.VTT {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Content != sampleVTT {
		t.Fatalf("unexpected content %q", payload.Content)
	}
	if ext.lastCaption.Language != "en" || ext.lastCaption.Format != captions.VTT {
		t.Fatalf("unexpected caption job: %+v", ext.lastCaption)
	}
	assertEmptyDir(t, dir)
}

func TestAcquirePrimaryNonZeroExitWithFileSucceeds(t *testing.T) {
	ext := &fakeExtractor{captions: func(_ context.Context, job CaptionJob) error {
		if err := writeOutput(job.Output.Path(), ".en.vtt", sampleVTT); err != nil {
			return err
		}
		return services.Wrap(services.ErrExternalTool, "yt-dlp", "run", "HTTP Error 429", errors.New("exit status 1"))
	}}
	tr := &fakeTranscriber{transcribe: func(context.Context, string) (string, error) { return "unused", nil }}
	o, dir := newTestOrchestrator(t, ext, tr)

	payload, err := o.Acquire(context.Background(), mustRequest(t, nil), Timeouts{})
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if payload.Provenance != ProvenancePrimary {
		t.Fatalf("expected primary provenance, got %s", payload.Provenance)
	}
	if tr.calls.Load() != 0 || ext.audioCalls.Load() != 0 {
		t.Fatal("fallback must not run after a primary success")
	}
	assertEmptyDir(t, dir)
}

func TestAcquireFormatComesFromContentNotPreference(t *testing.T) {
	ext := &fakeExtractor{captions: func(_ context.Context, job CaptionJob) error {
		return writeOutput(job.Output.Path(), ".en.srt", sampleVTT)
	}}
	o, _ := newTestOrchestrator(t, ext, nil)
	preferred := captions.SRT

	payload, err := o.Acquire(context.Background(), mustRequest(t, &preferred), Timeouts{})
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if ext.lastCaption.Format != captions.SRT {
		t.Fatalf("expected preference passed to extractor, got %s", ext.lastCaption.Format)
	}
	if payload.Format != captions.VTT {
		t.Fatalf("expected detected VTT, got %s", payload.Format)
	}
}

func TestAcquireNotFoundWithoutTranscriber(t *testing.T) {
	ext := &fakeExtractor{captions: func(context.Context, CaptionJob) error {
		return errors.New("no subtitles")
	}}
	o, dir := newTestOrchestrator(t, ext, nil)

	_, err := o.Acquire(context.Background(), mustRequest(t, nil), Timeouts{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ext.audioCalls.Load() != 0 {
		t.Fatal("audio must not be downloaded when transcription is disabled")
	}
	if !strings.Contains(err.Error(), "transcription disabled") {
		t.Fatalf("expected attempt summary, got %v", err)
	}
	assertEmptyDir(t, dir)
}

func TestAcquireEmptyCaptionFileFallsThrough(t *testing.T) {
	ext := &fakeExtractor{captions: func(_ context.Context, job CaptionJob) error {
		return writeOutput(job.Output.Path(), ".en.vtt", "  \n")
	}}
	o, dir := newTestOrchestrator(t, ext, nil)

	_, err := o.Acquire(context.Background(), mustRequest(t, nil), Timeouts{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	assertEmptyDir(t, dir)
}

func TestAcquireFallbackSuccess(t *testing.T) {
	var audioPath string
	ext := &fakeExtractor{
		captions: func(context.Context, CaptionJob) error { return errors.New("exit status 1") },
		audio: func(_ context.Context, job AudioJob) error {
			audioPath = job.Output.Path() + ".m4a"
			return writeOutput(job.Output.Path(), ".m4a", "audio-bytes")
		},
	}
	tr := &fakeTranscriber{transcribe: func(_ context.Context, path string) (string, error) {
		if path != audioPath {
			return "", fmt.Errorf("unexpected audio path %q", path)
		}
		if err := os.WriteFile(strings.TrimSuffix(path, ".m4a")+".srt", []byte("side output"), 0o644); err != nil {
			return "", err
		}
		return "1\n00:00:00,000 --> 00:00:01,000\nTranscribed speech\n", nil
	}}
	o, dir := newTestOrchestrator(t, ext, tr)

	payload, err := o.Acquire(context.Background(), mustRequest(t, nil), Timeouts{})
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if payload.Provenance != ProvenanceFallback || payload.Format != captions.SRT {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if tr.calls.Load() != 1 || tr.lastLang != "en" {
		t.Fatalf("expected one transcription in en, got %d %q", tr.calls.Load(), tr.lastLang)
	}
	assertEmptyDir(t, dir)
}

func TestAcquireFallbackFailureIsNotRetried(t *testing.T) {
	ext := &fakeExtractor{audio: func(_ context.Context, job AudioJob) error {
		return writeOutput(job.Output.Path(), ".webm", "audio")
	}}
	tr := &fakeTranscriber{transcribe: func(context.Context, string) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	o, dir := newTestOrchestrator(t, ext, tr)

	_, err := o.Acquire(context.Background(), mustRequest(t, nil), Timeouts{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if tr.calls.Load() != 1 {
		t.Fatalf("expected exactly one transcription attempt, got %d", tr.calls.Load())
	}
	assertEmptyDir(t, dir)
}

func TestAcquirePrimaryTimeoutMovesOn(t *testing.T) {
	ext := &fakeExtractor{
		captions: func(ctx context.Context, job CaptionJob) error {
			_ = writeOutput(job.Output.Path(), ".en.vtt.part", "partial")
			<-ctx.Done()
			return ctx.Err()
		},
		audio: func(_ context.Context, job AudioJob) error {
			return writeOutput(job.Output.Path(), ".opus", "audio")
		},
	}
	tr := &fakeTranscriber{transcribe: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	o, dir := newTestOrchestrator(t, ext, tr)

	start := time.Now()
	_, err := o.Acquire(context.Background(), mustRequest(t, nil), Timeouts{
		Captions:      50 * time.Millisecond,
		Transcription: 50 * time.Millisecond,
	})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("expected timeout in attempt summary, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeouts not enforced, took %s", elapsed)
	}
	assertEmptyDir(t, dir)
}

func TestAcquireCancellationStopsChainAndCleansUp(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ext := &fakeExtractor{captions: func(callCtx context.Context, job CaptionJob) error {
		_ = writeOutput(job.Output.Path(), ".en.vtt", sampleVTT[:6])
		cancel()
		<-callCtx.Done()
		return callCtx.Err()
	}}
	tr := &fakeTranscriber{transcribe: func(context.Context, string) (string, error) { return "x", nil }}
	o, dir := newTestOrchestrator(t, ext, tr)
	o.opts.SettleDelay = time.Second

	_, err := o.Acquire(ctx, mustRequest(t, nil), Timeouts{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ext.audioCalls.Load() != 0 || tr.calls.Load() != 0 {
		t.Fatal("fallback must not start after cancellation")
	}
	assertEmptyDir(t, dir)
}

func TestAcquireConcurrentRequestsDoNotCollide(t *testing.T) {
	ext := &fakeExtractor{captions: func(ctx context.Context, job CaptionJob) error {
		id, _ := services.RequestIDFromContext(ctx)
		return writeOutput(job.Output.Path(), ".en.vtt", "WEBVTT\n\n00:00.000 --> 00:01.000\n"+id+"\n")
	}}
	o, dir := newTestOrchestrator(t, ext, nil)

	req := mustRequest(t, nil)
	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("req-%02d", i)
			ctx := services.WithRequestID(context.Background(), id)
			payload, err := o.Acquire(ctx, req, Timeouts{})
			if err != nil {
				errs <- err
				return
			}
			if !strings.Contains(payload.Content, id) {
				errs <- fmt.Errorf("request %s received foreign content %q", id, payload.Content)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assertEmptyDir(t, dir)
}

func TestNewFillsZeroTimeouts(t *testing.T) {
	ext := &fakeExtractor{captions: func(ctx context.Context, job CaptionJob) error {
		deadline, ok := ctx.Deadline()
		if !ok || time.Until(deadline) < 30*time.Second {
			return fmt.Errorf("caption deadline too short: %v", time.Until(deadline))
		}
		return writeOutput(job.Output.Path(), ".en.vtt", sampleVTT)
	}}
	dir := t.TempDir()
	o := New(artifact.NewManager(dir, logging.NewNop()), ext, nil, Options{
		Timeouts:      Timeouts{Audio: time.Second},
		DefaultFormat: captions.VTT,
	}, logging.NewNop())

	if _, err := o.Acquire(context.Background(), mustRequest(t, nil), Timeouts{}); err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if o.opts.Timeouts.Captions != DefaultTimeouts.Captions || o.opts.Timeouts.Audio != time.Second {
		t.Fatalf("unexpected timeouts %+v", o.opts.Timeouts)
	}
	assertEmptyDir(t, dir)
}

func TestNewRequestValidation(t *testing.T) {
	if _, err := NewRequest("  ", TrackOfficial, "en", nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty id, got %v", err)
	}
	if _, err := NewRequest("abc", TrackKind("bogus"), "en", nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for track kind, got %v", err)
	}
	if _, err := NewRequest("abc", TrackAuto, "not a language!", nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for language, got %v", err)
	}
	bad := captions.Format(9)
	if _, err := NewRequest("abc", TrackAuto, "en", &bad); !errors.Is(err, services.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
	req, err := NewRequest(" abc ", "", "", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.ResourceID != "abc" || req.TrackKind != TrackOfficial || req.Language != "en" {
		t.Fatalf("unexpected defaults: %+v", req)
	}
}

func TestParseTrackKind(t *testing.T) {
	if k, err := ParseTrackKind("AUTO"); err != nil || k != TrackAuto {
		t.Fatalf("ParseTrackKind(AUTO) = %v %v", k, err)
	}
	if k, err := ParseTrackKind(""); err != nil || k != TrackOfficial {
		t.Fatalf("ParseTrackKind(empty) = %v %v", k, err)
	}
	if _, err := ParseTrackKind("live"); err == nil {
		t.Fatal("expected error")
	}
}
