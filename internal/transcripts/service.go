package transcripts

import (
	"context"
	"log/slog"
	"time"

	"captioner/internal/acquire"
	"captioner/internal/captions"
	"captioner/internal/logging"
	"captioner/internal/pagination"
	"captioner/internal/services"
	"captioner/internal/transcriptcache"
)

// Acquirer resolves raw caption text for a request.
type Acquirer interface {
	Acquire(ctx context.Context, req acquire.Request, timeouts acquire.Timeouts) (acquire.Payload, error)
}

// Cache stores normalized transcripts between runs.
type Cache interface {
	Lookup(ctx context.Context, key transcriptcache.Key) (*transcriptcache.Entry, error)
	Store(ctx context.Context, entry transcriptcache.Entry) error
}

// Transcript is normalized caption text plus where it came from.
type Transcript struct {
	ResourceID string
	TrackKind  acquire.TrackKind
	Language   string
	Format     captions.Format
	Provenance acquire.Provenance
	Text       string
	// Raw is the caption file as acquired. It is empty for cache hits.
	Raw       string
	Cached    bool
	FetchedAt time.Time
}

// Windows bounds the page sizes callers may ask for.
type Windows struct {
	Min     int
	Max     int
	Default int
}

// FetchOptions tune a single Fetch or Page call.
type FetchOptions struct {
	// Refresh skips the cache lookup; the fresh result still replaces the entry.
	Refresh bool
	// Timeouts override the orchestrator defaults for non-zero fields.
	Timeouts acquire.Timeouts
}

// Service composes the cache, the acquisition orchestrator, caption parsing,
// and pagination.
type Service struct {
	acquirer Acquirer
	cache    Cache
	windows  Windows
	logger   *slog.Logger
	now      func() time.Time
}

// New builds a Service. cache may be nil to disable caching.
func New(acquirer Acquirer, cache Cache, windows Windows, logger *slog.Logger) *Service {
	return &Service{
		acquirer: acquirer,
		cache:    cache,
		windows:  windows,
		logger:   logging.NewComponentLogger(logger, "transcripts"),
		now:      time.Now,
	}
}

// Fetch returns the normalized transcript for req, from cache when possible.
func (s *Service) Fetch(ctx context.Context, req acquire.Request, opts FetchOptions) (Transcript, error) {
	ctx = services.WithResourceID(ctx, req.ResourceID)
	logger := logging.WithContext(ctx, s.logger)
	key := transcriptcache.KeyFor(req)

	if s.cache != nil && !opts.Refresh {
		entry, err := s.cache.Lookup(ctx, key)
		if err != nil {
			logging.WarnWithContext(logger, "transcript cache lookup failed", "cache_lookup_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "fetching transcript without cache"),
			)
		} else if entry != nil {
			logger.Debug("transcript cache hit", logging.String("provenance", string(entry.Provenance)))
			return Transcript{
				ResourceID: entry.ResourceID,
				TrackKind:  entry.TrackKind,
				Language:   entry.Language,
				Format:     entry.Format,
				Provenance: entry.Provenance,
				Text:       entry.Text,
				Cached:     true,
				FetchedAt:  entry.CreatedAt,
			}, nil
		}
	}

	payload, err := s.acquirer.Acquire(ctx, req, opts.Timeouts)
	if err != nil {
		return Transcript{}, err
	}
	text, err := captions.Parse(payload.Content, payload.Format)
	if err != nil {
		return Transcript{}, services.Wrap(services.ErrUnsupportedFormat, "transcripts", "parse", payload.Format.String(), err)
	}

	t := Transcript{
		ResourceID: req.ResourceID,
		TrackKind:  req.TrackKind,
		Language:   req.Language,
		Format:     payload.Format,
		Provenance: payload.Provenance,
		Text:       text,
		Raw:        payload.Content,
		FetchedAt:  s.now(),
	}
	if s.cache != nil {
		entry := transcriptcache.Entry{
			Key:        key,
			Format:     t.Format,
			Provenance: t.Provenance,
			Text:       t.Text,
			CreatedAt:  t.FetchedAt,
		}
		if err := s.cache.Store(ctx, entry); err != nil {
			logging.WarnWithContext(logger, "transcript cache store failed", "cache_store_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "next request will acquire again"),
			)
		}
	}
	return t, nil
}

// Page fetches req and returns one window of its text. windowSize is clamped
// to the configured bounds; a non-positive size selects the default.
func (s *Service) Page(ctx context.Context, req acquire.Request, opts FetchOptions, windowSize int, cursor string) (Transcript, pagination.Window, error) {
	t, err := s.Fetch(ctx, req, opts)
	if err != nil {
		return Transcript{}, pagination.Window{}, err
	}
	window, err := pagination.Page(t.Text, s.ClampWindow(windowSize), cursor)
	if err != nil {
		return t, pagination.Window{}, err
	}
	return t, window, nil
}

// ClampWindow applies the configured window bounds to size.
func (s *Service) ClampWindow(size int) int {
	return pagination.ClampWindow(size, s.windows.Default, s.windows.Min, s.windows.Max)
}
