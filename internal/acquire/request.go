package acquire

import (
	"fmt"
	"strings"
	"time"

	"captioner/internal/artifact"
	"captioner/internal/captions"
	"captioner/internal/language"
	"captioner/internal/services"
)

// TrackKind selects between uploader-provided and auto-generated captions.
type TrackKind string

const (
	TrackOfficial TrackKind = "official"
	TrackAuto     TrackKind = "auto"
)

// ParseTrackKind accepts "official" or "auto"; empty means official.
func ParseTrackKind(value string) (TrackKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(TrackOfficial), "manual":
		return TrackOfficial, nil
	case string(TrackAuto), "automatic", "generated":
		return TrackAuto, nil
	default:
		return "", services.Wrap(services.ErrValidation, "acquire", "track kind", fmt.Sprintf("unknown track kind %q", value), nil)
	}
}

// Provenance records which path produced a payload.
type Provenance string

const (
	ProvenancePrimary  Provenance = "primary"
	ProvenanceFallback Provenance = "fallback"
)

// Request is one immutable caption request.
type Request struct {
	ResourceID      string
	TrackKind       TrackKind
	Language        string
	PreferredFormat *captions.Format
}

// NewRequest validates and normalizes a caption request. An empty language
// selects language.Default.
func NewRequest(resourceID string, kind TrackKind, lang string, preferred *captions.Format) (Request, error) {
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		return Request{}, services.Wrap(services.ErrValidation, "acquire", "new request", "resource id is required", nil)
	}
	if kind == "" {
		kind = TrackOfficial
	}
	if kind != TrackOfficial && kind != TrackAuto {
		return Request{}, services.Wrap(services.ErrValidation, "acquire", "new request", fmt.Sprintf("unknown track kind %q", kind), nil)
	}
	code := language.Default
	if strings.TrimSpace(lang) != "" {
		var err error
		if code, err = language.Canonicalize(lang); err != nil {
			return Request{}, services.Wrap(services.ErrValidation, "acquire", "new request", "unrecognized language", err)
		}
	}
	if preferred != nil {
		if !preferred.Valid() {
			return Request{}, services.Wrap(services.ErrUnsupportedFormat, "acquire", "new request", fmt.Sprintf("preferred format %s", preferred), nil)
		}
		f := *preferred
		preferred = &f
	}
	return Request{ResourceID: resourceID, TrackKind: kind, Language: code, PreferredFormat: preferred}, nil
}

// Payload is the raw caption text that won an acquisition. Format always
// comes from captions.Detect, never from the request preference.
type Payload struct {
	Content    string
	Format     captions.Format
	Provenance Provenance
}

// Timeouts bounds each external call independently.
type Timeouts struct {
	Captions      time.Duration
	Audio         time.Duration
	Transcription time.Duration
}

// DefaultTimeouts fill any field that both the call and Options leave at zero.
var DefaultTimeouts = Timeouts{
	Captions:      60 * time.Second,
	Audio:         5 * time.Minute,
	Transcription: 15 * time.Minute,
}

func (t Timeouts) orDefaults(d Timeouts) Timeouts {
	if t.Captions <= 0 {
		t.Captions = d.Captions
	}
	if t.Audio <= 0 {
		t.Audio = d.Audio
	}
	if t.Transcription <= 0 {
		t.Transcription = d.Transcription
	}
	return t
}

// CaptionJob is the primary-path request handed to an Extractor.
type CaptionJob struct {
	ResourceID string
	TrackKind  TrackKind
	Language   string
	Format     captions.Format
	Output     artifact.Artifact
}

// AudioJob asks an Extractor for the audio of a resource.
type AudioJob struct {
	ResourceID string
	Output     artifact.Artifact
}
