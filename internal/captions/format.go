package captions

import (
	"fmt"
	"strings"

	"captioner/internal/services"
)

// Format is one of the caption dialects the parser understands.
type Format int

const (
	SRT Format = iota
	VTT
	ASS
	LRC
)

var formatNames = [...]string{SRT: "srt", VTT: "vtt", ASS: "ass", LRC: "lrc"}

// Formats lists every supported dialect in detection-independent order.
func Formats() []Format {
	return []Format{SRT, VTT, ASS, LRC}
}

// Valid reports whether f is one of the supported dialects.
func (f Format) Valid() bool {
	return f >= SRT && f <= LRC
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("format(%d)", int(f))
	}
	return formatNames[f]
}

// Extension returns the conventional file extension including the dot.
func (f Format) Extension() string {
	if !f.Valid() {
		return ""
	}
	return "." + formatNames[f]
}

// MarshalText renders the lowercase dialect name.
func (f Format) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, unsupported(f.String())
	}
	return []byte(f.String()), nil
}

// UnmarshalText accepts any spelling ParseFormat accepts.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFormat maps a dialect name or file extension to a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), ".")) {
	case "srt", "subrip":
		return SRT, nil
	case "vtt", "webvtt":
		return VTT, nil
	case "ass", "ssa":
		return ASS, nil
	case "lrc":
		return LRC, nil
	default:
		return SRT, unsupported(value)
	}
}

func unsupported(value string) error {
	return services.Wrap(services.ErrUnsupportedFormat, "captions", "format", fmt.Sprintf("unknown caption format %q", value), nil)
}
