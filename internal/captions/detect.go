package captions

import (
	"regexp"
	"strings"
)

var (
	assSectionMarkers = map[string]struct{}{
		"[script info]": {},
		"[v4+ styles]":  {},
		"[v4 styles]":   {},
		"[events]":      {},
	}
	lrcTimestampPattern = regexp.MustCompile(`^\[\d{1,3}:\d{2}(?:[.:]\d{1,3})?\]`)
)

// Detect classifies raw caption text. It never fails: anything without a
// stronger signal is treated as SRT, including the empty string.
func Detect(content string) Format {
	content = strings.TrimPrefix(content, byteOrderMark)
	if strings.HasPrefix(strings.TrimSpace(content), "WEBVTT") {
		return VTT
	}
	sawLRC := false
	for _, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)
		if _, ok := assSectionMarkers[strings.ToLower(trimmed)]; ok {
			return ASS
		}
		if !sawLRC && lrcTimestampPattern.MatchString(trimmed) {
			sawLRC = true
		}
	}
	if sawLRC {
		return LRC
	}
	return SRT
}
