package captions

import (
	"fmt"
	"strings"

	"captioner/internal/services"
)

const byteOrderMark = "\ufeff"

// Parse converts caption text in the given dialect into timestamp-free prose,
// with cleaned fragments joined by single spaces.
func Parse(content string, format Format) (string, error) {
	fragments, err := Fragments(content, format)
	if err != nil {
		return "", err
	}
	return strings.Join(fragments, " "), nil
}

// Fragments returns the ordered, cleaned text fragments of content.
func Fragments(content string, format Format) ([]string, error) {
	lines := splitLines(strings.TrimPrefix(content, byteOrderMark))
	switch format {
	case SRT:
		return parseSRT(lines), nil
	case VTT:
		return parseVTT(lines), nil
	case ASS:
		return parseASS(lines), nil
	case LRC:
		return parseLRC(lines), nil
	default:
		return nil, services.Wrap(services.ErrUnsupportedFormat, "captions", "parse", fmt.Sprintf("no parser for %s", format), nil)
	}
}

// Normalize detects the dialect of content and parses it.
func Normalize(content string) (Format, string) {
	format := Detect(content)
	// Detect only returns supported dialects, so Parse cannot fail here.
	text, _ := Parse(content, format)
	return format, text
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

func appendCleaned(dst []string, line string) []string {
	if cleaned := CleanLine(line); cleaned != "" {
		return append(dst, cleaned)
	}
	return dst
}
