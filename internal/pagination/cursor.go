// Package pagination slices transcripts into bounded windows addressed by a
// stateless cursor. The cursor is the decimal code point offset where the
// next window starts, so any holder of a valid cursor can resume without
// server-side session state.
package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"captioner/internal/services"
)

// Window is one slice of a transcript.
type Window struct {
	Chunk       string  `json:"chunk"`
	StartOffset int     `json:"start_offset"`
	EndOffset   int     `json:"end_offset"`
	TotalLength int     `json:"total_length"`
	IsTruncated bool    `json:"is_truncated"`
	NextCursor  *string `json:"next_cursor,omitempty"`
}

// Page returns the window of at most windowSize code points starting at cursor.
// An empty cursor starts at offset zero.
func Page(fullText string, windowSize int, cursor string) (Window, error) {
	if windowSize < 1 {
		return Window{}, services.Wrap(services.ErrValidation, "pagination", "page", fmt.Sprintf("window size must be at least 1, got %d", windowSize), nil)
	}
	runes := []rune(fullText)
	total := len(runes)

	start, err := ParseCursor(cursor, total)
	if err != nil {
		return Window{}, err
	}

	end := total
	if windowSize < total-start {
		end = start + windowSize
	}

	w := Window{
		Chunk:       string(runes[start:end]),
		StartOffset: start,
		EndOffset:   end,
		TotalLength: total,
		IsTruncated: end < total,
	}
	if w.IsTruncated {
		next := strconv.Itoa(end)
		w.NextCursor = &next
	}
	return w, nil
}

// ParseCursor validates a cursor against a transcript of total code points.
func ParseCursor(cursor string, total int) (int, error) {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(cursor)
	if err != nil {
		return 0, services.Wrap(services.ErrInvalidCursor, "pagination", "parse cursor", fmt.Sprintf("cursor %q is not an integer offset", cursor), nil)
	}
	if offset < 0 || offset > total {
		return 0, services.Wrap(services.ErrInvalidCursor, "pagination", "parse cursor", fmt.Sprintf("cursor %d outside [0, %d]", offset, total), nil)
	}
	return offset, nil
}

// ClampWindow bounds a caller-supplied window size to [min, max]. A
// non-positive size selects fallback before clamping.
func ClampWindow(size, fallback, min, max int) int {
	if size <= 0 {
		size = fallback
	}
	if max < min {
		max = min
	}
	if size < min {
		return min
	}
	if size > max {
		return max
	}
	return size
}
