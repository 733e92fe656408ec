package captions

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	srtIndexPattern  = regexp.MustCompile(`^\d+$`)
	srtTimingPattern = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}[,.]\d{1,3}\s*-->\s*\d{1,2}:\d{2}:\d{2}[,.]\d{1,3}`)
)

func parseSRT(lines []string) []string {
	var fragments []string
	lastIndex := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case srtIndexPattern.MatchString(trimmed):
			if n, err := strconv.Atoi(trimmed); err == nil {
				lastIndex = n
			}
			continue
		case srtTimingPattern.MatchString(trimmed):
			continue
		}
		if cleaned := stripStrayIndexes(CleanLine(trimmed), lastIndex); cleaned != "" {
			fragments = append(fragments, cleaned)
		}
	}
	return fragments
}

// stripStrayIndexes trims tokens at either end of a line that repeat the
// current or next cue number, which malformed files leave glued to cue text.
// Numbers inside the sentence are spoken content and stay.
func stripStrayIndexes(text string, lastIndex int) string {
	words := strings.Fields(text)
	for len(words) > 0 && isCueIndex(words[0], lastIndex) {
		words = words[1:]
	}
	for len(words) > 0 && isCueIndex(words[len(words)-1], lastIndex) {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func isCueIndex(word string, lastIndex int) bool {
	if !srtIndexPattern.MatchString(word) {
		return false
	}
	n, err := strconv.Atoi(word)
	if err != nil {
		return false
	}
	return n == lastIndex || n == lastIndex+1
}
