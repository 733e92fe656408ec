package captions

import (
	"regexp"
	"strings"
)

var vttTimingPattern = regexp.MustCompile(`^(?:\d+:)?\d{2}:\d{2}[.,]\d{3}\s+-->\s+(?:\d+:)?\d{2}:\d{2}[.,]\d{3}`)

// parseVTT skips the header block up to the first cue timing line, then
// collects cue payload lines. NOTE, STYLE and REGION blocks are dropped whole,
// as are cue identifiers.
func parseVTT(lines []string) []string {
	var fragments []string
	inCues := false
	skipBlock := false
	blockStart := true
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			skipBlock = false
			blockStart = true
			continue
		}
		atStart := blockStart
		blockStart = false

		if vttTimingPattern.MatchString(trimmed) {
			inCues = true
			skipBlock = false
			continue
		}
		if !inCues || skipBlock {
			continue
		}
		if atStart && (isVTTBlock(trimmed, "NOTE") || isVTTBlock(trimmed, "STYLE") || isVTTBlock(trimmed, "REGION")) {
			skipBlock = true
			continue
		}
		if strings.HasPrefix(trimmed, "::cue") {
			continue
		}
		if atStart && i+1 < len(lines) && vttTimingPattern.MatchString(strings.TrimSpace(lines[i+1])) {
			continue
		}
		fragments = appendCleaned(fragments, trimmed)
	}
	return fragments
}

func isVTTBlock(line, keyword string) bool {
	if !strings.HasPrefix(line, keyword) {
		return false
	}
	rest := line[len(keyword):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}
