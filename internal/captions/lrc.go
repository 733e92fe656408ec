package captions

import (
	"regexp"
	"strings"
)

// One or more leading time tags; repeated tags mark a lyric reused at
// several points.
var lrcLeadingTagsPattern = regexp.MustCompile(`^(?:\[\d{1,3}:\d{2}(?:[.:]\d{1,3})?\]\s*)+`)

func parseLRC(lines []string) []string {
	var fragments []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		loc := lrcLeadingTagsPattern.FindStringIndex(trimmed)
		if loc == nil {
			continue
		}
		fragments = appendCleaned(fragments, trimmed[loc[1]:])
	}
	return fragments
}
