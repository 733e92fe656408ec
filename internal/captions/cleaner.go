package captions

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	assOverridePattern = regexp.MustCompile(`\{\\[^}]*\}`)
	markupPattern      = regexp.MustCompile(`<[^>]*>`)
	annotationPattern  = regexp.MustCompile(`\[[^\]]*\]`)
)

// CleanLine strips markup and non-speech noise from one caption line and
// collapses whitespace. The result is empty when nothing spoken remains.
func CleanLine(line string) string {
	if line == "" {
		return ""
	}
	line = assOverridePattern.ReplaceAllString(line, " ")
	line = markupPattern.ReplaceAllString(line, " ")
	line = html.UnescapeString(line)
	line = strings.ReplaceAll(line, ">>", " ")
	line = annotationPattern.ReplaceAllString(line, " ")
	line = norm.NFC.String(line)
	return strings.Join(strings.Fields(line), " ")
}
