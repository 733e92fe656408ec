package captions

import "strings"

const assDialoguePrefix = "dialogue:"

// Dialogue lines carry nine metadata fields before the text:
// Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect.
const assFieldsBeforeText = 9

var assBreakReplacer = strings.NewReplacer(`\N`, " ", `\n`, " ", `\h`, " ")

func parseASS(lines []string) []string {
	var fragments []string
	inEvents := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			inEvents = strings.EqualFold(trimmed, "[Events]")
			continue
		}
		if !inEvents || len(trimmed) < len(assDialoguePrefix) {
			continue
		}
		if !strings.EqualFold(trimmed[:len(assDialoguePrefix)], assDialoguePrefix) {
			continue
		}
		fields := strings.SplitN(trimmed[len(assDialoguePrefix):], ",", assFieldsBeforeText+1)
		if len(fields) <= assFieldsBeforeText {
			continue
		}
		fragments = appendCleaned(fragments, assBreakReplacer.Replace(fields[assFieldsBeforeText]))
	}
	return fragments
}
