package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Default is the language requested when the caller names none.
const Default = "en"

// Full word forms people type instead of codes.
var byWord = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
}

// Canonicalize reduces a BCP 47 tag, ISO 639 code, or English language name
// to its base language code: "en-US" and "eng" both become "en".
func Canonicalize(value string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", fmt.Errorf("language: empty value")
	}
	if code, ok := byWord[trimmed]; ok {
		return code, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("language: %q: %w", value, err)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", fmt.Errorf("language: %q has no base language", value)
	}
	return base.String(), nil
}

// ToISO2 is Canonicalize without the error; unrecognized input yields "".
func ToISO2(value string) string {
	code, err := Canonicalize(value)
	if err != nil {
		return ""
	}
	return code
}

// ToISO3 returns the ISO 639-2 code, or "und" when value is not recognized.
func ToISO3(value string) string {
	code, err := Canonicalize(value)
	if err != nil {
		return "und"
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return "und"
	}
	return base.ISO3()
}

// DisplayName returns the English name of a language code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Unknown"
	}
	code, err := Canonicalize(value)
	if err != nil {
		return strings.ToUpper(strings.TrimSpace(value))
	}
	if name := display.English.Languages().Name(language.Make(code)); name != "" {
		return name
	}
	return strings.ToUpper(code)
}
