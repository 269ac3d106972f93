package language

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto is the sentinel source language that asks the speech model to detect
// the spoken language itself.
const Auto = "auto"

// Codes lists the ISO 639-1 style codes recognised by Whisper, sorted.
var Codes = []string{
	"af", "am", "ar", "as", "az", "ba", "be", "bg", "bn", "bo",
	"br", "bs", "ca", "cs", "cy", "da", "de", "el", "en", "es", "et", "eu",
	"fa", "fi", "fo", "fr", "gl", "gu", "ha", "haw", "he", "hi", "hr", "ht",
	"hu", "hy", "id", "is", "it", "ja", "jw", "ka", "kk", "km", "kn", "ko",
	"la", "lb", "ln", "lo", "lt", "lv", "mg", "mi", "mk", "ml", "mn", "mr",
	"ms", "mt", "my", "ne", "nl", "nn", "no", "oc", "pa", "pl", "ps", "pt",
	"ro", "ru", "sa", "sd", "si", "sk", "sl", "sn", "so", "sq", "sr", "su",
	"sv", "sw", "ta", "te", "tg", "th", "tk", "tl", "tr", "tt", "uk", "ur",
	"uz", "vi", "yi", "yo", "zh",
}

// Whisper uses a few legacy codes that x/text canonicalises differently.
var aliases = map[string]string{
	"jw": "jv",
}

// Normalize lowercases and trims a code.
func Normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// IsSupported reports whether code is one of Codes.
func IsSupported(code string) bool {
	_, found := slices.BinarySearch(Codes, Normalize(code))
	return found
}

// IsSource reports whether code is acceptable as a source language, which
// additionally allows Auto.
func IsSource(code string) bool {
	code = Normalize(code)
	return code == Auto || IsSupported(code)
}

func parse(code string) (language.Tag, bool) {
	code = Normalize(code)
	if !IsSupported(code) {
		return language.Und, false
	}
	if alias, ok := aliases[code]; ok {
		code = alias
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// ToISO3 converts a code to ISO 639-2 for container metadata. Unknown or
// empty input, and Auto, yield "und".
func ToISO3(code string) string {
	tag, ok := parse(code)
	if !ok {
		return "und"
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "und"
	}
	if iso3 := base.ISO3(); iso3 != "" {
		return iso3
	}
	return "und"
}

// DisplayName returns the English name for a code, "Auto-detect" for Auto,
// and the uppercased code when nothing is known about it.
func DisplayName(code string) string {
	code = Normalize(code)
	switch code {
	case "":
		return "Unknown"
	case Auto:
		return "Auto-detect"
	}
	tag, ok := parse(code)
	if !ok {
		return strings.ToUpper(code)
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(code)
}

// FromTag maps a container language tag such as "eng" or "en-US" to one of
// Codes, or "" when there is no match.
func FromTag(tag string) string {
	tag = Normalize(tag)
	if tag == "" || tag == "und" {
		return ""
	}
	if IsSupported(tag) {
		return tag
	}
	base, err := language.ParseBase(tag)
	if err != nil {
		parsed, perr := language.Parse(tag)
		if perr != nil {
			return ""
		}
		base, _ = parsed.Base()
	}
	code := base.String()
	for whisper, canonical := range aliases {
		if code == canonical {
			code = whisper
		}
	}
	if IsSupported(code) {
		return code
	}
	return ""
}
