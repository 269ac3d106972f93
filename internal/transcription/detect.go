package transcription

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"

	"autosub/internal/language"
)

// LinguaDetector classifies text with lingua-go. The detector models are
// built on first use.
type LinguaDetector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// NewLinguaDetector returns a detector covering every language lingua knows.
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{}
}

// Detect returns the whisper code for the language of text, or "" when the
// text is empty or lingua cannot decide.
func (d *LinguaDetector) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build()
	})
	detected, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return linguaCode(detected)
}

// languageFromName maps an English language name such as "japanese", as
// reported by the OpenAI API, to a whisper code.
func languageFromName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if code := language.FromTag(name); code != "" {
		return code
	}
	for _, candidate := range lingua.AllLanguages() {
		if strings.EqualFold(candidate.String(), name) {
			return linguaCode(candidate)
		}
	}
	return ""
}

func linguaCode(l lingua.Language) string {
	return language.FromTag(strings.ToLower(l.IsoCode639_1().String()))
}
