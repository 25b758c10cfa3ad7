package langdetect

import (
	"unicode"

	translation "mandi/internal/domain/entity/translation"
	"mandi/internal/domain/interfaces"
)

var _ interfaces.LanguageDetector = (*LatinDetector)(nil)

// LatinDetector is a coarse heuristic: text containing at least one basic
// Latin letter is classified as english, everything else as marathi. Good
// enough for the demo; swap the interfaces.LanguageDetector implementation
// for a real detector when one is needed.
type LatinDetector struct{}

func NewLatinDetector() *LatinDetector {
	return &LatinDetector{}
}

func (LatinDetector) Detect(text string) translation.Language {
	for _, r := range text {
		if r < 128 && unicode.IsLetter(r) {
			return translation.English
		}
	}
	return translation.Marathi
}
