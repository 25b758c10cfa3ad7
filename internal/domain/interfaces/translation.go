package interfaces

import (
	"context"

	translation "mandi/internal/domain/entity/translation"
)

// TranslationGateway converts text between languages. Implementations talk
// to an external model; callers bound each call with a context deadline.
type TranslationGateway interface {
	Translate(ctx context.Context, text string, source, target translation.Language) (string, error)
}

// LanguageDetector classifies the apparent source language of a text.
// Deliberately small so the coarse default heuristic can be swapped for a
// real detector without touching caching logic.
type LanguageDetector interface {
	Detect(text string) translation.Language
}
