package translation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	domain "mandi/internal/domain/entity/translation"
	"mandi/internal/domain/interfaces"
)

// Reason explains why a translation fell back to the original text.
type Reason string

const (
	ReasonEmptyText           Reason = "empty_text"
	ReasonUnsupportedLanguage Reason = "unsupported_language"
	ReasonGatewayUnconfigured Reason = "gateway_unconfigured"
	ReasonSameLanguage        Reason = "same_language"
	ReasonGatewayError        Reason = "gateway_error"
)

// Result is the outcome of a translation request. Fallback results carry the
// original text untouched plus the reason, so callers can surface a notice
// instead of silently losing the failure.
type Result struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
	Reason   Reason `json:"reason,omitempty"`
}

func success(text string) Result {
	return Result{Text: text}
}

func fallback(original string, reason Reason) Result {
	return Result{Text: original, Fallback: true, Reason: reason}
}

type cacheKey struct {
	text   string
	target domain.Language
}

// Service memoizes translations per session and degrades gracefully: any
// gateway problem, including a missing credential, yields the original text.
type Service struct {
	mu    sync.Mutex
	cache map[cacheKey]string

	gateway  interfaces.TranslationGateway
	detector interfaces.LanguageDetector
	timeout  time.Duration
	logger   logrus.FieldLogger
}

// NewService builds a translation service. A nil gateway is valid and forces
// pass-through for the whole session.
func NewService(gateway interfaces.TranslationGateway, detector interfaces.LanguageDetector, timeout time.Duration, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		cache:    make(map[cacheKey]string),
		gateway:  gateway,
		detector: detector,
		timeout:  timeout,
		logger:   logger,
	}
}

// Translate returns text rendered in targetLanguage. The cache is consulted
// first; the gateway is invoked at most once per (text, language) pair and
// never on failure paths.
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) Result {
	if strings.TrimSpace(text) == "" {
		return fallback(text, ReasonEmptyText)
	}

	target, ok := domain.Normalize(targetLanguage)
	if !ok {
		return fallback(text, ReasonUnsupportedLanguage)
	}

	key := cacheKey{text: text, target: target}
	s.mu.Lock()
	cached, hit := s.cache[key]
	s.mu.Unlock()
	if hit {
		return success(cached)
	}

	if s.gateway == nil {
		return fallback(text, ReasonGatewayUnconfigured)
	}

	source := s.detector.Detect(text)
	if source == target {
		return fallback(text, ReasonSameLanguage)
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	translated, err := s.gateway.Translate(callCtx, text, source, target)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"target": target.String(),
			"source": source.String(),
		}).Warnf("translation failed, falling back to original text: %v", err)
		return fallback(text, ReasonGatewayError)
	}

	s.mu.Lock()
	s.cache[key] = translated
	s.mu.Unlock()
	return success(translated)
}

// BatchTranslate applies Translate to each element independently, preserving
// order. A failure on one element does not affect the others.
func (s *Service) BatchTranslate(ctx context.Context, texts []string, targetLanguage string) []Result {
	out := make([]Result, len(texts))
	for i, text := range texts {
		out[i] = s.Translate(ctx, text, targetLanguage)
	}
	return out
}

// Clear empties the cache; subsequent calls recompute and repopulate.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[cacheKey]string)
}

// CacheSize reports how many entries are memoized.
func (s *Service) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
