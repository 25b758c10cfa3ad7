package i18n

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

var localeFiles = []string{"active.en.toml", "active.hi.toml", "active.mr.toml"}

// labelKeys is the fixed set of UI labels the rendering layer consumes.
var labelKeys = []string{
	"title", "subtitle", "market_rates", "negotiation", "language_settings",
	"select_language", "current_prices", "crop_name", "price", "unit",
	"market", "trend", "last_updated", "buyer", "seller", "select_role",
	"chat_placeholder", "send", "ai_assistant", "price_suggestion",
}

// localeTags maps supported language names onto BCP 47 tags.
var localeTags = map[string]string{
	"english": "en",
	"hindi":   "hi",
	"marathi": "mr",
}

// Translator serves the static UI label catalog. It is a thin wrapper around
// go-i18n's Bundle/Localizer with the locale files embedded.
type Translator struct {
	bundle        *i18n.Bundle
	defaultLocale string
	logger        logrus.FieldLogger
}

// NewTranslator loads the embedded locale catalogs. defaultLocale is a
// language name (e.g. "marathi"); unknown values fall back to english.
func NewTranslator(defaultLocale string, logger logrus.FieldLogger) *Translator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	tagName, ok := localeTags[defaultLocale]
	if !ok {
		tagName = "en"
	}
	tag, err := language.Parse(tagName)
	if err != nil {
		tag = language.English
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			logger.Warnf("i18n: failed to load %s: %v", file, err)
		}
	}

	return &Translator{
		bundle:        bundle,
		defaultLocale: tag.String(),
		logger:        logger,
	}
}

// Label renders one UI label for the given language name. Unknown keys fall
// back to the key itself, unknown locales to the default locale.
func (t *Translator) Label(lang, key string) string {
	if key == "" {
		return ""
	}

	locales := []string{}
	if tag, ok := localeTags[lang]; ok {
		locales = append(locales, tag)
	}
	locales = append(locales, t.defaultLocale)

	localizer := i18n.NewLocalizer(t.bundle, locales...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		return key
	}
	return msg
}

// Labels renders the whole label catalog for one language.
func (t *Translator) Labels(lang string) map[string]string {
	out := make(map[string]string, len(labelKeys))
	for _, key := range labelKeys {
		out[key] = t.Label(lang, key)
	}
	return out
}
