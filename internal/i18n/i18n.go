package i18n

import (
	"embed"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var translationFS embed.FS

const (
	LanguageEn = "en"
	LanguageRu = "ru"
)

// Localizer resolves UI message IDs for one selected language. Missing
// messages fall back to the message ID itself so the interface stays
// usable with an incomplete bundle.
type Localizer struct {
	localizer *goi18n.Localizer
}

// New builds a localizer for the requested language. Unknown languages
// fall back to English.
func New(lang string) *Localizer {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, name := range []string{"translations/en.toml", "translations/ru.toml"} {
		if _, err := bundle.LoadMessageFileFS(translationFS, name); err != nil {
			zap.L().Warn("load translation file", zap.String("file", name), zap.Error(err))
		}
	}

	switch lang {
	case LanguageEn, LanguageRu:
	default:
		lang = LanguageEn
	}

	return &Localizer{localizer: goi18n.NewLocalizer(bundle, lang)}
}

// T resolves a message ID.
func (l *Localizer) T(id string) string {
	msg, err := l.localizer.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}
	return msg
}
