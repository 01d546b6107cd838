package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var embeddedLocales embed.FS

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

// NewTranslations loads the embedded message files and, when localesDir is
// not empty, every active.*.toml found there on top of them.
func NewTranslations(defaultLang string, localesDir string) (*Translations, error) {
	if defaultLang == "" {
		return nil, errors.New("language cannot be empty")
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.ReadDir(embeddedLocales, "locales")
	if err != nil {
		return nil, fmt.Errorf("error reading embedded locales: %w", err)
	}
	for _, entry := range entries {
		data, err := embeddedLocales.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("error reading locale %s: %w", entry.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, entry.Name()); err != nil {
			return nil, fmt.Errorf("error parsing locale %s: %w", entry.Name(), err)
		}
	}

	if localesDir != "" {
		if _, err := os.Stat(localesDir); err == nil {
			files, err := filepath.Glob(filepath.Join(localesDir, "active.*.toml"))
			if err != nil {
				return nil, fmt.Errorf("error reading locales: %w", err)
			}

			for _, file := range files {
				if _, err := bundle.LoadMessageFile(file); err != nil {
					return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
				}
			}
		}
	}

	localize := i18n.NewLocalizer(bundle, defaultLang)

	return &Translations{
		bundle:   bundle,
		localize: localize,
	}, nil
}

// SupportedLanguages lists the language tags that have at least one message file.
func (t *Translations) SupportedLanguages() []string {
	tags := t.bundle.LanguageTags()
	langs := make([]string, 0, len(tags))
	for _, tag := range tags {
		langs = append(langs, tag.String())
	}
	return langs
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}
