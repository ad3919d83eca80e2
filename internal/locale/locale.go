// Package locale holds the display strings of the contact list in an
// embedded go-i18n bundle.
package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-contacts/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

// Catalog translates message keys for one language.
// A Catalog is safe for concurrent use once built.
type Catalog struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer

	// Languages lists the locale files found in the embedded bundle.
	Languages []string
}

// NewCatalog loads the embedded locale files and selects lang.
// Unknown languages fall back to the bundle default.
func NewCatalog(lang string) *Catalog {
	bundle := i18n.NewBundle(language.MustParse(config.DefaultLanguage))
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	c := &Catalog{bundle: bundle}

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return c
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		c.Languages = append(c.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	if lang == "" {
		lang = config.DefaultLanguage
	}
	c.localizer = i18n.NewLocalizer(bundle, lang, config.DefaultLanguage)
	return c
}

// Msg translates a key. Missing keys are returned as-is.
func (c *Catalog) Msg(key string) string {
	return c.Format(key, nil)
}

// Format translates a key with template data (e.g. {"Count": 3}).
func (c *Catalog) Format(key string, data map[string]any) string {
	if c == nil || c.localizer == nil {
		return key
	}
	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
