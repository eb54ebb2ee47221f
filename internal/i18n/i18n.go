// Package i18n resolves message keys (phase headings, notification text)
// into the user's language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/pomodoro/internal/debug"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// Translator looks up messages for one language, falling back to English
// and finally to the key itself.
type Translator struct {
	localizer *goi18n.Localizer
	lang      string
}

// New builds a translator for lang. An empty lang is detected from the
// environment (LC_ALL, LC_MESSAGES, LANG).
func New(lang string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.Glob(localesFS, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localesFS, f); err != nil {
			return nil, fmt.Errorf("load locale %s: %w", f, err)
		}
	}

	if lang == "" {
		lang = FromEnv()
	}
	return &Translator{
		localizer: goi18n.NewLocalizer(bundle, lang, language.English.String()),
		lang:      lang,
	}, nil
}

// Language returns the requested language tag.
func (t *Translator) Language() string {
	return t.lang
}

// T returns the message for key. Unknown keys are returned unchanged.
func (t *Translator) T(key string) string {
	if key == "" {
		return ""
	}
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: key})
	if err != nil {
		debug.Logf("i18n: %s: %v", key, err)
		return key
	}
	return msg
}

// FromEnv derives a BCP 47 tag from the POSIX locale variables, so that
// "de_DE.UTF-8" becomes "de-DE".
func FromEnv() string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(k)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return language.English.String()
}
