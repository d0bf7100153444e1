package export

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// ResolveLocale maps a configured locale tag ("de-DE", "en-US", ...) to a
// language.Tag. An empty or unparseable value falls back to the LANG
// environment variable, then to en-US.
func ResolveLocale(configured string) language.Tag {
	if configured != "" {
		if tag, err := language.Parse(configured); err == nil {
			return tag
		}
	}
	if env := os.Getenv("LANG"); env != "" {
		// LANG comes as "de_DE.UTF-8"; strip the charset, use BCP 47 dashes.
		if i := strings.IndexByte(env, '.'); i > 0 {
			env = env[:i]
		}
		if tag, err := language.Parse(strings.ReplaceAll(env, "_", "-")); err == nil {
			return tag
		}
	}
	return language.AmericanEnglish
}
