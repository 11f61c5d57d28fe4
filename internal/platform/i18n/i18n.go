// Package i18n defines the supported locales and tag matching shared by
// commands and web handlers.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	tagEnUS = language.MustParse("en-US")
	tagPtBR = language.MustParse("pt-BR")

	supportedTags = []language.Tag{tagEnUS, tagPtBR}
	matcher       = language.NewMatcher(supportedTags)
)

// SupportedTags returns the supported language tags in display order.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return tagEnUS
}

// ParseTag parses value and reports whether it maps onto a supported tag.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultTag(), false
	}
	return supportedTags[idx], true
}

// MatchTags returns the best supported tag for an ordered preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[idx]
}

// LocaleForTag returns the catalog locale identifier for a supported tag.
func LocaleForTag(tag language.Tag) string {
	if tag == tagPtBR {
		return "pt-BR"
	}
	base, _ := tag.Base()
	portugueseBase, _ := language.Portuguese.Base()
	if base == portugueseBase {
		return "pt-BR"
	}
	return "en-US"
}
