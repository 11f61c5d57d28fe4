// Package i18n resolves the request language and renders localized copy for
// checkout pages.
package i18n

import (
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainerrors "github.com/louisbranch/credix-checkout/internal/platform/errors"
	errorsi18n "github.com/louisbranch/credix-checkout/internal/platform/errors/i18n"
	platformi18n "github.com/louisbranch/credix-checkout/internal/platform/i18n"
	_ "github.com/louisbranch/credix-checkout/internal/platform/i18n/catalog"
	weberrors "github.com/louisbranch/credix-checkout/internal/services/checkout/platform/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the buyer's language preference.
	LangCookieName = "credix_lang"
)

// Localizer renders catalog keys for one language.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// ResolveTag picks the request language from the lang query parameter, then
// the language cookie, then Accept-Language. The bool reports whether the
// query parameter chose it and should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return platformi18n.DefaultTag(), false
	}
	if r.URL != nil {
		if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
			if tag, ok := platformi18n.ParseTag(value); ok {
				return tag, true
			}
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}
	return platformi18n.DefaultTag(), false
}

// SetLanguageCookie persists tag for a year.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// ResolveLocalizer resolves the request language, persists an explicit choice
// and returns a printer with the tag string.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, persist := ResolveTag(r)
	if persist {
		SetLanguageCookie(w, tag)
	}
	return message.NewPrinter(tag), tag.String()
}

// LanguageOptions lists the supported languages with switch links for the
// current path.
func LanguageOptions(loc Localizer, active string, path string) []LanguageOption {
	activeTag, _ := platformi18n.ParseTag(active)
	tags := platformi18n.SupportedTags()
	options := make([]LanguageOption, 0, len(tags))
	for _, tag := range tags {
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  loc.Sprintf(languageLabelKey(tag)),
			URL:    languageURL(path, tag.String()),
			Active: tag == activeTag,
		})
	}
	return options
}

func languageLabelKey(tag language.Tag) string {
	if platformi18n.LocaleForTag(tag) == "pt-BR" {
		return "core.lang_pt_br"
	}
	return "core.lang_en"
}

func languageURL(path string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query := url.Values{}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

type publicMessager interface {
	PublicMessage() string
}

// LocalizeError renders err for the buyer in the language of tag.
//
// Remote messages are shown verbatim, domain errors use the error catalog,
// keyed web errors use the message catalog, and anything else becomes the
// generic unknown-error copy.
func LocalizeError(tag string, err error) string {
	if err == nil {
		return ""
	}
	var remote publicMessager
	if stderrors.As(err, &remote) {
		if text := strings.TrimSpace(remote.PublicMessage()); text != "" {
			return text
		}
	}
	parsed, _ := platformi18n.ParseTag(tag)
	catalog := errorsi18n.GetCatalog(platformi18n.LocaleForTag(parsed))
	if code := domainerrors.CodeOf(err); code != domainerrors.CodeUnknown && catalog.Has(string(code)) {
		return catalog.Format(string(code), domainerrors.MetadataOf(err))
	}
	if key := weberrors.LocalizationKey(err); key != "" {
		return message.NewPrinter(parsed).Sprintf(key)
	}
	return catalog.Format(string(domainerrors.CodeUnknown), nil)
}
