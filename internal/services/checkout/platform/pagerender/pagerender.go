// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/module"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/flash"
	checkouti18n "github.com/louisbranch/credix-checkout/internal/services/checkout/platform/i18n"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/templates"
)

// ModulePage describes a full-page module response.
type ModulePage struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
}

// Localized builds page content once the request language is known.
type Localized func(loc templates.Localizer) ModulePage

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WriteModulePage resolves the request language, consumes any pending flash
// notice and writes build's page inside the app layout.
func WriteModulePage(w http.ResponseWriter, r *http.Request, deps module.Dependencies, build Localized) error {
	if w == nil {
		return nil
	}
	loc, lang := checkouti18n.ResolveLocalizer(w, r)
	page := ModulePage{}
	if build != nil {
		page = build(loc)
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = emptyComponent{}
	}

	opts := templates.LayoutOptions{
		Title:     page.Title,
		Lang:      lang,
		Loc:       loc,
		Languages: languageOptions(loc, lang, r),
	}
	if notice, ok := flash.ReadAndClear(w, r, deps.SchemePolicy); ok {
		opts.Toast = &templates.Toast{Kind: string(notice.Kind), Message: notice.Message}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	return templates.Layout(opts).Render(templ.WithChildren(requestContext(r), fragment), w)
}

func languageOptions(loc templates.Localizer, lang string, r *http.Request) []templates.LanguageOption {
	path := "/"
	if r != nil && r.URL != nil {
		path = r.URL.Path
	}
	options := checkouti18n.LanguageOptions(loc, lang, path)
	out := make([]templates.LanguageOption, 0, len(options))
	for _, option := range options {
		out = append(out, templates.LanguageOption{
			Tag:    option.Tag,
			Label:  option.Label,
			URL:    option.URL,
			Active: option.Active,
		})
	}
	return out
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
