// Package weberror renders shared error responses for checkout modules.
package weberror

import (
	"bytes"
	"context"
	"net/http"

	"github.com/a-h/templ"
	domainerrors "github.com/louisbranch/credix-checkout/internal/platform/errors"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/module"
	apperrors "github.com/louisbranch/credix-checkout/internal/services/checkout/platform/errors"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/platform/flash"
	checkouti18n "github.com/louisbranch/credix-checkout/internal/services/checkout/platform/i18n"
	"github.com/louisbranch/credix-checkout/internal/services/checkout/templates"
	"github.com/louisbranch/credix-checkout/internal/services/shared/httpx"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// WriteAppError writes a localized error page.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}

	loc, lang := checkouti18n.ResolveLocalizer(w, r)
	fragment := templates.AppErrorState(statusCode, loc)

	title := templates.AppErrorPageTitle(statusCode, loc)
	opts := templates.LayoutOptions{Title: title, Lang: lang, Loc: loc}
	var page bytes.Buffer
	if err := templates.Layout(opts).Render(templ.WithChildren(requestContext(r), fragment), &page); err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
		return
	}
	_ = httpx.WriteHTML(w, statusCode, page.String())
}

// RedirectWithError stores err as a localized toast and redirects to
// location. Remote pricing messages are shown verbatim.
func RedirectWithError(w http.ResponseWriter, r *http.Request, deps module.Dependencies, location string, err error) {
	if w == nil {
		return
	}
	_, lang := checkouti18n.ResolveLocalizer(w, r)
	flash.Write(w, r, flash.NoticeError(checkouti18n.LocalizeError(lang, err)), deps.SchemePolicy)
	httpx.WriteRedirect(w, r, location)
}

// WriteModuleError redirects to fallback with err as a toast. Web errors and
// uncoded failures that map to not-found or server statuses render the error
// page instead.
func WriteModuleError(w http.ResponseWriter, r *http.Request, deps module.Dependencies, fallback string, err error) {
	if w == nil {
		return
	}
	if domainerrors.CodeOf(err) == domainerrors.CodeUnknown {
		if statusCode := apperrors.HTTPStatus(err); ShouldRenderAppError(statusCode) {
			WriteAppError(w, r, statusCode)
			return
		}
	}
	RedirectWithError(w, r, deps, fallback, err)
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
