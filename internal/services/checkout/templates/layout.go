package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

import "strings"

const (
	appNameKey     = "core.app_name"
	stylesheetPath = "/static/checkout.css"
)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// Toast is a transient notice rendered once above the page.
type Toast struct {
	Kind    string
	Message string
}

// LayoutOptions configures the document shell.
type LayoutOptions struct {
	Title     string
	Lang      string
	Loc       Localizer
	Languages []LanguageOption
	Toast     *Toast
}

// ComposePageTitle appends the app name to title.
func ComposePageTitle(title string, loc Localizer) string {
	appName := T(loc, appNameKey)
	title = strings.TrimSpace(title)
	if title == "" || title == appName {
		return appName
	}
	return title + " | " + appName
}

func layoutLang(opts LayoutOptions) string {
	if lang := strings.TrimSpace(opts.Lang); lang != "" {
		return lang
	}
	return "en-US"
}

func showToast(toast *Toast) bool {
	return toast != nil && strings.TrimSpace(toast.Message) != ""
}

func toastKindClass(toast *Toast) string {
	kind := strings.TrimSpace(toast.Kind)
	if kind == "" {
		kind = "info"
	}
	return "credix-toast-" + kind
}
