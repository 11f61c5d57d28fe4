// Package i18n renders localized messages for domain error codes.
package i18n

import (
	"bytes"
	"maps"
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/credix-checkout/internal/platform/i18n/catalog"
)

// errorsNamespace holds templates keyed by error code.
const errorsNamespace = "errors"

// Code is a machine-readable error code. It mirrors errors.Code without
// importing it.
type Code = string

// Catalog maps error codes to text/template messages for one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// catalogs caches one Catalog per resolved locale.
var catalogs sync.Map

// GetCatalog returns the catalog for locale, or the base locale catalog when
// locale has no error messages.
func GetCatalog(locale string) *Catalog {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = i18ncatalog.BaseLocale
	}
	if cached, ok := catalogs.Load(locale); ok {
		return cached.(*Catalog)
	}
	resolved, messages := i18ncatalog.Default().Namespace(locale, errorsNamespace)
	if cached, ok := catalogs.Load(resolved); ok {
		return cached.(*Catalog)
	}
	cat, _ := catalogs.LoadOrStore(resolved, NewCatalog(resolved, messages))
	return cat.(*Catalog)
}

// NewCatalog builds a catalog from a copy of messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	return &Catalog{locale: locale, messages: maps.Clone(messages)}
}

// Locale returns the locale the catalog was built for.
func (c *Catalog) Locale() string {
	return c.locale
}

// Has reports whether the catalog carries a template for code.
func (c *Catalog) Has(code Code) bool {
	_, ok := c.messages[code]
	return ok
}

// Format renders the template for code with metadata. Unknown codes render as
// the code itself; broken templates render as their raw text.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	text, ok := c.messages[code]
	if !ok {
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	tmpl, err := template.New(code).Option("missingkey=zero").Parse(text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return text
	}
	return buf.String()
}
