// Package catalog loads the embedded locale catalogs and registers them with
// x/text/message.
//
// Catalogs live at locales/<locale>/<namespace>.yaml. Every locale must carry
// the same keys as BaseLocale.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source locale every other locale is checked against.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// namespaces maps namespace to key to message for a single locale.
type namespaces map[string]map[string]string

// Bundle holds every loaded locale.
type Bundle struct {
	locales map[string]namespaces
}

//go:embed locales/*/*.yaml
var embedded embed.FS

var defaultBundle = mustLoadAndRegister()

// Default returns the embedded bundle, already registered.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalogs compiled into this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embedded)
}

// LoadFromFS loads locales/*/*.yaml from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	slices.Sort(paths)

	b := &Bundle{locales: map[string]namespaces{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, err
		}
	}
	if err := b.checkParity(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	if want := path.Base(path.Dir(p)); locale != want {
		return fmt.Errorf("catalog %s: locale %q must match directory %q", p, locale, want)
	}
	namespace := strings.TrimSpace(file.Namespace)
	if want := strings.TrimSuffix(path.Base(p), path.Ext(p)); namespace != want {
		return fmt.Errorf("catalog %s: namespace %q must match file name %q", p, namespace, want)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: no messages", p)
	}

	loc, ok := b.locales[locale]
	if !ok {
		loc = namespaces{}
		b.locales[locale] = loc
	}
	msgs := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: blank message key", p)
		}
		for other, otherMsgs := range loc {
			if _, dup := otherMsgs[key]; dup {
				return fmt.Errorf("catalog %s: key %q already defined in namespace %q", p, key, other)
			}
		}
		msgs[key] = value
	}
	loc[namespace] = msgs
	return nil
}

// checkParity requires every locale to define exactly the base locale keys.
func (b *Bundle) checkParity() error {
	base, ok := b.locales[BaseLocale]
	if !ok {
		return fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	for locale, loc := range b.locales {
		if locale == BaseLocale {
			continue
		}
		for namespace, msgs := range base {
			for key := range msgs {
				if _, ok := loc[namespace][key]; !ok {
					return fmt.Errorf("locale %s: missing %s key %q", locale, namespace, key)
				}
			}
		}
		for namespace, msgs := range loc {
			for key := range msgs {
				if _, ok := base[namespace][key]; !ok {
					return fmt.Errorf("locale %s: %s key %q is not in %s", locale, namespace, key, BaseLocale)
				}
			}
		}
	}
	return nil
}

// Register installs every message with x/text/message under the full locale
// tag and its base language, so "pt" resolves to "pt-BR" copy.
func (b *Bundle) Register() error {
	if b == nil {
		return nil
	}
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag := language.Make(base.String()); baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		for _, msgs := range b.locales[locale] {
			for key, value := range msgs {
				for _, t := range tags {
					if err := message.SetString(t, key, value); err != nil {
						return fmt.Errorf("register %s %q: %w", locale, key, err)
					}
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether locale was loaded.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns the loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(b.locales))
}

// Message returns one message, falling back to BaseLocale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	key = strings.TrimSpace(key)
	for _, candidate := range []string{strings.TrimSpace(locale), BaseLocale} {
		for _, msgs := range b.locales[candidate] {
			if value, ok := msgs[key]; ok {
				return value, true
			}
		}
	}
	return "", false
}

// Namespace returns a copy of one namespace and the locale that supplied it,
// falling back to BaseLocale when locale is unknown.
func (b *Bundle) Namespace(locale, namespace string) (string, map[string]string) {
	if b == nil {
		return BaseLocale, map[string]string{}
	}
	locale = strings.TrimSpace(locale)
	namespace = strings.TrimSpace(namespace)
	if msgs, ok := b.locales[locale][namespace]; ok {
		return locale, maps.Clone(msgs)
	}
	msgs := b.locales[BaseLocale][namespace]
	if msgs == nil {
		return BaseLocale, map[string]string{}
	}
	return BaseLocale, maps.Clone(msgs)
}

func mustLoadAndRegister() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := bundle.Register(); err != nil {
		panic(err)
	}
	return bundle
}
