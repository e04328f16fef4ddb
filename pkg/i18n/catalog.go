package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/logger"
)

//go:embed locales/*.yaml
var locales embed.FS

// Catalog holds parsed message templates per locale.
type Catalog struct {
	templates map[domain.Locale]map[Key]*template.Template
}

// Load parses the embedded locale files and checks key coverage.
func Load() (*Catalog, error) {
	sources := make(map[domain.Locale][]byte, len(domain.Locales))
	for _, l := range domain.Locales {
		b, err := locales.ReadFile("locales/" + string(l) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("reading %s locale: %w", l, err)
		}
		sources[l] = b
	}

	c, err := Parse(sources)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(Keys()); err != nil {
		return nil, err
	}
	return c, nil
}

func Parse(sources map[domain.Locale][]byte) (*Catalog, error) {
	c := &Catalog{templates: make(map[domain.Locale]map[Key]*template.Template, len(sources))}
	for l, src := range sources {
		var raw map[string]string
		if err := yaml.Unmarshal(src, &raw); err != nil {
			return nil, fmt.Errorf("decoding %s locale: %w", l, err)
		}

		tmpls := make(map[Key]*template.Template, len(raw))
		for k, v := range raw {
			t, err := template.New(k).Option("missingkey=error").Parse(v)
			if err != nil {
				return nil, fmt.Errorf("parsing %s/%s: %w", l, k, err)
			}
			tmpls[Key(k)] = t
		}
		c.templates[l] = tmpls
	}
	return c, nil
}

// Validate reports every key missing from any locale.
func (c *Catalog) Validate(keys []Key) error {
	var missing []string
	for _, l := range domain.Locales {
		tmpls, ok := c.templates[l]
		if !ok {
			missing = append(missing, string(l)+"/*")
			continue
		}
		for _, k := range keys {
			if _, ok := tmpls[k]; !ok {
				missing = append(missing, string(l)+"/"+string(k))
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing translations: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Catalog) Text(l domain.Locale, k Key) string {
	return c.Format(l, k, nil)
}

// Format renders the template for k in locale l, falling back to the default locale.
func (c *Catalog) Format(l domain.Locale, k Key, data any) string {
	t, ok := c.templates[l][k]
	if !ok {
		if t, ok = c.templates[domain.DefaultLocale][k]; !ok {
			return string(k)
		}
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		slog.Error("rendering message", "locale", l, "key", k, logger.Err(err))
		return string(k)
	}
	return buf.String()
}
