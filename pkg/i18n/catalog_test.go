package i18n

import (
	"strings"
	"testing"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
)

func TestLoadCoversEveryKey(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, l := range domain.Locales {
		for _, k := range Keys() {
			if got := c.Text(l, k); got == "" {
				t.Errorf("%s/%s rendered empty", l, k)
			}
		}
	}
}

func TestValidateReportsMissingKeys(t *testing.T) {
	c, err := Parse(map[domain.Locale][]byte{
		domain.LocaleRU: []byte("welcome: \"привет\"\nblocked: \"нет\"\n"),
		domain.LocaleEN: []byte("welcome: \"hi\"\n"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = c.Validate([]Key{Welcome, Blocked})
	if err == nil {
		t.Fatal("expected coverage error")
	}
	if !strings.Contains(err.Error(), "en/blocked") {
		t.Errorf("expected en/blocked to be reported, got %v", err)
	}
	if strings.Contains(err.Error(), "ru/blocked") {
		t.Errorf("did not expect ru/blocked to be reported, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		locale   domain.Locale
		key      Key
		data     any
		expected string
	}{
		{domain.LocaleEN, PhotoCountNeed, map[string]int{"Count": 1, "Max": 14, "Need": 1}, "📸 1/14 photos. Need at least 1 more"},
		{domain.LocaleRU, PhotoCountMax, map[string]int{"Count": 14, "Max": 14}, "📸 14/14 — максимум. Нажми Готово ⬇️"},
		{domain.LocaleEN, ButtonDonePhotosOK, map[string]int{"Count": 3, "Max": 14}, "✅ Done (3/14 photos)"},
		{domain.LocaleEN, Ratio("16:9"), nil, "16:9 (Landscape 🖥)"},
		{domain.Locale("de"), Blocked, nil, "Вы заблокированы."},
		{domain.LocaleEN, Key("no_such_key"), nil, "no_such_key"},
	}

	for _, test := range tests {
		if got := c.Format(test.locale, test.key, test.data); got != test.expected {
			t.Errorf("For %s/%s, expected %q, got %q", test.locale, test.key, test.expected, got)
		}
	}
}

func TestFormatMissingDataFallsBackToKey(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := c.Format(domain.LocaleEN, PhotoCountNeed, map[string]int{}); got != string(PhotoCountNeed) {
		t.Errorf("expected key fallback, got %q", got)
	}
}
