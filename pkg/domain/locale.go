package domain

import "fmt"

type Locale string

const (
	LocaleRU Locale = "ru"
	LocaleEN Locale = "en"

	DefaultLocale = LocaleRU
)

var Locales = []Locale{LocaleRU, LocaleEN}

func ParseLocale(s string) (Locale, error) {
	for _, l := range Locales {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLocale, s)
}

func (l Locale) Flag() string {
	switch l {
	case LocaleRU:
		return "🇷🇺"
	case LocaleEN:
		return "🇬🇧"
	}
	return ""
}

func (l Locale) Name() string {
	switch l {
	case LocaleRU:
		return "Русский"
	case LocaleEN:
		return "English"
	}
	return string(l)
}
