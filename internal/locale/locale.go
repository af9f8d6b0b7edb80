// Package locale resolves the request language of the bilingual site.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	English = "en"
	Arabic  = "ar"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English, // default
	language.Arabic,
})

// Supported reports whether lang is one of the site languages.
func Supported(lang string) bool {
	return lang == English || lang == Arabic
}

// Resolve picks the site language from an explicit query value first, then
// from an Accept-Language header, falling back to English.
func Resolve(query, acceptLanguage string) string {
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		if Supported(q) {
			return q
		}
		if tag, err := language.Parse(q); err == nil {
			return match(tag)
		}
	}
	if acceptLanguage == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	return match(tags...)
}

func match(tags ...language.Tag) string {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No || idx != 1 {
		return English
	}
	return Arabic
}

// Dir returns the text direction of lang.
func Dir(lang string) string {
	if lang == Arabic {
		return "rtl"
	}
	return "ltr"
}

// Columns filters bilingual column names down to one language. An empty lang
// keeps every column.
func Columns(columns []string, lang string) []string {
	if lang == "" {
		return columns
	}
	suffix := "_" + lang
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if strings.HasSuffix(c, suffix) {
			out = append(out, c)
		}
	}
	return out
}
