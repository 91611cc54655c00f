// Package i18n translates error codes to the locale of a request.
//
// Spanish is the default locale. Domain errors already carry a Spanish message, so the
// Spanish catalog only holds the codes raised by the HTTP layer itself; English holds
// both.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported locales, default first
var (
	Spanish = language.Spanish
	English = language.English

	supported = []language.Tag{Spanish, English}
	matcher   = language.NewMatcher(supported)
)

var builder = catalog.NewBuilder(catalog.Fallback(Spanish))

func init() {
	for code, text := range spanish {
		_ = builder.SetString(Spanish, code, text)
	}
	for code, text := range english {
		_ = builder.SetString(English, code, text)
	}
}

// Match returns the supported locale closest to an Accept-Language header value.
// An empty or unparseable header yields Spanish.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Spanish
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Spanish
	}
	return supported[idx]
}

// Translate returns the text for code in the given locale, or fallback when the
// catalog has no entry for it
func Translate(tag language.Tag, code, fallback string) string {
	p := message.NewPrinter(tag, message.Catalog(builder))
	return p.Sprintf(message.Key(code, fallback))
}

// Localizer translates codes for one locale
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocalizer creates a Localizer for tag
func NewLocalizer(tag language.Tag) *Localizer {
	return &Localizer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(builder))}
}

// Tag returns the locale of the Localizer
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Base returns the two-letter language of the Localizer, e.g. "es"
func (l *Localizer) Base() string {
	base, _ := l.tag.Base()
	return base.String()
}

// Translate returns the text for code, or fallback
func (l *Localizer) Translate(code, fallback string) string {
	return l.printer.Sprintf(message.Key(code, fallback))
}
