package models

import (
	"strings"
	"time"
)

type Locale string

const (
	LocaleEN Locale = "en"
	LocaleES Locale = "es"
	LocaleDE Locale = "de"
	LocaleJA Locale = "ja"
)

var dayNames = map[Locale][7]string{
	LocaleEN: {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	LocaleES: {"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"},
	LocaleDE: {"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
	LocaleJA: {"日", "月", "火", "水", "木", "金", "土"},
}

// NormalizeLocale maps a language tag such as "de-AT" to a supported locale; anything
// unknown becomes English.
func NormalizeLocale(s string) Locale {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_"); i >= 0 {
		s = s[:i]
	}
	l := Locale(s)
	if _, ok := dayNames[l]; ok {
		return l
	}
	return LocaleEN
}

// DayName returns the short weekday name of t in the locale.
func DayName(l Locale, t time.Time) string {
	names, ok := dayNames[l]
	if !ok {
		names = dayNames[LocaleEN]
	}
	return names[t.Weekday()]
}
