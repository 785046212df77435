package validation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Persian (U+06F0..) and Arabic-Indic (U+0660..) digits fold to ASCII.
var digitFolder = runes.Map(func(r rune) rune {
	switch {
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	}
	return r
})

// Arabic yeh and kaf fold to their Persian forms so keyboard layouts compare equal.
var letterFolder = runes.Map(func(r rune) rune {
	switch r {
	case 'ي', 'ى':
		return 'ی'
	case 'ك':
		return 'ک'
	}
	return r
})

func NormalizeDigits(s string) string {
	out, _, err := transform.String(digitFolder, s)
	if err != nil {
		return s
	}
	return out
}

func normalizeLetters(s string) string {
	out, _, err := transform.String(letterFolder, s)
	if err != nil {
		return s
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func stripRunes(s string, drop func(rune) bool) string {
	return strings.Map(func(r rune) rune {
		if drop(r) {
			return -1
		}
		return r
	}, s)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '(' || r == ')'
}
