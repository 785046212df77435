// Package validation holds the pure input checks used by every conversation.
// Each check returns the normalized value and whether the input is acceptable.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	phoneRegex    = regexp.MustCompile(`^09[0-9]{9}$`)
	nationalRegex = regexp.MustCompile(`^[0-9]{10}$`)
	referralRegex = regexp.MustCompile(`^[a-z0-9]{3,20}$`)
)

// Areas is the fixed set of educational area codes.
var Areas = []string{"1", "2", "3"}

const (
	nameMinLen   = 5
	nameMaxLen   = 50
	nameMinWords = 2
	nameMaxWords = 5
	cityMinLen   = 2
)

// Name accepts 2 to 5 words of Persian letters, 5 to 50 characters in total.
func Name(input string) (string, bool) {
	name := collapseSpaces(normalizeLetters(input))
	n := utf8.RuneCountInString(name)
	if n < nameMinLen || n > nameMaxLen {
		return "", false
	}
	for _, r := range name {
		if r == ' ' {
			continue
		}
		if r < 'آ' || r > 'ی' || !unicode.IsLetter(r) {
			return "", false
		}
	}
	words := len(strings.Fields(name))
	if words < nameMinWords || words > nameMaxWords {
		return "", false
	}
	return name, true
}

// Phone accepts an Iranian mobile number, 11 digits starting with 09.
func Phone(input string) (string, bool) {
	phone := stripRunes(NormalizeDigits(input), isSeparator)
	if !phoneRegex.MatchString(phone) {
		return "", false
	}
	return phone, true
}

// NationalID checks shape only: ten digits, not all the same. The official
// checksum is not verified.
func NationalID(input string) (string, bool) {
	id := stripRunes(NormalizeDigits(input), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})
	if !nationalRegex.MatchString(id) {
		return "", false
	}
	if strings.Count(id, id[:1]) == len(id) {
		return "", false
	}
	return id, true
}

func Area(input string) (int, bool) {
	area := strings.TrimSpace(NormalizeDigits(input))
	for _, a := range Areas {
		if area == a {
			n, _ := strconv.Atoi(area)
			return n, true
		}
	}
	return 0, false
}

// City requires at least two characters and, when allowed is non-empty, one of
// the allowed names.
func City(input string, allowed []string) (string, bool) {
	city := collapseSpaces(normalizeLetters(input))
	if utf8.RuneCountInString(city) < cityMinLen {
		return "", false
	}
	if len(allowed) == 0 {
		return city, true
	}
	for _, a := range allowed {
		if normalizeLetters(strings.TrimSpace(a)) == city {
			return city, true
		}
	}
	return "", false
}

// OTP matches the code exactly after folding digits and dropping whitespace.
// There is no expiry.
func OTP(input, expected string) bool {
	if expected == "" {
		return false
	}
	code := stripRunes(NormalizeDigits(input), unicode.IsSpace)
	return code == expected
}

func ReferralCode(input string) (string, bool) {
	code := strings.ToLower(strings.TrimSpace(NormalizeDigits(input)))
	if !referralRegex.MatchString(code) {
		return "", false
	}
	return code, true
}

func Resume(input string, minLen int) (string, bool) {
	text := strings.TrimSpace(input)
	if utf8.RuneCountInString(text) < minLen {
		return "", false
	}
	return text, true
}

// SanitizeText collapses whitespace and cuts the text to at most max runes,
// backing off to the last word boundary and appending an ellipsis.
func SanitizeText(input string, max int) string {
	text := collapseSpaces(input)
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	cut := string(r[:max])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
