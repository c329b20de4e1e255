package phone

import (
	"regexp"
	"strings"
)

var nonDialable = regexp.MustCompile(`[^0-9+]+`)

// Normalize keeps ASCII digits and '+', turns a leading "00" into '+'
// and drops every '+' that is not the first character.
func Normalize(raw string) string {
	s := nonDialable.ReplaceAllString(raw, "")
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	if s == "" {
		return ""
	}
	return s[:1] + strings.ReplaceAll(s[1:], "+", "")
}

// digitsOnly drops everything except ASCII digits.
func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
