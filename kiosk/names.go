package kiosk

import (
	"strings"
	"unicode"
)

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// normalizeName cleans up a first/last name pair and checks it can be
// stored and printed.
func normalizeName(first, last string) (string, string, error) {
	first, last = capitalize(first), capitalize(last)
	if first == "" || last == "" {
		return "", "", &ValidationError{Field: "name", Msg: "You must enter both firstname and lastname"}
	}
	for _, s := range []string{first, last} {
		for _, r := range s {
			if r < 0x20 || r > 0x7E {
				return "", "", &ValidationError{Field: "name", Msg: "Please use only plain English characters."}
			}
		}
	}
	return first, last, nil
}
