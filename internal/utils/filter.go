package utils

import (
	"strings"
	"unicode"
)

// IsSeparator checks if a rune may sit between the syllables of a word
func IsSeparator(r rune) bool {
	return r == ' ' || r == '-' || r == '\''
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks for anything that is not a letter, a digit,
// a combining mark or a separator.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive checks for one character repeated three or more times, e.g. "aaa"
func IsRepetitive(s string) bool {
	runes := []rune(s)
	if len(runes) <= 2 {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}

// IsValidInput reports whether a lookup argument is worth sending to the
// engine. Numbers, symbols and keyboard mashing like "dddd" are rejected.
func IsValidInput(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || IsOnlyNumbers(s) || ContainsSpecialChars(s) {
		return false
	}
	return !IsRepetitive(strings.ReplaceAll(s, " ", ""))
}
