package utils

import (
	"strconv"
	"strings"
)

// FormatWithCommas renders n with thousands separators, e.g. 12345 -> "12,345"
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Plural picks singular or plural by count, e.g. Plural(1, "word", "words")
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// SplitList splits comma separated words, trimming each and dropping blanks.
// Multi syllable words keep their inner spaces.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
