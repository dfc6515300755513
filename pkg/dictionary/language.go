package dictionary

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Language selects the chaining rules of a Store.
type Language string

const (
	// Vietnamese words are two-syllable compounds joined on whole syllables.
	Vietnamese Language = "vietnamese"
	// English words are single letter runs joined on their first/last letter.
	English Language = "english"
)

// ErrUnknownLanguage is returned by ParseLanguage for unsupported tags.
var ErrUnknownLanguage = errors.New("unknown language")

// Languages lists every supported language in a stable order.
func Languages() []Language {
	return []Language{Vietnamese, English}
}

// ParseLanguage maps a user supplied tag onto a Language.
// Short forms "vi" and "en" are accepted.
func ParseLanguage(tag string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "vietnamese", "vi", "vn":
		return Vietnamese, nil
	case "english", "en":
		return English, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, tag)
}

func (l Language) String() string {
	return string(l)
}

// Normalize prepares a word for storage and comparison:
// NFC composition, lower-casing, trimming and collapsing inner whitespace
// to single spaces. Diacritics are preserved.
func Normalize(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	word = strings.ToLower(norm.NFC.String(word))
	return strings.Join(strings.Fields(word), " ")
}

// Syllables splits a normalized word into its whitespace separated parts.
// For English the whole word is a single part.
func (l Language) Syllables(word string) []string {
	word = Normalize(word)
	if word == "" {
		return nil
	}
	if l == English {
		return []string{word}
	}
	return strings.Fields(word)
}

// FirstElement returns the connecting element a word starts with.
func (l Language) FirstElement(word string) string {
	return l.element(Normalize(word), false)
}

// LastElement returns the connecting element a word ends with.
func (l Language) LastElement(word string) string {
	return l.element(Normalize(word), true)
}

// element expects an already normalized word.
func (l Language) element(word string, last bool) string {
	if word == "" {
		return ""
	}
	if l == English {
		if last {
			r, _ := utf8.DecodeLastRuneInString(word)
			return string(r)
		}
		r, _ := utf8.DecodeRuneInString(word)
		return string(r)
	}
	if last {
		return word[strings.LastIndexByte(word, ' ')+1:]
	}
	if i := strings.IndexByte(word, ' '); i >= 0 {
		return word[:i]
	}
	return word
}

// IsValidWord reports whether a word satisfies the format accepted for
// user-added entries: exactly two syllables for Vietnamese, an unbroken run
// of ASCII letters longer than one character for English.
func (l Language) IsValidWord(word string) bool {
	word = Normalize(word)
	if word == "" {
		return false
	}
	if l == English {
		if len(word) < 2 {
			return false
		}
		for _, r := range word {
			if r > unicode.MaxASCII || !unicode.IsLetter(r) {
				return false
			}
		}
		return true
	}
	return len(strings.Fields(word)) == 2
}

// FilterValid keeps only entries that pass IsValidWord. Vietnamese bulk
// lists go through it so that single syllables and longer phrases never
// reach the store.
func (l Language) FilterValid(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if l.IsValidWord(w) {
			out = append(out, w)
		}
	}
	return out
}

// FormatHint describes the accepted user word format.
func (l Language) FormatHint() string {
	if l == English {
		return `letters only, at least two characters (e.g. "apple", "cat")`
	}
	return `exactly two syllables (e.g. "con voi", "bánh mì")`
}
