package dictionary

import (
	"fmt"
	"slices"
)

// ElementStat counts how many words start and end with a connecting element.
type ElementStat struct {
	Starting int `json:"starting" msgpack:"starting"`
	Ending   int `json:"ending" msgpack:"ending"`
}

// Stats summarizes a store.
type Stats struct {
	Language       Language               `json:"language" msgpack:"language"`
	TotalWords     int                    `json:"totalWords" msgpack:"totalWords"`
	UserAddedWords int                    `json:"userAddedWords" msgpack:"userAddedWords"`
	DeadWords      int                    `json:"deadWords" msgpack:"deadWords"`
	Elements       map[string]ElementStat `json:"elements" msgpack:"elements"`
}

// Stats returns counters and the per-element histogram.
func (s *Store) Stats() Stats {
	elements := make(map[string]ElementStat)
	s.words.Each(func(word string) bool {
		first := elements[s.lang.element(word, false)]
		first.Starting++
		elements[s.lang.element(word, false)] = first

		last := elements[s.lang.element(word, true)]
		last.Ending++
		elements[s.lang.element(word, true)] = last
		return false
	})
	return Stats{
		Language:       s.lang,
		TotalWords:     s.words.Cardinality(),
		UserAddedWords: s.userWords.Cardinality(),
		DeadWords:      s.deadWords.Cardinality(),
		Elements:       elements,
	}
}

// BlockingElements lists elements more words end with than start with,
// sorted. These are the elements that tend to end a game.
func (st Stats) BlockingElements() []string {
	var out []string
	for elem, stat := range st.Elements {
		if stat.Ending > stat.Starting {
			out = append(out, elem)
		}
	}
	slices.Sort(out)
	return out
}

// WordCheck describes the format and membership of a single word.
type WordCheck struct {
	Word         string `json:"word" msgpack:"word"`
	IsValid      bool   `json:"isValid" msgpack:"isValid"`
	InDictionary bool   `json:"hasInDictionary" msgpack:"hasInDictionary"`
	Message      string `json:"message" msgpack:"message"`
}

// CheckWord validates a word's format and looks it up.
func (s *Store) CheckWord(word string) WordCheck {
	w := Normalize(word)
	if w == "" {
		return WordCheck{Message: "please enter a word to check"}
	}
	check := WordCheck{
		Word:         w,
		IsValid:      s.lang.IsValidWord(w),
		InDictionary: s.words.Contains(w),
	}
	switch {
	case !check.IsValid:
		check.Message = fmt.Sprintf("invalid word, expected %s", s.lang.FormatHint())
	case !check.InDictionary:
		check.Message = fmt.Sprintf("%q has a valid format but is not in the %s dictionary", w, s.lang)
	default:
		check.Message = fmt.Sprintf("%q is valid and in the %s dictionary", w, s.lang)
	}
	return check
}

// RandomWords samples up to n distinct words using the store random source.
func (s *Store) RandomWords(n int) []string {
	if n <= 0 {
		return []string{}
	}
	words := s.AllWords()
	s.rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}

// Search returns known words sharing a literal prefix, sorted. A limit of
// zero or less returns every match.
func (s *Store) Search(prefix string, limit int) []string {
	prefix = Normalize(prefix)
	out := []string{}
	if prefix == "" {
		return out
	}
	s.idx.visitPrefix(prefix, func(word string) bool {
		out = append(out, word)
		return true
	})
	slices.Sort(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
