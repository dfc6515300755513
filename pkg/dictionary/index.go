package dictionary

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// keySep separates the connecting element from the word inside trie keys.
// It never appears in a normalized word.
const keySep = "\x00"

var errStopVisit = errors.New("stop visit")

// index keeps three patricia tries over the word set:
// heads is keyed "first element \x00 word", tails "last element \x00 word"
// and words holds the plain word for prefix lookups.
type index struct {
	lang  Language
	heads *patricia.Trie
	tails *patricia.Trie
	words *patricia.Trie
}

func newIndex(lang Language) *index {
	return &index{
		lang:  lang,
		heads: patricia.NewTrie(),
		tails: patricia.NewTrie(),
		words: patricia.NewTrie(),
	}
}

func elementKey(elem, word string) patricia.Prefix {
	return patricia.Prefix(elem + keySep + word)
}

// insert expects a normalized, non-empty word.
func (ix *index) insert(word string) {
	ix.heads.Set(elementKey(ix.lang.element(word, false), word), true)
	ix.tails.Set(elementKey(ix.lang.element(word, true), word), true)
	ix.words.Set(patricia.Prefix(word), true)
}

func (ix *index) remove(word string) {
	ix.heads.Delete(elementKey(ix.lang.element(word, false), word))
	ix.tails.Delete(elementKey(ix.lang.element(word, true), word))
	ix.words.Delete(patricia.Prefix(word))
}

func (ix *index) reset() {
	ix.heads = patricia.NewTrie()
	ix.tails = patricia.NewTrie()
	ix.words = patricia.NewTrie()
}

// visit walks every word filed under elem. fn returns false to stop early.
// Visit order follows the trie layout, callers that need a stable order sort.
func visit(trie *patricia.Trie, elem string, fn func(word string) bool) {
	if elem == "" {
		return
	}
	skip := len(elem) + len(keySep)
	err := trie.VisitSubtree(patricia.Prefix(elem+keySep), func(p patricia.Prefix, _ patricia.Item) error {
		if !fn(string(p[skip:])) {
			return errStopVisit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopVisit) {
		log.Errorf("Error visiting index subtree for %q: %v", elem, err)
	}
}

// visitHeads walks words starting with elem.
func (ix *index) visitHeads(elem string, fn func(word string) bool) {
	visit(ix.heads, elem, fn)
}

// visitTails walks words ending with elem.
func (ix *index) visitTails(elem string, fn func(word string) bool) {
	visit(ix.tails, elem, fn)
}

// hasHead reports whether any word other than except starts with elem.
func (ix *index) hasHead(elem, except string) bool {
	found := false
	ix.visitHeads(elem, func(word string) bool {
		if word == except {
			return true
		}
		found = true
		return false
	})
	return found
}

// visitPrefix walks words sharing a literal prefix.
func (ix *index) visitPrefix(prefix string, fn func(word string) bool) {
	err := ix.words.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		if !fn(string(p)) {
			return errStopVisit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopVisit) {
		log.Errorf("Error visiting word trie for prefix %q: %v", prefix, err)
	}
}
