/*
Package dictionary owns the word universe of a single language session.

A Store keeps the set of known words, the subset contributed by the user,
the cached set of dead words (words nothing can follow), the words that came
from the bundled word list and per-word usage counters. Words are indexed by their connecting elements in patricia tries
so that next/previous lookups and dead-word checks never scan the full set.

Stores are not safe for concurrent use. Shells that share one Store across
goroutines serialize access themselves.
*/
package dictionary

import (
	"context"
	"maps"
	"math/rand/v2"
	"slices"
	"sort"
	"time"

	"github.com/bastiangx/wordchain/internal/logger"
	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"
)

const (
	// DefaultDeadWordThreshold is the word count above which dead-word
	// recomputation is skipped.
	DefaultDeadWordThreshold = 10000
	// DefaultBulkThreshold is the batch size from which non-user additions
	// are treated as bulk loads and skip dead-word recomputation.
	DefaultBulkThreshold = 1000
	defaultPersistTimeout = 2 * time.Second
)

// UserWords maps a language onto its persisted user word list.
type UserWords map[Language][]string

// Persister saves and restores user words. Implementations live in pkg/persist.
type Persister interface {
	Load(ctx context.Context) (UserWords, error)
	Save(ctx context.Context, words UserWords) error
}

// AddResult partitions a user-initiated addition.
type AddResult struct {
	Added      []string `json:"added" msgpack:"added"`
	Duplicates []string `json:"duplicates" msgpack:"duplicates"`
	Rejected   []string `json:"rejected" msgpack:"rejected"`
}

// RemoveResult partitions a removal.
type RemoveResult struct {
	Removed  []string `json:"removed" msgpack:"removed"`
	NotFound []string `json:"notFound" msgpack:"notFound"`
}

// UpdateResult reports the outcome of UpdateWord.
type UpdateResult struct {
	Old       string `json:"old" msgpack:"old"`
	New       string `json:"new" msgpack:"new"`
	Updated   bool   `json:"updated" msgpack:"updated"`
	NotFound  bool   `json:"notFound,omitempty" msgpack:"notFound,omitempty"`
	Rejected  bool   `json:"rejected,omitempty" msgpack:"rejected,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty" msgpack:"duplicate,omitempty"`
}

// Store is the in-memory dictionary for one language.
type Store struct {
	lang      Language
	words     mapset.Set[string]
	userWords mapset.Set[string]
	deadWords mapset.Set[string]
	bundled   mapset.Set[string]
	history   map[string]int
	idx       *index
	gen       uint64

	persister Persister
	saved     UserWords
	rng       *rand.Rand
	log       *log.Logger

	deadWordThreshold int
	bulkThreshold     int
	persistTimeout    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithPersister attaches the user word backend.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithRand injects the random source used for sampling.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithLogger replaces the default store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDeadWordThreshold sets the size above which dead words are not recomputed.
func WithDeadWordThreshold(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.deadWordThreshold = n
		}
	}
}

// WithBulkThreshold sets the batch size treated as a bulk dictionary load.
func WithBulkThreshold(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.bulkThreshold = n
		}
	}
}

// WithPersistTimeout bounds each implicit save.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// NewStore creates an empty store for lang.
func NewStore(lang Language, opts ...Option) *Store {
	s := &Store{
		lang:              lang,
		words:             mapset.NewThreadUnsafeSet[string](),
		userWords:         mapset.NewThreadUnsafeSet[string](),
		deadWords:         mapset.NewThreadUnsafeSet[string](),
		bundled:           mapset.NewThreadUnsafeSet[string](),
		history:           make(map[string]int),
		idx:               newIndex(lang),
		saved:             make(UserWords),
		rng:               rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		log:               logger.New(string(lang)),
		deadWordThreshold: DefaultDeadWordThreshold,
		bulkThreshold:     DefaultBulkThreshold,
		persistTimeout:    defaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load populates the store from a word list provider and then restores the
// persisted user words.
func (s *Store) Load(ctx context.Context, provider Provider) error {
	if provider != nil {
		words, err := provider.Words(ctx, s.lang)
		if err != nil {
			return err
		}
		if s.lang == Vietnamese {
			words = s.lang.FilterValid(words)
		}
		s.AddWords(words, false)
		s.log.Debugf("Loaded %d dictionary words", s.words.Cardinality())
	}
	if err := s.LoadUserWords(ctx); err != nil {
		s.log.Errorf("Failed to load user words: %v", err)
	}
	s.RefreshDeadWords()
	return nil
}

// Language returns the store language.
func (s *Store) Language() Language {
	return s.lang
}

// Rand returns the injected random source.
func (s *Store) Rand() *rand.Rand {
	return s.rng
}

// Generation changes every time the word set changes. Caches derived from
// the word set compare it to detect staleness.
func (s *Store) Generation() uint64 {
	return s.gen
}

// Len returns the number of known words.
func (s *Store) Len() int {
	return s.words.Cardinality()
}

// AddWords inserts each normalized candidate. User additions are validated
// against the language format and partitioned into added, duplicates and
// rejected. Bulk dictionary loads skip validation and return an empty result.
func (s *Store) AddWords(words []string, userAdded bool) AddResult {
	res := AddResult{Added: []string{}, Duplicates: []string{}, Rejected: []string{}}
	for _, w := range words {
		word := Normalize(w)
		if word == "" {
			continue
		}
		if userAdded && !s.lang.IsValidWord(word) {
			res.Rejected = append(res.Rejected, word)
			continue
		}
		if userAdded && s.words.Contains(word) {
			res.Duplicates = append(res.Duplicates, word)
			continue
		}
		s.insert(word)
		if !userAdded {
			s.bundled.Add(word)
			continue
		}
		s.userWords.Add(word)
		res.Added = append(res.Added, word)
	}

	if userAdded && (len(res.Added) > 0 || len(res.Duplicates) > 0) {
		s.saveUserWords()
	}
	if userAdded || len(words) < s.bulkThreshold {
		s.RefreshDeadWords()
	}
	if !userAdded {
		return AddResult{}
	}
	return res
}

func (s *Store) insert(word string) {
	if s.words.Add(word) {
		s.idx.insert(word)
		s.gen++
	}
}

func (s *Store) delete(word string) {
	s.words.Remove(word)
	s.userWords.Remove(word)
	s.deadWords.Remove(word)
	s.bundled.Remove(word)
	delete(s.history, word)
	s.idx.remove(word)
	s.gen++
}

// RemoveWords deletes each normalized word from every internal set.
func (s *Store) RemoveWords(words []string) RemoveResult {
	res := RemoveResult{Removed: []string{}, NotFound: []string{}}
	for _, w := range words {
		word := Normalize(w)
		if word == "" {
			continue
		}
		if !s.words.Contains(word) {
			res.NotFound = append(res.NotFound, word)
			continue
		}
		s.delete(word)
		res.Removed = append(res.Removed, word)
	}
	if len(res.Removed) > 0 {
		s.saveUserWords()
		s.RefreshDeadWords()
	}
	return res
}

// UpdateWord replaces oldWord with newWord, keeping the user-added flag of
// the replaced word. Nothing changes when oldWord is unknown, when newWord
// is already known or when a user word would be replaced by a malformed one.
func (s *Store) UpdateWord(oldWord, newWord string) UpdateResult {
	from, to := Normalize(oldWord), Normalize(newWord)
	res := UpdateResult{Old: from, New: to}
	if from == "" || !s.words.Contains(from) {
		res.NotFound = true
		return res
	}
	if to == "" {
		res.Rejected = true
		return res
	}
	wasUser := s.userWords.Contains(from)
	if wasUser && !s.lang.IsValidWord(to) {
		res.Rejected = true
		return res
	}
	if from == to {
		res.Updated = true
		return res
	}
	if s.words.Contains(to) {
		res.Duplicate = true
		return res
	}

	s.delete(from)
	s.insert(to)
	if wasUser {
		s.userWords.Add(to)
	} else {
		s.bundled.Add(to)
	}
	res.Updated = true

	s.saveUserWords()
	s.RefreshDeadWords()
	return res
}

// HasWord reports whether the normalized word is known.
func (s *Store) HasWord(word string) bool {
	word = Normalize(word)
	return word != "" && s.words.Contains(word)
}

// IsUserWord reports whether the normalized word was added by the user.
func (s *Store) IsUserWord(word string) bool {
	return s.userWords.Contains(Normalize(word))
}

// Clear empties every set and the usage history.
func (s *Store) Clear() {
	s.words.Clear()
	s.userWords.Clear()
	s.deadWords.Clear()
	s.bundled.Clear()
	clear(s.history)
	s.idx.reset()
	s.gen++
}

// AllWords returns a sorted snapshot of the known words.
func (s *Store) AllWords() []string {
	return sortedSlice(s.words)
}

// UserWords returns a sorted snapshot of the user words.
func (s *Store) UserWords() []string {
	return sortedSlice(s.userWords)
}

// DeadWords returns a sorted snapshot of the cached dead words.
func (s *Store) DeadWords() []string {
	return sortedSlice(s.deadWords)
}

// IsDeadCached reports membership in the cached dead-word set. The cache is
// stale for dictionaries above the dead-word threshold, see HasNextWords.
func (s *Store) IsDeadCached(word string) bool {
	return s.deadWords.Contains(Normalize(word))
}

func sortedSlice(set mapset.Set[string]) []string {
	out := set.ToSlice()
	slices.Sort(out)
	return out
}

// HasNextWords reports whether any other known word starts with the
// element word ends with. It stops at the first match.
func (s *Store) HasNextWords(word string) bool {
	word = Normalize(word)
	return s.idx.hasHead(s.lang.element(word, true), word)
}

// EachStartingWith calls fn for every known word whose first element is
// elem until fn returns false.
func (s *Store) EachStartingWith(elem string, fn func(word string) bool) {
	s.idx.visitHeads(elem, fn)
}

// EachEndingWith calls fn for every known word whose last element is elem
// until fn returns false.
func (s *Store) EachEndingWith(elem string, fn func(word string) bool) {
	s.idx.visitTails(elem, fn)
}

// RefreshDeadWords recomputes the dead-word cache. It returns false when
// the store is above the dead-word threshold and the cache was left alone.
func (s *Store) RefreshDeadWords() bool {
	if n := s.words.Cardinality(); n > s.deadWordThreshold {
		s.log.Infof("Skipping dead word update for large dictionary (%d words > %d)", n, s.deadWordThreshold)
		return false
	}
	s.deadWords.Clear()
	s.words.Each(func(word string) bool {
		if !s.idx.hasHead(s.lang.element(word, true), word) {
			s.deadWords.Add(word)
		}
		return false
	})
	return true
}

// RecordUsage bumps the usage counter of each word.
func (s *Store) RecordUsage(words ...string) {
	for _, w := range words {
		s.history[w]++
	}
}

// UsageEntry is one usage history row.
type UsageEntry struct {
	Word  string `json:"word" msgpack:"word"`
	Count int    `json:"count" msgpack:"count"`
}

// History returns usage counters, most used first.
func (s *Store) History() []UsageEntry {
	out := make([]UsageEntry, 0, len(s.history))
	for w, c := range s.history {
		out = append(out, UsageEntry{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// LoadUserWords restores the persisted user words of the store language.
// Entries that fail the language format are dropped.
func (s *Store) LoadUserWords(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	doc, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = make(UserWords)
	}
	s.saved = doc

	restored := 0
	for _, w := range doc[s.lang] {
		word := Normalize(w)
		if !s.lang.IsValidWord(word) {
			s.log.Debugf("Dropping malformed user word %q", w)
			continue
		}
		s.insert(word)
		s.userWords.Add(word)
		restored++
	}
	s.log.Debugf("Restored %d user words", restored)
	return nil
}

// SyncUserWords re-reads the persisted document after another process
// changed it. User words missing from it are removed, new valid ones are
// added and nothing is written back. A dropped word that is also in the
// bundled word list stays known and only loses its user flag.
func (s *Store) SyncUserWords(ctx context.Context) (added, removed int, err error) {
	if s.persister == nil {
		return 0, 0, nil
	}
	doc, err := s.persister.Load(ctx)
	if err != nil {
		return 0, 0, err
	}
	if doc == nil {
		doc = make(UserWords)
	}
	s.saved = doc

	incoming := mapset.NewThreadUnsafeSet[string]()
	for _, w := range doc[s.lang] {
		if word := Normalize(w); s.lang.IsValidWord(word) {
			incoming.Add(word)
		}
	}
	for _, word := range s.UserWords() {
		if incoming.Contains(word) {
			continue
		}
		if s.bundled.Contains(word) {
			s.userWords.Remove(word)
		} else {
			s.delete(word)
		}
		removed++
	}
	incoming.Each(func(word string) bool {
		if !s.userWords.Contains(word) {
			s.insert(word)
			s.userWords.Add(word)
			added++
		}
		return false
	})
	if added > 0 || removed > 0 {
		s.RefreshDeadWords()
		s.log.Debugf("Synced user words: %d added, %d removed", added, removed)
	}
	return added, removed, nil
}

// SaveUserWords persists the user words and reports failures to the caller.
// Lists of other languages loaded earlier are written back untouched.
func (s *Store) SaveUserWords(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	doc := maps.Clone(s.saved)
	if doc == nil {
		doc = make(UserWords)
	}
	doc[s.lang] = s.UserWords()
	if err := s.persister.Save(ctx, doc); err != nil {
		return err
	}
	s.saved = doc
	return nil
}

// saveUserWords is the implicit save after a mutation; failures are logged
// and the in-memory state stays authoritative.
func (s *Store) saveUserWords() {
	if s.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.SaveUserWords(ctx); err != nil {
		s.log.Errorf("Failed to save user words: %v", err)
	}
}
