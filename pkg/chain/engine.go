// Package chain answers connectivity and search queries over a dictionary Store.
package chain

import (
	"slices"
	"sort"

	"github.com/bastiangx/wordchain/pkg/dictionary"
	mapset "github.com/deckarep/golang-set/v2"
)

// Config bounds the engine searches.
type Config struct {
	MaxResults      int
	LiveFirst       bool
	SampleThreshold int
	Branching       int
	Budget          int
	MaxChains       int
	MaxChainLength  int
	MoveCacheSize   int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxResults:      50,
		SampleThreshold: 10000,
		Branching:       3,
		Budget:          1500,
		MaxChains:       5,
		MaxChainLength:  8,
		MoveCacheSize:   2000,
	}
}

// Order selects how next-word results are grouped.
type Order int

const (
	// OrderDefault uses the engine LiveFirst setting, dead words first unless set.
	OrderDefault Order = iota
	OrderDeadFirst
	OrderLiveFirst
)

// Options tune a single next/previous lookup.
type Options struct {
	// Limit caps the result count. Zero uses Config.MaxResults, negative means no cap.
	Limit  int
	Order  Order
	Random bool
}

// Result is one next-word candidate.
type Result struct {
	Word   string `json:"word" msgpack:"word"`
	IsDead bool   `json:"isDead" msgpack:"isDead"`
}

// Page is one page of a paginated lookup.
type Page[T any] struct {
	Words   []T  `json:"words" msgpack:"words"`
	HasMore bool `json:"hasMore" msgpack:"hasMore"`
}

// Engine is the query layer over a Store. Apart from usage counters it
// never mutates the store.
type Engine struct {
	store *dictionary.Store
	cfg   Config
	moves *moveCache
}

// NewEngine wraps store. Zero fields of cfg fall back to DefaultConfig.
func NewEngine(store *dictionary.Store, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}
	if cfg.SampleThreshold <= 0 {
		cfg.SampleThreshold = def.SampleThreshold
	}
	if cfg.Branching <= 0 {
		cfg.Branching = def.Branching
	}
	if cfg.Budget <= 0 {
		cfg.Budget = def.Budget
	}
	if cfg.MaxChains <= 0 {
		cfg.MaxChains = def.MaxChains
	}
	if cfg.MaxChainLength < 2 {
		cfg.MaxChainLength = def.MaxChainLength
	}
	if cfg.MoveCacheSize <= 0 {
		cfg.MoveCacheSize = def.MoveCacheSize
	}
	return &Engine{
		store: store,
		cfg:   cfg,
		moves: newMoveCache(cfg.MoveCacheSize),
	}
}

// Store returns the wrapped store.
func (e *Engine) Store() *dictionary.Store {
	return e.store
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// CanChain reports whether word2 may follow word1: the element word1 ends
// with equals the non-empty element word2 starts with.
func (e *Engine) CanChain(word1, word2 string) bool {
	lang := e.store.Language()
	last := lang.LastElement(word1)
	return last != "" && last == lang.FirstElement(word2)
}

// ValidateChain reports whether every consecutive pair chains. Dictionary
// membership is not checked. Empty and single word sequences are valid.
func (e *Engine) ValidateChain(words []string) bool {
	for i := 1; i < len(words); i++ {
		if !e.CanChain(words[i-1], words[i]) {
			return false
		}
	}
	return true
}

// ValidateChainStrict is ValidateChain that also requires every word to be known.
func (e *Engine) ValidateChainStrict(words []string) bool {
	for _, w := range words {
		if !e.store.HasWord(w) {
			return false
		}
	}
	return e.ValidateChain(words)
}

// HasNextWords reports whether anything other than word can follow it.
func (e *Engine) HasNextWords(word string) bool {
	return e.store.HasNextWords(word)
}

// UpdateDeadWords recomputes the store dead-word cache.
func (e *Engine) UpdateDeadWords() bool {
	return e.store.RefreshDeadWords()
}

// IsDead reports whether nothing can follow word. It reads the index, not
// the dead-word cache, so it stays exact above the recompute threshold.
func (e *Engine) IsDead(word string) bool {
	return !e.store.HasNextWords(word)
}

func (e *Engine) limit(n int) int {
	switch {
	case n == 0:
		return e.cfg.MaxResults
	case n < 0:
		return -1
	}
	return n
}

func (e *Engine) sampling(opts Options) bool {
	return opts.Random ||
		(e.store.Language() == dictionary.English && e.store.Len() > e.cfg.SampleThreshold)
}

func (e *Engine) deadFirst(o Order) bool {
	switch o {
	case OrderDeadFirst:
		return true
	case OrderLiveFirst:
		return false
	}
	return !e.cfg.LiveFirst
}

// nextCandidates lists words starting with the element word ends with,
// excluding word, sorted.
func (e *Engine) nextCandidates(word string) []string {
	word = dictionary.Normalize(word)
	elem := e.store.Language().LastElement(word)
	var out []string
	e.store.EachStartingWith(elem, func(w string) bool {
		if w != word {
			out = append(out, w)
		}
		return true
	})
	slices.Sort(out)
	return out
}

// prevCandidates lists words ending with the element word starts with,
// excluding word, sorted.
func (e *Engine) prevCandidates(word string) []string {
	word = dictionary.Normalize(word)
	elem := e.store.Language().FirstElement(word)
	var out []string
	e.store.EachEndingWith(elem, func(w string) bool {
		if w != word {
			out = append(out, w)
		}
		return true
	})
	slices.Sort(out)
	return out
}

func (e *Engine) shuffle(words []string) {
	e.store.Rand().Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}

// arrange orders sorted candidates for output and caps them at the result
// limit. Sampling shuffles, truncates and only then classifies what is kept.
// Otherwise results are grouped by dead/live and stay alphabetical within
// each group.
func (e *Engine) arrange(candidates []string, opts Options) []Result {
	limit := e.limit(opts.Limit)
	if e.sampling(opts) {
		e.shuffle(candidates)
		kept := truncate(candidates, limit)
		out := make([]Result, len(kept))
		for i, w := range kept {
			out[i] = Result{Word: w, IsDead: e.IsDead(w)}
		}
		return out
	}
	dead, live := []Result{}, []Result{}
	for _, w := range candidates {
		if e.IsDead(w) {
			dead = append(dead, Result{Word: w, IsDead: true})
		} else {
			live = append(live, Result{Word: w})
		}
	}
	if e.deadFirst(opts.Order) {
		return truncate(append(dead, live...), limit)
	}
	return truncate(append(live, dead...), limit)
}

func truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func (e *Engine) recordUsage(results []Result) {
	for _, r := range results {
		e.store.RecordUsage(r.Word)
	}
}

// FindNextWords returns the words that may follow word, classified as dead
// or live. Every returned word has its usage counter bumped.
func (e *Engine) FindNextWords(word string, opts Options) []Result {
	results := e.arrange(e.nextCandidates(word), opts)
	e.recordUsage(results)
	return results
}

// FindPreviousWords returns the words word may follow.
func (e *Engine) FindPreviousWords(word string, opts Options) []string {
	candidates := e.prevCandidates(word)
	if e.sampling(opts) {
		e.shuffle(candidates)
	}
	if candidates == nil {
		candidates = []string{}
	}
	return truncate(candidates, e.limit(opts.Limit))
}

// exclusions normalizes the already shown words and counts how many of
// them are real matches.
func exclusions(candidates, exclude []string) (mapset.Set[string], int) {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, w := range exclude {
		if w = dictionary.Normalize(w); w != "" {
			set.Add(w)
		}
	}
	matched := 0
	for _, w := range candidates {
		if set.Contains(w) {
			matched++
		}
	}
	return set, matched
}

func without(candidates []string, set mapset.Set[string]) []string {
	out := make([]string, 0, len(candidates))
	for _, w := range candidates {
		if !set.Contains(w) {
			out = append(out, w)
		}
	}
	return out
}

// FindNextWordsPaginated returns the next page of words that may follow
// word, skipping those in exclude. HasMore is set while matches remain
// beyond the excluded ones and this page.
func (e *Engine) FindNextWordsPaginated(word string, opts Options, exclude []string) Page[Result] {
	candidates := e.nextCandidates(word)
	set, excluded := exclusions(candidates, exclude)
	page := e.arrange(without(candidates, set), opts)
	e.recordUsage(page)
	return Page[Result]{
		Words:   page,
		HasMore: len(candidates) > excluded+len(page),
	}
}

// FindPreviousWordsPaginated is the paginated form of FindPreviousWords.
func (e *Engine) FindPreviousWordsPaginated(word string, opts Options, exclude []string) Page[string] {
	candidates := e.prevCandidates(word)
	set, excluded := exclusions(candidates, exclude)
	remaining := without(candidates, set)
	if e.sampling(opts) {
		e.shuffle(remaining)
	}
	page := truncate(remaining, e.limit(opts.Limit))
	return Page[string]{
		Words:   page,
		HasMore: len(candidates) > excluded+len(page),
	}
}

// Move is a next word scored by how many words can follow it in turn.
type Move struct {
	Word          string `json:"word" msgpack:"word"`
	Continuations int    `json:"continuations" msgpack:"continuations"`
}

// RankMoves scores every word that may follow word by its number of
// continuations, most options first. A dead move scores zero.
func (e *Engine) RankMoves(word string, limit int) []Move {
	gen := e.store.Generation()
	candidates := e.nextCandidates(word)
	moves := make([]Move, 0, len(candidates))
	for _, w := range candidates {
		n, ok := e.moves.get(w, gen)
		if !ok {
			n = len(e.nextCandidates(w))
			e.moves.put(w, n, gen)
		}
		moves = append(moves, Move{Word: w, Continuations: n})
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Continuations > moves[j].Continuations
	})
	return truncate(moves, e.limit(limit))
}

// MoveCacheStats reports the continuation cache counters.
func (e *Engine) MoveCacheStats() map[string]int {
	return e.moves.Stats()
}
