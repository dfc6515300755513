package chain

import (
	"slices"
	"sort"

	"github.com/bastiangx/wordchain/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// candidateScan caps how many sorted candidates a single expansion
// classifies before choosing its branches.
const candidateScan = 256

// DeadEndChain is a chain that finishes on a dead word.
type DeadEndChain struct {
	Chain        []string `json:"chain" msgpack:"chain"`
	Length       int      `json:"length" msgpack:"length"`
	IsGameEnding bool     `json:"isGameEnding" msgpack:"isGameEnding"`
}

// ExampleChain is a chain visited by GenerateWordChains.
type ExampleChain struct {
	Chain       []string `json:"chain" msgpack:"chain"`
	Length      int      `json:"length" msgpack:"length"`
	CanContinue bool     `json:"canContinue" msgpack:"canContinue"`
}

type branch struct {
	word string
	dead bool
}

// branches picks up to n successors of path's last word that are not
// already in path, dead words first, alphabetical within each group.
func (e *Engine) branches(path []string, n int) []branch {
	var dead, live []branch
	scanned := 0
	for _, w := range e.nextCandidates(path[len(path)-1]) {
		if slices.Contains(path, w) {
			continue
		}
		if scanned >= candidateScan || len(dead) >= n {
			break
		}
		scanned++
		if e.IsDead(w) {
			dead = append(dead, branch{word: w, dead: true})
		} else {
			live = append(live, branch{word: w})
		}
	}
	out := append(dead, live...)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (e *Engine) clampChains(n int) int {
	if n <= 0 || n > e.cfg.MaxChains {
		return e.cfg.MaxChains
	}
	return n
}

func (e *Engine) clampLength(n int) int {
	if n <= 0 {
		return e.cfg.MaxChainLength
	}
	return max(n, 2)
}

func extend(path []string, word string) []string {
	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = word
	return next
}

// FindChainsToDeadWords explores outward from start breadth first and
// returns up to maxChains chains of at most maxLength words ending on a dead
// word, shortest first. Each expansion follows only the first few
// successors and the number of expansions is bounded, so the search is
// fast but not exhaustive.
func (e *Engine) FindChainsToDeadWords(start string, maxChains, maxLength int) []DeadEndChain {
	out := []DeadEndChain{}
	start = dictionary.Normalize(start)
	if start == "" {
		return out
	}
	maxChains, maxLength = e.clampChains(maxChains), e.clampLength(maxLength)

	queue := [][]string{{start}}
	processed := 0
	for len(queue) > 0 && processed < e.cfg.Budget && len(out) < maxChains {
		path := queue[0]
		queue = queue[1:]
		processed++
		if len(path) >= maxLength {
			continue
		}
		for _, b := range e.branches(path, e.cfg.Branching) {
			next := extend(path, b.word)
			if b.dead {
				out = append(out, DeadEndChain{Chain: next, Length: len(next), IsGameEnding: true})
				if len(out) >= maxChains {
					break
				}
				continue
			}
			queue = append(queue, next)
		}
	}
	log.Debugf("Dead end search from %q: %d chains after %d expansions", start, len(out), processed)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Length < out[j].Length
	})
	return out
}

// GenerateWordChains runs the same bounded exploration as
// FindChainsToDeadWords but records every chain of two or more words it
// visits, noting whether the chain could be extended further.
func (e *Engine) GenerateWordChains(start string, maxChains, maxLength int) []ExampleChain {
	out := []ExampleChain{}
	start = dictionary.Normalize(start)
	if start == "" {
		return out
	}
	maxChains, maxLength = e.clampChains(maxChains), e.clampLength(maxLength)

	queue := [][]string{{start}}
	processed := 0
	for len(queue) > 0 && processed < e.cfg.Budget && len(out) < maxChains {
		path := queue[0]
		queue = queue[1:]
		processed++
		if len(path) >= maxLength {
			continue
		}
		for _, b := range e.branches(path, e.cfg.Branching) {
			next := extend(path, b.word)
			canContinue := !b.dead && len(e.branches(next, 1)) > 0
			out = append(out, ExampleChain{Chain: next, Length: len(next), CanContinue: canContinue})
			if len(out) >= maxChains {
				break
			}
			if canContinue {
				queue = append(queue, next)
			}
		}
	}
	return out
}

// LongestChain searches depth first for the longest chain from start that
// never repeats a word, up to maxLength words. The search stops once the
// expansion budget is spent and returns the best chain found so far.
func (e *Engine) LongestChain(start string, maxLength int) []string {
	start = dictionary.Normalize(start)
	if start == "" {
		return []string{}
	}
	maxLength = e.clampLength(maxLength)

	best := []string{start}
	processed := 0
	var walk func(path []string)
	walk = func(path []string) {
		if len(path) > len(best) {
			best = slices.Clone(path)
		}
		if len(path) >= maxLength || len(best) >= maxLength {
			return
		}
		for _, w := range e.nextCandidates(path[len(path)-1]) {
			if processed >= e.cfg.Budget {
				return
			}
			if slices.Contains(path, w) {
				continue
			}
			processed++
			walk(append(path, w))
		}
	}
	path := make([]string, 1, maxLength)
	path[0] = start
	walk(path)
	return best
}
