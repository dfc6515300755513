package chain

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/bastiangx/wordchain/internal/logger"
	"github.com/bastiangx/wordchain/pkg/dictionary"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t testing.TB, lang dictionary.Language, cfg Config, words ...string) *Engine {
	t.Helper()
	store := dictionary.NewStore(lang,
		dictionary.WithLogger(logger.Discard()),
		dictionary.WithRand(rand.New(rand.NewPCG(7, 7))),
	)
	store.AddWords(words, false)
	return NewEngine(store, cfg)
}

func words(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Word
	}
	return out
}

func TestCanChain(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{}, "cat", "tiger", "rabbit")

	assert.True(t, e.CanChain("cat", "tiger"))
	assert.False(t, e.CanChain("cat", "rabbit"))
	assert.True(t, e.CanChain(" CAT ", "Tiger"))
	assert.False(t, e.CanChain("cat", "cat"))
	assert.True(t, e.CanChain("tot", "tot"))
	assert.False(t, e.CanChain("", "tiger"))
	assert.False(t, e.CanChain("cat", ""))
}

func TestCanChainVietnamese(t *testing.T) {
	e := newEngine(t, dictionary.Vietnamese, Config{})

	assert.True(t, e.CanChain("bánh mì", "mì quảng"))
	assert.False(t, e.CanChain("bánh mì", "quảng nam"))
	assert.False(t, dictionary.Vietnamese.IsValidWord("bánh mì quảng"))
}

func TestValidateChain(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{}, "cat", "tiger", "rabbit")

	assert.True(t, e.ValidateChain(nil))
	assert.True(t, e.ValidateChain([]string{"anything"}))
	assert.True(t, e.ValidateChain([]string{"cat", "tiger", "rabbit"}))
	assert.False(t, e.ValidateChain([]string{"cat", "rabbit", "tiger"}))
	// connectivity only, membership is not required.
	assert.True(t, e.ValidateChain([]string{"cat", "toad"}))
	assert.False(t, e.ValidateChainStrict([]string{"cat", "toad"}))
	assert.True(t, e.ValidateChainStrict([]string{"cat", "tiger", "rabbit"}))
}

func TestFindNextWords(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{}, "cat", "tiger")

	got := e.FindNextWords("cat", Options{})

	assert.Equal(t, []Result{{Word: "tiger", IsDead: true}}, got)
	assert.Equal(t, []dictionary.UsageEntry{{Word: "tiger", Count: 1}}, e.Store().History())
}

func TestFindNextWordsOrder(t *testing.T) {
	// tea and tin are dead, toy and tar continue.
	e := newEngine(t, dictionary.English, Config{}, "cat", "tea", "toy", "tin", "tar", "yak", "rat")

	deadFirst := e.FindNextWords("cat", Options{Order: OrderDeadFirst})
	liveFirst := e.FindNextWords("cat", Options{Order: OrderLiveFirst})

	assert.Equal(t, []string{"tea", "tin", "tar", "toy"}, words(deadFirst))
	assert.Equal(t, []string{"tar", "toy", "tea", "tin"}, words(liveFirst))
	assert.Equal(t, words(deadFirst), words(e.FindNextWords("cat", Options{})))
	assert.Len(t, e.FindNextWords("cat", Options{Limit: 2}), 2)
}

func TestFindNextWordsExcludesSelf(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{}, "tot", "tip")

	assert.Equal(t, []string{"tip"}, words(e.FindNextWords("tot", Options{})))
	assert.Empty(t, e.FindNextWords("tip", Options{}))
}

func TestFindPreviousWords(t *testing.T) {
	e := newEngine(t, dictionary.Vietnamese, Config{}, "bánh mì", "mì quảng", "sợi mì", "quảng nam")

	got := e.FindPreviousWords("mì quảng", Options{})

	assert.Equal(t, []string{"bánh mì", "sợi mì"}, got)
	assert.Empty(t, e.Store().History())
	assert.Empty(t, e.FindPreviousWords("bánh mì", Options{}))
}

func TestDeadWordsMatchNextWords(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{},
		"cat", "tiger", "rabbit", "dog", "tot", "goat", "apple", "eagle", "yak")

	for _, w := range e.Store().AllWords() {
		next := e.FindNextWords(w, Options{Limit: -1})
		assert.Equal(t, len(next) == 0, e.Store().IsDeadCached(w), w)
		assert.Equal(t, len(next) == 0, e.IsDead(w), w)
	}
}

func TestPaginationCoversAllMatches(t *testing.T) {
	var list []string
	for _, c := range "abcdefghij" {
		list = append(list, "t"+string(c)+"x", "t"+string(c)+"n")
	}
	list = append(list, "cat", "nap")
	e := newEngine(t, dictionary.English, Config{}, list...)

	all := mapset.NewSet(words(e.FindNextWords("cat", Options{Limit: -1}))...)
	require.Equal(t, 20, all.Cardinality())

	seen := mapset.NewSet[string]()
	var shown []string
	for range 20 {
		page := e.FindNextWordsPaginated("cat", Options{Limit: 3}, shown)
		for _, r := range page.Words {
			assert.False(t, seen.Contains(r.Word), "page repeated %s", r.Word)
			seen.Add(r.Word)
			shown = append(shown, r.Word)
		}
		if !page.HasMore {
			break
		}
	}
	assert.True(t, all.Equal(seen))
}

func TestPaginationHasMore(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{}, "cat", "tea", "tin", "toy")

	page := e.FindNextWordsPaginated("cat", Options{Limit: 2}, nil)
	assert.Len(t, page.Words, 2)
	assert.True(t, page.HasMore)

	// exclusions that are not matches do not count toward hasMore.
	page = e.FindNextWordsPaginated("cat", Options{Limit: 2}, []string{"zebra", "tea"})
	assert.Equal(t, []string{"tin", "toy"}, words(page.Words))
	assert.False(t, page.HasMore)

	prev := e.FindPreviousWordsPaginated("tea", Options{Limit: 1}, nil)
	assert.Equal(t, Page[string]{Words: []string{"cat"}, HasMore: false}, prev)
}

func TestRandomSamplingIsSeeded(t *testing.T) {
	var list []string
	for i := range 30 {
		list = append(list, fmt.Sprintf("t%cz", 'a'+rune(i%26)))
	}
	list = append(list, "cat")

	a := newEngine(t, dictionary.English, Config{}, list...)
	b := newEngine(t, dictionary.English, Config{}, list...)

	ra := words(a.FindNextWords("cat", Options{Random: true, Limit: -1}))
	rb := words(b.FindNextWords("cat", Options{Random: true, Limit: -1}))
	sorted := words(a.FindNextWords("cat", Options{Limit: -1}))

	assert.Equal(t, ra, rb)
	assert.ElementsMatch(t, sorted, ra)
}

func TestSamplingTruncatesBeforeClassifying(t *testing.T) {
	var list []string
	for i := range 30 {
		list = append(list, fmt.Sprintf("t%cz", 'a'+rune(i%26)))
	}
	list = append(list, "cat", "zoo")

	a := newEngine(t, dictionary.English, Config{}, list...)
	b := newEngine(t, dictionary.English, Config{}, list...)

	full := a.arrange(a.nextCandidates("cat"), Options{Random: true, Limit: -1})
	capped := b.arrange(b.nextCandidates("cat"), Options{Random: true, Limit: 3})

	require.Len(t, capped, 3)
	assert.Equal(t, full[:3], capped)
	for _, r := range capped {
		assert.Equal(t, b.IsDead(r.Word), r.IsDead, r.Word)
	}
}

func TestSamplingAboveThreshold(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{SampleThreshold: 2}, "cat", "tea", "tin", "toy")
	assert.True(t, e.sampling(Options{}))

	v := newEngine(t, dictionary.Vietnamese, Config{SampleThreshold: 1}, "bánh mì", "mì quảng")
	assert.False(t, v.sampling(Options{}))
}

func TestRankMoves(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{}, "cat", "tiger", "top", "pig", "pen", "rat")

	moves := e.RankMoves("cat", 0)

	assert.Equal(t, []Move{{Word: "top", Continuations: 2}, {Word: "tiger", Continuations: 1}}, moves)

	e.RankMoves("cat", 0)
	assert.Equal(t, 2, e.MoveCacheStats()["moveCacheHits"])

	e.Store().AddWords([]string{"ram"}, true)
	moves = e.RankMoves("cat", 1)
	// ties keep alphabetical order.
	assert.Equal(t, []Move{{Word: "tiger", Continuations: 2}}, moves)
	assert.Equal(t, 2, e.moves.counts["tiger"])
}

func TestMoveCacheEvicts(t *testing.T) {
	mc := newMoveCache(2)
	mc.put("a", 1, 0)
	mc.put("b", 2, 0)
	mc.get("a", 0)
	mc.put("c", 3, 0)

	_, ok := mc.get("b", 0)
	assert.False(t, ok)
	n, ok := mc.get("a", 0)
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = mc.get("a", 1)
	assert.False(t, ok, "generation change drops entries")
}
