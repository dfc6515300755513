package chain

import (
	"testing"

	"github.com/bastiangx/wordchain/pkg/dictionary"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// cat -> tiger|top, tiger -> rabbit, rabbit -> tiger|top, top -> pig, pig is dead.
var graph = []string{"cat", "tiger", "rabbit", "top", "pig"}

func TestFindChainsToDeadWords(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{}, graph...)

	got := e.FindChainsToDeadWords("cat", 0, 0)

	want := []DeadEndChain{
		{Chain: []string{"cat", "top", "pig"}, Length: 3, IsGameEnding: true},
		{Chain: []string{"cat", "tiger", "rabbit", "top", "pig"}, Length: 5, IsGameEnding: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindChainsToDeadWords mismatch (-want +got):\n%s", diff)
	}
}

func TestFindChainsToDeadWordsBounds(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{}, graph...)

	short := e.FindChainsToDeadWords("cat", 5, 4)
	assert.Len(t, short, 1)

	one := e.FindChainsToDeadWords("cat", 1, 0)
	assert.Equal(t, []string{"cat", "top", "pig"}, one[0].Chain)

	// requests above the configured maximum are clamped.
	many := newEngine(t, dictionary.English, Config{MaxChains: 1}, graph...).FindChainsToDeadWords("cat", 50, 0)
	assert.Len(t, many, 1)

	assert.Empty(t, e.FindChainsToDeadWords("pig", 0, 0))
	assert.Empty(t, e.FindChainsToDeadWords("  ", 0, 0))
}

func TestFindChainsToDeadWordsProperties(t *testing.T) {
	e := newEngine(t, dictionary.Vietnamese, Config{},
		"bánh mì", "mì quảng", "quảng nam", "nam định", "mì tôm", "tôm hùm",
		"nam bộ", "bộ đội", "đội hình", "quảng trường")

	chains := e.FindChainsToDeadWords("bánh mì", 5, 6)

	assert.NotEmpty(t, chains)
	prev := 0
	for _, c := range chains {
		assert.GreaterOrEqual(t, c.Length, 2)
		assert.LessOrEqual(t, c.Length, 6)
		assert.GreaterOrEqual(t, c.Length, prev, "shortest first")
		prev = c.Length
		assert.True(t, e.ValidateChain(c.Chain))
		assert.True(t, e.IsDead(c.Chain[len(c.Chain)-1]))
		assert.Equal(t, len(c.Chain), mapset.NewSet(c.Chain...).Cardinality(), "no repeated words")
	}
}

func TestFindChainsRespectsBudget(t *testing.T) {
	// a dense English store where every word can continue.
	var list []string
	for _, a := range "abcde" {
		for _, b := range "abcde" {
			list = append(list, string(a)+"x"+string(b))
		}
	}
	e := newEngine(t, dictionary.English, Config{Budget: 5}, list...)

	assert.Empty(t, e.FindChainsToDeadWords("axa", 5, 20))
}

func TestGenerateWordChains(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{}, graph...)

	got := e.GenerateWordChains("cat", 5, 0)

	want := []ExampleChain{
		{Chain: []string{"cat", "tiger"}, Length: 2, CanContinue: true},
		{Chain: []string{"cat", "top"}, Length: 2, CanContinue: true},
		{Chain: []string{"cat", "tiger", "rabbit"}, Length: 3, CanContinue: true},
		{Chain: []string{"cat", "top", "pig"}, Length: 3, CanContinue: false},
		{Chain: []string{"cat", "tiger", "rabbit", "top"}, Length: 4, CanContinue: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GenerateWordChains mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, e.GenerateWordChains("cat", 2, 0), 2)
}

func TestLongestChain(t *testing.T) {
	e := newEngine(t, dictionary.English, Config{}, graph...)

	assert.Equal(t, []string{"cat", "tiger", "rabbit", "top", "pig"}, e.LongestChain("cat", 0))
	assert.Equal(t, []string{"cat", "tiger", "rabbit"}, e.LongestChain("cat", 3))
	assert.Equal(t, []string{"pig"}, e.LongestChain("pig", 0))
	assert.Empty(t, e.LongestChain("", 0))
}
