package session

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordchain/pkg/config"
	"github.com/bastiangx/wordchain/pkg/dictionary"
	"github.com/bastiangx/wordchain/pkg/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lists = dictionary.StaticProvider{
	dictionary.Vietnamese: {"bánh mì", "mì quảng", "quảng nam"},
	dictionary.English:    {"cat", "tiger", "rabbit"},
}

func newSession(t *testing.T, p dictionary.Persister) *Session {
	t.Helper()
	s, err := New(context.Background(), Options{
		Provider:  lists,
		Persister: p,
		Rand:      rand.New(rand.NewPCG(1, 1)),
	})
	require.NoError(t, err)
	return s
}

func TestNewUsesConfiguredLanguage(t *testing.T) {
	s := newSession(t, nil)

	assert.Equal(t, dictionary.Vietnamese, s.Language())
	assert.True(t, s.Engine().CanChain("bánh mì", "mì quảng"))
	assert.Equal(t, 3, s.Store().Len())
}

func TestSetLanguageKeepsUserWordsPerLanguage(t *testing.T) {
	p := persist.NewMemoryStore(nil)
	s := newSession(t, p)
	ctx := context.Background()

	s.Store().AddWords([]string{"xe hơi"}, true)

	lang, err := s.SetLanguage(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, dictionary.English, lang)
	assert.False(t, s.Store().HasWord("xe hơi"))
	assert.True(t, s.Engine().CanChain("cat", "tiger"))

	s.Store().AddWords([]string{"apple"}, true)

	_, err = s.SetLanguage(ctx, "vietnamese")
	require.NoError(t, err)
	assert.Equal(t, []string{"xe hơi"}, s.Store().UserWords())

	doc, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, doc[dictionary.English])
	assert.Equal(t, []string{"xe hơi"}, doc[dictionary.Vietnamese])
}

func TestSetLanguageRejectsUnknown(t *testing.T) {
	s := newSession(t, nil)
	before := s.Store()

	lang, err := s.SetLanguage(context.Background(), "klingon")

	assert.ErrorIs(t, err, dictionary.ErrUnknownLanguage)
	assert.Equal(t, dictionary.Vietnamese, lang)
	assert.Same(t, before, s.Store())
}

func TestNewRejectsUnknownLanguage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dict.Language = "latin"

	_, err := New(context.Background(), Options{Config: cfg, Provider: lists})

	assert.ErrorIs(t, err, dictionary.ErrUnknownLanguage)
}

func TestReloadAppliesExternalChanges(t *testing.T) {
	p := persist.NewMemoryStore(nil)
	s := newSession(t, p)
	ctx := context.Background()

	require.NoError(t, p.Save(ctx, dictionary.UserWords{dictionary.Vietnamese: {"nam định"}}))
	require.NoError(t, s.Reload(ctx))

	assert.True(t, s.Store().IsUserWord("nam định"))
	assert.True(t, s.Engine().CanChain("quảng nam", "nam định"))
	assert.False(t, s.Store().IsDeadCached("quảng nam"))
}

func TestOpenWithFileBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Dict.Language = "english"
	cfg.Storage.Path = filepath.Join(dir, "words.json")

	s, res, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer res.Store.Close()

	s.Store().AddWords([]string{"kiwi"}, true)
	assert.FileExists(t, cfg.Storage.Path)
	assert.Greater(t, s.Store().Len(), 1)
}
