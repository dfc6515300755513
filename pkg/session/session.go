// Package session ties the active language Store and its Engine together
// and rebuilds both when the language changes.
package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bastiangx/wordchain/internal/logger"
	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/bastiangx/wordchain/pkg/chain"
	"github.com/bastiangx/wordchain/pkg/config"
	"github.com/bastiangx/wordchain/pkg/dictionary"
	"github.com/bastiangx/wordchain/pkg/persist"
	"github.com/charmbracelet/log"
)

// Session owns the Store and Engine of the active language.
type Session struct {
	cfg       *config.Config
	provider  dictionary.Provider
	persister dictionary.Persister
	rng       *rand.Rand
	log       *log.Logger

	store  *dictionary.Store
	engine *chain.Engine
}

// Options wire a Session. Nil fields get defaults: built-in config,
// embedded word lists, no persistence and a seed taken from the config.
type Options struct {
	Config    *config.Config
	Provider  dictionary.Provider
	Persister dictionary.Persister
	Rand      *rand.Rand
}

// New loads the configured language.
func New(ctx context.Context, opts Options) (*Session, error) {
	s := &Session{
		cfg:       opts.Config,
		provider:  opts.Provider,
		persister: opts.Persister,
		rng:       opts.Rand,
		log:       logger.New("session"),
	}
	if s.cfg == nil {
		s.cfg = config.DefaultConfig()
	}
	if s.provider == nil {
		s.provider = dictionary.EmbeddedProvider{}
	}
	if s.rng == nil {
		s.rng = newRand(s.cfg.Engine.Seed)
	}
	lang, err := dictionary.ParseLanguage(s.cfg.Dict.Language)
	if err != nil {
		return nil, err
	}
	if err := s.load(ctx, lang); err != nil {
		return nil, err
	}
	return s, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1))
}

func (s *Session) load(ctx context.Context, lang dictionary.Language) error {
	opts := []dictionary.Option{
		dictionary.WithRand(s.rng),
		dictionary.WithDeadWordThreshold(s.cfg.Engine.LargeDictThreshold),
		dictionary.WithBulkThreshold(s.cfg.Dict.BulkThreshold),
		dictionary.WithPersistTimeout(s.cfg.PersistTimeout()),
	}
	if s.persister != nil {
		opts = append(opts, dictionary.WithPersister(s.persister))
	}
	store := dictionary.NewStore(lang, opts...)
	start := time.Now()
	if err := store.Load(ctx, s.provider); err != nil {
		return fmt.Errorf("failed to load %s dictionary: %w", lang, err)
	}
	s.log.Debugf("Loaded %s dictionary: %s words in %v", lang, utils.FormatWithCommas(store.Len()), time.Since(start))

	s.store = store
	s.engine = chain.NewEngine(store, s.cfg.ChainConfig())
	return nil
}

// SetLanguage replaces the store and engine with fresh ones for tag. User
// words of every language stay in the persisted document. On error the
// current language stays active.
func (s *Session) SetLanguage(ctx context.Context, tag string) (dictionary.Language, error) {
	lang, err := dictionary.ParseLanguage(tag)
	if err != nil {
		return s.Language(), err
	}
	if lang == s.Language() {
		return lang, nil
	}
	if err := s.load(ctx, lang); err != nil {
		return s.Language(), err
	}
	s.log.Infof("Switched language to %s", lang)
	return lang, nil
}

// Language returns the active language.
func (s *Session) Language() dictionary.Language {
	return s.store.Language()
}

// Store returns the active store.
func (s *Session) Store() *dictionary.Store {
	return s.store
}

// Engine returns the active engine.
func (s *Session) Engine() *chain.Engine {
	return s.engine
}

// Config returns the session config.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Reload applies user word changes made by another process.
func (s *Session) Reload(ctx context.Context) error {
	added, removed, err := s.store.SyncUserWords(ctx)
	if err != nil {
		return err
	}
	if added > 0 || removed > 0 {
		s.log.Infof("Reloaded user words: %d added, %d removed", added, removed)
	}
	return nil
}

// Resources describe what Open wired.
type Resources struct {
	Store       persist.Store
	StoragePath string
	DataDir     string
}

// Open builds a Session from cfg: embedded lists plus <data_dir>/<lang>.txt
// and the configured user word backend. Callers close Resources.Store.
func Open(ctx context.Context, cfg *config.Config) (*Session, *Resources, error) {
	res := &Resources{StoragePath: cfg.Storage.Path}

	var provider dictionary.Provider = dictionary.EmbeddedProvider{}
	pr, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Could not resolve application paths: %v", err)
	} else {
		if res.DataDir = pr.GetDataDir(cfg.Dict.DataDir); res.DataDir != "" {
			provider = dictionary.MultiProvider{provider, dictionary.FileProvider{Dir: res.DataDir}}
		}
		if res.StoragePath == "" && cfg.Storage.Backend != persist.BackendMemory {
			res.StoragePath = pr.GetConfigPath(persist.DefaultFileName(cfg.Storage.Backend))
		}
	}

	if res.StoragePath == "" && cfg.Storage.Backend != persist.BackendMemory {
		res.StoragePath = persist.DefaultFileName(cfg.Storage.Backend)
	}

	store, err := persist.New(cfg.Storage.Backend, res.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	res.Store = store

	sess, err := New(ctx, Options{Config: cfg, Provider: provider, Persister: store})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return sess, res, nil
}
