package persist

import (
	"context"
	"sync"

	"github.com/bastiangx/wordchain/pkg/dictionary"
)

// MemoryStore keeps user words for the lifetime of the process.
type MemoryStore struct {
	mu  sync.Mutex
	doc dictionary.UserWords
}

// NewMemoryStore starts from a copy of initial, which may be nil.
func NewMemoryStore(initial dictionary.UserWords) *MemoryStore {
	return &MemoryStore{doc: canonical(initial)}
}

func (m *MemoryStore) Load(ctx context.Context) (dictionary.UserWords, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return canonical(m.doc), nil
}

func (m *MemoryStore) Save(ctx context.Context, doc dictionary.UserWords) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = canonical(doc)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
