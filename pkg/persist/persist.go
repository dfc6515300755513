// Package persist stores user-added words across sessions.
//
// Every backend keeps one word list per language. The JSON backend writes
// {"vietnamese": [...], "english": [...]} and still reads the older flat
// array format, offering it to every language.
package persist

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bastiangx/wordchain/pkg/dictionary"
)

// ErrUnsupportedBackend is returned by New for unknown backend names.
var ErrUnsupportedBackend = errors.New("unsupported storage backend")

// Backend names accepted by New.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store is a dictionary.Persister that may hold resources.
type Store interface {
	dictionary.Persister
	Close() error
}

// New opens the named backend at path. path is ignored by the memory backend.
func New(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendJSON, "":
		return NewJSONFileStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemoryStore(nil), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, backend)
}

// DefaultFileName returns the file name used for backend in the config dir.
func DefaultFileName(backend string) string {
	if strings.EqualFold(backend, BackendSQLite) {
		return "user-words.db"
	}
	return "user-words.json"
}

// canonical returns a copy with every list sorted and deduplicated.
func canonical(doc dictionary.UserWords) dictionary.UserWords {
	out := make(dictionary.UserWords, len(doc))
	for lang, words := range doc {
		list := slices.Clone(words)
		slices.Sort(list)
		out[lang] = slices.Compact(list)
	}
	return out
}
