package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/bastiangx/wordchain/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// JSONFileStore keeps user words in a JSON document on disk.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore returns a store backed by the file at path. The file is
// created on first save.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Path returns the backing file.
func (s *JSONFileStore) Path() string {
	return s.path
}

// Load reads the document. A missing file is an empty document.
func (s *JSONFileStore) Load(ctx context.Context) (dictionary.UserWords, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dictionary.UserWords{}, nil
		}
		return nil, fmt.Errorf("failed to read user words %s: %w", s.path, err)
	}
	doc, err := DecodeUserWords(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user words %s: %w", s.path, err)
	}
	return doc, nil
}

// Save writes the document atomically.
func (s *JSONFileStore) Save(ctx context.Context, doc dictionary.UserWords) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(canonical(doc), "", "  ")
	if err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write user words %s: %w", s.path, err)
	}
	log.Debugf("Saved user words to %s", s.path)
	return nil
}

// Close is a no-op.
func (s *JSONFileStore) Close() error {
	return nil
}

// DecodeUserWords parses either the per-language object or a legacy flat
// array. Legacy entries are offered to every language; the store drops
// those that do not fit the language format when loading. Unknown
// languages are skipped.
func DecodeUserWords(data []byte) (dictionary.UserWords, error) {
	doc := dictionary.UserWords{}
	if len(data) == 0 {
		return doc, nil
	}

	var legacy []string
	if err := json.Unmarshal(data, &legacy); err == nil {
		for _, lang := range dictionary.Languages() {
			doc[lang] = legacy
		}
		return doc, nil
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for tag, words := range raw {
		lang, err := dictionary.ParseLanguage(tag)
		if err != nil {
			log.Debugf("Skipping user words for %q: %v", tag, err)
			continue
		}
		doc[lang] = append(doc[lang], words...)
	}
	return doc, nil
}
