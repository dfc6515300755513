package dictionary

import (
	"bufio"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Provider supplies the built-in word list of a language.
type Provider interface {
	Words(ctx context.Context, lang Language) ([]string, error)
}

//go:embed data/*.txt
var embedded embed.FS

// EmbeddedProvider serves the word lists compiled into the binary.
type EmbeddedProvider struct{}

// Words reads data/<lang>.txt from the embedded lists.
func (EmbeddedProvider) Words(_ context.Context, lang Language) ([]string, error) {
	f, err := embedded.Open("data/" + string(lang) + ".txt")
	if err != nil {
		return nil, fmt.Errorf("no embedded word list for %s: %w", lang, err)
	}
	defer f.Close()
	return ReadWordList(f)
}

// FileProvider reads <dir>/<lang>.txt plain text word lists.
// A missing file yields an empty list rather than an error.
type FileProvider struct {
	Dir string
}

// Words reads the word list of lang from Dir.
func (p FileProvider) Words(_ context.Context, lang Language) ([]string, error) {
	path := filepath.Join(p.Dir, string(lang)+".txt")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("No word list at %s", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer f.Close()
	words, err := ReadWordList(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	log.Debugf("Read %d words from %s", len(words), path)
	return words, nil
}

// StaticProvider serves fixed in-memory lists.
type StaticProvider map[Language][]string

// Words returns a copy of the list for lang.
func (p StaticProvider) Words(_ context.Context, lang Language) ([]string, error) {
	return append([]string(nil), p[lang]...), nil
}

// MultiProvider concatenates the lists of several providers in order.
type MultiProvider []Provider

// Words collects the lists of every provider, failing on the first error.
func (m MultiProvider) Words(ctx context.Context, lang Language) ([]string, error) {
	var out []string
	for _, p := range m {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		words, err := p.Words(ctx, lang)
		if err != nil {
			return nil, err
		}
		out = append(out, words...)
	}
	return out, nil
}

// ReadWordList parses one word per line. Blank lines and lines starting
// with '#' are skipped.
func ReadWordList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
