package persist

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/bastiangx/wordchain/pkg/dictionary"
	"github.com/charmbracelet/log"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS user_words (
	language TEXT NOT NULL,
	word     TEXT NOT NULL,
	PRIMARY KEY (language, word)
)`

// SQLiteStore keeps user words in a SQLite table, one row per word.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create user_words table: %w", err)
	}
	log.Debugf("Opened sqlite user word store at %s", path)
	return &SQLiteStore{db: db, path: path}, nil
}

// Load reads every row. Rows for unknown languages are skipped.
func (s *SQLiteStore) Load(ctx context.Context) (dictionary.UserWords, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT language, word FROM user_words ORDER BY language, word`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doc := dictionary.UserWords{}
	for rows.Next() {
		var tag, word string
		if err := rows.Scan(&tag, &word); err != nil {
			return nil, err
		}
		lang, err := dictionary.ParseLanguage(tag)
		if err != nil {
			log.Debugf("Skipping user word %q: %v", word, err)
			continue
		}
		doc[lang] = append(doc[lang], word)
	}
	return doc, rows.Err()
}

// Save replaces the stored rows of every language present in doc inside
// one transaction.
func (s *SQLiteStore) Save(ctx context.Context, doc dictionary.UserWords) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO user_words (language, word) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for lang, words := range canonical(doc) {
		if _, err = tx.ExecContext(ctx, `DELETE FROM user_words WHERE language = ?`, string(lang)); err != nil {
			return err
		}
		for _, w := range words {
			if _, err = stmt.ExecContext(ctx, string(lang), w); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
