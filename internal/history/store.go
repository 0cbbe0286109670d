// Package history persists translation records in a local SQLite database
// and serves the browsing, favoriting and tagging surface built on them.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/thisisbailin/spur/internal/catalog"
)

// maxRecentRecords caps the recent-history view.
const maxRecentRecords = 100

const migrationSQL = `
CREATE TABLE IF NOT EXISTS translation_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	original_text TEXT NOT NULL,
	translated_text TEXT NOT NULL,
	source_language TEXT NOT NULL,
	target_language TEXT NOT NULL,
	provider_id TEXT NOT NULL,
	timestamp DATETIME NOT NULL,
	is_favorite INTEGER NOT NULL DEFAULT 0,
	tags TEXT NOT NULL DEFAULT '[]',
	theme TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_translation_records_timestamp
	ON translation_records(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_translation_records_favorite
	ON translation_records(is_favorite);
`

// Store is the durable history store. A failed write is reported to the
// caller but never corrupts previously persisted rows.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(migrationSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert persists a record and fills in its assigned id.
func (s *Store) Insert(record *Record) error {
	tags, err := json.Marshal(record.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	res, err := s.db.Exec(
		`INSERT INTO translation_records
			(original_text, translated_text, source_language, target_language,
			 provider_id, timestamp, is_favorite, tags, theme)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.OriginalText, record.TranslatedText,
		record.SourceLanguage, record.TargetLanguage,
		string(record.ProviderID), record.Timestamp.UTC().Format(time.RFC3339Nano),
		boolToInt(record.IsFavorite), string(tags), record.Theme,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	record.ID = id
	return nil
}

// Recent returns up to limit records, newest first. A non-positive limit
// selects the default cap.
func (s *Store) Recent(limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = maxRecentRecords
	}
	return s.query(
		`SELECT id, original_text, translated_text, source_language, target_language,
			provider_id, timestamp, is_favorite, tags, theme
		 FROM translation_records ORDER BY timestamp DESC LIMIT ?`, limit)
}

// Search returns records whose original or translated text contains query,
// newest first. An empty query falls back to the recent view.
func (s *Store) Search(query string) ([]*Record, error) {
	if query == "" {
		return s.Recent(0)
	}
	pattern := "%" + query + "%"
	return s.query(
		`SELECT id, original_text, translated_text, source_language, target_language,
			provider_id, timestamp, is_favorite, tags, theme
		 FROM translation_records
		 WHERE original_text LIKE ? OR translated_text LIKE ?
		 ORDER BY timestamp DESC`, pattern, pattern)
}

// Favorites returns all favorited records, newest first.
func (s *Store) Favorites() ([]*Record, error) {
	return s.query(
		`SELECT id, original_text, translated_text, source_language, target_language,
			provider_id, timestamp, is_favorite, tags, theme
		 FROM translation_records WHERE is_favorite = 1
		 ORDER BY timestamp DESC`)
}

// Get returns the record with the given id.
func (s *Store) Get(id int64) (*Record, error) {
	records, err := s.query(
		`SELECT id, original_text, translated_text, source_language, target_language,
			provider_id, timestamp, is_favorite, tags, theme
		 FROM translation_records WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("record %d not found", id)
	}
	return records[0], nil
}

// ToggleFavorite flips the favorite flag on a record and returns the new
// state.
func (s *Store) ToggleFavorite(id int64) (bool, error) {
	if _, err := s.db.Exec(
		`UPDATE translation_records SET is_favorite = 1 - is_favorite WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	var favorite int
	if err := s.db.QueryRow(
		`SELECT is_favorite FROM translation_records WHERE id = ?`, id).Scan(&favorite); err != nil {
		if err == sql.ErrNoRows {
			return false, fmt.Errorf("record %d not found", id)
		}
		return false, err
	}
	return favorite == 1, nil
}

// AddTag attaches a tag to a record. Adding an existing tag is a no-op.
func (s *Store) AddTag(id int64, tag string) error {
	record, err := s.Get(id)
	if err != nil {
		return err
	}
	if record.HasTag(tag) {
		return nil
	}

	tags, err := json.Marshal(append(record.Tags, tag))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	if _, err := s.db.Exec(
		`UPDATE translation_records SET tags = ? WHERE id = ?`, string(tags), id); err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}
	return nil
}

// Delete removes a record.
func (s *Store) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM translation_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("record %d not found", id)
	}
	return nil
}

// ClearAll removes every record.
func (s *Store) ClearAll() error {
	if _, err := s.db.Exec(`DELETE FROM translation_records`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *Store) query(q string, args ...any) ([]*Record, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var r Record
		var provider, timestamp, tags string
		var favorite int
		if err := rows.Scan(&r.ID, &r.OriginalText, &r.TranslatedText,
			&r.SourceLanguage, &r.TargetLanguage, &provider, &timestamp,
			&favorite, &tags, &r.Theme); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.ProviderID = catalog.EngineID(provider)
		r.IsFavorite = favorite == 1
		ts, err := time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse record timestamp: %w", err)
		}
		r.Timestamp = ts
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			r.Tags = []string{}
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
