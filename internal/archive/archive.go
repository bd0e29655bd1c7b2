// Package archive provides SQLite persistence for every normalized item a
// run produces, keyed by item identity. Like the CSV history log it is
// append-only: existing rows are never updated, so re-archiving an
// unchanged run is a no-op.
package archive

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/newshub/internal/model"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// Store handles SQLite persistence. NOT an interface - concrete type.
type Store struct {
	db *sql.DB
}

// Open creates a Store at the given database path, creating tables as
// needed. Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		topic_pack TEXT NOT NULL,
		source TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT,
		published_raw TEXT,
		published_ts INTEGER NOT NULL,
		summary_short TEXT,
		tags TEXT,
		importance INTEGER NOT NULL,
		impact TEXT,
		llm_mode TEXT,
		llm_draft INTEGER DEFAULT 0,
		llm_confidence TEXT,
		first_seen DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_items_published ON items(published_ts DESC);
	CREATE INDEX IF NOT EXISTS idx_items_pack ON items(topic_pack);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveItems archives items, returning the count of new rows. Items whose
// identity is already archived are ignored, never overwritten.
func (s *Store) SaveItems(items []model.Item, firstSeen time.Time) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO items
			(id, topic_pack, source, title, url, published_raw, published_ts,
			 summary_short, tags, importance, impact, llm_mode, llm_draft,
			 llm_confidence, first_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	newCount := 0
	for _, it := range items {
		result, err := stmt.Exec(
			it.ID,
			it.TopicPack,
			it.Source,
			it.Title,
			it.URL,
			it.PublishedRaw,
			it.PublishedTS,
			it.SummaryShort,
			strings.Join(it.Tags, " "),
			it.Importance,
			it.Impact,
			it.LLMMode,
			it.LLMDraft,
			it.LLMConfidence,
			firstSeen,
		)
		if err != nil {
			return newCount, fmt.Errorf("insert item %s: %w", it.ID, err)
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			newCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return newCount, fmt.Errorf("commit: %w", err)
	}
	return newCount, nil
}

// Recent returns up to limit archived items for a topic pack, newest
// first by published timestamp.
func (s *Store) Recent(pack string, limit int) ([]model.Item, error) {
	rows, err := s.db.Query(`
		SELECT id, topic_pack, source, title, url, published_raw, published_ts,
		       summary_short, tags, importance, impact, llm_mode, llm_draft,
		       llm_confidence
		FROM items
		WHERE topic_pack = ?
		ORDER BY published_ts DESC
		LIMIT ?
	`, pack, limit)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		var tags string
		if err := rows.Scan(
			&it.ID, &it.TopicPack, &it.Source, &it.Title, &it.URL,
			&it.PublishedRaw, &it.PublishedTS, &it.SummaryShort, &tags,
			&it.Importance, &it.Impact, &it.LLMMode, &it.LLMDraft,
			&it.LLMConfidence,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if tags != "" {
			it.Tags = strings.Fields(tags)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Count returns the total number of archived items.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}
