package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"profmailgen/app/config"

	_ "github.com/mattn/go-sqlite3"
	"github.com/samber/do"
)

var _ do.Shutdownable = (*Store)(nil)

// Store owns the SQLite database holding contacts, conversations and
// messages. All message appends go through the per-conversation sequencer.
type Store struct {
	db  *sql.DB
	seq *Sequencer
}

func New(di *do.Injector) (*Store, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return Open(cfg.DB.Path)
}

// Open opens (or creates) the database at the given path, ensuring the
// parent directory exists and the schema is applied.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open db at %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db at %s: %w", path, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return &Store{
		db:  db,
		seq: &Sequencer{db: db},
	}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS contacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			designation TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL DEFAULT (unixepoch())
		);

		CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			context_summary TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL DEFAULT (unixepoch()),
			updated_at INTEGER NOT NULL DEFAULT (unixepoch())
		);
		CREATE INDEX IF NOT EXISTS idx_conversations_contact_id ON conversations(contact_id);

		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			direction TEXT NOT NULL CHECK (direction IN ('sent', 'received')),
			sequence INTEGER NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (unixepoch()),
			UNIQUE (conversation_id, sequence)
		);
		CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages(conversation_id);
	`)
	return err
}

// Sequencer returns the per-conversation sequence allocator.
func (s *Store) Sequencer() *Sequencer {
	return s.seq
}

func (s *Store) Shutdown() error {
	return s.db.Close()
}
