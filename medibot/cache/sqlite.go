package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Kedjuprecious/medibot-app/medibot"
)

// SQLiteCache stores conversations in a local SQLite database, one row per
// conversation with the message list serialized as JSON.
type SQLiteCache struct {
	db *sql.DB
}

var _ medibot.ConversationCache = (*SQLiteCache)(nil)

// NewSQLiteCache opens (and initializes if needed) the cache database.
// An empty dbPath selects ~/.medibot/cache.db.
func NewSQLiteCache(ctx context.Context, dbPath string) (*SQLiteCache, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, ".medibot", "cache.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	c := &SQLiteCache{db: db}
	if err := c.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQLiteCache) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		user_id    TEXT NOT NULL,
		id         TEXT NOT NULL,
		title      TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		messages   TEXT NOT NULL,
		PRIMARY KEY (user_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id);
	`
	_, err := c.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Load reads the cached conversations for a user, newest first. A user with
// no rows yields nil.
func (c *SQLiteCache) Load(ctx context.Context, userID string) ([]medibot.Conversation, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, title, created_at, messages FROM conversations WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []medibot.Conversation
	for rows.Next() {
		var (
			conv     medibot.Conversation
			created  time.Time
			messages string
		)
		if err := rows.Scan(&conv.ID, &conv.Title, &created, &messages); err != nil {
			return nil, err
		}
		conv.CreatedAt = created
		if err := json.Unmarshal([]byte(messages), &conv.Messages); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// Save replaces the cached conversations for a user.
func (c *SQLiteCache) Save(ctx context.Context, userID string, convs []medibot.Conversation) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE user_id = ?`, userID); err != nil {
		return err
	}

	for _, conv := range convs {
		messages, err := json.Marshal(conv.Messages)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO conversations (user_id, id, title, created_at, messages) VALUES (?, ?, ?, ?, ?)`,
			userID, conv.ID, conv.Title, conv.CreatedAt, string(messages))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Clear removes all cached state for a user.
func (c *SQLiteCache) Clear(ctx context.Context, userID string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM conversations WHERE user_id = ?`, userID)
	return err
}
