/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Seednode/whosthat/games/guess"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS rosters (
	digest    TEXT PRIMARY KEY,
	count     INTEGER NOT NULL,
	stored_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS creatures (
	digest   TEXT NOT NULL,
	position INTEGER NOT NULL,
	id       INTEGER NOT NULL,
	name     TEXT NOT NULL,
	payload  TEXT NOT NULL,
	PRIMARY KEY (digest, position)
);
`

// Cache keeps the last enriched roster on disk, keyed by a digest of the
// roster source, so restarts skip parsing and enrichment.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the SQLite cache at path.
func OpenCache(path string) (*Cache, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("cache path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite cache: %w", err)
	}

	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}

	return c.db.Close()
}

// Load returns the roster stored under digest. A missing or partial entry
// reports false without an error.
func (c *Cache) Load(ctx context.Context, digest string) ([]guess.Entity, bool, error) {
	var count int

	err := c.db.QueryRowContext(ctx, `SELECT count FROM rosters WHERE digest = ?`, digest).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached roster: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `SELECT payload FROM creatures WHERE digest = ? ORDER BY position`, digest)
	if err != nil {
		return nil, false, fmt.Errorf("read cached creatures: %w", err)
	}
	defer rows.Close()

	out := make([]guess.Entity, 0, count)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, false, fmt.Errorf("scan cached creature: %w", err)
		}

		var e guess.Entity
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, false, fmt.Errorf("decode cached creature: %w", err)
		}

		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("read cached creatures: %w", err)
	}

	if len(out) != count {
		return nil, false, nil
	}

	return out, true, nil
}

// Store replaces the cache contents with entities under digest.
func (c *Cache) Store(ctx context.Context, digest string, entities []guess.Entity) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM creatures`); err != nil {
		return fmt.Errorf("clear cached creatures: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rosters`); err != nil {
		return fmt.Errorf("clear cached rosters: %w", err)
	}

	for i, e := range entities {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Name, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO creatures (digest, position, id, name, payload) VALUES (?, ?, ?, ?, ?)`,
			digest, i, e.ID, e.Name, string(payload),
		); err != nil {
			return fmt.Errorf("cache %s: %w", e.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rosters (digest, count, stored_at) VALUES (?, ?, ?)`,
		digest, len(entities), time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("cache roster: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache write: %w", err)
	}

	return nil
}

// Clear removes every cached roster.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM creatures; DELETE FROM rosters;`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	return nil
}
