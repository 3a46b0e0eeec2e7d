package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"stock-tracker/internal/errors"
	"stock-tracker/internal/models"
)

// SQLiteCache implements Cache using a single sqlite table keyed by symbol.
// The cache is local and private to one host; concurrent runs resolve to
// last-writer-wins on the symbol row.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (or creates) the cache database at dbPath.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	cache := &SQLiteCache{db: db}
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return cache, nil
}

func (c *SQLiteCache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS market_data_cache (
		symbol TEXT PRIMARY KEY,
		fetched_at DATETIME NOT NULL,
		payload TEXT NOT NULL
	);`
	_, err := c.db.Exec(schema)
	return err
}

// Get returns the cached entry for symbol if it is younger than ttl.
// Deserialization failures are reported as a miss so the caller falls back
// to a live fetch.
func (c *SQLiteCache) Get(ctx context.Context, symbol string, ttl time.Duration) (*models.MarketData, error) {
	var fetchedAt time.Time
	var payload string

	row := c.db.QueryRowContext(ctx,
		`SELECT fetched_at, payload FROM market_data_cache WHERE symbol = ?`, symbol)
	if err := row.Scan(&fetchedAt, &payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrCacheMiss
		}
		return nil, errors.Wrap(errors.ErrCacheMiss, err.Error())
	}

	if time.Since(fetchedAt) >= ttl {
		return nil, errors.ErrCacheMiss
	}

	var data models.MarketData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, errors.Wrap(errors.ErrCacheMiss, "deserializing cached payload: "+err.Error())
	}
	return &data, nil
}

// Put stores the entry for its symbol, overwriting any previous one.
func (c *SQLiteCache) Put(ctx context.Context, data *models.MarketData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("serializing cache payload: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO market_data_cache (symbol, fetched_at, payload) VALUES (?, ?, ?)
		 ON CONFLICT(symbol) DO UPDATE SET fetched_at = excluded.fetched_at, payload = excluded.payload`,
		data.Symbol, data.FetchedAt, string(payload))
	return err
}

// Close closes the underlying database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
