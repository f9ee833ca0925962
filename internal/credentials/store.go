package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// StorageKey is the settings key under which the record is stored.
const StorageKey = "irrigation_mqtt_config"

// Store persists a single ConnectionConfig.
type Store interface {
	// Load returns the stored config or ErrNotFound.
	Load(ctx context.Context) (ConnectionConfig, error)
	// Save validates and replaces the stored config.
	Save(ctx context.Context, cfg ConnectionConfig) error
	// Clear removes the stored config. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// SQLiteStore implements Store on the settings table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store backed by db. The settings table must exist.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load reads the record and decodes it.
func (s *SQLiteStore) Load(ctx context.Context) (ConnectionConfig, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, StorageKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ConnectionConfig{}, ErrNotFound
	}
	if err != nil {
		return ConnectionConfig{}, fmt.Errorf("querying credentials: %w", err)
	}

	var cfg ConnectionConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return ConnectionConfig{}, fmt.Errorf("decoding credentials: %w", err)
	}
	return cfg, nil
}

// Save upserts the record.
func (s *SQLiteStore) Save(ctx context.Context, cfg ConnectionConfig) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	const query = `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query,
		StorageKey, string(raw), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Clear deletes the record.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, StorageKey); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}

// MemoryStore implements Store in memory.
type MemoryStore struct {
	mu  sync.Mutex
	cfg *ConnectionConfig
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (ConnectionConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return ConnectionConfig{}, ErrNotFound
	}
	return *m.cfg, nil
}

func (m *MemoryStore) Save(_ context.Context, cfg ConnectionConfig) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = &cfg
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = nil
	return nil
}
