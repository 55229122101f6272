package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/sugawarayuuta/sonnet"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

// HighScore is the persisted record of a winning sack.
type HighScore struct {
	RunID      string    `yaml:"run_id" json:"run_id"`
	ID         uint64    `yaml:"id" json:"id"`
	Weight     int64     `yaml:"weight" json:"weight"`
	Value      int64     `yaml:"value" json:"value"`
	Items      []Item    `yaml:"items" json:"items"`
	RecordedAt time.Time `yaml:"recorded_at" json:"recorded_at"`
}

// NewHighScore captures best as a storable record under a fresh run id.
func NewHighScore(best *Sack, catalog *Catalog) *HighScore {
	hs := &HighScore{
		RunID:      uuid.NewString(),
		ID:         best.ID,
		Weight:     best.Weight,
		Value:      best.Value,
		Items:      make([]Item, len(best.Items)),
		RecordedAt: time.Now().UTC(),
	}
	for i, idx := range best.Items {
		hs.Items[i] = catalog.Items[idx]
	}
	return hs
}

// HighScoreStore persists the best sack across runs.
type HighScoreStore interface {
	// Load returns the stored high score, or nil if there is none.
	Load(ctx context.Context) (*HighScore, error)
	Save(ctx context.Context, hs *HighScore) error
	Close() error
}

// OpenStore opens the backend named kind ("yaml", "badger" or "sqlite") at path.
func OpenStore(kind, path string) (HighScoreStore, error) {
	switch kind {
	case "yaml", "":
		return &yamlStore{path: path}, nil
	case "badger":
		return openBadgerStore(path)
	case "sqlite":
		return openSQLiteStore(path)
	}
	return nil, fmt.Errorf("unknown store %q", kind)
}

// CheckHighScore saves best when it beats the stored score. It returns
// whether it did and the previous stored value (0 when none).
func CheckHighScore(ctx context.Context, store HighScoreStore, best *Sack, catalog *Catalog) (bool, int64, error) {
	prev, err := store.Load(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("load high score: %w", err)
	}
	var prevValue int64
	if prev != nil {
		prevValue = prev.Value
	}
	if best.Value <= prevValue {
		return false, prevValue, nil
	}
	if err := store.Save(ctx, NewHighScore(best, catalog)); err != nil {
		return false, prevValue, fmt.Errorf("save high score: %w", err)
	}
	return true, prevValue, nil
}

// ── YAML file ───────────────────────────────────────────────────────

type yamlStore struct {
	path string
}

func (s *yamlStore) Load(_ context.Context) (*HighScore, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var hs HighScore
	if err := yaml.Unmarshal(data, &hs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return &hs, nil
}

func (s *yamlStore) Save(_ context.Context, hs *HighScore) error {
	data, err := yaml.Marshal(hs)
	if err != nil {
		return err
	}
	// write then rename so a failed write keeps the old score
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *yamlStore) Close() error { return nil }

// ── Badger ──────────────────────────────────────────────────────────

var highScoreKey = []byte("high_score")

type badgerStore struct {
	db *badger.DB
}

func openBadgerStore(dir string) (*badgerStore, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &badgerStore{db: db}, nil
}

func (s *badgerStore) Load(_ context.Context) (*HighScore, error) {
	var hs *HighScore
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(highScoreKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			hs = new(HighScore)
			return sonnet.Unmarshal(val, hs)
		})
	})
	return hs, err
}

func (s *badgerStore) Save(_ context.Context, hs *HighScore) error {
	data, err := sonnet.Marshal(hs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(highScoreKey, data)
	})
}

func (s *badgerStore) Close() error { return s.db.Close() }

// ── SQLite ──────────────────────────────────────────────────────────

const highScoreSchema = `CREATE TABLE IF NOT EXISTS high_scores (
	run_id      TEXT PRIMARY KEY,
	sack_id     INTEGER NOT NULL,
	weight      INTEGER NOT NULL,
	value       INTEGER NOT NULL,
	items       TEXT NOT NULL,
	recorded_at TEXT NOT NULL
)`

// sqliteStore keeps every improvement as a row; Load returns the best.
type sqliteStore struct {
	db *sql.DB
}

func openSQLiteStore(path string) (*sqliteStore, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(highScoreSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Load(ctx context.Context) (*HighScore, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, sack_id, weight, value, items, recorded_at
		 FROM high_scores ORDER BY value DESC LIMIT 1`)
	var hs HighScore
	var items, recorded string
	err := row.Scan(&hs.RunID, &hs.ID, &hs.Weight, &hs.Value, &items, &recorded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := sonnet.Unmarshal([]byte(items), &hs.Items); err != nil {
		return nil, fmt.Errorf("decode items of run %s: %w", hs.RunID, err)
	}
	if hs.RecordedAt, err = time.Parse(time.RFC3339Nano, recorded); err != nil {
		return nil, fmt.Errorf("decode time of run %s: %w", hs.RunID, err)
	}
	return &hs, nil
}

func (s *sqliteStore) Save(ctx context.Context, hs *HighScore) error {
	items, err := sonnet.Marshal(hs.Items)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO high_scores (run_id, sack_id, weight, value, items, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		hs.RunID, int64(hs.ID), hs.Weight, hs.Value, string(items), hs.RecordedAt.Format(time.RFC3339Nano))
	return err
}

func (s *sqliteStore) Close() error { return s.db.Close() }
