package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"auditor/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps snapshots as JSON payloads in an append-only table,
// one row per run, scoped by lineage.
type SQLiteStore struct {
	db      *sql.DB
	lineage string
}

func NewSQLiteStore(dbPath, lineage string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, lineage: lineage}, nil
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Latest(ctx context.Context) (*core.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE lineage = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		s.lineage,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		slog.InfoContext(ctx, "No historical snapshot found", "lineage", s.lineage)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	var snap core.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptHistory, err)
	}
	return &snap, nil
}

func (s *SQLiteStore) Append(ctx context.Context, snap core.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (lineage, created_at, campaign_count, payload) VALUES (?, ?, ?, ?)`,
		s.lineage,
		snap.CreatedAt.UTC().Format(time.RFC3339),
		len(snap.Campaigns),
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot appended to history",
		"lineage", s.lineage,
		"campaigns", len(snap.Campaigns))
	return nil
}
