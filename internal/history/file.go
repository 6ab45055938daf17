package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"auditor/internal/core"
)

const latestFileName = "campaign_history_latest.json"

// FileStore keeps one JSON document per snapshot in a lineage-scoped
// directory, plus a latest-pointer copy for cheap baseline lookup.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

var _ Store = (*FileStore)(nil)

func (s *FileStore) Latest(ctx context.Context) (*core.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, latestFileName))
	if os.IsNotExist(err) {
		slog.InfoContext(ctx, "No historical snapshot found", "dir", s.dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptHistory, err)
	}

	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptHistory, err)
	}
	return &snap, nil
}

func (s *FileStore) Append(ctx context.Context, snap core.Snapshot) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	name := fmt.Sprintf("campaign_history_%s.json", snap.CreatedAt.Format("20060102_150405"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, latestFileName), data, 0644); err != nil {
		return fmt.Errorf("write latest pointer: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot appended to history",
		"path", path,
		"campaigns", len(snap.Campaigns))
	return nil
}
