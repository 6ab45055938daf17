// Package history persists timestamped campaign snapshots and supplies
// the prior baseline for diffing. Snapshots are append-only; nothing
// here ever edits or deletes one.
package history

import (
	"context"
	"errors"

	"auditor/internal/core"
)

// ErrCorruptHistory marks a prior snapshot that exists but cannot be
// decoded. Callers treat it as an empty baseline and surface a warning
// rather than failing the run.
var ErrCorruptHistory = errors.New("corrupt history snapshot")

// Store is the lineage-scoped snapshot archive.
//
// Latest returns (nil, nil) when no prior snapshot exists; that is the
// normal first-run case, not a failure.
type Store interface {
	Latest(ctx context.Context) (*core.Snapshot, error)
	Append(ctx context.Context, snap core.Snapshot) error
}
