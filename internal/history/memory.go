package history

import (
	"context"
	"sync"

	"auditor/internal/core"
)

// MemoryStore is an in-process snapshot archive for tests.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots []core.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Latest(_ context.Context) (*core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) == 0 {
		return nil, nil
	}
	snap := s.snapshots[len(s.snapshots)-1]
	snap.Campaigns = append([]core.Campaign(nil), snap.Campaigns...)
	return &snap, nil
}

func (s *MemoryStore) Append(_ context.Context, snap core.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.Campaigns = append([]core.Campaign(nil), snap.Campaigns...)
	s.snapshots = append(s.snapshots, snap)
	return nil
}

// Len returns the number of stored snapshots.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}
