// Package retention removes generated report files that have aged out
// of the retention window. It never touches history snapshots.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Report filenames embed their generation date; the optional trailing
// group is the HHMMSS_N uniquing suffix added on filename collisions.
// The embedded date, not filesystem mtime, decides age so the sweep
// survives file copies.
var reportFileRE = regexp.MustCompile(`^Campaign_Status_(?:Report|Email)_(\d{8})(?:_\d{6}_\d+)?\.(?:md|txt)$`)

// Sweep deletes report files in dir whose embedded date is older than
// retentionDays before now. Returns the number of files removed.
// Running it twice in succession removes nothing the second time.
func Sweep(ctx context.Context, dir string, retentionDays int, now time.Time) (int, error) {
	if retentionDays < 0 {
		return 0, fmt.Errorf("retention days must not be negative, got %d", retentionDays)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read output directory: %w", err)
	}

	cutoff := now.UTC().AddDate(0, 0, -retentionDays)
	cutoffDay := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := reportFileRE.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		stamp, err := time.ParseInLocation("20060102", m[1], time.UTC)
		if err != nil {
			continue
		}
		if !stamp.Before(cutoffDay) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
		removed++
		slog.DebugContext(ctx, "Removed expired report file",
			"path", path,
			"generated", stamp.Format("2006-01-02"))
	}

	if removed > 0 {
		slog.InfoContext(ctx, "Retention sweep complete",
			"dir", dir,
			"removed", removed,
			"retention_days", retentionDays)
	}
	return removed, nil
}
