package retention

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

func TestSweepRemovesOnlyExpiredReports(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	expired := []string{
		"Campaign_Status_Report_20260501.md",
		"Campaign_Status_Email_20260501.txt",
		"Campaign_Status_Report_20260510_093000_1.md", // uniqued collision name
	}
	kept := []string{
		"Campaign_Status_Report_20260601.md",  // inside the window
		"Campaign_Status_Email_20260615.txt",  // generated today
		"campaign_history_latest.json",        // history, never swept
		"Campaign_Status_Report_20260501.pdf", // unrecognized extension
		"notes.txt",
	}
	for _, name := range append(append([]string{}, expired...), kept...) {
		touch(t, dir, name)
	}

	removed, err := Sweep(context.Background(), dir, 30, now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != len(expired) {
		t.Errorf("removed = %d, want %d", removed, len(expired))
	}
	for _, name := range expired {
		if exists(dir, name) {
			t.Errorf("expired file %s still present", name)
		}
	}
	for _, name := range kept {
		if !exists(dir, name) {
			t.Errorf("file %s was removed", name)
		}
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	touch(t, dir, "Campaign_Status_Report_20260101.md")

	if removed, err := Sweep(context.Background(), dir, 30, now); err != nil || removed != 1 {
		t.Fatalf("first sweep = (%d, %v), want (1, nil)", removed, err)
	}
	if removed, err := Sweep(context.Background(), dir, 30, now); err != nil || removed != 0 {
		t.Errorf("second sweep = (%d, %v), want (0, nil)", removed, err)
	}
}

func TestSweepBoundaryDay(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 6, 15, 23, 59, 0, 0, time.UTC)

	touch(t, dir, "Campaign_Status_Report_20260516.md") // exactly 30 days old, kept
	touch(t, dir, "Campaign_Status_Report_20260515.md") // one day past, removed

	removed, err := Sweep(context.Background(), dir, 30, now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if !exists(dir, "Campaign_Status_Report_20260516.md") {
		t.Error("file on the retention boundary was removed")
	}
}

func TestSweepRejectsNegativeRetention(t *testing.T) {
	if _, err := Sweep(context.Background(), t.TempDir(), -1, time.Now()); err == nil {
		t.Error("negative retention accepted")
	}
}

func TestSweepZeroRetentionKeepsToday(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	touch(t, dir, "Campaign_Status_Email_20260615.txt")
	touch(t, dir, "Campaign_Status_Email_20260614.txt")

	removed, err := Sweep(context.Background(), dir, 0, now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 || !exists(dir, "Campaign_Status_Email_20260615.txt") {
		t.Errorf("zero retention removed %d files, want only yesterday's", removed)
	}
}
