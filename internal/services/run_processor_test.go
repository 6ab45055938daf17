package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"auditor/internal/core"
	"auditor/internal/history"
	"auditor/internal/source/memory"
)

var exportHeader = []string{
	"Tactic Start Date", "Tactic End Date", "Tactic Vendor", "Retailer",
	"Tactic Brand", "Event Name", "Tactic Name", "Tactic Product",
	"Tactic Order ID", "Tactic Allocated Budget",
}

func exportRow(tactic, orderID, budget string) []string {
	return []string{
		"2026-06-01", "2026-06-30", "Acme Media", "MegaMart", "Sparkle",
		"Summer Push", tactic, "Sparkle Clean 2L", orderID, budget,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestProcessor(t *testing.T, rows [][]string) (*RunProcessor, *memory.Source, *history.MemoryStore) {
	t.Helper()
	src := memory.New(exportHeader, rows)
	store := history.NewMemoryStore()
	processor := NewRunProcessor(src, store, RunConfig{
		OutputDir:           t.TempDir(),
		MaxRowErrorFraction: 0.5,
		PrimaryRecipients:   []string{"ops@example.com"},
		Now:                 fixedClock(time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)),
	})
	return processor, src, store
}

func TestRunFirstRunAllNew(t *testing.T) {
	processor, _, store := newTestProcessor(t, [][]string{
		exportRow("Banner", "ORD-1001", "$50,000"),
		exportRow("Endcap", "ORD-1002", "$25,000"),
	})

	result, err := processor.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.Success {
		t.Error("result not marked successful")
	}
	if result.CampaignCount != 2 || result.NewCount != 2 || result.ChangedCount != 0 || result.RemovedCount != 0 {
		t.Errorf("counts = %+v, want 2 campaigns all new", result)
	}
	if store.Len() != 1 {
		t.Errorf("snapshots = %d, want 1", store.Len())
	}

	doc, err := os.ReadFile(result.ReportPaths.Document)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if !strings.Contains(string(doc), "# Campaign Status Report - Generated on 2026-06-15") {
		t.Error("document header missing")
	}
	if !strings.HasSuffix(result.ReportPaths.Document, "Campaign_Status_Report_20260615.md") {
		t.Errorf("document path = %s", result.ReportPaths.Document)
	}
	if !strings.HasSuffix(result.ReportPaths.Plaintext, "Campaign_Status_Email_20260615.txt") {
		t.Errorf("plaintext path = %s", result.ReportPaths.Plaintext)
	}
	if len(result.PrimaryRecipients) != 1 || result.PrimaryRecipients[0] != "ops@example.com" {
		t.Errorf("recipients not passed through: %v", result.PrimaryRecipients)
	}
}

func TestRunSecondRunUnchanged(t *testing.T) {
	processor, _, _ := newTestProcessor(t, [][]string{
		exportRow("Banner", "ORD-1001", "$50,000"),
	})
	ctx := context.Background()

	if _, err := processor.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	result, err := processor.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if result.ChangesDetected != 0 {
		t.Errorf("changes = %d, want 0", result.ChangesDetected)
	}

	// The same-day rerun gets a uniqued filename, not a clobber.
	if result.ReportPaths.Document == "" || strings.HasSuffix(result.ReportPaths.Document, "Campaign_Status_Report_20260615.md") {
		t.Errorf("second run reused the first run's path: %s", result.ReportPaths.Document)
	}
	if !strings.Contains(result.ReportPaths.Document, "_090000_1") {
		t.Errorf("uniqued path = %s, want _090000_1 suffix", result.ReportPaths.Document)
	}
}

func TestRunDetectsBudgetChange(t *testing.T) {
	processor, src, _ := newTestProcessor(t, [][]string{
		exportRow("Banner", "ORD-1001", "$50,000"),
	})
	ctx := context.Background()

	if _, err := processor.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}

	src.Replace([][]string{exportRow("Banner", "ORD-1001", "$60,000")})
	result, err := processor.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if result.ChangedCount != 1 || result.NewCount != 0 || result.RemovedCount != 0 {
		t.Errorf("counts = new %d changed %d removed %d, want one change",
			result.NewCount, result.ChangedCount, result.RemovedCount)
	}

	doc, err := os.ReadFile(result.ReportPaths.Document)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if !strings.Contains(string(doc), "Budget changed from $50,000.00 to $60,000.00 ($10,000.00)") {
		t.Error("document missing budget change line")
	}
}

func TestRunDetectsRemovedCampaign(t *testing.T) {
	processor, src, _ := newTestProcessor(t, [][]string{
		exportRow("Banner", "ORD-1001", "$50,000"),
		exportRow("Endcap", "ORD-1002", "$25,000"),
	})
	ctx := context.Background()

	if _, err := processor.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}

	src.Replace([][]string{exportRow("Banner", "ORD-1001", "$50,000")})
	result, err := processor.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if result.RemovedCount != 1 {
		t.Fatalf("removed = %d, want 1", result.RemovedCount)
	}

	doc, err := os.ReadFile(result.ReportPaths.Document)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if !strings.Contains(string(doc), "# Removed Since Last Run (1 Campaigns)") {
		t.Error("document missing removed section")
	}
	// The removed campaign stays out of the totals.
	if !strings.Contains(string(doc), "- Total Budget Across All Campaigns: $50,000.00") {
		t.Error("removed campaign leaked into the grand total")
	}
}

func TestRunTooManyRowErrorsAborts(t *testing.T) {
	processor, _, store := newTestProcessor(t, [][]string{
		exportRow("Banner", "ORD-1001", "$50,000"),
		{"garbage", "2026-06-30", "V", "R", "B", "E", "T1", "P", "ORD-2", ""},
		{"garbage", "2026-06-30", "V", "R", "B", "E", "T2", "P", "ORD-3", ""},
	})

	_, err := processor.Run(context.Background())
	if !errors.Is(err, ErrTooManyRowErrors) {
		t.Fatalf("Run error = %v, want ErrTooManyRowErrors", err)
	}
	if store.Len() != 0 {
		t.Error("aborted run appended a snapshot")
	}
}

func TestRunToleratedRowErrorsBecomeWarnings(t *testing.T) {
	processor, _, _ := newTestProcessor(t, [][]string{
		exportRow("Banner", "ORD-1001", "$50,000"),
		exportRow("Endcap", "ORD-1002", "$25,000"),
		{"garbage", "2026-06-30", "V", "R", "B", "E", "T", "P", "ORD-3", ""},
	})

	result, err := processor.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.RowErrors) != 1 {
		t.Errorf("row errors = %v, want one", result.RowErrors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "1 rows rejected") {
		t.Errorf("warnings = %v, want a rejection warning", result.Warnings)
	}
}

type failingStore struct {
	latestErr error
	appendErr error
	appended  int
}

func (s *failingStore) Latest(context.Context) (*core.Snapshot, error) {
	return nil, s.latestErr
}

func (s *failingStore) Append(context.Context, core.Snapshot) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended++
	return nil
}

func TestRunCorruptHistoryWarnsAndContinues(t *testing.T) {
	src := memory.New(exportHeader, [][]string{exportRow("Banner", "ORD-1001", "$50,000")})
	store := &failingStore{latestErr: history.ErrCorruptHistory}
	processor := NewRunProcessor(src, store, RunConfig{
		OutputDir: t.TempDir(),
		Now:       fixedClock(time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)),
	})

	result, err := processor.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Success {
		t.Error("run with corrupt history should still succeed")
	}
	// With no usable baseline, everything is new.
	if result.NewCount != 1 {
		t.Errorf("new = %d, want 1", result.NewCount)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "history unreadable") {
		t.Errorf("warnings = %v, want history warning", result.Warnings)
	}
	if store.appended != 1 {
		t.Errorf("appended = %d, want the fresh snapshot persisted", store.appended)
	}
}

func TestRunFailedAppendFailsRun(t *testing.T) {
	src := memory.New(exportHeader, [][]string{exportRow("Banner", "ORD-1001", "$50,000")})
	store := &failingStore{appendErr: errors.New("disk full")}
	processor := NewRunProcessor(src, store, RunConfig{
		OutputDir: t.TempDir(),
		Now:       fixedClock(time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)),
	})

	result, err := processor.Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded despite failed snapshot append")
	}
	if result.Success {
		t.Error("result marked successful despite failed append")
	}
	// The artifacts were written before the append failed.
	if result.ReportPaths.Document == "" {
		t.Error("document path missing; artifacts must be written before the snapshot")
	}
}
