// Package services orchestrates the audit pipeline: load, diff,
// categorize, aggregate, render, persist.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"auditor/internal/core"
	"auditor/internal/history"
	"auditor/internal/loader"
	"auditor/internal/report"
	"auditor/internal/source"
)

// ErrTooManyRowErrors aborts a run whose input is mostly garbage.
var ErrTooManyRowErrors = errors.New("row errors exceed configured fraction")

type (
	// RunConfig parameterizes one pipeline invocation.
	RunConfig struct {
		OutputDir string

		// MaxRowErrorFraction aborts the run when rejected rows exceed
		// this share of all data rows. Zero means any row error is fatal.
		MaxRowErrorFraction float64

		// Recipient lists are passed through to the run result
		// unaltered; delivery is the transport layer's job.
		PrimaryRecipients []string
		CCRecipients      []string

		// Now is the run clock; defaults to time.Now. Tests inject a
		// fixed instant for reproducible output.
		Now func() time.Time
	}

	ReportPaths struct {
		Document  string
		Plaintext string
	}

	// RunResult is the engine invocation result handed to the caller.
	RunResult struct {
		Success         bool
		CampaignCount   int
		ChangesDetected int // identities classified new, changed or removed
		NewCount        int
		ChangedCount    int
		RemovedCount    int
		RowErrors       []loader.RowError
		Warnings        []string
		ReportPaths     ReportPaths

		PrimaryRecipients []string
		CCRecipients      []string
	}

	// RunProcessor runs the synchronous batch pipeline against one
	// lineage. The caller serializes runs per lineage; the processor
	// assumes exclusive access to its store and output directory.
	RunProcessor struct {
		src    source.RowSource
		store  history.Store
		config RunConfig
	}
)

func NewRunProcessor(src source.RowSource, store history.Store, config RunConfig) *RunProcessor {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &RunProcessor{src: src, store: store, config: config}
}

// Run executes one audit: Load → Diff → Categorize → Aggregate →
// Render → write artifacts → persist snapshot. The snapshot is
// appended only after both artifacts are written, so a failed render
// never poisons the baseline for the retry.
func (p *RunProcessor) Run(ctx context.Context) (*RunResult, error) {
	now := p.config.Now()
	refDate := core.DateOf(now)
	result := &RunResult{
		PrimaryRecipients: p.config.PrimaryRecipients,
		CCRecipients:      p.config.CCRecipients,
	}

	loaded, err := loader.Load(ctx, p.src)
	if err != nil {
		return result, fmt.Errorf("load campaigns: %w", err)
	}
	result.CampaignCount = len(loaded.Campaigns)
	result.RowErrors = loaded.RowErrors

	if len(loaded.RowErrors) > 0 {
		total := len(loaded.Campaigns) + len(loaded.RowErrors)
		fraction := float64(len(loaded.RowErrors)) / float64(total)
		if fraction > p.config.MaxRowErrorFraction {
			return result, fmt.Errorf("%w: %d of %d rows rejected",
				ErrTooManyRowErrors, len(loaded.RowErrors), total)
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d rows rejected during load", len(loaded.RowErrors)))
	}

	previous, err := p.store.Latest(ctx)
	if err != nil {
		// A report against an empty baseline beats no report at all.
		slog.WarnContext(ctx, "Prior snapshot unusable, diffing against empty baseline", "error", err)
		result.Warnings = append(result.Warnings, "history unreadable: "+err.Error())
		previous = nil
	}

	diff := core.Diff(loaded.Campaigns, previous)
	result.NewCount, result.ChangedCount, result.RemovedCount = diff.Counts()
	result.ChangesDetected = result.NewCount + result.ChangedCount + result.RemovedCount

	buckets := core.Categorize(loaded.Campaigns, refDate)
	totals := core.Totals(buckets)

	document, plaintext, err := report.Render(report.Data{
		GeneratedAt: refDate,
		Buckets:     buckets,
		Totals:      totals,
		Diff:        diff,
	})
	if err != nil {
		return result, fmt.Errorf("render report: %w", err)
	}

	if err := os.MkdirAll(p.config.OutputDir, 0755); err != nil {
		return result, fmt.Errorf("create output directory: %w", err)
	}

	stamp := now.Format("20060102")
	docPath := uniquePath(filepath.Join(p.config.OutputDir, "Campaign_Status_Report_"+stamp+".md"), now)
	txtPath := uniquePath(filepath.Join(p.config.OutputDir, "Campaign_Status_Email_"+stamp+".txt"), now)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return writeArtifact(docPath, document) })
	g.Go(func() error { return writeArtifact(txtPath, plaintext) })
	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("write report artifacts: %w", err)
	}
	result.ReportPaths = ReportPaths{Document: docPath, Plaintext: txtPath}

	snapshot := core.Snapshot{CreatedAt: now, Campaigns: loaded.Campaigns}
	if err := p.store.Append(ctx, snapshot); err != nil {
		return result, fmt.Errorf("persist snapshot: %w", err)
	}

	result.Success = true
	slog.InfoContext(ctx, "Audit run complete",
		"campaigns", result.CampaignCount,
		"new", result.NewCount,
		"changed", result.ChangedCount,
		"removed", result.RemovedCount,
		"document", docPath,
		"plaintext", txtPath)

	return result, nil
}

func writeArtifact(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// uniquePath appends an HHMMSS_N suffix while the target exists, so a
// second run on the same day never clobbers the first report.
func uniquePath(base string, now time.Time) string {
	path := base
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = fmt.Sprintf("%s_%s_%d%s", stem, now.Format("150405"), counter, ext)
	}
}
