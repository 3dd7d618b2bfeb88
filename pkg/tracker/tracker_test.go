package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/traylingo/traylingo/pkg/models"
)

func newTestTracker(t *testing.T) *SQLiteTracker {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	tr, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestRecordAndRecent(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec := models.TranslationRecord{
		SessionID:    "s1",
		Model:        "claude-haiku-4-5-20251001",
		InputTokens:  100,
		OutputTokens: 50,
		CostUSD:      0.00035,
		CreatedAt:    now,
	}
	if err := tr.Record(ctx, rec); err != nil {
		t.Fatal(err)
	}

	records, err := tr.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].InputTokens != 100 || records[0].OutputTokens != 50 {
		t.Errorf("unexpected tokens: %+v", records[0])
	}
	if records[0].ID == 0 {
		t.Error("expected assigned row ID")
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		_ = tr.Record(ctx, models.TranslationRecord{
			SessionID: "s1", Model: "claude-haiku-4-5-20251001",
			InputTokens: 10 * (i + 1), OutputTokens: 5,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
	}

	records, err := tr.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].InputTokens != 50 {
		t.Errorf("expected newest first, got %+v", records[0])
	}
}

func TestSummary(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_ = tr.Record(ctx, models.TranslationRecord{
		SessionID: "s1", Model: "claude-haiku-4-5-20251001",
		InputTokens: 100, OutputTokens: 50, CostUSD: 0.00035, CreatedAt: now,
	})
	_ = tr.Record(ctx, models.TranslationRecord{
		SessionID: "s2", Model: "claude-haiku-4-5-20251001",
		Cached: true, CreatedAt: now,
	})
	_ = tr.Record(ctx, models.TranslationRecord{
		SessionID: "s3", Model: "claude-sonnet-4-5-20250929",
		InputTokens: 200, OutputTokens: 80, CostUSD: 0.0018, CreatedAt: now,
	})

	summaries, err := tr.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 models, got %d", len(summaries))
	}

	haiku := summaries[0]
	if haiku.Model != "claude-haiku-4-5-20251001" {
		t.Fatalf("expected haiku first, got %s", haiku.Model)
	}
	if haiku.RequestCount != 2 || haiku.CacheHits != 1 {
		t.Errorf("unexpected haiku summary: %+v", haiku)
	}
	if haiku.InputTokens != 100 {
		t.Errorf("expected 100 input tokens, got %d", haiku.InputTokens)
	}
}

func TestTotalCost(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_ = tr.Record(ctx, models.TranslationRecord{
		SessionID: "s1", Model: "m", CostUSD: 0.001, CreatedAt: now.Add(-48 * time.Hour),
	})
	_ = tr.Record(ctx, models.TranslationRecord{
		SessionID: "s2", Model: "m", CostUSD: 0.002, CreatedAt: now,
	})

	total, err := tr.TotalCost(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if total != 0.002 {
		t.Errorf("expected 0.002, got %v", total)
	}
}
