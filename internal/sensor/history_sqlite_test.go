package sensor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/smartcity-core/internal/infrastructure/database"
)

func openJournal(t *testing.T) *SQLiteHistoryRepository {
	t.Helper()

	db, err := database.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	return NewSQLiteHistoryRepository(db.DB)
}

func TestSQLiteHistory_ConsumeAndGet(t *testing.T) {
	repo := openJournal(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	sweeps := [][]Result{
		{
			{ID: "A", Value: 40, MeasuredAt: base},
			{ID: "B", Err: &MeasurementError{SensorID: "B", Err: errors.New("sensor offline")}, MeasuredAt: base},
		},
		{
			{ID: "A", Value: 42, MeasuredAt: base.Add(time.Minute)},
		},
	}
	for _, sweep := range sweeps {
		if err := repo.Consume(ctx, sweep); err != nil {
			t.Fatalf("Consume() error = %v", err)
		}
	}

	history, err := repo.GetHistory(ctx, "A", 10)
	if err != nil {
		t.Fatalf("GetHistory(A) error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Value == nil || *history[0].Value != 42 {
		t.Errorf("newest entry value = %v, want 42", history[0].Value)
	}
	if !history[0].MeasuredAt.Equal(base.Add(time.Minute)) {
		t.Errorf("newest MeasuredAt = %v", history[0].MeasuredAt)
	}

	failed, err := repo.GetHistory(ctx, "B", 0)
	if err != nil {
		t.Fatalf("GetHistory(B) error = %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("len(failed) = %d, want 1", len(failed))
	}
	if failed[0].Value != nil || failed[0].Failure != "sensor offline" {
		t.Errorf("failed entry = %+v, want nil value and reason", failed[0])
	}
}

func TestSQLiteHistory_AsRegistrySink(t *testing.T) {
	repo := openJournal(t)
	ctx := context.Background()

	reg := NewRegistry(WithSinks(repo))
	reg.Register("A", fixed(42))
	reg.Register("B", failing("sensor offline"))
	reg.MeasureAll(ctx)
	reg.MeasureAll(ctx)

	for _, id := range []string{"A", "B"} {
		entries, err := repo.GetHistory(ctx, id, 5)
		if err != nil {
			t.Fatalf("GetHistory(%s) error = %v", id, err)
		}
		if len(entries) != 2 {
			t.Errorf("%s: journaled %d entries, want 2", id, len(entries))
		}
	}
}

func TestSQLiteHistory_EdgeCases(t *testing.T) {
	repo := openJournal(t)
	ctx := context.Background()

	if err := repo.Consume(ctx, nil); err != nil {
		t.Errorf("Consume(nil) error = %v", err)
	}

	if _, err := repo.GetHistory(ctx, "", 10); err == nil {
		t.Error("GetHistory(\"\") expected error")
	}

	entries, err := repo.GetHistory(ctx, "never-seen", 10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(entries))
	}
}

func TestSQLiteHistory_Prune(t *testing.T) {
	repo := openJournal(t)
	ctx := context.Background()

	now := time.Now().UTC()
	err := repo.Consume(ctx, []Result{
		{ID: "A", Value: 1, MeasuredAt: now.Add(-48 * time.Hour)},
		{ID: "A", Value: 2, MeasuredAt: now},
	})
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}

	n, err := repo.PruneHistory(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("PruneHistory() error = %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d rows, want 1", n)
	}

	if _, err := repo.PruneHistory(ctx, 0); err == nil {
		t.Error("PruneHistory(0) expected error")
	}
}
