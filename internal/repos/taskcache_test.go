package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pathforge/taskpipe-backend/internal/repos/testutil"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

func TestTaskCacheRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewTaskCacheRepo(db, testutil.Logger(t))

	tasks := []types.Task{
		{Title: "Email the program director at [university name]", TimeboxMinutes: 30},
	}

	if err := repo.Put(ctx, tx, "hash-a", "full_llm", tasks, 0.12, time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, err := repo.Get(ctx, tx, "hash-a", "full_llm")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.CostUSD != 0.12 {
		t.Fatalf("Get: cost = %f", entry.CostUSD)
	}
	if entry.HitCount != 0 {
		t.Fatalf("Get: fresh entry has hit_count %d", entry.HitCount)
	}

	if err := repo.RecordHit(ctx, tx, entry.ID.String()); err != nil {
		t.Fatalf("RecordHit: %v", err)
	}
	entry, err = repo.Get(ctx, tx, "hash-a", "full_llm")
	if err != nil {
		t.Fatalf("Get after hit: %v", err)
	}
	if entry.HitCount != 1 {
		t.Fatalf("RecordHit: hit_count = %d", entry.HitCount)
	}

	// Same key again: upsert replaces the payload, no second row.
	if err := repo.Put(ctx, tx, "hash-a", "full_llm", tasks, 0.20, time.Hour); err != nil {
		t.Fatalf("Put upsert: %v", err)
	}
	entry, err = repo.Get(ctx, tx, "hash-a", "full_llm")
	if err != nil {
		t.Fatalf("Get after upsert: %v", err)
	}
	if entry.CostUSD != 0.20 {
		t.Fatalf("upsert did not replace cost: %f", entry.CostUSD)
	}

	// Same hash, different generation type: its own entry.
	if err := repo.Put(ctx, tx, "hash-a", "unique_supplemental", tasks, 0.05, time.Hour); err != nil {
		t.Fatalf("Put other type: %v", err)
	}
	if _, err := repo.Get(ctx, tx, "hash-a", "unique_supplemental"); err != nil {
		t.Fatalf("Get other type: %v", err)
	}

	// Expired entries read as absent.
	if err := repo.Put(ctx, tx, "hash-b", "full_llm", tasks, 0.12, -time.Minute); err != nil {
		t.Fatalf("Put expired: %v", err)
	}
	if _, err := repo.Get(ctx, tx, "hash-b", "full_llm"); err == nil {
		t.Fatalf("Get: expired entry must not be returned")
	}
}

func TestGenerationRunRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewGenerationRunRepo(db, testutil.Logger(t))

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		run := &types.GenerationRun{
			UserID:         userID,
			GoalID:         uuid.New(),
			Strategy:       types.StrategyTemplates,
			CoverageScore:  90,
			CandidateCount: 10 + i,
			Succeeded:      true,
		}
		if _, err := repo.Create(ctx, tx, run); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	runs, err := repo.ListByUser(ctx, tx, userID, 2)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListByUser: limit not applied, got %d", len(runs))
	}
}
