package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/examtrail/examtrail-backend/internal/repos"
	"github.com/examtrail/examtrail-backend/internal/repos/testutil"
)

func TestStudyPlanRepoGetForUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	owner := testutil.SeedUser(t, ctx, tx, "owner@example.com")
	other := testutil.SeedUser(t, ctx, tx, "other@example.com")
	exam := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	plan := testutil.SeedStudyPlan(t, ctx, tx, owner.ID, exam)

	repo := repos.NewStudyPlanRepo(db, log)

	got, err := repo.GetForUser(ctx, tx, owner.ID, plan.ID)
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if got == nil || got.ID != plan.ID {
		t.Fatalf("expected plan %s, got %+v", plan.ID, got)
	}

	got, err = repo.GetForUser(ctx, tx, other.ID, plan.ID)
	if err != nil {
		t.Fatalf("GetForUser for non-owner: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for non-owner, got %+v", got)
	}
}

func TestStudyPlanRepoIncrementPostponementCount(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "counter@example.com")
	exam := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID, exam)

	repo := repos.NewStudyPlanRepo(db, log)

	if err := repo.IncrementPostponementCount(ctx, tx, plan.ID, 1); err != nil {
		t.Fatalf("IncrementPostponementCount: %v", err)
	}
	if err := repo.IncrementPostponementCount(ctx, tx, plan.ID, 1); err != nil {
		t.Fatalf("IncrementPostponementCount: %v", err)
	}

	plans, err := repo.GetByIDs(ctx, tx, []uuid.UUID{plan.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}
	if plans[0].PostponementCount != 2 {
		t.Fatalf("expected postponement_count 2, got %d", plans[0].PostponementCount)
	}
}

func TestStudyPlanRepoUpdateConfig(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "config@example.com")
	exam := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID, exam)

	repo := repos.NewStudyPlanRepo(db, log)

	updates := map[string]interface{}{
		"session_duration_minutes": 75,
		"has_essay":                true,
	}
	if err := repo.UpdateConfig(ctx, tx, plan.ID, updates); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}

	plans, err := repo.GetByIDs(ctx, tx, []uuid.UUID{plan.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if plans[0].SessionDurationMinutes != 75 {
		t.Fatalf("expected duration 75, got %d", plans[0].SessionDurationMinutes)
	}
	if !plans[0].HasEssay {
		t.Fatalf("expected has_essay true")
	}
}
