package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/examtrail/examtrail-backend/internal/repos"
	"github.com/examtrail/examtrail-backend/internal/repos/testutil"
	"github.com/examtrail/examtrail-backend/internal/types"
)

func TestTopicRepoGetByPlanIDOrdersByPriority(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "syllabus@example.com")
	exam := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID, exam)

	low := testutil.SeedSubject(t, ctx, tx, plan.ID, "Geography", 1)
	high := testutil.SeedSubject(t, ctx, tx, plan.ID, "Law", 5)

	testutil.SeedTopic(t, ctx, tx, low.ID, "Climate")
	testutil.SeedTopic(t, ctx, tx, high.ID, "Contracts")
	testutil.SeedTopic(t, ctx, tx, high.ID, "Torts")

	repo := repos.NewTopicRepo(db, log)

	topics, err := repo.GetByPlanID(ctx, tx, plan.ID)
	if err != nil {
		t.Fatalf("GetByPlanID: %v", err)
	}
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(topics))
	}
	if topics[0].Subject == nil || topics[0].Subject.SubjectName != "Law" {
		t.Fatalf("expected highest priority subject first, got %+v", topics[0].Subject)
	}
	if topics[0].Description != "Contracts" || topics[1].Description != "Torts" {
		t.Fatalf("expected creation order within subject, got %q then %q", topics[0].Description, topics[1].Description)
	}
	if topics[2].Subject.SubjectName != "Geography" {
		t.Fatalf("expected lowest priority subject last, got %q", topics[2].Subject.SubjectName)
	}
}

func TestTopicRepoUpdateStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "topicstatus@example.com")
	exam := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID, exam)
	subject := testutil.SeedSubject(t, ctx, tx, plan.ID, "Law", 3)
	topic := testutil.SeedTopic(t, ctx, tx, subject.ID, "Contracts")

	repo := repos.NewTopicRepo(db, log)

	completed := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if err := repo.UpdateStatus(ctx, tx, topic.ID, types.TopicStatusCompleted, &completed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	got, err := repo.GetBySubjectIDs(ctx, tx, []uuid.UUID{subject.ID})
	if err != nil {
		t.Fatalf("GetBySubjectIDs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(got))
	}
	if got[0].Status != types.TopicStatusCompleted {
		t.Fatalf("expected status %q, got %q", types.TopicStatusCompleted, got[0].Status)
	}
	if got[0].CompletionDate == nil {
		t.Fatalf("expected completion date to be set")
	}

	if err := repo.UpdateStatus(ctx, tx, topic.ID, types.TopicStatusPending, nil); err != nil {
		t.Fatalf("UpdateStatus back to pending: %v", err)
	}
	got, err = repo.GetBySubjectIDs(ctx, tx, []uuid.UUID{subject.ID})
	if err != nil {
		t.Fatalf("GetBySubjectIDs: %v", err)
	}
	if got[0].CompletionDate != nil {
		t.Fatalf("expected completion date cleared, got %v", got[0].CompletionDate)
	}
}
