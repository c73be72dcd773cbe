package services_test

import (
	"context"
	"testing"
	"time"

	redisclient "github.com/examtrail/examtrail-backend/internal/clients/redis"
	"github.com/examtrail/examtrail-backend/internal/repos"
	"github.com/examtrail/examtrail-backend/internal/repos/testutil"
	"github.com/examtrail/examtrail-backend/internal/requestdata"
	"github.com/examtrail/examtrail-backend/internal/services"
	"github.com/examtrail/examtrail-backend/internal/types"
)

// scheduleFixture builds every service against the rollback transaction so
// the run leaves no rows behind.
type scheduleFixture struct {
	ctx      context.Context
	plan     *types.StudyPlan
	sessions repos.StudySessionRepo
	schedule services.ScheduleService
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, context.Background(), tx, "scheduler@example.com")
	exam := time.Now().UTC().AddDate(0, 3, 0)
	plan := testutil.SeedStudyPlan(t, context.Background(), tx, user.ID, exam)
	subject := testutil.SeedSubject(t, context.Background(), tx, plan.ID, "Constitutional Law", 4)
	for _, description := range []string{"Fundamental rights", "Separation of powers", "Judicial review"} {
		testutil.SeedTopic(t, context.Background(), tx, subject.ID, description)
	}

	planRepo := repos.NewStudyPlanRepo(tx, log)
	subjectRepo := repos.NewSubjectRepo(tx, log)
	topicRepo := repos.NewTopicRepo(tx, log)
	sessionRepo := repos.NewStudySessionRepo(tx, log)

	planService := services.NewPlanService(tx, log, planRepo, subjectRepo, topicRepo)
	scheduleService := services.NewScheduleService(
		tx, log,
		planService, topicRepo, sessionRepo, planRepo,
		redisclient.NoopPlanLocker{},
	)

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: user.ID})
	return &scheduleFixture{
		ctx:      ctx,
		plan:     plan,
		sessions: sessionRepo,
		schedule: scheduleService,
	}
}

func TestScheduleServiceGeneratePersistsSessions(t *testing.T) {
	fx := newScheduleFixture(t)

	stats, err := fx.schedule.GenerateSchedule(fx.ctx, fx.plan.ID)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	if stats.SessionsCreated == 0 {
		t.Fatalf("expected sessions to be created")
	}
	if stats.StudySessions != 3 {
		t.Fatalf("expected 3 new-topic sessions, got %d", stats.StudySessions)
	}

	rows, err := fx.sessions.GetByPlanID(fx.ctx, nil, fx.plan.ID)
	if err != nil {
		t.Fatalf("GetByPlanID: %v", err)
	}
	if len(rows) != stats.SessionsCreated {
		t.Fatalf("expected %d persisted sessions, got %d", stats.SessionsCreated, len(rows))
	}

	// A second run replaces the schedule instead of appending to it.
	stats2, err := fx.schedule.GenerateSchedule(fx.ctx, fx.plan.ID)
	if err != nil {
		t.Fatalf("second GenerateSchedule: %v", err)
	}
	rows, err = fx.sessions.GetByPlanID(fx.ctx, nil, fx.plan.ID)
	if err != nil {
		t.Fatalf("GetByPlanID: %v", err)
	}
	if len(rows) != stats2.SessionsCreated {
		t.Fatalf("expected full replacement, got %d rows for %d created", len(rows), stats2.SessionsCreated)
	}
}

func TestScheduleServiceReplanMovesOverdue(t *testing.T) {
	fx := newScheduleFixture(t)

	if _, err := fx.schedule.GenerateSchedule(fx.ctx, fx.plan.ID); err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}

	rows, err := fx.sessions.GetByPlanID(fx.ctx, nil, fx.plan.ID)
	if err != nil {
		t.Fatalf("GetByPlanID: %v", err)
	}
	if len(rows) == 0 {
		t.Fatalf("expected a schedule to replan")
	}

	// Backdate one session to simulate a missed day.
	past := time.Now().UTC().AddDate(0, 0, -3)
	if err := fx.sessions.UpdateDate(fx.ctx, nil, rows[0].ID, past); err != nil {
		t.Fatalf("UpdateDate: %v", err)
	}

	stats, err := fx.schedule.ReplanSchedule(fx.ctx, fx.plan.ID)
	if err != nil {
		t.Fatalf("ReplanSchedule: %v", err)
	}
	if stats.MovedSessions != 1 {
		t.Fatalf("expected 1 moved session, got %d", stats.MovedSessions)
	}

	count, err := fx.schedule.CountOverdue(fx.ctx, fx.plan.ID)
	if err != nil {
		t.Fatalf("CountOverdue: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no overdue sessions after replan, got %d", count)
	}
}
