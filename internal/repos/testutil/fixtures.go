package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/examtrail/examtrail-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedStudyPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, examDate time.Time) *types.StudyPlan {
	tb.Helper()
	p := &types.StudyPlan{
		ID:                     uuid.New(),
		UserID:                 userID,
		PlanName:               "plan",
		ExamDate:               examDate,
		StudyHoursPerDay:       datatypes.JSON([]byte(`{"1":4,"2":4,"3":4,"4":4,"5":4,"6":2}`)),
		SessionDurationMinutes: 60,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed study plan: %v", err)
	}
	return p
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, planID uuid.UUID, name string, priority int) *types.Subject {
	tb.Helper()
	s := &types.Subject{
		ID:             uuid.New(),
		StudyPlanID:    planID,
		SubjectName:    name,
		PriorityWeight: priority,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, description string) *types.Topic {
	tb.Helper()
	topic := &types.Topic{
		ID:          uuid.New(),
		SubjectID:   subjectID,
		Description: description,
		Status:      types.TopicStatusPending,
	}
	if err := tx.WithContext(ctx).Create(topic).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return topic
}

func SeedStudySession(tb testing.TB, ctx context.Context, tx *gorm.DB, planID uuid.UUID, date time.Time, sessionType string) *types.StudySession {
	tb.Helper()
	s := &types.StudySession{
		ID:          uuid.New(),
		StudyPlanID: planID,
		SubjectName: "subject",
		Description: "description",
		SessionDate: date,
		SessionType: sessionType,
		Status:      types.SessionStatusPending,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed study session: %v", err)
	}
	return s
}
