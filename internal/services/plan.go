package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/examtrail/examtrail-backend/internal/logger"
	apperrors "github.com/examtrail/examtrail-backend/internal/pkg/errors"
	"github.com/examtrail/examtrail-backend/internal/repos"
	"github.com/examtrail/examtrail-backend/internal/requestdata"
	"github.com/examtrail/examtrail-backend/internal/scheduler"
	"github.com/examtrail/examtrail-backend/internal/types"
)

type CreatePlanInput struct {
	PlanName               string
	ExamDate               time.Time
	StudyHoursPerDay       map[int]float64
	SessionDurationMinutes int
	HasEssay               bool
}

type AddSubjectInput struct {
	SubjectName    string
	PriorityWeight int
	Topics         []string
}

type PlanService interface {
	CreatePlan(ctx context.Context, input CreatePlanInput) (*types.StudyPlan, error)
	ListPlans(ctx context.Context) ([]*types.StudyPlan, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*types.StudyPlan, error)
	AddSubjectWithTopics(ctx context.Context, planID uuid.UUID, input AddSubjectInput) (*types.Subject, error)
	UpdateTopicStatus(ctx context.Context, topicID uuid.UUID, status string, completionDate *time.Time) error
}

type planService struct {
	db          *gorm.DB
	log         *logger.Logger
	planRepo    repos.StudyPlanRepo
	subjectRepo repos.SubjectRepo
	topicRepo   repos.TopicRepo
}

func NewPlanService(
	db *gorm.DB,
	log *logger.Logger,
	planRepo repos.StudyPlanRepo,
	subjectRepo repos.SubjectRepo,
	topicRepo repos.TopicRepo,
) PlanService {
	serviceLog := log.With("service", "PlanService")
	return &planService{
		db:          db,
		log:         serviceLog,
		planRepo:    planRepo,
		subjectRepo: subjectRepo,
		topicRepo:   topicRepo,
	}
}

func (ps *planService) CreatePlan(ctx context.Context, input CreatePlanInput) (*types.StudyPlan, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apperrors.ErrUnauthorized
	}

	input.PlanName = strings.TrimSpace(input.PlanName)
	if input.PlanName == "" {
		return nil, fmt.Errorf("%w: plan name required", apperrors.ErrInvalidArgument)
	}
	if input.ExamDate.IsZero() {
		return nil, fmt.Errorf("%w: exam date required", apperrors.ErrInvalidArgument)
	}
	for weekday, hours := range input.StudyHoursPerDay {
		if weekday < 0 || weekday > 6 {
			return nil, fmt.Errorf("%w: weekday %d out of range", apperrors.ErrInvalidArgument, weekday)
		}
		if hours < 0 {
			return nil, fmt.Errorf("%w: negative hours for weekday %d", apperrors.ErrInvalidArgument, weekday)
		}
	}

	hoursJSON, err := json.Marshal(input.StudyHoursPerDay)
	if err != nil {
		return nil, fmt.Errorf("failed to encode study hours: %w", err)
	}

	plan := &types.StudyPlan{
		ID:                     uuid.New(),
		UserID:                 rd.UserID,
		PlanName:               input.PlanName,
		ExamDate:               scheduler.DateOnly(input.ExamDate),
		StudyHoursPerDay:       datatypes.JSON(hoursJSON),
		SessionDurationMinutes: input.SessionDurationMinutes,
		HasEssay:               input.HasEssay,
	}
	if plan.SessionDurationMinutes <= 0 {
		plan.SessionDurationMinutes = 50
	}

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ps.planRepo.Create(ctx, tx, []*types.StudyPlan{plan}); err != nil {
			return fmt.Errorf("failed to create study plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (ps *planService) ListPlans(ctx context.Context) ([]*types.StudyPlan, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apperrors.ErrUnauthorized
	}
	plans, err := ps.planRepo.GetByUserIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to list study plans: %w", err)
	}
	return plans, nil
}

func (ps *planService) GetPlan(ctx context.Context, planID uuid.UUID) (*types.StudyPlan, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apperrors.ErrUnauthorized
	}
	plan, err := ps.planRepo.GetForUser(ctx, nil, rd.UserID, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch study plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.ErrNotFound
	}
	return plan, nil
}

func (ps *planService) AddSubjectWithTopics(ctx context.Context, planID uuid.UUID, input AddSubjectInput) (*types.Subject, error) {
	plan, err := ps.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	input.SubjectName = strings.TrimSpace(input.SubjectName)
	if input.SubjectName == "" {
		return nil, fmt.Errorf("%w: subject name required", apperrors.ErrInvalidArgument)
	}
	if input.PriorityWeight < 1 {
		input.PriorityWeight = 1
	}

	subject := &types.Subject{
		ID:             uuid.New(),
		StudyPlanID:    plan.ID,
		SubjectName:    input.SubjectName,
		PriorityWeight: input.PriorityWeight,
	}

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ps.subjectRepo.Create(ctx, tx, []*types.Subject{subject}); err != nil {
			return fmt.Errorf("failed to create subject: %w", err)
		}
		topics := make([]*types.Topic, 0, len(input.Topics))
		for _, description := range input.Topics {
			description = strings.TrimSpace(description)
			if description == "" {
				continue
			}
			topics = append(topics, &types.Topic{
				ID:          uuid.New(),
				SubjectID:   subject.ID,
				Description: description,
				Status:      types.TopicStatusPending,
			})
		}
		if _, err := ps.topicRepo.Create(ctx, tx, topics); err != nil {
			return fmt.Errorf("failed to create topics: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subject, nil
}

func (ps *planService) UpdateTopicStatus(ctx context.Context, topicID uuid.UUID, status string, completionDate *time.Time) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apperrors.ErrUnauthorized
	}
	if status != types.TopicStatusPending && status != types.TopicStatusCompleted {
		return fmt.Errorf("%w: unknown topic status %q", apperrors.ErrInvalidArgument, status)
	}

	topics, err := ps.topicRepo.GetByIDs(ctx, nil, []uuid.UUID{topicID})
	if err != nil {
		return fmt.Errorf("failed to fetch topic: %w", err)
	}
	if len(topics) == 0 || topics[0].Subject == nil {
		return apperrors.ErrNotFound
	}
	topic := topics[0]

	plan, err := ps.planRepo.GetForUser(ctx, nil, rd.UserID, topic.Subject.StudyPlanID)
	if err != nil {
		return fmt.Errorf("failed to fetch owning plan: %w", err)
	}
	if plan == nil {
		return apperrors.ErrNotFound
	}

	switch status {
	case types.TopicStatusCompleted:
		if completionDate == nil {
			now := scheduler.DateOnly(time.Now().UTC())
			completionDate = &now
		} else {
			normalized := scheduler.DateOnly(*completionDate)
			completionDate = &normalized
		}
	case types.TopicStatusPending:
		completionDate = nil
	}

	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.topicRepo.UpdateStatus(ctx, tx, topic.ID, status, completionDate); err != nil {
			return fmt.Errorf("failed to update topic status: %w", err)
		}
		return nil
	})
}
