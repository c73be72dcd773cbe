package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/examtrail/examtrail-backend/internal/clients/redis"
	"github.com/examtrail/examtrail-backend/internal/logger"
	apperrors "github.com/examtrail/examtrail-backend/internal/pkg/errors"
	"github.com/examtrail/examtrail-backend/internal/repos"
	"github.com/examtrail/examtrail-backend/internal/scheduler"
	"github.com/examtrail/examtrail-backend/internal/types"
)

const planLockTTL = 2 * time.Minute

type GenerateStats struct {
	SessionsCreated   int   `json:"sessions_created"`
	StudySessions     int   `json:"study_sessions"`
	ReviewSessions    int   `json:"review_sessions"`
	EssaySessions     int   `json:"essay_sessions"`
	SimulationCount   int   `json:"simulation_count"`
	UnplacedTopics    int   `json:"unplaced_topics"`
	NothingToSchedule bool  `json:"nothing_to_schedule"`
	ElapsedMS         int64 `json:"elapsed_ms"`
}

type ReplanStats struct {
	MovedSessions   int  `json:"moved_sessions"`
	Remaining       int  `json:"remaining"`
	NothingToReplan bool `json:"nothing_to_replan"`
}

type ScheduleService interface {
	GenerateSchedule(ctx context.Context, planID uuid.UUID) (*GenerateStats, error)
	ReplanSchedule(ctx context.Context, planID uuid.UUID) (*ReplanStats, error)
	CountOverdue(ctx context.Context, planID uuid.UUID) (int64, error)
	GetSessionsInRange(ctx context.Context, planID uuid.UUID, start, end time.Time) ([]*types.StudySession, error)
}

type scheduleService struct {
	db          *gorm.DB
	log         *logger.Logger
	planService PlanService
	topicRepo   repos.TopicRepo
	sessionRepo repos.StudySessionRepo
	planRepo    repos.StudyPlanRepo
	locker      redisclient.PlanLocker
	now         func() time.Time
}

func NewScheduleService(
	db *gorm.DB,
	log *logger.Logger,
	planService PlanService,
	topicRepo repos.TopicRepo,
	sessionRepo repos.StudySessionRepo,
	planRepo repos.StudyPlanRepo,
	locker redisclient.PlanLocker,
) ScheduleService {
	serviceLog := log.With("service", "ScheduleService")
	return &scheduleService{
		db:          db,
		log:         serviceLog,
		planService: planService,
		topicRepo:   topicRepo,
		sessionRepo: sessionRepo,
		planRepo:    planRepo,
		locker:      locker,
		now:         time.Now,
	}
}

func (ss *scheduleService) GenerateSchedule(ctx context.Context, planID uuid.UUID) (*GenerateStats, error) {
	started := ss.now()

	plan, err := ss.planService.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	hours, err := plan.WeeklyHours()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed study hours", apperrors.ErrInvalidArgument)
	}

	acquired, err := ss.locker.Acquire(ctx, plan.ID.String(), planLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire plan lock: %w", err)
	}
	if !acquired {
		return nil, apperrors.ErrGenerationInProgress
	}
	defer func() {
		if err := ss.locker.Release(context.WithoutCancel(ctx), plan.ID.String()); err != nil {
			ss.log.Warn("failed to release plan lock", "plan_id", plan.ID, "error", err)
		}
	}()

	topics, err := ss.topicRepo.GetByPlanID(ctx, nil, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}

	refs := make([]scheduler.TopicRef, 0, len(topics))
	for _, topic := range topics {
		ref := scheduler.TopicRef{
			ID:             topic.ID,
			Description:    topic.Description,
			Status:         topic.Status,
			CompletionDate: topic.CompletionDate,
		}
		if topic.Subject != nil {
			ref.SubjectName = topic.Subject.SubjectName
			ref.Priority = topic.Subject.PriorityWeight
		}
		refs = append(refs, ref)
	}

	result, err := scheduler.Generate(scheduler.GenerateInput{
		Today:                  scheduler.DateOnly(ss.now().UTC()),
		ExamDate:               plan.ExamDate,
		WeeklyHours:            hours,
		SessionDurationMinutes: plan.SessionDurationMinutes,
		HasEssay:               plan.HasEssay,
		Topics:                 refs,
	})
	if err != nil {
		return nil, err
	}

	stats := &GenerateStats{
		SessionsCreated:   len(result.Sessions),
		StudySessions:     result.StudySessions,
		ReviewSessions:    result.ReviewSessions,
		EssaySessions:     result.EssaySessions,
		SimulationCount:   result.SimulationCount,
		UnplacedTopics:    result.UnplacedTopics,
		NothingToSchedule: result.NothingToSchedule,
	}

	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := ss.sessionRepo.FullDeleteByPlanIDs(ctx, tx, []uuid.UUID{plan.ID})
		if err != nil {
			return fmt.Errorf("failed to clear previous schedule: %w", err)
		}
		ss.log.Debug("cleared previous schedule", "plan_id", plan.ID, "deleted", deleted)

		rows := make([]*types.StudySession, 0, len(result.Sessions))
		for _, draft := range result.Sessions {
			rows = append(rows, &types.StudySession{
				ID:          uuid.New(),
				StudyPlanID: plan.ID,
				TopicID:     draft.TopicID,
				SubjectName: draft.SubjectName,
				Description: draft.Description,
				SessionDate: draft.Date,
				SessionType: draft.SessionType,
				Status:      types.SessionStatusPending,
			})
		}
		if _, err := ss.sessionRepo.Create(ctx, tx, rows); err != nil {
			return fmt.Errorf("failed to persist schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats.ElapsedMS = ss.now().Sub(started).Milliseconds()
	ss.log.Info("schedule generated",
		"plan_id", plan.ID,
		"sessions", stats.SessionsCreated,
		"unplaced", stats.UnplacedTopics,
		"elapsed_ms", stats.ElapsedMS,
	)
	return stats, nil
}

func (ss *scheduleService) ReplanSchedule(ctx context.Context, planID uuid.UUID) (*ReplanStats, error) {
	plan, err := ss.planService.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	hours, err := plan.WeeklyHours()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed study hours", apperrors.ErrInvalidArgument)
	}

	today := scheduler.DateOnly(ss.now().UTC())

	var stats *ReplanStats
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overdueRows, err := ss.sessionRepo.GetOverdue(ctx, tx, plan.ID, today)
		if err != nil {
			return fmt.Errorf("failed to load overdue sessions: %w", err)
		}
		counts, err := ss.sessionRepo.CountsByDate(ctx, tx, plan.ID)
		if err != nil {
			return fmt.Errorf("failed to load occupancy: %w", err)
		}

		overdue := make([]scheduler.OverdueSession, 0, len(overdueRows))
		for _, row := range overdueRows {
			overdue = append(overdue, scheduler.OverdueSession{ID: row.ID, Date: row.SessionDate})
		}

		result := scheduler.Replan(scheduler.ReplanInput{
			Today:                  today,
			ExamDate:               plan.ExamDate,
			WeeklyHours:            hours,
			SessionDurationMinutes: plan.SessionDurationMinutes,
			Overdue:                overdue,
			ScheduledCounts:        counts,
		})

		for _, move := range result.Moves {
			if err := ss.sessionRepo.UpdateDate(ctx, tx, move.ID, move.NewDate); err != nil {
				return fmt.Errorf("failed to move session %s: %w", move.ID, err)
			}
		}
		if err := ss.planRepo.IncrementPostponementCount(ctx, tx, plan.ID, result.PostponementIncrement); err != nil {
			return fmt.Errorf("failed to bump postponement count: %w", err)
		}

		stats = &ReplanStats{
			MovedSessions:   len(result.Moves),
			Remaining:       result.Remaining,
			NothingToReplan: result.NothingToReplan,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ss.log.Info("schedule replanned",
		"plan_id", plan.ID,
		"moved", stats.MovedSessions,
		"remaining", stats.Remaining,
	)
	return stats, nil
}

func (ss *scheduleService) CountOverdue(ctx context.Context, planID uuid.UUID) (int64, error) {
	plan, err := ss.planService.GetPlan(ctx, planID)
	if err != nil {
		return 0, err
	}
	today := scheduler.DateOnly(ss.now().UTC())
	return ss.sessionRepo.CountOverdue(ctx, nil, plan.ID, today)
}

func (ss *scheduleService) GetSessionsInRange(ctx context.Context, planID uuid.UUID, start, end time.Time) ([]*types.StudySession, error) {
	plan, err := ss.planService.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end before start", apperrors.ErrInvalidArgument)
	}
	return ss.sessionRepo.GetByPlanIDInRange(ctx, nil, plan.ID, scheduler.DateOnly(start), scheduler.DateOnly(end))
}
