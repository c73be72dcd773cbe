package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/examtrail/examtrail-backend/internal/logger"
	apperrors "github.com/examtrail/examtrail-backend/internal/pkg/errors"
	"github.com/examtrail/examtrail-backend/internal/repos"
	"github.com/examtrail/examtrail-backend/internal/requestdata"
	"github.com/examtrail/examtrail-backend/internal/scheduler"
	"github.com/examtrail/examtrail-backend/internal/types"
)

type SessionService interface {
	// UpdateStatus flips a session between Pending and Completed. Completing a
	// new-topic session marks its topic completed; reverting clears it.
	UpdateStatus(ctx context.Context, sessionID uuid.UUID, status string) (*types.StudySession, error)
	// Postpone pushes one pending session to the next date with free capacity.
	Postpone(ctx context.Context, sessionID uuid.UUID) (*types.StudySession, error)
	// Reinforce schedules an extra Reinforcement session for the session's
	// topic at the next open slot.
	Reinforce(ctx context.Context, sessionID uuid.UUID) (*types.StudySession, error)
}

type sessionService struct {
	db          *gorm.DB
	log         *logger.Logger
	planRepo    repos.StudyPlanRepo
	topicRepo   repos.TopicRepo
	sessionRepo repos.StudySessionRepo
	now         func() time.Time
}

func NewSessionService(
	db *gorm.DB,
	log *logger.Logger,
	planRepo repos.StudyPlanRepo,
	topicRepo repos.TopicRepo,
	sessionRepo repos.StudySessionRepo,
) SessionService {
	serviceLog := log.With("service", "SessionService")
	return &sessionService{
		db:          db,
		log:         serviceLog,
		planRepo:    planRepo,
		topicRepo:   topicRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// loadOwnedSession fetches a session and verifies the plan belongs to the
// authenticated user.
func (sx *sessionService) loadOwnedSession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.StudySession, *types.StudyPlan, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, nil, apperrors.ErrUnauthorized
	}

	sessions, err := sx.sessionRepo.GetByIDs(ctx, tx, []uuid.UUID{sessionID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if len(sessions) == 0 {
		return nil, nil, apperrors.ErrNotFound
	}
	session := sessions[0]

	plan, err := sx.planRepo.GetForUser(ctx, tx, rd.UserID, session.StudyPlanID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch owning plan: %w", err)
	}
	if plan == nil {
		return nil, nil, apperrors.ErrNotFound
	}
	return session, plan, nil
}

func (sx *sessionService) UpdateStatus(ctx context.Context, sessionID uuid.UUID, status string) (*types.StudySession, error) {
	if status != types.SessionStatusPending && status != types.SessionStatusCompleted {
		return nil, fmt.Errorf("%w: unknown session status %q", apperrors.ErrInvalidArgument, status)
	}

	var updated *types.StudySession
	err := sx.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, _, err := sx.loadOwnedSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if err := sx.sessionRepo.UpdateStatus(ctx, tx, session.ID, status); err != nil {
			return fmt.Errorf("failed to update session status: %w", err)
		}

		// Topic completion tracks its new-topic session.
		if session.TopicID != nil && session.SessionType == types.SessionTypeNewTopic {
			switch status {
			case types.SessionStatusCompleted:
				completed := scheduler.DateOnly(sx.now().UTC())
				if err := sx.topicRepo.UpdateStatus(ctx, tx, *session.TopicID, types.TopicStatusCompleted, &completed); err != nil {
					return fmt.Errorf("failed to complete topic: %w", err)
				}
			case types.SessionStatusPending:
				if err := sx.topicRepo.UpdateStatus(ctx, tx, *session.TopicID, types.TopicStatusPending, nil); err != nil {
					return fmt.Errorf("failed to revert topic: %w", err)
				}
			}
		}

		session.Status = status
		updated = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (sx *sessionService) Postpone(ctx context.Context, sessionID uuid.UUID) (*types.StudySession, error) {
	var updated *types.StudySession
	err := sx.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, plan, err := sx.loadOwnedSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session.Status != types.SessionStatusPending {
			return fmt.Errorf("%w: only pending sessions can be postponed", apperrors.ErrInvalidArgument)
		}

		hours, err := plan.WeeklyHours()
		if err != nil {
			return fmt.Errorf("%w: malformed study hours", apperrors.ErrInvalidArgument)
		}
		counts, err := sx.sessionRepo.CountsByDate(ctx, tx, plan.ID)
		if err != nil {
			return fmt.Errorf("failed to load occupancy: %w", err)
		}

		start := scheduler.DateOnly(session.SessionDate).AddDate(0, 0, 1)
		today := scheduler.DateOnly(sx.now().UTC())
		if start.Before(today) {
			start = today
		}
		newDate, ok := scheduler.NextOpenDate(start, plan.ExamDate, hours, plan.SessionDurationMinutes, counts)
		if !ok {
			return fmt.Errorf("%w: no open slot before the exam", apperrors.ErrInvalidArgument)
		}

		if err := sx.sessionRepo.UpdateDate(ctx, tx, session.ID, newDate); err != nil {
			return fmt.Errorf("failed to move session: %w", err)
		}
		if err := sx.planRepo.IncrementPostponementCount(ctx, tx, plan.ID, 1); err != nil {
			return fmt.Errorf("failed to bump postponement count: %w", err)
		}

		session.SessionDate = newDate
		updated = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (sx *sessionService) Reinforce(ctx context.Context, sessionID uuid.UUID) (*types.StudySession, error) {
	var created *types.StudySession
	err := sx.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, plan, err := sx.loadOwnedSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session.TopicID == nil {
			return fmt.Errorf("%w: session has no topic to reinforce", apperrors.ErrInvalidArgument)
		}

		hours, err := plan.WeeklyHours()
		if err != nil {
			return fmt.Errorf("%w: malformed study hours", apperrors.ErrInvalidArgument)
		}
		counts, err := sx.sessionRepo.CountsByDate(ctx, tx, plan.ID)
		if err != nil {
			return fmt.Errorf("failed to load occupancy: %w", err)
		}

		start := scheduler.DateOnly(sx.now().UTC()).AddDate(0, 0, 1)
		newDate, ok := scheduler.NextOpenDate(start, plan.ExamDate, hours, plan.SessionDurationMinutes, counts)
		if !ok {
			return fmt.Errorf("%w: no open slot before the exam", apperrors.ErrInvalidArgument)
		}

		reinforcement := &types.StudySession{
			ID:          uuid.New(),
			StudyPlanID: plan.ID,
			TopicID:     session.TopicID,
			SubjectName: session.SubjectName,
			Description: "Reinforcement: " + session.Description,
			SessionDate: newDate,
			SessionType: types.SessionTypeReinforcement,
			Status:      types.SessionStatusPending,
		}
		if _, err := sx.sessionRepo.Create(ctx, tx, []*types.StudySession{reinforcement}); err != nil {
			return fmt.Errorf("failed to create reinforcement session: %w", err)
		}
		created = reinforcement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
