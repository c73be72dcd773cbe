package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/examtrail/examtrail-backend/internal/logger"
	"github.com/examtrail/examtrail-backend/internal/types"
)

type StudySessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.StudySession) ([]*types.StudySession, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.StudySession, error)
	GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.StudySession, error)
	GetByPlanIDInRange(ctx context.Context, tx *gorm.DB, planID uuid.UUID, start, end time.Time) ([]*types.StudySession, error)
	// GetOverdue returns pending sessions dated strictly before the cutoff,
	// oldest first; ties keep insertion order.
	GetOverdue(ctx context.Context, tx *gorm.DB, planID uuid.UUID, before time.Time) ([]*types.StudySession, error)
	CountOverdue(ctx context.Context, tx *gorm.DB, planID uuid.UUID, before time.Time) (int64, error)
	// CountsByDate returns the plan's session count per date, keyed by
	// YYYY-MM-DD. It is the replanner's occupancy baseline.
	CountsByDate(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (map[string]int, error)
	UpdateDate(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, newDate time.Time) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, status string) error
	FullDeleteByPlanIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) (int64, error)
}

type studySessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	repoLog := baseLog.With("repo", "StudySessionRepo")
	return &studySessionRepo{db: db, log: repoLog}
}

func (r *studySessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.StudySession) ([]*types.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sessions) == 0 {
		return []*types.StudySession{}, nil
	}

	if err := transaction.WithContext(ctx).CreateInBatches(&sessions, 100).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *studySessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudySession
	if len(sessionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", sessionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studySessionRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudySession
	if err := transaction.WithContext(ctx).
		Where("study_plan_id = ?", planID).
		Order("session_date ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studySessionRepo) GetByPlanIDInRange(ctx context.Context, tx *gorm.DB, planID uuid.UUID, start, end time.Time) ([]*types.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudySession
	if err := transaction.WithContext(ctx).
		Where("study_plan_id = ? AND session_date >= ? AND session_date <= ?", planID, start, end).
		Order("session_date ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studySessionRepo) GetOverdue(ctx context.Context, tx *gorm.DB, planID uuid.UUID, before time.Time) ([]*types.StudySession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudySession
	if err := transaction.WithContext(ctx).
		Where("study_plan_id = ? AND status = ? AND session_date < ?", planID, types.SessionStatusPending, before).
		Order("session_date ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studySessionRepo) CountOverdue(ctx context.Context, tx *gorm.DB, planID uuid.UUID, before time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.StudySession{}).
		Where("study_plan_id = ? AND status = ? AND session_date < ?", planID, types.SessionStatusPending, before).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *studySessionRepo) CountsByDate(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (map[string]int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var rows []struct {
		SessionDate time.Time
		Count       int
	}
	if err := transaction.WithContext(ctx).
		Model(&types.StudySession{}).
		Select("session_date, COUNT(*) AS count").
		Where("study_plan_id = ?", planID).
		Group("session_date").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.SessionDate.Format("2006-01-02")] = row.Count
	}
	return counts, nil
}

func (r *studySessionRepo) UpdateDate(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, newDate time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.StudySession{}).
		Where("id = ?", sessionID).
		UpdateColumn("session_date", newDate).Error
}

func (r *studySessionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.StudySession{}).
		Where("id = ?", sessionID).
		Update("status", status).Error
}

func (r *studySessionRepo) FullDeleteByPlanIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(planIDs) == 0 {
		return 0, nil
	}

	result := transaction.WithContext(ctx).
		Where("study_plan_id IN ?", planIDs).
		Delete(&types.StudySession{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
