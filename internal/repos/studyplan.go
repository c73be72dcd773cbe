package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/examtrail/examtrail-backend/internal/logger"
	"github.com/examtrail/examtrail-backend/internal/types"
)

type StudyPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plans []*types.StudyPlan) ([]*types.StudyPlan, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) ([]*types.StudyPlan, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.StudyPlan, error)
	GetForUser(ctx context.Context, tx *gorm.DB, userID, planID uuid.UUID) (*types.StudyPlan, error)
	UpdateConfig(ctx context.Context, tx *gorm.DB, planID uuid.UUID, updates map[string]interface{}) error
	IncrementPostponementCount(ctx context.Context, tx *gorm.DB, planID uuid.UUID, delta int) error
}

type studyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	repoLog := baseLog.With("repo", "StudyPlanRepo")
	return &studyPlanRepo{db: db, log: repoLog}
}

func (r *studyPlanRepo) Create(ctx context.Context, tx *gorm.DB, plans []*types.StudyPlan) ([]*types.StudyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(plans) == 0 {
		return []*types.StudyPlan{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *studyPlanRepo) GetByIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) ([]*types.StudyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudyPlan
	if len(planIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", planIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studyPlanRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.StudyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudyPlan
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studyPlanRepo) GetForUser(ctx context.Context, tx *gorm.DB, userID, planID uuid.UUID) (*types.StudyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.StudyPlan
	err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *studyPlanRepo) UpdateConfig(ctx context.Context, tx *gorm.DB, planID uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(updates) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.StudyPlan{}).
		Where("id = ?", planID).
		Updates(updates).Error
}

func (r *studyPlanRepo) IncrementPostponementCount(ctx context.Context, tx *gorm.DB, planID uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if delta == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.StudyPlan{}).
		Where("id = ?", planID).
		UpdateColumn("postponement_count", gorm.Expr("postponement_count + ?", delta)).Error
}
