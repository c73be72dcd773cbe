package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/examtrail/examtrail-backend/internal/logger"
	"github.com/examtrail/examtrail-backend/internal/types"
)

type TopicRepo interface {
	Create(ctx context.Context, tx *gorm.DB, topics []*types.Topic) ([]*types.Topic, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Topic, error)
	GetBySubjectIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) ([]*types.Topic, error)
	// GetByPlanID returns the plan's full syllabus with subjects preloaded,
	// ordered by subject priority (highest first) then topic creation.
	GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.Topic, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, topicID uuid.UUID, status string, completionDate *time.Time) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	repoLog := baseLog.With("repo", "TopicRepo")
	return &topicRepo{db: db, log: repoLog}
}

func (r *topicRepo) Create(ctx context.Context, tx *gorm.DB, topics []*types.Topic) ([]*types.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(topics) == 0 {
		return []*types.Topic{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepo) GetByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Topic
	if len(topicIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Subject").
		Where("id IN ?", topicIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *topicRepo) GetBySubjectIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) ([]*types.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Topic
	if len(subjectIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("subject_id IN ?", subjectIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *topicRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.Topic, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Topic
	if err := transaction.WithContext(ctx).
		Preload("Subject").
		Joins("JOIN subject ON subject.id = topic.subject_id").
		Where("subject.study_plan_id = ?", planID).
		Order("subject.priority_weight DESC, topic.created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *topicRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, topicID uuid.UUID, status string, completionDate *time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Topic{}).
		Where("id = ?", topicID).
		Updates(map[string]interface{}{
			"status":          status,
			"completion_date": completionDate,
		}).Error
}

func (r *topicRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(topicIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", topicIDs).
		Delete(&types.Topic{}).Error
}
