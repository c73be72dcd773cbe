package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionTypeNewTopic           = "New Topic"
	SessionTypeReview7            = "Review 7D"
	SessionTypeReview14           = "Review 14D"
	SessionTypeReview28           = "Review 28D"
	SessionTypeDirectedSimulation = "Directed Simulation"
	SessionTypeFullSimulation     = "Full Simulation"
	SessionTypeEssay              = "Essay"
	SessionTypeReinforcement      = "Reinforcement"
)

const (
	SessionStatusPending   = "Pending"
	SessionStatusCompleted = "Completed"
)

type StudySession struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudyPlanID uuid.UUID  `gorm:"type:uuid;not null;index:idx_session_plan_date" json:"study_plan_id"`
	StudyPlan   *StudyPlan `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudyPlanID;references:ID" json:"study_plan,omitempty"`
	TopicID     *uuid.UUID `gorm:"type:uuid;index" json:"topic_id,omitempty"`
	Topic       *Topic     `gorm:"constraint:OnDelete:SET NULL;foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	SubjectName string     `gorm:"not null;column:subject_name" json:"subject_name"`
	Description string     `gorm:"type:text;not null;column:description" json:"description"`
	SessionDate time.Time  `gorm:"type:date;not null;index:idx_session_plan_date;column:session_date" json:"session_date"`
	SessionType string     `gorm:"not null;column:session_type" json:"session_type"`
	Status      string     `gorm:"not null;default:'Pending';column:status" json:"status"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (StudySession) TableName() string {
	return "study_session"
}
