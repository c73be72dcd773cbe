package types

import (
	"time"

	"github.com/google/uuid"
)

type Subject struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudyPlanID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"study_plan_id"`
	StudyPlan      *StudyPlan `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudyPlanID;references:ID" json:"study_plan,omitempty"`
	SubjectName    string     `gorm:"not null;column:subject_name" json:"subject_name"`
	PriorityWeight int        `gorm:"not null;default:3;column:priority_weight" json:"priority_weight"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Subject) TableName() string {
	return "subject"
}
