package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicStatusPending   = "Pending"
	TopicStatusCompleted = "Completed"
)

type Topic struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubjectID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"subject_id"`
	Subject        *Subject   `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	Description    string     `gorm:"not null;column:description" json:"description"`
	Status         string     `gorm:"not null;default:'Pending';column:status" json:"status"`
	CompletionDate *time.Time `gorm:"type:date;column:completion_date" json:"completion_date,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Topic) TableName() string {
	return "topic"
}
