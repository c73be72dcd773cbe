package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type StudyPlan struct {
	ID                     uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID                 uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User                   *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	PlanName               string         `gorm:"not null;column:plan_name" json:"plan_name"`
	ExamDate               time.Time      `gorm:"type:date;not null;column:exam_date" json:"exam_date"`
	StudyHoursPerDay       datatypes.JSON `gorm:"type:jsonb;not null;column:study_hours_per_day" json:"study_hours_per_day"`
	SessionDurationMinutes int            `gorm:"not null;default:50;column:session_duration_minutes" json:"session_duration_minutes"`
	HasEssay               bool           `gorm:"not null;default:false;column:has_essay" json:"has_essay"`
	PostponementCount      int            `gorm:"not null;default:0;column:postponement_count" json:"postponement_count"`
	CreatedAt              time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt              time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (StudyPlan) TableName() string {
	return "study_plan"
}

// WeeklyHours decodes the jsonb hours map. Keys are weekdays 0-6, 0=Sunday.
func (p *StudyPlan) WeeklyHours() (map[int]float64, error) {
	hours := map[int]float64{}
	if len(p.StudyHoursPerDay) == 0 {
		return hours, nil
	}
	if err := json.Unmarshal(p.StudyHoursPerDay, &hours); err != nil {
		return nil, err
	}
	return hours, nil
}
