package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Finding is a single inspection observation with optional photo evidence.
// Status and FindingType are free text, not closed enums.
type Finding struct {
	ID                 uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID          uuid.UUID      `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	FindingType        string         `json:"finding_type" db:"finding_type" gorm:"type:text;not null"`
	Date               datatypes.Date `json:"date" db:"date" gorm:"type:date;not null"`
	SafetyOfficer      string         `json:"safety_officer" db:"safety_officer" gorm:"type:text;not null"`
	Supervisor         string         `json:"supervisor" db:"supervisor" gorm:"type:text;not null"`
	FindingDescription string         `json:"finding_description" db:"finding_description" gorm:"type:text;not null"`
	ActionDescription  string         `json:"action_description" db:"action_description" gorm:"type:text;not null"`
	Status             string         `json:"status" db:"status" gorm:"type:text;not null"`
	Image              *string        `json:"image,omitempty" db:"image" gorm:"type:text"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

// ImagePath returns the attachment reference or the empty string when the
// finding has no photo evidence.
func (f Finding) ImagePath() string {
	if f.Image == nil {
		return ""
	}
	return *f.Image
}
