package models

import (
	"time"

	"github.com/google/uuid"
)

// Placeholder values written to the image columns when no real upload
// exists. Kept as-is from the legacy system: create writes PlaceholderImage,
// update overwrites it with UpdatedPlaceholderImage regardless of uploads.
const (
	PlaceholderImage        = "null.jpg"
	UpdatedPlaceholderImage = "image.jpg"
)

// Project groups the findings of one safety inspection effort
type Project struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectTitle string    `json:"project_title" db:"project_title" gorm:"type:text;not null"`
	ProjectNo    string    `json:"project_no" db:"project_no" gorm:"type:text;not null"`
	ProjectArea  string    `json:"project_area" db:"project_area" gorm:"type:text;not null"`
	Images       string    `json:"images" db:"images" gorm:"type:text;not null"`
	CreatedBy    *string   `json:"created_by,omitempty" db:"created_by" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	Findings     []Finding `json:"findings,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// HasImage reports whether the project references a real uploaded image
// rather than one of the legacy placeholder values.
func (p Project) HasImage() bool {
	return p.Images != "" && p.Images != PlaceholderImage && p.Images != UpdatedPlaceholderImage
}
