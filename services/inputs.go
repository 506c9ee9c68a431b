package services

import (
	"time"

	"github.com/alriefqyd/gemba-api/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ImageUpload carries the raw bytes of a finding photo submitted with a
// create or update request. Data arrives base64-encoded on the wire and is
// decoded by encoding/json.
type ImageUpload struct {
	Data        []byte `json:"data" validate:"required"`
	ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png image/gif"`
}

// FindingInput is one desired finding in a project submission. An input that
// carries an ID updates the existing finding with that ID; an input without
// one creates a new finding. Every scalar field is applied as given (full
// replace, not patch).
type FindingInput struct {
	ID                 *uuid.UUID   `json:"id,omitempty"`
	FindingType        string       `json:"finding_type"`
	Date               string       `json:"date" validate:"omitempty,datetime=2006-01-02"`
	SafetyOfficer      string       `json:"safety_officer"`
	Supervisor         string       `json:"supervisor"`
	FindingDescription string       `json:"finding_description" validate:"required"`
	ActionDescription  string       `json:"action_description" validate:"required"`
	Status             string       `json:"status"`
	Image              *ImageUpload `json:"image,omitempty"`
}

// ProjectInput is the full-state submission for creating or updating a
// project together with its desired findings list.
type ProjectInput struct {
	ProjectTitle string         `json:"project_title" validate:"required,max=255"`
	ProjectNo    string         `json:"project_no" validate:"required,max=255"`
	ProjectArea  string         `json:"project_area" validate:"required,max=255"`
	Findings     []FindingInput `json:"findings" validate:"required,dive"`
}

// apply copies every scalar field of the input onto the finding. Fields the
// client leaves empty overwrite whatever the row held before.
func (in FindingInput) apply(f *models.Finding) {
	f.FindingType = in.FindingType
	f.Date = in.parsedDate()
	f.SafetyOfficer = in.SafetyOfficer
	f.Supervisor = in.Supervisor
	f.FindingDescription = in.FindingDescription
	f.ActionDescription = in.ActionDescription
	f.Status = in.Status
}

func (in FindingInput) parsedDate() datatypes.Date {
	if in.Date == "" {
		return datatypes.Date(time.Time{})
	}
	t, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		// Validated at the boundary; an unparseable date here becomes zero.
		return datatypes.Date(time.Time{})
	}
	return datatypes.Date(t)
}
