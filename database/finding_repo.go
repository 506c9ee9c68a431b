package database

import (
	"github.com/alriefqyd/gemba-api/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FindingRepo struct {
	db *gorm.DB
}

func NewFindingRepo(db *gorm.DB) *FindingRepo {
	return &FindingRepo{db}
}

// WithTx returns a repo bound to the given transaction handle
func (r *FindingRepo) WithTx(tx *gorm.DB) *FindingRepo {
	return &FindingRepo{tx}
}

// FindAllByProject returns the findings of a project in insertion order
func (r *FindingRepo) FindAllByProject(projectID uuid.UUID) ([]models.Finding, error) {
	var findings []models.Finding
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at, id").
		Find(&findings).Error
	return findings, err
}

// FindIDsByProject returns only the finding IDs of a project. Used to
// snapshot the current set before a reconciliation pass mutates anything.
func (r *FindingRepo) FindIDsByProject(projectID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Finding{}).
		Where("project_id = ?", projectID).
		Order("created_at, id").
		Pluck("id", &ids).Error
	return ids, err
}

// FindByID returns a finding by its ID
func (r *FindingRepo) FindByID(id uuid.UUID) (*models.Finding, error) {
	var finding models.Finding
	err := r.db.First(&finding, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &finding, nil
}

// Add inserts a new finding into the database
func (r *FindingRepo) Add(finding *models.Finding) error {
	return r.db.Create(finding).Error
}

// Update saves all finding fields
func (r *FindingRepo) Update(finding *models.Finding) error {
	return r.db.Save(finding).Error
}

// Delete removes a finding row by id
func (r *FindingRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Finding{}, "id = ?", id).Error
}

// DeleteByProject removes all finding rows belonging to a project
func (r *FindingRepo) DeleteByProject(projectID uuid.UUID) error {
	return r.db.Delete(&models.Finding{}, "project_id = ?", projectID).Error
}
