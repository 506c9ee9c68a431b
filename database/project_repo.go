package database

import (
	"github.com/alriefqyd/gemba-api/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// WithTx returns a repo bound to the given transaction handle
func (r *ProjectRepo) WithTx(tx *gorm.DB) *ProjectRepo {
	return &ProjectRepo{tx}
}

// FindAll returns all projects with their findings preloaded in insertion order
func (r *ProjectRepo) FindAll() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Preload("Findings", func(db *gorm.DB) *gorm.DB {
		return db.Order("findings.created_at, findings.id")
	}).Order("projects.created_at").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID with findings preloaded
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Findings", func(db *gorm.DB) *gorm.DB {
		return db.Order("findings.created_at, findings.id")
	}).First(&project, "projects.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// Update saves all project fields without touching the findings association
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Omit("Findings").Save(project).Error
}

// Delete removes a project row by id
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Project{}, "id = ?", id).Error
}
