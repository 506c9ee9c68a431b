package database

import (
	"github.com/alriefqyd/gemba-api/models"
	"gorm.io/gorm"
)

type Database struct {
	db          *gorm.DB
	projectRepo *ProjectRepo
	findingRepo *FindingRepo
}

// New initializes a new Database struct with each repository using a shared
// GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		projectRepo: NewProjectRepo(db),
		findingRepo: NewFindingRepo(db),
	}
}

// DB returns the shared GORM handle, used by services to open transactions
func (d Database) DB() *gorm.DB {
	return d.db
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) FindingRepo() *FindingRepo {
	return d.findingRepo
}

// Migrate creates or updates the projects and findings tables. The FK from
// findings to projects carries ON DELETE CASCADE as a storage-level backstop;
// the service still deletes finding rows explicitly so attachment cleanup
// stays visible.
func (d Database) Migrate() error {
	return d.db.AutoMigrate(&models.Project{}, &models.Finding{})
}
