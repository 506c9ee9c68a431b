package api

import (
	"github.com/alriefqyd/gemba-api/database"
	"github.com/alriefqyd/gemba-api/services"
	"github.com/alriefqyd/gemba-api/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, store storage.Storage) *routeHandlers {
	projectService := services.NewProjectService(db, store)
	reportService := services.NewReportService(store)

	return &routeHandlers{
		projectHandler: newProjectHandler(projectService),
		reportHandler:  newReportHandler(projectService, reportService),
	}
}
