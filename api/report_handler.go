package api

import (
	"fmt"
	"net/http"

	"github.com/alriefqyd/gemba-api/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type reportHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
	reports   *services.ReportService
}

func newReportHandler(projects *services.ProjectService, reports *services.ReportService) reportHandler {
	logger := log.With().Str("handlerName", "reportHandler").Logger()

	return reportHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		reports:   reports,
	}
}

// generateReport renders the project's findings into a pptx deck and streams
// it back. The temporary artifact is removed once delivery finishes, whether
// or not it succeeded.
func (h reportHandler) generateReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := parseProjectID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.GetProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		report, err := h.reports.GenerateReport(r.Context(), project, project.Findings)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer func() {
			if err := report.Cleanup(); err != nil {
				h.logger.Warn().Err(err).Str("path", report.Path).Msg("failed to remove report artifact")
			}
		}()

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename))

		http.ServeFile(w, r, report.Path)
	}
}
