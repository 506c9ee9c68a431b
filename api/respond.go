package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alriefqyd/gemba-api/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteData writes the standard success envelope: {"status": <code>, "data": ...}
func (r Responder) WriteData(w http.ResponseWriter, statusCode int, data any) {
	r.writeEnvelope(w, statusCode, map[string]any{
		"status": statusCode,
		"data":   data,
	})
}

// WriteMessage writes the standard message envelope: {"status": <code>, "message": ...}
func (r Responder) WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	r.writeEnvelope(w, statusCode, map[string]any{
		"status":  statusCode,
		"message": message,
	})
}

func (r Responder) writeEnvelope(w http.ResponseWriter, statusCode int, envelope map[string]any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	// Marshal the data first to check for errors before committing a status
	jsonData, err := json.Marshal(envelope)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Msg(err.Error())
		r.writeEnvelope(w, http.StatusInternalServerError, map[string]any{
			"status":  http.StatusInternalServerError,
			"message": "An unexpected error occurred",
		})
		return
	}

	envelope := map[string]any{
		"status":  apiErr.StatusCode,
		"message": apiErr.Error(),
	}

	// Add field information if present (for validation errors)
	if apiErr.Field != "" {
		envelope["field"] = apiErr.Field
	}

	// Add full error chain for debugging (especially useful for database errors)
	if apiErr.Cause != nil {
		r.logger.Error().Str("cause", apiErr.GetFullError()).Msg("request failed")
	}

	r.writeEnvelope(w, apiErr.StatusCode, envelope)
}
