package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	reportHandler  reportHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Status  int    `json:"status" example:"500"`
	Message string `json:"message" example:"An unexpected error occurred"`
	Field   string `json:"field,omitempty" example:"project_title"`
}
