package dto

// HealthResponse reports service status and the availability of the
// external tools and optional backends.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
