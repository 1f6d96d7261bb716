// models/common_models.go
package models

// ErrorResponse is the body used by the lookup endpoints on failure.
// Details carries the upstream message or a per-source error map.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// MessageResponse is the body used by the breach-check and leads endpoints.
type MessageResponse struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
