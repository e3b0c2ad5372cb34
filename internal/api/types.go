package api

import "time"

// CreateServiceRequest is the body of POST /services.
type CreateServiceRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateServiceRequest is the body of PATCH /services/:uuid. Absent fields
// are left untouched.
type UpdateServiceRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=150"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// CreateVersionRequest is the body of POST /services/:uuid/versions.
type CreateVersionRequest struct {
	Number      string     `json:"number" validate:"required,max=100"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
