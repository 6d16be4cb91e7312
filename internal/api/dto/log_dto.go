package dto

import (
	"time"

	"github.com/spec-kit/enquiry-service/internal/domain"
)

// CreateLogRequest records a call note.
type CreateLogRequest struct {
	EnquiryID   string `json:"enquiry_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// UpdateLogRequest edits an existing note.
type UpdateLogRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// LogResponse is one activity note.
type LogResponse struct {
	ID          string      `json:"id"`
	EnquiryID   string      `json:"enquiry_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	AuthorID    string      `json:"author_id"`
	AuthorRole  domain.Role `json:"author_role"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
