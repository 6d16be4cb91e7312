package dto

import "time"

// CreatePackageRequest payload.
type CreatePackageRequest struct {
	Name       string   `json:"name" validate:"required"`
	Code       string   `json:"code"`
	SubjectIDs []string `json:"subject_ids"`
}

// UpdatePackageRequest payload; empty fields stay unchanged.
type UpdatePackageRequest struct {
	Name       string   `json:"name"`
	Code       string   `json:"code"`
	SubjectIDs []string `json:"subject_ids"`
}

// PackageResponse payload.
type PackageResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	SubjectIDs []string  `json:"subject_ids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateSubjectRequest payload.
type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code"`
}

// UpdateSubjectRequest payload; empty fields stay unchanged.
type UpdateSubjectRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// SubjectResponse payload.
type SubjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
