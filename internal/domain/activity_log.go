package domain

import "time"

// ActivityLog records a call note or follow-up against an enquiry.
type ActivityLog struct {
	ID          string
	EnquiryID   string
	Title       string
	Description string
	AuthorID    string
	AuthorRole  Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StageHistory records one pipeline transition for auditing.
type StageHistory struct {
	ID          string
	EnquiryID   string
	ChangedByID *string
	OldStage    Stage
	NewStage    Stage
	CreatedAt   time.Time
}
