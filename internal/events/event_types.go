package events

import (
	"time"

	"github.com/spec-kit/enquiry-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEnquiryCreated EventType = "enquiry_created"
	EventStageChanged   EventType = "enquiry_stage_changed"
	EventBillingUpdated EventType = "enquiry_billing_updated"
	EventLogAdded       EventType = "enquiry_log_added"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	StaffID *string      `json:"staff_id,omitempty"`
	Role    *domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EnquiryID string      `json:"enquiry_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EnquiryCreatedPayload payload.
type EnquiryCreatedPayload struct {
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	PackageID *string      `json:"package_id,omitempty"`
	Stage     domain.Stage `json:"stage"`
}

// StageChangedPayload payload.
type StageChangedPayload struct {
	OldStage domain.Stage `json:"old_stage"`
	NewStage domain.Stage `json:"new_stage"`
}

// BillingUpdatedPayload payload.
type BillingUpdatedPayload struct {
	Total    int64 `json:"total"`
	Paid     int64 `json:"paid"`
	Discount int64 `json:"discount"`
	Balance  int64 `json:"balance"`
}

// LogAddedPayload payload.
type LogAddedPayload struct {
	LogID string `json:"log_id"`
	Title string `json:"title"`
}
