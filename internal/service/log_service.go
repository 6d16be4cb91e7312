package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/enquiry-service/internal/domain"
	"github.com/spec-kit/enquiry-service/internal/events"
	"github.com/spec-kit/enquiry-service/internal/repository"
	apperrors "github.com/spec-kit/enquiry-service/pkg/util"
)

// LogService manages call notes against enquiries.
type LogService struct {
	logs       repository.ActivityLogRepository
	enquiries  repository.EnquiryRepository
	dispatcher events.Dispatcher
}

// NewLogService constructs the service.
func NewLogService(logs repository.ActivityLogRepository, enquiries repository.EnquiryRepository, dispatcher events.Dispatcher) *LogService {
	return &LogService{logs: logs, enquiries: enquiries, dispatcher: dispatcher}
}

// ListLogs returns activity notes newest first.
func (s *LogService) ListLogs(ctx context.Context, enquiryID string, limit, offset int) ([]domain.ActivityLog, error) {
	if _, err := s.enquiries.GetByID(ctx, enquiryID); err != nil {
		return nil, err
	}
	return s.logs.ListByEnquiry(ctx, enquiryID, limit, offset)
}

// CreateLog appends a note. Empty title or description is rejected before
// any write happens.
func (s *LogService) CreateLog(ctx context.Context, actor *domain.User, enquiryID, title, description string) (*domain.ActivityLog, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if _, err := s.enquiries.GetByID(ctx, enquiryID); err != nil {
		return nil, err
	}

	log := &domain.ActivityLog{
		EnquiryID:   enquiryID,
		Title:       title,
		Description: description,
		AuthorID:    actor.ID,
		AuthorRole:  actor.Role,
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventLogAdded,
			EnquiryID: enquiryID,
			Actor:     staffActor(actor),
			Timestamp: time.Now(),
			Payload: events.LogAddedPayload{
				LogID: log.ID,
				Title: log.Title,
			},
		})
	}
	return log, nil
}

// UpdateLog edits an existing note.
func (s *LogService) UpdateLog(ctx context.Context, actor *domain.User, logID, title, description string) (*domain.ActivityLog, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	log, err := s.logs.GetByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	log.Title = title
	log.Description = description
	if err := s.logs.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}
