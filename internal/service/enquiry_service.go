package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/enquiry-service/internal/domain"
	"github.com/spec-kit/enquiry-service/internal/events"
	"github.com/spec-kit/enquiry-service/internal/policy"
	"github.com/spec-kit/enquiry-service/internal/repository"
	apperrors "github.com/spec-kit/enquiry-service/pkg/util"
)

// EnquiryService coordinates candidate pipeline workflows.
type EnquiryService struct {
	enquiries  repository.EnquiryRepository
	history    repository.StageHistoryRepository
	dispatcher events.Dispatcher
}

// EnquiryDependencies bundles repositories for the enquiry service.
type EnquiryDependencies struct {
	EnquiryRepo repository.EnquiryRepository
	HistoryRepo repository.StageHistoryRepository
	Dispatcher  events.Dispatcher
}

// EnquiryCreateInput describes the intake form payload.
type EnquiryCreateInput struct {
	Name          string
	Email         string
	Phone         string
	Location      string
	PackageID     *string
	SubjectIDs    []string
	TrainingMode  string
	TrainingTime  string
	StartTime     string
	Profession    string
	Qualification string
	Experience    string
	Referral      string
	Consent       bool
}

// EnquiryUpdateInput carries a partial field set; nil means unchanged.
// PackageID set to the empty string clears the package ("Others").
type EnquiryUpdateInput struct {
	Name          *string
	Email         *string
	Phone         *string
	Location      *string
	PackageID     *string
	SubjectIDs    *[]string
	TrainingMode  *string
	TrainingTime  *string
	StartTime     *string
	Profession    *string
	Qualification *string
	Experience    *string
	Referral      *string
	DemoStatus    *domain.DemoStatus
}

// EnquiryListFilter describes listing parameters.
type EnquiryListFilter struct {
	Stages     []domain.Stage
	PackageID  *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// NewEnquiryService constructs the service.
func NewEnquiryService(deps EnquiryDependencies) *EnquiryService {
	return &EnquiryService{
		enquiries:  deps.EnquiryRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateEnquiry records a new candidate at the first pipeline stage.
func (s *EnquiryService) CreateEnquiry(ctx context.Context, actor *domain.User, input EnquiryCreateInput) (*domain.Enquiry, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if !input.Consent {
		return nil, apperrors.NewValidationError("candidate consent required", nil)
	}

	enquiry := &domain.Enquiry{
		Name:          strings.TrimSpace(input.Name),
		Email:         strings.TrimSpace(input.Email),
		Phone:         strings.TrimSpace(input.Phone),
		Location:      strings.TrimSpace(input.Location),
		PackageID:     input.PackageID,
		SubjectIDs:    input.SubjectIDs,
		TrainingMode:  input.TrainingMode,
		TrainingTime:  input.TrainingTime,
		StartTime:     input.StartTime,
		Profession:    input.Profession,
		Qualification: input.Qualification,
		Experience:    input.Experience,
		Referral:      input.Referral,
		Consent:       input.Consent,
		Stage:         domain.StageEnquiry,
		DemoStatus:    domain.DemoNotStarted,
	}

	if err := s.enquiries.Create(ctx, enquiry); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventEnquiryCreated,
		EnquiryID: enquiry.ID,
		Actor:     staffActor(actor),
		Payload: events.EnquiryCreatedPayload{
			Name:      enquiry.Name,
			Email:     enquiry.Email,
			PackageID: enquiry.PackageID,
			Stage:     enquiry.Stage,
		},
	})
	return enquiry, nil
}

// GetEnquiry fetches one candidate record.
func (s *EnquiryService) GetEnquiry(ctx context.Context, id string) (*domain.Enquiry, error) {
	return s.enquiries.GetByID(ctx, id)
}

// ListEnquiries returns paginated candidate records.
func (s *EnquiryService) ListEnquiries(ctx context.Context, filter EnquiryListFilter) ([]domain.Enquiry, error) {
	repoFilter := repository.EnquiryFilter{
		Stages:     filter.Stages,
		PackageID:  filter.PackageID,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	return s.enquiries.ListWithFilter(ctx, repoFilter)
}

// UpdateEnquiry applies a partial field set onto a candidate record.
// Demo status changes are gated by role and the candidate's current stage.
func (s *EnquiryService) UpdateEnquiry(ctx context.Context, actor *domain.User, id string, input EnquiryUpdateInput) (*domain.Enquiry, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	enquiry, err := s.enquiries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DemoStatus != nil {
		if !input.DemoStatus.Valid() {
			return nil, apperrors.NewValidationError("unknown demo status", map[string]any{"demo_status": *input.DemoStatus})
		}
		if *input.DemoStatus != enquiry.DemoStatus && !policy.IsDemoStatusEditable(actor.Role, enquiry.Stage) {
			return nil, apperrors.NewForbidden("demo status not editable for this role and stage")
		}
	}

	applyUpdate(enquiry, input)
	if err := s.enquiries.Update(ctx, enquiry); err != nil {
		return nil, err
	}
	return enquiry, nil
}

// ChangeStage moves a candidate to another pipeline stage. A request naming
// the current stage is a no-op accepted for any role; everything else must
// fall inside the caller's visible segment.
func (s *EnquiryService) ChangeStage(ctx context.Context, actor *domain.User, enquiryID string, newStage domain.Stage) (*domain.Enquiry, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	if !newStage.Valid() {
		return nil, apperrors.NewValidationError("unknown stage", map[string]any{"new_status": newStage})
	}

	enquiry, err := s.enquiries.GetByID(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	if enquiry.Stage == newStage {
		return enquiry, nil
	}
	if !policy.CanSetStage(actor.Role, newStage) {
		return nil, apperrors.NewForbidden("stage not reachable for this role")
	}

	oldStage := enquiry.Stage
	if err := s.enquiries.UpdateStage(ctx, enquiry.ID, newStage); err != nil {
		return nil, err
	}
	enquiry.Stage = newStage

	if s.history != nil {
		entry := &domain.StageHistory{
			EnquiryID:   enquiry.ID,
			ChangedByID: &actor.ID,
			OldStage:    oldStage,
			NewStage:    newStage,
		}
		if err := s.history.Create(ctx, entry); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventStageChanged,
		EnquiryID: enquiry.ID,
		Actor:     staffActor(actor),
		Payload: events.StageChangedPayload{
			OldStage: oldStage,
			NewStage: newStage,
		},
	})
	return enquiry, nil
}

// ListStageHistory returns pipeline transitions newest first.
func (s *EnquiryService) ListStageHistory(ctx context.Context, enquiryID string, limit, offset int) ([]domain.StageHistory, error) {
	if s.history == nil {
		return []domain.StageHistory{}, nil
	}
	if _, err := s.enquiries.GetByID(ctx, enquiryID); err != nil {
		return nil, err
	}
	return s.history.ListByEnquiry(ctx, enquiryID, limit, offset)
}

func applyUpdate(enquiry *domain.Enquiry, input EnquiryUpdateInput) {
	if input.Name != nil {
		enquiry.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		enquiry.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		enquiry.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Location != nil {
		enquiry.Location = strings.TrimSpace(*input.Location)
	}
	if input.PackageID != nil {
		if *input.PackageID == "" {
			enquiry.PackageID = nil
		} else {
			id := *input.PackageID
			enquiry.PackageID = &id
		}
	}
	if input.SubjectIDs != nil {
		enquiry.SubjectIDs = *input.SubjectIDs
	}
	if input.TrainingMode != nil {
		enquiry.TrainingMode = *input.TrainingMode
	}
	if input.TrainingTime != nil {
		enquiry.TrainingTime = *input.TrainingTime
	}
	if input.StartTime != nil {
		enquiry.StartTime = *input.StartTime
	}
	if input.Profession != nil {
		enquiry.Profession = *input.Profession
	}
	if input.Qualification != nil {
		enquiry.Qualification = *input.Qualification
	}
	if input.Experience != nil {
		enquiry.Experience = *input.Experience
	}
	if input.Referral != nil {
		enquiry.Referral = *input.Referral
	}
	if input.DemoStatus != nil {
		enquiry.DemoStatus = *input.DemoStatus
	}
}

func (s *EnquiryService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func staffActor(actor *domain.User) events.Actor {
	if actor == nil {
		return events.Actor{}
	}
	return events.Actor{
		StaffID: &actor.ID,
		Role:    &actor.Role,
	}
}
