package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/enquiry-service/internal/domain"
	"github.com/spec-kit/enquiry-service/internal/events"
	"github.com/spec-kit/enquiry-service/internal/policy"
	"github.com/spec-kit/enquiry-service/internal/repository"
	apperrors "github.com/spec-kit/enquiry-service/pkg/util"
)

// BillingService manages the billing sub-ledger for enquiries.
// Authorization is enforced here, at the data boundary, so unauthorized
// roles never receive billing figures at all.
type BillingService struct {
	billing    repository.BillingRepository
	enquiries  repository.EnquiryRepository
	dispatcher events.Dispatcher
}

// BillingUpdateInput carries partial figure updates in minor units.
type BillingUpdateInput struct {
	Total    *int64
	Paid     *int64
	Discount *int64
}

// NewBillingService constructs the service.
func NewBillingService(billing repository.BillingRepository, enquiries repository.EnquiryRepository, dispatcher events.Dispatcher) *BillingService {
	return &BillingService{billing: billing, enquiries: enquiries, dispatcher: dispatcher}
}

// GetBilling returns the billing record for an enquiry, or nil when billing
// has not been initialized yet.
func (s *BillingService) GetBilling(ctx context.Context, actor *domain.User, enquiryID string) (*domain.BillingDetails, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if _, err := s.enquiries.GetByID(ctx, enquiryID); err != nil {
		return nil, err
	}
	billing, err := s.billing.GetByEnquiry(ctx, enquiryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return billing, nil
}

// CreateBilling initializes an all-zero billing record exactly once.
func (s *BillingService) CreateBilling(ctx context.Context, actor *domain.User, enquiryID string) (*domain.BillingDetails, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	if _, err := s.enquiries.GetByID(ctx, enquiryID); err != nil {
		return nil, err
	}
	if _, err := s.billing.GetByEnquiry(ctx, enquiryID); err == nil {
		return nil, apperrors.NewConflict("billing already initialized", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	billing := &domain.BillingDetails{EnquiryID: enquiryID}
	if err := s.billing.Create(ctx, billing); err != nil {
		return nil, err
	}
	return billing, nil
}

// UpdateBilling mutates figures in place on an explicit commit.
func (s *BillingService) UpdateBilling(ctx context.Context, actor *domain.User, enquiryID string, input BillingUpdateInput) (*domain.BillingDetails, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	billing, err := s.billing.GetByEnquiry(ctx, enquiryID)
	if err != nil {
		return nil, err
	}

	if input.Total != nil {
		billing.Total = *input.Total
	}
	if input.Paid != nil {
		billing.Paid = *input.Paid
	}
	if input.Discount != nil {
		billing.Discount = *input.Discount
	}
	if billing.Total < 0 || billing.Paid < 0 || billing.Discount < 0 {
		return nil, apperrors.NewValidationError("billing figures must be non-negative", nil)
	}

	if err := s.billing.Update(ctx, billing); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventBillingUpdated,
			EnquiryID: enquiryID,
			Actor:     staffActor(actor),
			Timestamp: time.Now(),
			Payload: events.BillingUpdatedPayload{
				Total:    billing.Total,
				Paid:     billing.Paid,
				Discount: billing.Discount,
				Balance:  billing.Balance(),
			},
		})
	}
	return billing, nil
}

func (s *BillingService) authorize(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	if !policy.IsBillingAuthorized(actor.Role) {
		return apperrors.NewForbidden("billing not accessible for this role")
	}
	return nil
}
