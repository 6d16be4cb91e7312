package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/enquiry-service/internal/domain"
	"github.com/spec-kit/enquiry-service/internal/events"
	apperrors "github.com/spec-kit/enquiry-service/pkg/util"
)

type fakeBillingRepo struct {
	records map[string]*domain.BillingDetails
}

func newFakeBillingRepo() *fakeBillingRepo {
	return &fakeBillingRepo{records: map[string]*domain.BillingDetails{}}
}

func (r *fakeBillingRepo) Create(_ context.Context, billing *domain.BillingDetails) error {
	billing.CreatedAt = time.Now()
	billing.UpdatedAt = billing.CreatedAt
	clone := *billing
	r.records[billing.EnquiryID] = &clone
	return nil
}

func (r *fakeBillingRepo) Update(_ context.Context, billing *domain.BillingDetails) error {
	if _, ok := r.records[billing.EnquiryID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *billing
	r.records[billing.EnquiryID] = &clone
	return nil
}

func (r *fakeBillingRepo) GetByEnquiry(_ context.Context, enquiryID string) (*domain.BillingDetails, error) {
	record, ok := r.records[enquiryID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *record
	return &clone, nil
}

func TestBillingService_Authorization(t *testing.T) {
	enquiry := seededEnquiry(domain.StageClass, domain.DemoCompleted)

	t.Run("Should refuse counsellor and HR at the data boundary", func(t *testing.T) {
		svc := NewBillingService(newFakeBillingRepo(), newFakeEnquiryRepo(enquiry), nil)

		for _, role := range []domain.Role{domain.RoleCounsellor, domain.RoleHR} {
			_, err := svc.GetBilling(context.Background(), staff(role), enquiry.ID)
			require.Error(t, err, "role %s must not read billing", role)
			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "FORBIDDEN", domainErr.Code)
		}
	})

	t.Run("Should require an authenticated actor", func(t *testing.T) {
		svc := NewBillingService(newFakeBillingRepo(), newFakeEnquiryRepo(enquiry), nil)

		_, err := svc.GetBilling(context.Background(), nil, enquiry.ID)
		require.Error(t, err)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	})
}

func TestBillingService_GetBilling(t *testing.T) {
	t.Run("Should return nil for an enquiry without initialized billing", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageClass, domain.DemoCompleted)
		svc := NewBillingService(newFakeBillingRepo(), newFakeEnquiryRepo(enquiry), nil)

		billing, err := svc.GetBilling(context.Background(), staff(domain.RoleAccounts), enquiry.ID)
		require.NoError(t, err)
		assert.Nil(t, billing)
	})

	t.Run("Should surface a missing enquiry as not found", func(t *testing.T) {
		svc := NewBillingService(newFakeBillingRepo(), newFakeEnquiryRepo(), nil)

		_, err := svc.GetBilling(context.Background(), staff(domain.RoleAdmin), "missing")
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestBillingService_CreateBilling(t *testing.T) {
	t.Run("Should initialize an all-zero record exactly once", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageClass, domain.DemoCompleted)
		svc := NewBillingService(newFakeBillingRepo(), newFakeEnquiryRepo(enquiry), nil)
		actor := staff(domain.RoleAccounts)

		billing, err := svc.CreateBilling(context.Background(), actor, enquiry.ID)
		require.NoError(t, err)
		assert.Zero(t, billing.Total)
		assert.Zero(t, billing.Paid)
		assert.Zero(t, billing.Discount)
		assert.Zero(t, billing.Balance())

		_, err = svc.CreateBilling(context.Background(), actor, enquiry.ID)
		require.Error(t, err)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
	})
}

func TestBillingService_UpdateBilling(t *testing.T) {
	setup := func(t *testing.T) (*BillingService, *recordingDispatcher, *domain.User, string) {
		t.Helper()
		enquiry := seededEnquiry(domain.StageClass, domain.DemoCompleted)
		dispatcher := &recordingDispatcher{}
		svc := NewBillingService(newFakeBillingRepo(), newFakeEnquiryRepo(enquiry), dispatcher)
		actor := staff(domain.RoleAccounts)
		_, err := svc.CreateBilling(context.Background(), actor, enquiry.ID)
		require.NoError(t, err)
		return svc, dispatcher, actor, enquiry.ID
	}

	t.Run("Should apply partial figure updates and publish the derived balance", func(t *testing.T) {
		svc, dispatcher, actor, enquiryID := setup(t)

		total := int64(10000)
		paid := int64(3000)
		discount := int64(500)
		billing, err := svc.UpdateBilling(context.Background(), actor, enquiryID, BillingUpdateInput{
			Total:    &total,
			Paid:     &paid,
			Discount: &discount,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(6500), billing.Balance())

		require.Len(t, dispatcher.published, 1)
		payload, ok := dispatcher.published[0].Payload.(events.BillingUpdatedPayload)
		require.True(t, ok)
		assert.Equal(t, int64(6500), payload.Balance)
	})

	t.Run("Should leave untouched figures unchanged", func(t *testing.T) {
		svc, _, actor, enquiryID := setup(t)

		total := int64(20000)
		_, err := svc.UpdateBilling(context.Background(), actor, enquiryID, BillingUpdateInput{Total: &total})
		require.NoError(t, err)

		paid := int64(5000)
		billing, err := svc.UpdateBilling(context.Background(), actor, enquiryID, BillingUpdateInput{Paid: &paid})
		require.NoError(t, err)
		assert.Equal(t, int64(20000), billing.Total)
		assert.Equal(t, int64(5000), billing.Paid)
	})

	t.Run("Should reject negative figures", func(t *testing.T) {
		svc, _, actor, enquiryID := setup(t)

		bad := int64(-1)
		_, err := svc.UpdateBilling(context.Background(), actor, enquiryID, BillingUpdateInput{Paid: &bad})
		require.Error(t, err)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})
}
