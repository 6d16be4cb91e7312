package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/enquiry-service/internal/domain"
	"github.com/spec-kit/enquiry-service/internal/events"
	"github.com/spec-kit/enquiry-service/internal/repository"
	apperrors "github.com/spec-kit/enquiry-service/pkg/util"
)

type fakeEnquiryRepo struct {
	records          map[string]*domain.Enquiry
	updateStageCalls int
	updateCalls      int
}

func newFakeEnquiryRepo(seed ...*domain.Enquiry) *fakeEnquiryRepo {
	repo := &fakeEnquiryRepo{records: map[string]*domain.Enquiry{}}
	for _, enquiry := range seed {
		clone := enquiry.Clone()
		repo.records[enquiry.ID] = &clone
	}
	return repo
}

func (r *fakeEnquiryRepo) Create(_ context.Context, enquiry *domain.Enquiry) error {
	enquiry.ID = uuid.NewString()
	clone := enquiry.Clone()
	r.records[enquiry.ID] = &clone
	return nil
}

func (r *fakeEnquiryRepo) Update(_ context.Context, enquiry *domain.Enquiry) error {
	if _, ok := r.records[enquiry.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.updateCalls++
	clone := enquiry.Clone()
	r.records[enquiry.ID] = &clone
	return nil
}

func (r *fakeEnquiryRepo) UpdateStage(_ context.Context, id string, stage domain.Stage) error {
	record, ok := r.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	r.updateStageCalls++
	record.Stage = stage
	return nil
}

func (r *fakeEnquiryRepo) GetByID(_ context.Context, id string) (*domain.Enquiry, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := record.Clone()
	return &clone, nil
}

func (r *fakeEnquiryRepo) ListWithFilter(_ context.Context, _ repository.EnquiryFilter) ([]domain.Enquiry, error) {
	out := make([]domain.Enquiry, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record.Clone())
	}
	return out, nil
}

type fakeHistoryRepo struct {
	entries []domain.StageHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.StageHistory) error {
	entry.ID = uuid.NewString()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByEnquiry(_ context.Context, enquiryID string, _, _ int) ([]domain.StageHistory, error) {
	var out []domain.StageHistory
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].EnquiryID == enquiryID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func staff(role domain.Role) *domain.User {
	return &domain.User{ID: uuid.NewString(), Name: "tester", Role: role, Active: true}
}

func seededEnquiry(stage domain.Stage, demo domain.DemoStatus) *domain.Enquiry {
	return &domain.Enquiry{
		ID:         uuid.NewString(),
		Name:       "Asha Nair",
		Email:      "asha@example.com",
		Phone:      "9876543210",
		Consent:    true,
		Stage:      stage,
		DemoStatus: demo,
	}
}

func newEnquiryService(repo *fakeEnquiryRepo, history *fakeHistoryRepo, dispatcher events.Dispatcher) *EnquiryService {
	return NewEnquiryService(EnquiryDependencies{
		EnquiryRepo: repo,
		HistoryRepo: history,
		Dispatcher:  dispatcher,
	})
}

func TestEnquiryService_CreateEnquiry(t *testing.T) {
	t.Run("Should start new candidates at the first stage with demo not started", func(t *testing.T) {
		repo := newFakeEnquiryRepo()
		dispatcher := &recordingDispatcher{}
		svc := newEnquiryService(repo, &fakeHistoryRepo{}, dispatcher)

		enquiry, err := svc.CreateEnquiry(context.Background(), nil, EnquiryCreateInput{
			Name:    "Asha Nair",
			Email:   "asha@example.com",
			Phone:   "9876543210",
			Consent: true,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StageEnquiry, enquiry.Stage)
		assert.Equal(t, domain.DemoNotStarted, enquiry.DemoStatus)
		require.Len(t, dispatcher.published, 1)
		assert.Equal(t, events.EventEnquiryCreated, dispatcher.published[0].Type)
	})

	t.Run("Should reject intake without consent", func(t *testing.T) {
		svc := newEnquiryService(newFakeEnquiryRepo(), &fakeHistoryRepo{}, nil)

		_, err := svc.CreateEnquiry(context.Background(), nil, EnquiryCreateInput{Name: "Asha"})
		require.Error(t, err)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})
}

func TestEnquiryService_ChangeStage(t *testing.T) {
	t.Run("Should move the candidate and record history for a permitted stage", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageEnquiry, domain.DemoNotStarted)
		repo := newFakeEnquiryRepo(enquiry)
		history := &fakeHistoryRepo{}
		dispatcher := &recordingDispatcher{}
		svc := newEnquiryService(repo, history, dispatcher)
		actor := staff(domain.RoleCounsellor)

		updated, err := svc.ChangeStage(context.Background(), actor, enquiry.ID, domain.StageDemo)
		require.NoError(t, err)
		assert.Equal(t, domain.StageDemo, updated.Stage)

		require.Len(t, history.entries, 1)
		assert.Equal(t, domain.StageEnquiry, history.entries[0].OldStage)
		assert.Equal(t, domain.StageDemo, history.entries[0].NewStage)
		require.NotNil(t, history.entries[0].ChangedByID)
		assert.Equal(t, actor.ID, *history.entries[0].ChangedByID)

		require.Len(t, dispatcher.published, 1)
		assert.Equal(t, events.EventStageChanged, dispatcher.published[0].Type)
	})

	t.Run("Should refuse a stage outside the caller's visible segment", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageQualifiedDemo, domain.DemoCompleted)
		repo := newFakeEnquiryRepo(enquiry)
		svc := newEnquiryService(repo, &fakeHistoryRepo{}, nil)

		_, err := svc.ChangeStage(context.Background(), staff(domain.RoleCounsellor), enquiry.ID, domain.StagePlacement)
		require.Error(t, err)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
		assert.Equal(t, 0, repo.updateStageCalls, "a refused transition must not write")
	})

	t.Run("Should accept the current stage as a no-op for any role", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageDemo, domain.DemoInProgress)
		repo := newFakeEnquiryRepo(enquiry)
		history := &fakeHistoryRepo{}
		svc := newEnquiryService(repo, history, nil)

		// HR cannot normally set "demo", but re-stating the current stage
		// must not fail or write anything.
		updated, err := svc.ChangeStage(context.Background(), staff(domain.RoleHR), enquiry.ID, domain.StageDemo)
		require.NoError(t, err)
		assert.Equal(t, domain.StageDemo, updated.Stage)
		assert.Equal(t, 0, repo.updateStageCalls)
		assert.Empty(t, history.entries)
	})

	t.Run("Should reject a stage outside the enum", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageEnquiry, domain.DemoNotStarted)
		svc := newEnquiryService(newFakeEnquiryRepo(enquiry), &fakeHistoryRepo{}, nil)

		_, err := svc.ChangeStage(context.Background(), staff(domain.RoleAdmin), enquiry.ID, domain.Stage("archived"))
		require.Error(t, err)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})

	t.Run("Should require an authenticated actor", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageEnquiry, domain.DemoNotStarted)
		svc := newEnquiryService(newFakeEnquiryRepo(enquiry), &fakeHistoryRepo{}, nil)

		_, err := svc.ChangeStage(context.Background(), nil, enquiry.ID, domain.StageDemo)
		require.Error(t, err)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	})
}

func TestEnquiryService_UpdateEnquiry(t *testing.T) {
	t.Run("Should let a counsellor edit demo status during the demo window", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageQualifiedDemo, domain.DemoInProgress)
		repo := newFakeEnquiryRepo(enquiry)
		svc := newEnquiryService(repo, &fakeHistoryRepo{}, nil)

		status := domain.DemoCompleted
		updated, err := svc.UpdateEnquiry(context.Background(), staff(domain.RoleCounsellor), enquiry.ID, EnquiryUpdateInput{DemoStatus: &status})
		require.NoError(t, err)
		assert.Equal(t, domain.DemoCompleted, updated.DemoStatus)
	})

	t.Run("Should refuse a demo status change from an unauthorized role", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageDemo, domain.DemoInProgress)
		repo := newFakeEnquiryRepo(enquiry)
		svc := newEnquiryService(repo, &fakeHistoryRepo{}, nil)

		status := domain.DemoCompleted
		_, err := svc.UpdateEnquiry(context.Background(), staff(domain.RoleAccounts), enquiry.ID, EnquiryUpdateInput{DemoStatus: &status})
		require.Error(t, err)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
		assert.Equal(t, 0, repo.updateCalls)
	})

	t.Run("Should refuse a demo status change outside the demo stages", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageClass, domain.DemoCompleted)
		svc := newEnquiryService(newFakeEnquiryRepo(enquiry), &fakeHistoryRepo{}, nil)

		status := domain.DemoNotInterested
		_, err := svc.UpdateEnquiry(context.Background(), staff(domain.RoleCounsellor), enquiry.ID, EnquiryUpdateInput{DemoStatus: &status})
		require.Error(t, err)
	})

	t.Run("Should pass an unchanged demo status through without a gate", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageClass, domain.DemoCompleted)
		svc := newEnquiryService(newFakeEnquiryRepo(enquiry), &fakeHistoryRepo{}, nil)

		status := domain.DemoCompleted
		name := "Asha N"
		updated, err := svc.UpdateEnquiry(context.Background(), staff(domain.RoleHR), enquiry.ID, EnquiryUpdateInput{
			Name:       &name,
			DemoStatus: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, "Asha N", updated.Name)
	})

	t.Run("Should clear the package when the update names an empty package id", func(t *testing.T) {
		enquiry := seededEnquiry(domain.StageEnquiry, domain.DemoNotStarted)
		pkg := uuid.NewString()
		enquiry.PackageID = &pkg
		svc := newEnquiryService(newFakeEnquiryRepo(enquiry), &fakeHistoryRepo{}, nil)

		empty := ""
		updated, err := svc.UpdateEnquiry(context.Background(), staff(domain.RoleAdmin), enquiry.ID, EnquiryUpdateInput{PackageID: &empty})
		require.NoError(t, err)
		assert.Nil(t, updated.PackageID)
	})
}
