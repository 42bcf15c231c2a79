package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandtoninsights/api/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) CreateLead(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListLeads(ctx context.Context, filters entity.LeadFilters) ([]*entity.Lead, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateLeadStatus(ctx context.Context, id string, status entity.LeadStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func TestCreateLeadSuccess(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	repo.On("CreateLead", ctx, mock.Anything).Return(nil)

	uc := NewCreateLeadUseCase(repo, nil, nil)

	before := time.Now().UTC()
	lead, err := uc.Execute(ctx, validInput(), "ag_01")

	assert.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, entity.LeadStatusNew, lead.Status)
	assert.Equal(t, "ag_01", lead.AssignedAgentID)
	assert.Equal(t, []string{"bryanston", "sandown"}, lead.PreferredSuburbs)

	// Consent contract is server-bound.
	assert.True(t, lead.ConsentGiven)
	assert.Equal(t, entity.ConsentTextVersion, lead.ConsentTextVersion)
	assert.Equal(t, entity.ConsentPurpose, lead.ConsentPurpose)
	assert.False(t, lead.ConsentTimestamp.Before(before))
	assert.Equal(t, lead.ConsentTimestamp, lead.CreatedAt)

	repo.AssertExpectations(t)
}

func TestCreateLeadWithoutConsentNeverReachesStorage(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)

	uc := NewCreateLeadUseCase(repo, nil, nil)

	input := validInput()
	input.FormData.ConsentGiven = false

	lead, err := uc.Execute(ctx, input, "")

	assert.Nil(t, lead)
	assert.True(t, IsDomainError(err))
	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	repo.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestCreateLeadStorageFailureIsTechnical(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	repo.On("CreateLead", ctx, mock.Anything).Return(errors.New("disk I/O error"))

	uc := NewCreateLeadUseCase(repo, nil, nil)

	lead, err := uc.Execute(ctx, validInput(), "")

	assert.Nil(t, lead)
	assert.True(t, IsTechnicalError(err))
	assert.False(t, IsDomainError(err))
}

func TestCreateLeadChecksSuburbsAgainstReferenceSet(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)

	known := func(slug string) bool { return slug == "bryanston" }
	uc := NewCreateLeadUseCase(repo, known, nil)

	lead, err := uc.Execute(ctx, validInput(), "")

	assert.Nil(t, lead)
	assert.True(t, IsDomainError(err))
	repo.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestCreateLeadUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	repo.On("CreateLead", ctx, mock.Anything).Return(nil)

	uc := NewCreateLeadUseCase(repo, nil, nil)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		lead, err := uc.Execute(ctx, validInput(), "")
		assert.NoError(t, err)
		assert.False(t, seen[lead.ID], "duplicate id %s", lead.ID)
		seen[lead.ID] = true
	}
}
