package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sandtoninsights/api/internal/entity"
	"github.com/sandtoninsights/api/internal/infra/queue"
)

type CreateLeadUseCase struct {
	Repo entity.LeadRepository

	// KnownSuburb closes the preferred-suburb integrity gap: slugs are checked
	// against the reference dataset when it is provided. Nil skips the check.
	KnownSuburb func(string) bool

	// Queue is optional; lead persistence never depends on the broker.
	Queue QueueProducerInterface
}

func NewCreateLeadUseCase(repo entity.LeadRepository, knownSuburb func(string) bool, producer QueueProducerInterface) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Repo:        repo,
		KnownSuburb: knownSuburb,
		Queue:       producer,
	}
}

// Execute validates the submission, binds the consent contract and persists
// the lead. assignedAgentID may be empty. Validation failures come back as
// *DomainError, storage failures as *TechnicalError.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, input LeadCreateInput, assignedAgentID string) (*entity.Lead, error) {
	validationErrors := ValidateLeadCreateInput(input, uc.KnownSuburb)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for i, e := range validationErrors {
			if i > 0 {
				errMsg += ", "
			}
			errMsg += e.Field + " (" + e.Message + ")"
		}
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: errMsg,
			Details: validationErrors,
		}
	}

	form := input.FormData
	now := time.Now().UTC()

	suburbs := make([]string, len(form.PreferredSuburbs))
	copy(suburbs, form.PreferredSuburbs)

	lead := &entity.Lead{
		ID:               uuid.New().String(),
		Name:             form.Name,
		Phone:            form.Phone,
		Email:            form.Email,
		BuyerType:        entity.BuyerType(form.BuyerType),
		BudgetRange:      entity.BudgetRange(form.BudgetRange),
		PreferredSuburbs: suburbs,
		Timeline:         entity.Timeline(form.Timeline),
		PreApproved:      entity.PreApproved(form.PreApproved),

		// Consent metadata is server-bound: the timestamp is our clock, not the
		// client's, and the text version pins the legal copy in force right now.
		ConsentGiven:       true,
		ConsentTimestamp:   now,
		ConsentTextVersion: entity.ConsentTextVersion,
		ConsentPurpose:     entity.ConsentPurpose,

		SourceURL: input.SourceURL,
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,

		CreatedAt:       now,
		Status:          entity.LeadStatusNew,
		AssignedAgentID: assignedAgentID,
	}

	if err := uc.Repo.CreateLead(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist lead: " + err.Error(),
		}
	}

	if uc.Queue != nil {
		payload := queue.LeadCapturedPayload{
			LeadID:           lead.ID,
			Name:             lead.Name,
			Phone:            lead.Phone,
			Email:            lead.Email,
			PreferredSuburbs: lead.PreferredSuburbs,
			BudgetRange:      string(lead.BudgetRange),
			Timeline:         string(lead.Timeline),
			SourceURL:        lead.SourceURL,
			AssignedAgentID:  lead.AssignedAgentID,
			CapturedAt:       lead.CreatedAt,
		}
		go func() {
			if err := uc.Queue.PublishLeadCaptured(context.Background(), payload); err != nil {
				log.Printf("lead %s stored but alert publish failed: %v", lead.ID, err)
			}
		}()
	}

	return lead, nil
}
