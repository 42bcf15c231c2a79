package usecase

import (
	"context"

	"github.com/sandtoninsights/api/internal/infra/queue"
)

type QueueProducerInterface interface {
	PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error
}
