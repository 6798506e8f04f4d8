package ports

import (
	"context"

	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs the compound payment-and-complete operation so a
// partial failure is retried as a whole.
type WorkflowOrchestrator interface {
	CollectPaymentAndComplete(ctx context.Context, input orderstypes.PaymentInput) (*domain.Order, error)
}
