package ports

import (
	"context"

	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
)

// Service defines the order lifecycle use cases exposed to adapters (inbound/driving port).
type Service interface {
	CreateOrder(ctx context.Context, input orderstypes.CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, input orderstypes.ListOrdersInput) ([]*domain.Order, error)
	Advance(ctx context.Context, ref orderstypes.OrderRef) (*domain.Order, error)
	Regress(ctx context.Context, ref orderstypes.OrderRef) (*domain.Order, error)
	MarkHandedOffAtStore(ctx context.Context, ref orderstypes.OrderRef) (*domain.Order, error)
	CollectPaymentAndComplete(ctx context.Context, input orderstypes.PaymentInput) (*domain.Order, error)
	AssignDriver(ctx context.Context, input orderstypes.AssignDriverInput) (*domain.Order, error)
	StartTask(ctx context.Context, ref orderstypes.TaskRef) (*domain.Order, error)
	CompleteTask(ctx context.Context, ref orderstypes.TaskRef) (*domain.Order, error)
	ListTasks(ctx context.Context, input orderstypes.ListTasksInput) ([]domain.Task, error)
	FlowSteps(ctx context.Context) ([]domain.Step, error)
	ReplaceFlow(ctx context.Context, steps []domain.Step) ([]domain.Step, error)
}
