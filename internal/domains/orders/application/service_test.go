package application

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	ledgermemory "github.com/freshfold/laundry-api/internal/domains/cashledger/adapters/memory"
	ledgerdomain "github.com/freshfold/laundry-api/internal/domains/cashledger/domain"
	ledgerports "github.com/freshfold/laundry-api/internal/domains/cashledger/ports"
	driversmemory "github.com/freshfold/laundry-api/internal/domains/drivers/adapters/memory"
	driverdomain "github.com/freshfold/laundry-api/internal/domains/drivers/domain"
	ordersmemory "github.com/freshfold/laundry-api/internal/domains/orders/adapters/memory"
	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

var fixedNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	orders  *ordersmemory.Repository
	drivers *driversmemory.Repository
	ledger  *ledgermemory.Repository
	flow    *ordersmemory.FlowStore
	events  *ordersmemory.EventRecorder
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		orders:  ordersmemory.NewRepository(),
		drivers: driversmemory.NewRepository(),
		ledger:  ledgermemory.NewRepository(),
		flow:    ordersmemory.NewFlowStore(),
		events:  ordersmemory.NewEventRecorder(),
	}
	f.svc = f.build(f.orders, opts...)
	for _, d := range []*driverdomain.Driver{
		{ID: "d1", Name: "Dana", Phone: "555-0101", Status: driverdomain.StatusAvailable},
		{ID: "d2", Name: "Eli", Phone: "555-0102", Status: driverdomain.StatusAvailable},
		{ID: "d3", Name: "Fay", Phone: "555-0103", Status: driverdomain.StatusOffline},
	} {
		_, err := f.drivers.Save(context.Background(), d)
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) build(orders ports.Repository, opts ...Option) *Service {
	uow := ordersmemory.NewUnitOfWork(orders, f.drivers, f.ledger)
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithPublisher(f.events),
	}
	return NewService(orders, uow, f.flow, append(base, opts...)...)
}

func (f *fixture) driver(t *testing.T, id string) *driverdomain.Driver {
	t.Helper()
	d, err := f.drivers.GetByID(context.Background(), id)
	require.NoError(t, err)
	return d
}

func (f *fixture) ledgerEntries(t *testing.T, orderID string) []*ledgerdomain.Entry {
	t.Helper()
	entries, err := f.ledger.List(context.Background(), ledgerports.ListFilter{OrderID: orderID})
	require.NoError(t, err)
	return entries
}

func orderInput(pickup, delivery bool) orderstypes.CreateOrderInput {
	input := orderstypes.CreateOrderInput{
		Customer: orderstypes.CustomerInput{ID: "c1", Name: "Ana", Phone: "555-0199", Address: "12 Elm St"},
		Items: []orderstypes.ItemInput{
			{Name: "Shirt", Unit: "piece", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("3.50")},
			{Name: "Bedding", Unit: "weight", Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.NewFromInt(4)},
		},
	}
	if pickup {
		input.Pickup = &orderstypes.LegInput{Slot: "09:00-11:00"}
		input.PickupFee = decimal.NewFromInt(2)
	}
	if delivery {
		input.Delivery = &orderstypes.LegInput{Slot: "17:00-19:00", Address: "99 Oak Ave"}
		input.DeliveryFee = decimal.NewFromInt(3)
	}
	return input
}

func createOrder(t *testing.T, f *fixture, input orderstypes.CreateOrderInput) *domain.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	return order
}

func advanceToReady(t *testing.T, f *fixture, order *domain.Order) *domain.Order {
	t.Helper()
	for order.Status != domain.StepReadyDelivery {
		next, err := f.svc.Advance(context.Background(), orderstypes.OrderRef{ID: order.ID, Version: order.Version})
		require.NoError(t, err)
		order = next
	}
	return order
}

func requireReason(t *testing.T, err error, reason Reason) {
	t.Helper()
	require.ErrorIs(t, err, ErrInvalidTransition)
	var transition *TransitionError
	require.True(t, errors.As(err, &transition))
	require.Equal(t, reason, transition.Reason)
}

func TestCreateOrder_FoldsFeesAndDiscountIntoTotal(t *testing.T) {
	f := newFixture(t)
	input := orderInput(true, true)
	input.Discount = decimal.NewFromInt(1)

	order := createOrder(t, f, input)

	require.True(t, domain.IsTicketCode(order.TicketCode))
	require.Equal(t, "LC-20240305", order.TicketCode[:11])
	require.True(t, decimal.NewFromInt(17).Equal(order.TotalAmount), order.TotalAmount.String())
	require.False(t, order.IsPaid)
	require.Equal(t, domain.StepPendingPickup, order.Status)
	require.Equal(t, int64(1), order.Version)
	require.Equal(t, domain.PickupPending, order.Pickup.Status)
	require.Equal(t, "12 Elm St", order.Pickup.Address)
	require.Equal(t, "99 Oak Ave", order.Delivery.Address)
	require.Equal(t, []string{"orders.order.created"}, f.events.Names())
}

func TestCreateOrder_WithoutPickupStartsInStore(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(false, false))
	require.Equal(t, domain.StepInStore, order.Status)
	require.Nil(t, order.Pickup)
	require.Nil(t, order.Delivery)
}

func TestCreateOrder_RejectsQuantityGranularity(t *testing.T) {
	f := newFixture(t)
	input := orderInput(false, false)
	input.Items[1].Quantity = decimal.RequireFromString("0.75")

	_, err := f.svc.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCreateOrder_RecordsDeposit(t *testing.T) {
	f := newFixture(t)
	input := orderInput(false, false)
	input.Deposit = decimal.NewFromInt(5)

	order := createOrder(t, f, input)
	require.True(t, decimal.NewFromInt(5).Equal(order.PaidAmount))
	require.False(t, order.IsPaid)

	entry, err := f.ledger.GetByKey(context.Background(), DepositKey(order.ID))
	require.NoError(t, err)
	require.Equal(t, ledgerdomain.EntryIncome, entry.Type)
	require.Equal(t, "cash", entry.Method)
}

func TestCreateOrder_RetriesOnDuplicateTicket(t *testing.T) {
	entropy := bytes.NewReader([]byte{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1})
	tickets := domain.NewTicketGenerator().WithClock(func() time.Time { return fixedNow }).WithEntropy(entropy)
	f := newFixture(t, WithTicketGenerator(tickets))

	first := createOrder(t, f, orderInput(false, false))
	second := createOrder(t, f, orderInput(false, false))

	require.Equal(t, "LC-20240305-0000", first.TicketCode)
	require.Equal(t, "LC-20240305-1111", second.TicketCode)
}

func TestAdvanceThenRegress_RoundTrips(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(false, false))

	advanced, err := f.svc.Advance(context.Background(), orderstypes.OrderRef{ID: order.ID})
	require.NoError(t, err)
	require.Equal(t, domain.StepWashing, advanced.Status)

	back, err := f.svc.Regress(context.Background(), orderstypes.OrderRef{ID: order.ID})
	require.NoError(t, err)
	require.Equal(t, domain.StepInStore, back.Status)
	require.Equal(t, order.Version+2, back.Version)
}

func TestAdvance_SkipsInactiveSteps(t *testing.T) {
	f := newFixture(t)
	steps := domain.DefaultSteps()
	for i := range steps {
		if steps[i].Key == domain.StepDrying || steps[i].Key == domain.StepIroning {
			steps[i].Active = false
		}
	}
	_, err := f.svc.ReplaceFlow(context.Background(), steps)
	require.NoError(t, err)
	order := createOrder(t, f, orderInput(false, false))

	order, err = f.svc.Advance(context.Background(), orderstypes.OrderRef{ID: order.ID})
	require.NoError(t, err)
	require.Equal(t, domain.StepWashing, order.Status)

	order, err = f.svc.Advance(context.Background(), orderstypes.OrderRef{ID: order.ID})
	require.NoError(t, err)
	require.Equal(t, domain.StepReadyDelivery, order.Status)
}

func TestAdvance_RefusesHandoffStep(t *testing.T) {
	f := newFixture(t)
	order := advanceToReady(t, f, createOrder(t, f, orderInput(false, false)))

	_, err := f.svc.Advance(context.Background(), orderstypes.OrderRef{ID: order.ID})
	requireReason(t, err, ReasonHandoffStep)

	stored, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StepReadyDelivery, stored.Status)
	require.Equal(t, order.Version, stored.Version)
}

func TestAdvance_RefusesWhileAwaitingPickup(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(true, false))

	_, err := f.svc.Advance(context.Background(), orderstypes.OrderRef{ID: order.ID})
	requireReason(t, err, ReasonAwaitingPickup)
}

func TestRegress_RefusesAtFirstStoreStep(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(false, false))

	_, err := f.svc.Regress(context.Background(), orderstypes.OrderRef{ID: order.ID})
	requireReason(t, err, ReasonNoPreviousStep)
}

func TestAdvance_StaleVersionConflicts(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(false, false))
	_, err := f.svc.Advance(context.Background(), orderstypes.OrderRef{ID: order.ID, Version: order.Version})
	require.NoError(t, err)

	_, err = f.svc.Advance(context.Background(), orderstypes.OrderRef{ID: order.ID, Version: order.Version})
	require.ErrorIs(t, err, ports.ErrVersionConflict)
}

func TestAdvance_UnknownOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Advance(context.Background(), orderstypes.OrderRef{ID: "missing"})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestMarkHandedOffAtStore_PaidOrderIsDelivered(t *testing.T) {
	f := newFixture(t)
	input := orderInput(false, false)
	input.Deposit = decimal.NewFromInt(13)
	order := advanceToReady(t, f, createOrder(t, f, input))
	require.True(t, order.IsPaid)

	done, err := f.svc.MarkHandedOffAtStore(context.Background(), orderstypes.OrderRef{ID: order.ID, Version: order.Version})
	require.NoError(t, err)
	require.Equal(t, domain.StepDelivered, done.Status)
	require.NotNil(t, done.DeliveredAt)
}

func TestMarkHandedOffAtStore_UnpaidNeverMutates(t *testing.T) {
	f := newFixture(t)
	order := advanceToReady(t, f, createOrder(t, f, orderInput(false, false)))

	_, err := f.svc.MarkHandedOffAtStore(context.Background(), orderstypes.OrderRef{ID: order.ID})
	require.ErrorIs(t, err, ErrPaymentRequired)

	stored, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StepReadyDelivery, stored.Status)
	require.Equal(t, order.Version, stored.Version)
	require.Nil(t, stored.DeliveredAt)
}

func TestMarkHandedOffAtStore_RefusesDeliveryOrders(t *testing.T) {
	f := newFixture(t)
	order := advanceToReady(t, f, createOrder(t, f, orderInput(false, true)))

	_, err := f.svc.MarkHandedOffAtStore(context.Background(), orderstypes.OrderRef{ID: order.ID})
	requireReason(t, err, ReasonDeliveryRequired)
}

func TestCollectPaymentAndComplete_AtStore(t *testing.T) {
	f := newFixture(t)
	order := advanceToReady(t, f, createOrder(t, f, orderInput(false, false)))

	done, err := f.svc.CollectPaymentAndComplete(context.Background(), orderstypes.PaymentInput{
		Order:  orderstypes.OrderRef{ID: order.ID, Version: order.Version},
		Amount: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	require.Equal(t, domain.StepDelivered, done.Status)
	require.True(t, done.IsPaid)
	require.True(t, done.TotalAmount.Equal(done.PaidAmount))

	entries := f.ledgerEntries(t, order.ID)
	require.Len(t, entries, 1)
	require.True(t, decimal.NewFromInt(13).Equal(entries[0].Amount))
	require.Equal(t, PaymentKey(order.ID), entries[0].IdempotencyKey)
}

func TestCollectPaymentAndComplete_RetryAfterSuccessAddsNoEntry(t *testing.T) {
	f := newFixture(t)
	order := advanceToReady(t, f, createOrder(t, f, orderInput(false, false)))
	input := orderstypes.PaymentInput{
		Order:  orderstypes.OrderRef{ID: order.ID, Version: order.Version},
		Amount: decimal.NewFromInt(13),
	}

	first, err := f.svc.CollectPaymentAndComplete(context.Background(), input)
	require.NoError(t, err)
	second, err := f.svc.CollectPaymentAndComplete(context.Background(), input)
	require.NoError(t, err)

	require.Equal(t, first.Version, second.Version)
	require.Len(t, f.ledgerEntries(t, order.ID), 1)
}

func TestCollectPaymentAndComplete_InsufficientAmount(t *testing.T) {
	f := newFixture(t)
	order := advanceToReady(t, f, createOrder(t, f, orderInput(false, false)))

	_, err := f.svc.CollectPaymentAndComplete(context.Background(), orderstypes.PaymentInput{
		Order:  orderstypes.OrderRef{ID: order.ID},
		Amount: decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInsufficientPayment)
	require.Empty(t, f.ledgerEntries(t, order.ID))
}

func TestCollectPaymentAndComplete_NotReady(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(false, false))

	_, err := f.svc.CollectPaymentAndComplete(context.Background(), orderstypes.PaymentInput{
		Order:  orderstypes.OrderRef{ID: order.ID},
		Amount: decimal.NewFromInt(13),
	})
	requireReason(t, err, ReasonNotReady)
	require.Empty(t, f.ledgerEntries(t, order.ID))
}

type failingStatusRepo struct {
	*ordersmemory.Repository
}

func (r failingStatusRepo) PersistStatus(context.Context, string, int64, domain.StepKey, time.Time) error {
	return errors.New("connection reset")
}

func TestCollectPaymentAndComplete_FailureLeavesNoPartialState(t *testing.T) {
	f := newFixture(t)
	order := advanceToReady(t, f, createOrder(t, f, orderInput(false, false)))
	broken := f.build(failingStatusRepo{Repository: f.orders})

	_, err := broken.CollectPaymentAndComplete(context.Background(), orderstypes.PaymentInput{
		Order:  orderstypes.OrderRef{ID: order.ID},
		Amount: decimal.NewFromInt(13),
	})
	require.ErrorIs(t, err, ErrPersistence)

	stored, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.False(t, stored.IsPaid)
	require.True(t, stored.PaidAmount.IsZero())
	require.Equal(t, domain.StepReadyDelivery, stored.Status)
	require.Empty(t, f.ledgerEntries(t, order.ID))

	done, err := f.svc.CollectPaymentAndComplete(context.Background(), orderstypes.PaymentInput{
		Order:  orderstypes.OrderRef{ID: order.ID},
		Amount: decimal.NewFromInt(13),
	})
	require.NoError(t, err)
	require.Equal(t, domain.StepDelivered, done.Status)
	require.Len(t, f.ledgerEntries(t, order.ID), 1)
}

func TestDeliveryFlow_AssignStartComplete(t *testing.T) {
	f := newFixture(t)
	input := orderInput(false, true)
	input.Deposit = decimal.NewFromInt(16)
	order := advanceToReady(t, f, createOrder(t, f, input))
	delivery := orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskDelivery}

	_, err := f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: delivery, DriverID: "d1"})
	require.NoError(t, err)
	require.Equal(t, 1, f.driver(t, "d1").CurrentOrders)
	require.Equal(t, driverdomain.StatusDelivering, f.driver(t, "d1").Status)

	started, err := f.svc.StartTask(context.Background(), delivery)
	require.NoError(t, err)
	require.Equal(t, domain.DeliveryInTransit, started.Delivery.Status)
	require.Equal(t, domain.StepInTransit, started.Status)

	done, err := f.svc.CompleteTask(context.Background(), delivery)
	require.NoError(t, err)
	require.Equal(t, domain.DeliveryDelivered, done.Delivery.Status)
	require.Equal(t, domain.StepDelivered, done.Status)

	driver := f.driver(t, "d1")
	require.Equal(t, 0, driver.CurrentOrders)
	require.Equal(t, 1, driver.CompletedToday)
	require.Equal(t, driverdomain.StatusAvailable, driver.Status)
	require.Contains(t, f.events.Names(), "orders.task.completed")
}

func TestCompleteDelivery_UnpaidRequiresPayment(t *testing.T) {
	f := newFixture(t)
	order := advanceToReady(t, f, createOrder(t, f, orderInput(false, true)))
	delivery := orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskDelivery}
	_, err := f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: delivery, DriverID: "d1"})
	require.NoError(t, err)
	_, err = f.svc.StartTask(context.Background(), delivery)
	require.NoError(t, err)

	_, err = f.svc.CompleteTask(context.Background(), delivery)
	require.ErrorIs(t, err, ErrPaymentRequired)
	stored, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DeliveryInTransit, stored.Delivery.Status)
	require.Equal(t, 1, f.driver(t, "d1").CurrentOrders)

	done, err := f.svc.CollectPaymentAndComplete(context.Background(), orderstypes.PaymentInput{
		Order:  orderstypes.OrderRef{ID: order.ID},
		Amount: decimal.NewFromInt(16),
		Method: "card",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StepDelivered, done.Status)
	require.Equal(t, domain.DeliveryDelivered, done.Delivery.Status)
	require.Equal(t, 0, f.driver(t, "d1").CurrentOrders)
	entries := f.ledgerEntries(t, order.ID)
	require.Len(t, entries, 1)
	require.Equal(t, "card", entries[0].Method)
}

func TestStartDelivery_BeforeReadyIsRefused(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(false, true))
	delivery := orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskDelivery}
	_, err := f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: delivery, DriverID: "d1"})
	require.NoError(t, err)

	_, err = f.svc.StartTask(context.Background(), delivery)
	requireReason(t, err, ReasonNotReady)
}

func TestRegress_RefusedOnceDeliveryStarted(t *testing.T) {
	f := newFixture(t)
	steps := domain.DefaultSteps()
	for i := range steps {
		if steps[i].Key == domain.StepInTransit {
			steps[i].Active = false
		}
	}
	_, err := f.svc.ReplaceFlow(context.Background(), steps)
	require.NoError(t, err)
	input := orderInput(false, true)
	input.Deposit = decimal.NewFromInt(16)
	order := advanceToReady(t, f, createOrder(t, f, input))
	delivery := orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskDelivery}
	_, err = f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: delivery, DriverID: "d1"})
	require.NoError(t, err)
	started, err := f.svc.StartTask(context.Background(), delivery)
	require.NoError(t, err)
	require.Equal(t, domain.StepReadyDelivery, started.Status)
	require.Equal(t, domain.DeliveryInTransit, started.Delivery.Status)

	_, err = f.svc.Regress(context.Background(), orderstypes.OrderRef{ID: order.ID})
	requireReason(t, err, ReasonTaskNotPending)

	stored, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StepReadyDelivery, stored.Status)
	require.Equal(t, started.Version, stored.Version)

	done, err := f.svc.CompleteTask(context.Background(), delivery)
	require.NoError(t, err)
	require.Equal(t, domain.StepDelivered, done.Status)
}

func TestCompleteDelivery_RefusedForOrderBackInProcessing(t *testing.T) {
	f := newFixture(t)
	input := orderInput(false, true)
	input.Deposit = decimal.NewFromInt(16)
	order := advanceToReady(t, f, createOrder(t, f, input))
	delivery := orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskDelivery}
	_, err := f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: delivery, DriverID: "d1"})
	require.NoError(t, err)
	started, err := f.svc.StartTask(context.Background(), delivery)
	require.NoError(t, err)
	// a record left in processing while its delivery is underway
	require.NoError(t, f.orders.PersistStatus(context.Background(), order.ID, started.Version, domain.StepWashing, fixedNow))

	_, err = f.svc.CompleteTask(context.Background(), delivery)
	requireReason(t, err, ReasonNotReady)

	stored, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StepWashing, stored.Status)
	require.Equal(t, domain.DeliveryInTransit, stored.Delivery.Status)
	require.Equal(t, 1, f.driver(t, "d1").CurrentOrders)
}

func TestPickupFlow_ReceivedMovesOrderInStore(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(true, false))
	pickup := orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskPickup}

	_, err := f.svc.StartTask(context.Background(), pickup)
	requireReason(t, err, ReasonNoDriver)

	_, err = f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: pickup, DriverID: "d2"})
	require.NoError(t, err)
	_, err = f.svc.StartTask(context.Background(), pickup)
	require.NoError(t, err)
	done, err := f.svc.CompleteTask(context.Background(), pickup)
	require.NoError(t, err)

	require.Equal(t, domain.PickupReceived, done.Pickup.Status)
	require.Equal(t, domain.StepInStore, done.Status)
	require.Equal(t, 1, f.driver(t, "d2").CompletedToday)
}

func TestAssignDriver_SecondAssignmentRefusedByDefault(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(true, false))
	pickup := orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskPickup}

	_, err := f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: pickup, DriverID: "d1"})
	require.NoError(t, err)
	_, err = f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: pickup, DriverID: "d2"})
	requireReason(t, err, ReasonDriverAlreadyAssigned)

	require.Equal(t, 1, f.driver(t, "d1").CurrentOrders)
	require.Equal(t, 0, f.driver(t, "d2").CurrentOrders)
}

func TestAssignDriver_AllowPolicyMovesWorkload(t *testing.T) {
	f := newFixture(t, WithReassignPolicy(domain.ReassignAllow))
	order := createOrder(t, f, orderInput(true, false))
	pickup := orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskPickup}

	_, err := f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: pickup, DriverID: "d1"})
	require.NoError(t, err)
	_, err = f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: pickup, DriverID: "d1"})
	require.NoError(t, err)
	require.Equal(t, 1, f.driver(t, "d1").CurrentOrders)

	moved, err := f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: pickup, DriverID: "d2"})
	require.NoError(t, err)
	require.Equal(t, "d2", moved.Pickup.DriverID)
	require.Equal(t, 0, f.driver(t, "d1").CurrentOrders)
	require.Equal(t, driverdomain.StatusAvailable, f.driver(t, "d1").Status)
	require.Equal(t, 1, f.driver(t, "d2").CurrentOrders)
}

func TestAssignDriver_AfterStartRefusedUnderEitherPolicy(t *testing.T) {
	for _, policy := range []domain.ReassignPolicy{domain.ReassignRefuse, domain.ReassignAllow} {
		t.Run(string(policy), func(t *testing.T) {
			f := newFixture(t, WithReassignPolicy(policy))
			order := createOrder(t, f, orderInput(true, false))
			pickup := orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskPickup}
			_, err := f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: pickup, DriverID: "d1"})
			require.NoError(t, err)
			_, err = f.svc.StartTask(context.Background(), pickup)
			require.NoError(t, err)

			_, err = f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: pickup, DriverID: "d2"})
			requireReason(t, err, ReasonTaskNotPending)
		})
	}
}

func TestAssignDriver_OfflineDriverUnavailable(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(true, false))

	_, err := f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{
		Task:     orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskPickup},
		DriverID: "d3",
	})
	require.ErrorIs(t, err, ErrDriverUnavailable)

	stored, err := f.svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Empty(t, stored.Pickup.DriverID)
}

func TestAssignDriver_OrderWithoutPickup(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(false, false))

	_, err := f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{
		Task:     orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskPickup},
		DriverID: "d1",
	})
	requireReason(t, err, ReasonNoPickup)
}

func TestListTasks_DeliveryAppearsOnceReady(t *testing.T) {
	f := newFixture(t)
	order := createOrder(t, f, orderInput(true, true))

	tasks, err := f.svc.ListTasks(context.Background(), orderstypes.ListTasksInput{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, domain.TaskPickup, tasks[0].Kind)

	pickup := orderstypes.TaskRef{OrderID: order.ID, Kind: domain.TaskPickup}
	_, err = f.svc.AssignDriver(context.Background(), orderstypes.AssignDriverInput{Task: pickup, DriverID: "d1"})
	require.NoError(t, err)
	_, err = f.svc.StartTask(context.Background(), pickup)
	require.NoError(t, err)
	order, err = f.svc.CompleteTask(context.Background(), pickup)
	require.NoError(t, err)
	advanceToReady(t, f, order)

	tasks, err = f.svc.ListTasks(context.Background(), orderstypes.ListTasksInput{OpenOnly: true})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, domain.TaskDelivery, tasks[0].Kind)
	require.Equal(t, "99 Oak Ave", tasks[0].Address)

	tasks, err = f.svc.ListTasks(context.Background(), orderstypes.ListTasksInput{Kind: "pickup", DriverID: "d1"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	_, err = f.svc.ListTasks(context.Background(), orderstypes.ListTasksInput{Kind: "laundromat"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListOrders_FiltersByStatus(t *testing.T) {
	f := newFixture(t)
	createOrder(t, f, orderInput(true, false))
	createOrder(t, f, orderInput(false, false))

	orders, err := f.svc.ListOrders(context.Background(), orderstypes.ListOrdersInput{Statuses: []string{"in_store"}})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	_, err = f.svc.ListOrders(context.Background(), orderstypes.ListOrdersInput{Statuses: []string{"folded"}})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReplaceFlow_ForcesRequiredSteps(t *testing.T) {
	f := newFixture(t)
	steps, err := f.svc.ReplaceFlow(context.Background(), []domain.Step{
		{Key: domain.StepInStore, Active: false, Order: 20},
		{Key: domain.StepWashing, Active: true, Order: 30},
	})
	require.NoError(t, err)
	require.Len(t, steps, len(domain.Vocabulary()))
	for _, step := range steps {
		if domain.IsRequiredStep(step.Key) {
			require.True(t, step.Active, step.Key)
		}
	}

	_, err = f.svc.ReplaceFlow(context.Background(), []domain.Step{{Key: "folding"}})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReplaceFlow_RefusesHandoffAheadOfIntake(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ReplaceFlow(context.Background(), []domain.Step{
		{Key: domain.StepPendingPickup, Active: false, Order: 10},
		{Key: domain.StepReadyDelivery, Order: 1},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrStepOutOfPlace)

	flow, err := f.svc.FlowSteps(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.DefaultSteps(), flow)

	order := createOrder(t, f, orderInput(false, false))
	_, err = f.svc.Regress(context.Background(), orderstypes.OrderRef{ID: order.ID})
	requireReason(t, err, ReasonNoPreviousStep)
}
