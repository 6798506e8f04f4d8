package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledgerdomain "github.com/freshfold/laundry-api/internal/domains/cashledger/domain"
	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

const (
	defaultPaymentMethod = "cash"
	maxTicketAttempts    = 5
)

// PaymentKey is the ledger idempotency key of the payment collected when an order is handed off.
func PaymentKey(orderID string) string {
	return "order-payment:" + orderID
}

// DepositKey is the ledger idempotency key of the deposit taken at intake.
func DepositKey(orderID string) string {
	return "order-deposit:" + orderID
}

// Service is the order lifecycle controller. It validates every transition
// against the configured flow and runs it inside one unit of work.
type Service struct {
	repo      ports.Repository
	uow       ports.UnitOfWork
	flow      ports.FlowStore
	publisher ports.EventPublisher
	tickets   *domain.TicketGenerator
	reassign  domain.ReassignPolicy
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
}

// Option customises the service.
type Option func(*Service)

// WithPublisher ships committed lifecycle events.
func WithPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTicketGenerator overrides ticket code generation.
func WithTicketGenerator(generator *domain.TicketGenerator) Option {
	return func(s *Service) {
		if generator != nil {
			s.tickets = generator
		}
	}
}

// WithIDGenerator overrides order and ledger entry identifiers.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithReassignPolicy decides whether an assigned, unstarted task may change driver.
func WithReassignPolicy(policy domain.ReassignPolicy) Option {
	return func(s *Service) {
		s.reassign = policy
	}
}

// WithLogger sets the logger used for after-commit failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the lifecycle controller with its stores.
func NewService(repo ports.Repository, uow ports.UnitOfWork, flow ports.FlowStore, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		uow:       uow,
		flow:      flow,
		publisher: ports.NoopPublisher,
		reassign:  domain.ReassignRefuse,
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tickets == nil {
		s.tickets = domain.NewTicketGenerator().WithClock(s.now)
	}
	return s
}

var _ ports.Service = (*Service)(nil)

// CreateOrder takes an order in, folding fees and discount into the total.
func (s *Service) CreateOrder(ctx context.Context, input orderstypes.CreateOrderInput) (*domain.Order, error) {
	policy, err := s.policy(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	order, err := buildOrder(input, s.newID(), now)
	if err != nil {
		return nil, mapError(err)
	}
	order.Status = policy.InitialStatus(order.NeedsPickup())
	if err := order.Validate(); err != nil {
		return nil, mapError(err)
	}
	deposit := input.Deposit
	method := paymentMethod(input.Method)

	var created *domain.Order
	for attempt := 0; attempt < maxTicketAttempts; attempt++ {
		code, err := s.tickets.Next()
		if err != nil {
			return nil, mapError(err)
		}
		order.TicketCode = code
		err = s.uow.Do(ctx, func(ctx context.Context, stores ports.Stores) error {
			saved, err := stores.Orders.Create(ctx, order.Clone())
			if err != nil {
				return err
			}
			if deposit.IsPositive() {
				entry, err := ledgerdomain.NewIncome(deposit, ledgerdomain.CategoryOrderPayment,
					fmt.Sprintf("deposit for %s", saved.TicketCode), saved.ID, method, DepositKey(saved.ID))
				if err != nil {
					return err
				}
				entry.ID = s.newID()
				entry.CreatedAt = now
				if _, err := stores.Ledger.Append(ctx, entry); err != nil {
					return err
				}
			}
			created = saved
			return nil
		})
		if errors.Is(err, ports.ErrDuplicateTicket) {
			continue
		}
		if err != nil {
			return nil, mapError(err)
		}
		break
	}
	if created == nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, ports.ErrDuplicateTicket)
	}
	s.publish(ctx, []domain.Event{domain.OrderCreated{
		BaseEvent:     domain.NewBaseEvent(created, now),
		Status:        created.Status,
		TotalAmount:   created.TotalAmount,
		NeedsPickup:   created.NeedsPickup(),
		NeedsDelivery: created.NeedsDelivery(),
	}})
	return created, nil
}

// GetOrder loads a single order.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// ListOrders returns orders, optionally restricted to some statuses.
func (s *Service) ListOrders(ctx context.Context, input orderstypes.ListOrdersInput) ([]*domain.Order, error) {
	filter, err := statusFilter(input.Statuses)
	if err != nil {
		return nil, mapError(err)
	}
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// Advance moves the order to the next active processing step.
func (s *Service) Advance(ctx context.Context, ref orderstypes.OrderRef) (*domain.Order, error) {
	return s.mutate(ctx, ref, nil, func(ctx context.Context, c *change) error {
		if c.order.Status == domain.StepPendingPickup {
			return refuse(ReasonAwaitingPickup, c.order)
		}
		next, ok := c.policy.NextStep(c.order.Status)
		if !ok {
			return refuse(ReasonNoNextStep, c.order)
		}
		if domain.IsHandoffStep(next) {
			return refuse(ReasonHandoffStep, c.order)
		}
		return c.moveTo(ctx, next)
	})
}

// Regress moves the order back to the previous active processing step.
// Once the delivery trip started the order stays put.
func (s *Service) Regress(ctx context.Context, ref orderstypes.OrderRef) (*domain.Order, error) {
	return s.mutate(ctx, ref, nil, func(ctx context.Context, c *change) error {
		if domain.IsHandoffStep(c.order.Status) {
			return refuse(ReasonHandoffStep, c.order)
		}
		if c.order.Delivery != nil && c.order.Delivery.Status != domain.DeliveryPending {
			return refuse(ReasonTaskNotPending, c.order)
		}
		previous, ok := c.policy.PreviousStep(c.order.Status)
		if !ok || previous == domain.StepPendingPickup {
			return refuse(ReasonNoPreviousStep, c.order)
		}
		return c.moveTo(ctx, previous)
	})
}

// MarkHandedOffAtStore completes a paid order collected at the counter.
func (s *Service) MarkHandedOffAtStore(ctx context.Context, ref orderstypes.OrderRef) (*domain.Order, error) {
	return s.mutate(ctx, ref, nil, func(ctx context.Context, c *change) error {
		if c.order.NeedsDelivery() {
			return refuse(ReasonDeliveryRequired, c.order)
		}
		if c.order.Status != domain.StepReadyDelivery {
			return refuse(ReasonNotReady, c.order)
		}
		if !c.order.IsPaid {
			return ErrPaymentRequired
		}
		return c.moveTo(ctx, domain.StepDelivered)
	})
}

// CollectPaymentAndComplete settles the balance, records the cash movement
// and hands the order off, all or nothing. Calling it again after success
// returns the delivered order and records nothing.
func (s *Service) CollectPaymentAndComplete(ctx context.Context, input orderstypes.PaymentInput) (*domain.Order, error) {
	if input.Amount.IsNegative() {
		return nil, mapError(domain.ErrInvalidAmount)
	}
	method := paymentMethod(input.Method)
	settled := func(order *domain.Order) bool {
		return order.Status == domain.StepDelivered && order.IsPaid
	}
	return s.mutate(ctx, input.Order, settled, func(ctx context.Context, c *change) error {
		order := c.order
		if order.NeedsDelivery() {
			if order.Delivery.Status != domain.DeliveryInTransit {
				return refuse(ReasonTaskNotUnderway, order)
			}
		} else if order.Status != domain.StepReadyDelivery {
			return refuse(ReasonNotReady, order)
		}
		if input.Amount.LessThan(order.Outstanding()) {
			return domain.ErrInsufficientPayment
		}
		if !order.IsPaid {
			if err := c.settle(ctx, s.newID(), method); err != nil {
				return err
			}
		}
		if order.NeedsDelivery() {
			return c.completeDelivery(ctx)
		}
		return c.moveTo(ctx, domain.StepDelivered)
	})
}

// AssignDriver binds a driver to a pending pickup or delivery.
func (s *Service) AssignDriver(ctx context.Context, input orderstypes.AssignDriverInput) (*domain.Order, error) {
	driverID := strings.TrimSpace(input.DriverID)
	if driverID == "" {
		return nil, mapError(domain.ErrEmptyDriver)
	}
	if _, err := domain.ParseTaskKind(string(input.Task.Kind)); err != nil {
		return nil, mapError(err)
	}
	return s.mutate(ctx, input.Task.Order(), nil, func(ctx context.Context, c *change) error {
		var (
			previous string
			err      error
		)
		switch input.Task.Kind {
		case domain.TaskPickup:
			if !c.order.NeedsPickup() {
				return refuse(ReasonNoPickup, c.order)
			}
			previous, err = c.order.Pickup.Assign(driverID, s.reassign)
		default:
			if !c.order.NeedsDelivery() {
				return refuse(ReasonNoDelivery, c.order)
			}
			previous, err = c.order.Delivery.Assign(driverID, s.reassign)
		}
		if err != nil {
			return legError(err, c.order)
		}
		if previous == driverID {
			return nil
		}
		return c.assign(ctx, input.Task.Kind, driverID, previous)
	})
}

// StartTask sends the assigned driver on the way.
func (s *Service) StartTask(ctx context.Context, ref orderstypes.TaskRef) (*domain.Order, error) {
	if _, err := domain.ParseTaskKind(string(ref.Kind)); err != nil {
		return nil, mapError(err)
	}
	return s.mutate(ctx, ref.Order(), nil, func(ctx context.Context, c *change) error {
		order := c.order
		if ref.Kind == domain.TaskPickup {
			if !order.NeedsPickup() {
				return refuse(ReasonNoPickup, order)
			}
			if err := order.Pickup.Start(); err != nil {
				return legError(err, order)
			}
			if err := c.persistPickup(ctx); err != nil {
				return err
			}
			c.record(domain.TaskStarted{BaseEvent: c.base(), Kind: domain.TaskPickup, DriverID: order.Pickup.DriverID, CustomerPhone: order.Customer.Phone})
			return nil
		}
		if !order.NeedsDelivery() {
			return refuse(ReasonNoDelivery, order)
		}
		if !c.policy.Reached(order.Status, domain.StepReadyDelivery) {
			return refuse(ReasonNotReady, order)
		}
		if err := order.Delivery.Start(); err != nil {
			return legError(err, order)
		}
		if err := c.persistDelivery(ctx); err != nil {
			return err
		}
		c.record(domain.TaskStarted{BaseEvent: c.base(), Kind: domain.TaskDelivery, DriverID: order.Delivery.DriverID, CustomerPhone: order.Customer.Phone})
		if c.policy.IsActive(domain.StepInTransit) && order.Status != domain.StepInTransit {
			return c.moveTo(ctx, domain.StepInTransit)
		}
		return nil
	})
}

// CompleteTask finishes a driver trip. A received pickup releases the order
// into the store; a completed delivery hands the order off and requires payment.
func (s *Service) CompleteTask(ctx context.Context, ref orderstypes.TaskRef) (*domain.Order, error) {
	if _, err := domain.ParseTaskKind(string(ref.Kind)); err != nil {
		return nil, mapError(err)
	}
	return s.mutate(ctx, ref.Order(), nil, func(ctx context.Context, c *change) error {
		order := c.order
		if ref.Kind == domain.TaskPickup {
			if !order.NeedsPickup() {
				return refuse(ReasonNoPickup, order)
			}
			if err := order.Pickup.Complete(); err != nil {
				return legError(err, order)
			}
			if err := c.persistPickup(ctx); err != nil {
				return err
			}
			if err := c.completeDriver(ctx, order.Pickup.DriverID); err != nil {
				return err
			}
			c.record(domain.TaskCompleted{BaseEvent: c.base(), Kind: domain.TaskPickup, DriverID: order.Pickup.DriverID})
			if order.Status != domain.StepPendingPickup {
				return nil
			}
			next, ok := c.policy.NextStep(domain.StepPendingPickup)
			if !ok {
				next = domain.StepInStore
			}
			return c.moveTo(ctx, next)
		}
		if !order.NeedsDelivery() {
			return refuse(ReasonNoDelivery, order)
		}
		if order.Delivery.Status != domain.DeliveryInTransit {
			return refuse(ReasonTaskNotUnderway, order)
		}
		if !order.IsPaid {
			return ErrPaymentRequired
		}
		return c.completeDelivery(ctx)
	})
}

// ListTasks projects driver tasks from the current orders.
func (s *Service) ListTasks(ctx context.Context, input orderstypes.ListTasksInput) ([]domain.Task, error) {
	var kind domain.TaskKind
	if input.Kind != "" {
		parsed, err := domain.ParseTaskKind(input.Kind)
		if err != nil {
			return nil, mapError(err)
		}
		kind = parsed
	}
	policy, err := s.policy(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.List(ctx, ports.ListFilter{})
	if err != nil {
		return nil, mapError(err)
	}
	projected := domain.ProjectTasks(orders, policy)
	tasks := make([]domain.Task, 0, len(projected))
	for _, task := range projected {
		if kind != "" && task.Kind != kind {
			continue
		}
		if input.DriverID != "" && task.DriverID != input.DriverID {
			continue
		}
		if input.OpenOnly && !task.Open() {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// FlowSteps returns the normalized processing pipeline.
func (s *Service) FlowSteps(ctx context.Context) ([]domain.Step, error) {
	policy, err := s.policy(ctx)
	if err != nil {
		return nil, err
	}
	return policy.Steps(), nil
}

// ReplaceFlow validates and stores a new pipeline configuration. Required
// steps are forced active and missing steps are restored.
func (s *Service) ReplaceFlow(ctx context.Context, steps []domain.Step) ([]domain.Step, error) {
	policy, err := domain.NewFlowPolicy(steps)
	if err != nil {
		return nil, mapError(err)
	}
	normalized := policy.Steps()
	if err := s.flow.Replace(ctx, normalized); err != nil {
		return nil, mapError(err)
	}
	return normalized, nil
}

func (s *Service) policy(ctx context.Context) (domain.FlowPolicy, error) {
	if s.flow == nil {
		return domain.DefaultFlowPolicy(), nil
	}
	steps, err := s.flow.Steps(ctx)
	if err != nil {
		return domain.FlowPolicy{}, mapError(err)
	}
	if len(steps) == 0 {
		return domain.DefaultFlowPolicy(), nil
	}
	policy, err := domain.NewFlowPolicy(steps)
	if err != nil {
		return domain.FlowPolicy{}, mapError(err)
	}
	return policy, nil
}

// mutate loads the order inside a unit of work, checks the caller's version,
// applies fn and publishes the recorded events once the work committed.
// When settled reports true the order is returned as is.
func (s *Service) mutate(ctx context.Context, ref orderstypes.OrderRef, settled func(*domain.Order) bool, fn func(context.Context, *change) error) (*domain.Order, error) {
	if strings.TrimSpace(ref.ID) == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	policy, err := s.policy(ctx)
	if err != nil {
		return nil, err
	}
	var result *change
	err = s.uow.Do(ctx, func(ctx context.Context, stores ports.Stores) error {
		order, err := stores.Orders.GetByID(ctx, ref.ID)
		if err != nil {
			return err
		}
		c := &change{stores: stores, order: order, policy: policy, now: s.now().UTC()}
		if settled != nil && settled(order) {
			result = c
			return nil
		}
		if ref.Version != 0 && ref.Version != order.Version {
			return ports.ErrVersionConflict
		}
		if err := fn(ctx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, result.events)
	return result.order, nil
}

func (s *Service) publish(ctx context.Context, events []domain.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.WarnContext(ctx, "publish order events failed",
			slog.String("order_id", events[0].AggregateID()),
			slog.Int("events", len(events)),
			slog.String("error", err.Error()),
		)
	}
}

// change is the working state of one lifecycle operation. Every write goes
// through the stores first and bumps the local version after it succeeded.
type change struct {
	stores ports.Stores
	order  *domain.Order
	policy domain.FlowPolicy
	now    time.Time
	events []domain.Event
}

func (c *change) base() domain.BaseEvent {
	return domain.NewBaseEvent(c.order, c.now)
}

func (c *change) record(event domain.Event) {
	c.events = append(c.events, event)
}

func (c *change) moveTo(ctx context.Context, status domain.StepKey) error {
	from := c.order.Status
	if err := c.order.MoveTo(status, c.now); err != nil {
		return legError(err, c.order)
	}
	if err := c.stores.Orders.PersistStatus(ctx, c.order.ID, c.order.Version, status, c.now); err != nil {
		return err
	}
	c.order.Version++
	c.record(domain.OrderStatusChanged{BaseEvent: c.base(), FromStatus: from, ToStatus: status, CustomerPhone: c.order.Customer.Phone})
	return nil
}

func (c *change) settle(ctx context.Context, entryID, method string) error {
	order := c.order
	shortfall := order.SettleInFull()
	if shortfall.IsPositive() {
		entry, err := ledgerdomain.NewIncome(shortfall, ledgerdomain.CategoryOrderPayment,
			fmt.Sprintf("payment for %s", order.TicketCode), order.ID, method, PaymentKey(order.ID))
		if err != nil {
			return err
		}
		entry.ID = entryID
		entry.CreatedAt = c.now
		if _, err := c.stores.Ledger.Append(ctx, entry); err != nil {
			return err
		}
	}
	if err := c.stores.Orders.PersistPayment(ctx, order.ID, order.Version, order.PaidAmount, order.IsPaid); err != nil {
		return err
	}
	order.Version++
	c.record(domain.PaymentCollected{BaseEvent: c.base(), Amount: shortfall, Method: method})
	return nil
}

func (c *change) persistPickup(ctx context.Context) error {
	if err := c.stores.Orders.PersistPickupStatus(ctx, c.order.ID, c.order.Version, c.order.Pickup.Status); err != nil {
		return err
	}
	c.order.Version++
	return nil
}

func (c *change) persistDelivery(ctx context.Context) error {
	if err := c.stores.Orders.PersistDeliveryStatus(ctx, c.order.ID, c.order.Version, c.order.Delivery.Status); err != nil {
		return err
	}
	c.order.Version++
	return nil
}

func (c *change) assign(ctx context.Context, kind domain.TaskKind, driverID, previous string) error {
	driver, err := c.stores.Drivers.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	if err := driver.TakeAssignment(); err != nil {
		return err
	}
	if err := c.stores.Drivers.PersistStatus(ctx, driver.ID, driver.Status, driver.CurrentOrders, driver.CompletedToday); err != nil {
		return err
	}
	if previous != "" {
		old, err := c.stores.Drivers.GetByID(ctx, previous)
		if err != nil {
			return err
		}
		old.ReleaseAssignment()
		if err := c.stores.Drivers.PersistStatus(ctx, old.ID, old.Status, old.CurrentOrders, old.CompletedToday); err != nil {
			return err
		}
	}
	if kind == domain.TaskPickup {
		err = c.stores.Orders.PersistPickupAssignment(ctx, c.order.ID, c.order.Version, driverID)
	} else {
		err = c.stores.Orders.PersistDeliveryAssignment(ctx, c.order.ID, c.order.Version, driverID)
	}
	if err != nil {
		return err
	}
	c.order.Version++
	c.record(domain.TaskAssigned{BaseEvent: c.base(), Kind: kind, DriverID: driverID, PreviousDriverID: previous})
	return nil
}

func (c *change) completeDriver(ctx context.Context, driverID string) error {
	if driverID == "" {
		return nil
	}
	driver, err := c.stores.Drivers.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	driver.CompleteAssignment()
	return c.stores.Drivers.PersistStatus(ctx, driver.ID, driver.Status, driver.CurrentOrders, driver.CompletedToday)
}

func (c *change) completeDelivery(ctx context.Context) error {
	if !c.policy.Reached(c.order.Status, domain.StepReadyDelivery) {
		return refuse(ReasonNotReady, c.order)
	}
	delivery := c.order.Delivery
	if err := delivery.Complete(); err != nil {
		return legError(err, c.order)
	}
	if err := c.persistDelivery(ctx); err != nil {
		return err
	}
	if err := c.completeDriver(ctx, delivery.DriverID); err != nil {
		return err
	}
	c.record(domain.TaskCompleted{BaseEvent: c.base(), Kind: domain.TaskDelivery, DriverID: delivery.DriverID})
	return c.moveTo(ctx, domain.StepDelivered)
}

func buildOrder(input orderstypes.CreateOrderInput, id string, now time.Time) (*domain.Order, error) {
	for _, amount := range []decimal.Decimal{input.PickupFee, input.DeliveryFee, input.Discount, input.Deposit} {
		if amount.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
	}
	customer := domain.Customer{
		ID:      strings.TrimSpace(input.Customer.ID),
		Name:    strings.TrimSpace(input.Customer.Name),
		Phone:   strings.TrimSpace(input.Customer.Phone),
		Address: strings.TrimSpace(input.Customer.Address),
	}
	order := &domain.Order{
		ID:        id,
		Customer:  customer,
		Items:     make([]domain.LineItem, 0, len(input.Items)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	total := decimal.Zero
	for _, item := range input.Items {
		line := domain.LineItem{
			Name:      strings.TrimSpace(item.Name),
			Unit:      domain.UnitType(strings.ToLower(strings.TrimSpace(item.Unit))),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Extras:    append([]string(nil), item.Extras...),
		}
		if err := line.Validate(); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, line)
		total = total.Add(line.Subtotal())
	}
	if input.Pickup != nil {
		order.Pickup = domain.NewPickupService(strings.TrimSpace(input.Pickup.Slot), legAddress(input.Pickup.Address, customer))
		total = total.Add(input.PickupFee)
	}
	if input.Delivery != nil {
		order.Delivery = domain.NewDeliveryService(strings.TrimSpace(input.Delivery.Slot), legAddress(input.Delivery.Address, customer))
		total = total.Add(input.DeliveryFee)
	}
	total = total.Sub(input.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	order.TotalAmount = total
	if input.Deposit.GreaterThan(total) {
		return nil, domain.ErrInvalidAmount
	}
	if err := order.RecordPayment(input.Deposit); err != nil {
		return nil, err
	}
	return order, nil
}

func legAddress(address string, customer domain.Customer) string {
	if trimmed := strings.TrimSpace(address); trimmed != "" {
		return trimmed
	}
	return customer.Address
}

func statusFilter(raw []string) (ports.ListFilter, error) {
	filter := ports.ListFilter{}
	for _, value := range raw {
		key := domain.StepKey(strings.TrimSpace(value))
		if key == "" {
			continue
		}
		if !domain.IsKnownStep(key) {
			return ports.ListFilter{}, fmt.Errorf("%w: %q", domain.ErrUnknownStep, value)
		}
		filter.Statuses = append(filter.Statuses, key)
	}
	return filter, nil
}

func paymentMethod(method string) string {
	if trimmed := strings.TrimSpace(method); trimmed != "" {
		return trimmed
	}
	return defaultPaymentMethod
}
