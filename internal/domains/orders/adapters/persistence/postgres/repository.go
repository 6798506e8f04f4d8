package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Every persist call is
// a single conditional UPDATE on (id, version).
type Repository struct {
	db   *gorm.DB
	lock bool
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle
// and schema (see platform/migrations).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithRowLocks returns a repository whose reads take FOR UPDATE locks. Use it inside transactions.
func (r *Repository) WithRowLocks() *Repository {
	return &Repository{db: r.db, lock: true}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID                string            `gorm:"primaryKey;column:id;type:varchar(36)"`
	TicketCode        string            `gorm:"column:ticket_code;type:varchar(20);uniqueIndex"`
	CustomerID        string            `gorm:"column:customer_id;index"`
	CustomerName      string            `gorm:"column:customer_name"`
	CustomerPhone     string            `gorm:"column:customer_phone"`
	CustomerAddress   string            `gorm:"column:customer_address"`
	Status            string            `gorm:"column:status;type:varchar(32);index"`
	NeedsPickup       bool              `gorm:"column:needs_pickup"`
	PickupStatus      string            `gorm:"column:pickup_status;type:varchar(32)"`
	PickupSlot        string            `gorm:"column:pickup_slot"`
	PickupAddress     string            `gorm:"column:pickup_address"`
	PickupDriverID    string            `gorm:"column:pickup_driver_id;index"`
	NeedsDelivery     bool              `gorm:"column:needs_delivery"`
	DeliveryStatus    string            `gorm:"column:delivery_status;type:varchar(32)"`
	DeliverySlot      string            `gorm:"column:delivery_slot"`
	DeliveryAddress   string            `gorm:"column:delivery_address"`
	DeliveryDriverID  string            `gorm:"column:delivery_driver_id;index"`
	TotalAmount       decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2)"`
	PaidAmount        decimal.Decimal   `gorm:"column:paid_amount;type:numeric(12,2)"`
	IsPaid            bool              `gorm:"column:is_paid"`
	Version           int64             `gorm:"column:version;not null;default:1"`
	CreatedAt         time.Time         `gorm:"column:created_at;index"`
	UpdatedAt         time.Time         `gorm:"column:updated_at"`
	DeliveredAt       *time.Time        `gorm:"column:delivered_at"`
	Items             []orderItemRecord `gorm:"foreignKey:OrderID;references:ID"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord stores one line item; Position keeps the intake order.
type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID   string          `gorm:"column:order_id;type:varchar(36);index"`
	Position  int             `gorm:"column:position"`
	Name      string          `gorm:"column:name"`
	Unit      string          `gorm:"column:unit;type:varchar(16)"`
	Quantity  decimal.Decimal `gorm:"column:quantity;type:numeric(10,2)"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	Extras    pq.StringArray  `gorm:"column:extras;type:text[]"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Create inserts the order with its items at version 1.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	record.Version = 1
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateTicket
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order with its items.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	query := r.db.WithContext(ctx)
	if r.lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.Preload("Items", orderedItems).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns orders oldest first, optionally restricted to some statuses.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Preload("Items", orderedItems).Order("created_at, id")
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		query = query.Where("status IN ?", statuses)
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) PersistStatus(ctx context.Context, id string, expectedVersion int64, status domain.StepKey, at time.Time) error {
	values := map[string]any{"status": string(status), "updated_at": at}
	if status == domain.StepDelivered {
		values["delivered_at"] = at
	}
	return r.update(ctx, id, expectedVersion, values)
}

func (r *Repository) PersistPayment(ctx context.Context, id string, expectedVersion int64, paidAmount decimal.Decimal, isPaid bool) error {
	return r.update(ctx, id, expectedVersion, map[string]any{"paid_amount": paidAmount, "is_paid": isPaid})
}

func (r *Repository) PersistPickupAssignment(ctx context.Context, id string, expectedVersion int64, driverID string) error {
	return r.update(ctx, id, expectedVersion, map[string]any{"pickup_driver_id": driverID})
}

func (r *Repository) PersistDeliveryAssignment(ctx context.Context, id string, expectedVersion int64, driverID string) error {
	return r.update(ctx, id, expectedVersion, map[string]any{"delivery_driver_id": driverID})
}

func (r *Repository) PersistPickupStatus(ctx context.Context, id string, expectedVersion int64, status domain.PickupStatus) error {
	return r.update(ctx, id, expectedVersion, map[string]any{"pickup_status": string(status)})
}

func (r *Repository) PersistDeliveryStatus(ctx context.Context, id string, expectedVersion int64, status domain.DeliveryStatus) error {
	return r.update(ctx, id, expectedVersion, map[string]any{"delivery_status": string(status)})
}

func (r *Repository) update(ctx context.Context, id string, expectedVersion int64, values map[string]any) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	values["version"] = gorm.Expr("version + 1")
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ports.ErrNotFound
	}
	return ports.ErrVersionConflict
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:              order.ID,
		TicketCode:      order.TicketCode,
		CustomerID:      order.Customer.ID,
		CustomerName:    order.Customer.Name,
		CustomerPhone:   order.Customer.Phone,
		CustomerAddress: order.Customer.Address,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		PaidAmount:      order.PaidAmount,
		IsPaid:          order.IsPaid,
		Version:         order.Version,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		DeliveredAt:     order.DeliveredAt,
	}
	if order.Pickup != nil {
		rec.NeedsPickup = true
		rec.PickupStatus = string(order.Pickup.Status)
		rec.PickupSlot = order.Pickup.Slot
		rec.PickupAddress = order.Pickup.Address
		rec.PickupDriverID = order.Pickup.DriverID
	}
	if order.Delivery != nil {
		rec.NeedsDelivery = true
		rec.DeliveryStatus = string(order.Delivery.Status)
		rec.DeliverySlot = order.Delivery.Slot
		rec.DeliveryAddress = order.Delivery.Address
		rec.DeliveryDriverID = order.Delivery.DriverID
	}
	for i, item := range order.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			OrderID:   order.ID,
			Position:  i,
			Name:      item.Name,
			Unit:      string(item.Unit),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Extras:    pq.StringArray(append([]string{}, item.Extras...)),
		})
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:         r.ID,
		TicketCode: r.TicketCode,
		Customer: domain.Customer{
			ID:      r.CustomerID,
			Name:    r.CustomerName,
			Phone:   r.CustomerPhone,
			Address: r.CustomerAddress,
		},
		Status:      domain.StepKey(r.Status),
		TotalAmount: r.TotalAmount,
		PaidAmount:  r.PaidAmount,
		IsPaid:      r.IsPaid,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		DeliveredAt: r.DeliveredAt,
		Items:       make([]domain.LineItem, 0, len(r.Items)),
	}
	if r.NeedsPickup {
		order.Pickup = &domain.PickupService{
			Status:   domain.PickupStatus(r.PickupStatus),
			Slot:     r.PickupSlot,
			Address:  r.PickupAddress,
			DriverID: r.PickupDriverID,
		}
	}
	if r.NeedsDelivery {
		order.Delivery = &domain.DeliveryService{
			Status:   domain.DeliveryStatus(r.DeliveryStatus),
			Slot:     r.DeliverySlot,
			Address:  r.DeliveryAddress,
			DriverID: r.DeliveryDriverID,
		}
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.LineItem{
			Name:      item.Name,
			Unit:      domain.UnitType(item.Unit),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Extras:    append([]string{}, item.Extras...),
		})
	}
	return order
}
