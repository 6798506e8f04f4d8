package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderItemRecord{},
		&flowStepRecord{},
		&driverRecord{},
		&entryRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID               string          `gorm:"primaryKey;column:id;type:varchar(36)"`
	TicketCode       string          `gorm:"column:ticket_code;type:varchar(20);uniqueIndex"`
	CustomerID       string          `gorm:"column:customer_id;index"`
	CustomerName     string          `gorm:"column:customer_name"`
	CustomerPhone    string          `gorm:"column:customer_phone"`
	CustomerAddress  string          `gorm:"column:customer_address"`
	Status           string          `gorm:"column:status;type:varchar(32);index"`
	NeedsPickup      bool            `gorm:"column:needs_pickup"`
	PickupStatus     string          `gorm:"column:pickup_status;type:varchar(32)"`
	PickupSlot       string          `gorm:"column:pickup_slot"`
	PickupAddress    string          `gorm:"column:pickup_address"`
	PickupDriverID   string          `gorm:"column:pickup_driver_id;index"`
	NeedsDelivery    bool            `gorm:"column:needs_delivery"`
	DeliveryStatus   string          `gorm:"column:delivery_status;type:varchar(32)"`
	DeliverySlot     string          `gorm:"column:delivery_slot"`
	DeliveryAddress  string          `gorm:"column:delivery_address"`
	DeliveryDriverID string          `gorm:"column:delivery_driver_id;index"`
	TotalAmount      decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2)"`
	PaidAmount       decimal.Decimal `gorm:"column:paid_amount;type:numeric(12,2)"`
	IsPaid           bool            `gorm:"column:is_paid"`
	Version          int64           `gorm:"column:version;not null;default:1"`
	CreatedAt        time.Time       `gorm:"column:created_at;index"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
	DeliveredAt      *time.Time      `gorm:"column:delivered_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Line item schema mirrors the orders Postgres adapter.
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

// Flow schema mirrors the orders flow store.
type flowStepRecord struct {
	Key      string `gorm:"primaryKey;column:step_key;type:varchar(32)"`
	Active   bool   `gorm:"column:active"`
	Required bool   `gorm:"column:required"`
	Position int    `gorm:"column:position"`
}

func (flowStepRecord) TableName() string { return "flow_steps" }

// Driver schema mirrors the drivers Postgres adapter.
type driverRecord struct {
	ID             string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name           string    `gorm:"column:name"`
	Phone          string    `gorm:"column:phone"`
	Status         string    `gorm:"column:status;type:varchar(16);index"`
	CurrentOrders  int       `gorm:"column:current_orders"`
	CompletedToday int       `gorm:"column:completed_today"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (driverRecord) TableName() string { return "drivers" }

// Cash entry schema mirrors the cash ledger Postgres adapter.
type entryRecord struct {
	ID             string          `gorm:"primaryKey;column:id;type:varchar(36)"`
	Type           string          `gorm:"column:type;type:varchar(16);index"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric(12,2)"`
	Category       string          `gorm:"column:category;type:varchar(64)"`
	Description    string          `gorm:"column:description"`
	OrderID        string          `gorm:"column:order_id;type:varchar(36);index"`
	Method         string          `gorm:"column:method;type:varchar(32)"`
	IdempotencyKey *string         `gorm:"column:idempotency_key;size:128;uniqueIndex"`
	CreatedAt      time.Time       `gorm:"column:created_at;index"`
}

func (entryRecord) TableName() string { return "cash_entries" }
