package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshfold/laundry-api/internal/domains/cashledger/domain"
	"github.com/freshfold/laundry-api/internal/domains/cashledger/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the append-only cash register in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed ledger. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

// Append inserts the entry unless its idempotency key was already used.
func (r *Repository) Append(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errors.New("entry is nil")
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if entry.IdempotencyKey != "" {
		existing, err := r.GetByKey(ctx, entry.IdempotencyKey)
		switch {
		case err == nil:
			return resolveDuplicate(existing, entry)
		case !errors.Is(err, ports.ErrNotFound):
			return nil, err
		}
	}
	record := toRecord(entry)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) && entry.IdempotencyKey != "" {
			existing, getErr := r.GetByKey(ctx, entry.IdempotencyKey)
			if getErr != nil {
				return nil, err
			}
			return resolveDuplicate(existing, entry)
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByKey(ctx context.Context, key string) (*domain.Entry, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record entryRecord
	if err := r.db.WithContext(ctx).First(&record, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Entry, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at, id")
	if filter.OrderID != "" {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at < ?", filter.To)
	}
	var records []entryRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	entries := make([]*domain.Entry, 0, len(records))
	for i := range records {
		entries = append(entries, records[i].toDomain())
	}
	return entries, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cash ledger not configured")
	}
	return nil
}

func resolveDuplicate(existing, requested *domain.Entry) (*domain.Entry, error) {
	if !existing.SameRequest(requested) {
		return nil, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

func toRecord(entry *domain.Entry) entryRecord {
	rec := entryRecord{
		ID:          entry.ID,
		Type:        string(entry.Type),
		Amount:      entry.Amount,
		Category:    entry.Category,
		Description: entry.Description,
		OrderID:     entry.OrderID,
		Method:      entry.Method,
		CreatedAt:   entry.CreatedAt,
	}
	if entry.IdempotencyKey != "" {
		key := entry.IdempotencyKey
		rec.IdempotencyKey = &key
	}
	return rec
}

func (r entryRecord) toDomain() *domain.Entry {
	entry := &domain.Entry{
		ID:          r.ID,
		Type:        domain.EntryType(r.Type),
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		OrderID:     r.OrderID,
		Method:      r.Method,
		CreatedAt:   r.CreatedAt,
	}
	if r.IdempotencyKey != nil {
		entry.IdempotencyKey = *r.IdempotencyKey
	}
	return entry
}
