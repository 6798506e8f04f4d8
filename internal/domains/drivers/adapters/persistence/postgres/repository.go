package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/freshfold/laundry-api/internal/domains/drivers/domain"
	"github.com/freshfold/laundry-api/internal/domains/drivers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists drivers in PostgreSQL using GORM.
type Repository struct {
	db   *gorm.DB
	lock bool
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithRowLocks returns a repository whose reads take FOR UPDATE locks. Use it inside transactions.
func (r *Repository) WithRowLocks() *Repository {
	return &Repository{db: r.db, lock: true}
}

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

// Save inserts or updates a driver.
func (r *Repository) Save(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, errors.New("driver is nil")
	}
	if err := driver.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(driver)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":            record.Name,
				"phone":           record.Phone,
				"status":          record.Status,
				"current_orders":  record.CurrentOrders,
				"completed_today": record.CompletedToday,
				"updated_at":      gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx)
	if r.lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var record driverRecord
	if err := query.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Driver, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []driverRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	drivers := make([]*domain.Driver, 0, len(records))
	for i := range records {
		drivers = append(drivers, records[i].toDomain())
	}
	return drivers, nil
}

func (r *Repository) PersistStatus(ctx context.Context, id string, status domain.Status, currentOrders, completedToday int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if !domain.IsValidStatus(status) {
		return domain.ErrInvalidStatus
	}
	result := r.db.WithContext(ctx).Model(&driverRecord{}).Where("id = ?", id).Updates(map[string]any{
		"status":          string(status),
		"current_orders":  currentOrders,
		"completed_today": completedToday,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ResetDailyCounters(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Model(&driverRecord{}).
		Where("completed_today <> 0").
		Update("completed_today", 0)
	return result.RowsAffected, result.Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres driver repository not configured")
	}
	return nil
}

func toRecord(driver *domain.Driver) driverRecord {
	return driverRecord{
		ID:             driver.ID,
		Name:           driver.Name,
		Phone:          driver.Phone,
		Status:         string(driver.Status),
		CurrentOrders:  driver.CurrentOrders,
		CompletedToday: driver.CompletedToday,
	}
}

func (r driverRecord) toDomain() *domain.Driver {
	return &domain.Driver{
		ID:             r.ID,
		Name:           r.Name,
		Phone:          r.Phone,
		Status:         domain.Status(r.Status),
		CurrentOrders:  r.CurrentOrders,
		CompletedToday: r.CompletedToday,
	}
}
