package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

var _ ports.FlowStore = (*FlowStore)(nil)

// FlowStore keeps the pipeline configuration in the flow_steps table.
type FlowStore struct {
	db *gorm.DB
}

func NewFlowStore(db *gorm.DB) *FlowStore {
	return &FlowStore{db: db}
}

type flowStepRecord struct {
	Key      string `gorm:"primaryKey;column:step_key;type:varchar(32)"`
	Active   bool   `gorm:"column:active"`
	Required bool   `gorm:"column:required"`
	Position int    `gorm:"column:position"`
}

func (flowStepRecord) TableName() string { return "flow_steps" }

// Steps returns the stored steps ordered by position; an empty table yields none.
func (s *FlowStore) Steps(ctx context.Context) ([]domain.Step, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []flowStepRecord
	if err := s.db.WithContext(ctx).Order("position, step_key").Find(&records).Error; err != nil {
		return nil, err
	}
	steps := make([]domain.Step, 0, len(records))
	for _, rec := range records {
		steps = append(steps, domain.Step{
			Key:      domain.StepKey(rec.Key),
			Active:   rec.Active,
			Required: rec.Required,
			Order:    rec.Position,
		})
	}
	return steps, nil
}

// Replace swaps the whole configuration in one transaction.
func (s *FlowStore) Replace(ctx context.Context, steps []domain.Step) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	records := make([]flowStepRecord, 0, len(steps))
	for _, step := range steps {
		records = append(records, flowStepRecord{
			Key:      string(step.Key),
			Active:   step.Active,
			Required: step.Required,
			Position: step.Order,
		})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&flowStepRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

func (s *FlowStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres flow store not configured")
	}
	return nil
}
