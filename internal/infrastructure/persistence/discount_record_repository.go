package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/bill"
	"github.com/scf/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDiscountRecordRepository implements bill.DiscountRecordRepository using GORM
type GormDiscountRecordRepository struct {
	db *gorm.DB
}

// NewGormDiscountRecordRepository creates a new GormDiscountRecordRepository
func NewGormDiscountRecordRepository(db *gorm.DB) *GormDiscountRecordRepository {
	return &GormDiscountRecordRepository{db: db}
}

// Save persists the discount record
func (r *GormDiscountRecordRepository) Save(ctx context.Context, record *bill.DiscountRecord) error {
	model := &models.DiscountRecordModel{}
	model.FromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a discount record by ID. Returns nil when not found.
func (r *GormDiscountRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*bill.DiscountRecord, error) {
	var model models.DiscountRecordModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBillID returns all discount records of a bill, newest first
func (r *GormDiscountRecordRepository) FindByBillID(ctx context.Context, billID uuid.UUID) ([]*bill.DiscountRecord, error) {
	var rows []models.DiscountRecordModel
	err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	records := make([]*bill.DiscountRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

// FindOpenByBillID returns the single ACTIVE or MATURED record for the bill,
// or nil when none exists
func (r *GormDiscountRecordRepository) FindOpenByBillID(ctx context.Context, billID uuid.UUID) (*bill.DiscountRecord, error) {
	var model models.DiscountRecordModel
	err := r.db.WithContext(ctx).
		Where("bill_id = ? AND status IN ?", billID, []string{
			string(bill.DiscountStatusActive), string(bill.DiscountStatusMatured),
		}).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
