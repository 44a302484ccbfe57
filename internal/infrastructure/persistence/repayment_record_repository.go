package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/bill"
	"github.com/scf/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRepaymentRecordRepository implements bill.RepaymentRecordRepository
// using GORM. Repayment rows are append-only.
type GormRepaymentRecordRepository struct {
	db *gorm.DB
}

// NewGormRepaymentRecordRepository creates a new GormRepaymentRecordRepository
func NewGormRepaymentRecordRepository(db *gorm.DB) *GormRepaymentRecordRepository {
	return &GormRepaymentRecordRepository{db: db}
}

// Save inserts a repayment record
func (r *GormRepaymentRecordRepository) Save(ctx context.Context, record *bill.RepaymentRecord) error {
	model := &models.RepaymentRecordModel{}
	model.FromDomain(record)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByBillID returns all repayment records of a bill, newest first
func (r *GormRepaymentRecordRepository) FindByBillID(ctx context.Context, billID uuid.UUID) ([]*bill.RepaymentRecord, error) {
	var rows []models.RepaymentRecordModel
	err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("paid_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	records := make([]*bill.RepaymentRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}
