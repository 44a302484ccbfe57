package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/bill"
	"github.com/scf/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEndorsementRepository implements bill.EndorsementRepository using GORM.
// Endorsement rows are append-only; only Create is ever issued.
type GormEndorsementRepository struct {
	db *gorm.DB
}

// NewGormEndorsementRepository creates a new GormEndorsementRepository
func NewGormEndorsementRepository(db *gorm.DB) *GormEndorsementRepository {
	return &GormEndorsementRepository{db: db}
}

// Save inserts an endorsement record. The unique (bill_id, sequence_no)
// index rejects duplicate sequence numbers at the database level.
func (r *GormEndorsementRepository) Save(ctx context.Context, e *bill.Endorsement) error {
	model := &models.EndorsementModel{}
	model.FromDomain(e)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByBillID returns all endorsements of a bill in sequence order
func (r *GormEndorsementRepository) FindByBillID(ctx context.Context, billID uuid.UUID) ([]*bill.Endorsement, error) {
	var rows []models.EndorsementModel
	err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("sequence_no ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	endorsements := make([]*bill.Endorsement, len(rows))
	for i := range rows {
		endorsements[i] = rows[i].ToDomain()
	}
	return endorsements, nil
}

// CountByBillID returns the number of endorsements of a bill
func (r *GormEndorsementRepository) CountByBillID(ctx context.Context, billID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EndorsementModel{}).
		Where("bill_id = ?", billID).
		Count(&count).Error
	return count, err
}
