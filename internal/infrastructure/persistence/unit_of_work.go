package persistence

import (
	"context"

	appbill "github.com/scf/backend/internal/application/bill"
	"gorm.io/gorm"
)

// GormUnitOfWork implements the application's UnitOfWork over a gorm
// transaction. The callback receives repositories bound to the transaction;
// any error rolls the whole write set back, including writes that already
// executed before a failed ledger submission.
type GormUnitOfWork struct {
	db *Database
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *Database) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a database transaction
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos appbill.Repositories) error) error {
	return u.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := appbill.Repositories{
			Bills:            NewGormBillRepository(tx),
			Endorsements:     NewGormEndorsementRepository(tx),
			DiscountRecords:  NewGormDiscountRecordRepository(tx),
			RepaymentRecords: NewGormRepaymentRecordRepository(tx),
		}
		return fn(ctx, repos)
	})
}
