package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/bill"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/scf/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBillRepository implements bill.BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// Save persists the bill, inserting or updating by primary key
func (r *GormBillRepository) Save(ctx context.Context, b *bill.Bill) error {
	model := models.BillModelFromDomain(b)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock persists the bill only if the stored version matches the
// aggregate's previous version. The domain layer increments the version
// before saving, so the row must still carry version-1.
func (r *GormBillRepository) SaveWithLock(ctx context.Context, b *bill.Bill) error {
	model := models.BillModelFromDomain(b)
	result := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("id = ? AND version = ?", b.ID, b.GetVersion()-1).
		Updates(map[string]interface{}{
			"current_holder":      model.CurrentHolder,
			"status":              model.Status,
			"pre_freeze_status":   model.PreFreezeStatus,
			"endorsement_count":   model.EndorsementCount,
			"ledger_status":       model.LedgerStatus,
			"last_tx_hash":        model.LastTxHash,
			"financing_amount":    model.FinancingAmount,
			"financing_rate":      model.FinancingRate,
			"financier_address":   model.FinancierAddress,
			"financed_at":         model.FinancedAt,
			"accepted_at":         model.AcceptedAt,
			"paid_at":             model.PaidAt,
			"frozen_at":           model.FrozenAt,
			"freeze_reason":       model.FreezeReason,
			"freeze_reference_no": model.FreezeReferenceNo,
			"cancelled_at":        model.CancelledAt,
			"cancel_reason":       model.CancelReason,
			"cancel_type":         model.CancelType,
			"cancel_reference_no": model.CancelReferenceNo,
			"updated_at":          time.Now(),
			"updated_by":          model.UpdatedBy,
			"version":             b.GetVersion(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a bill by its ID. Returns nil when not found.
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	var model models.BillModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBillNumber finds a bill by its bill number. Returns nil when not found.
func (r *GormBillRepository) FindByBillNumber(ctx context.Context, billNumber string) (*bill.Bill, error) {
	var model models.BillModel
	err := r.db.WithContext(ctx).Where("bill_number = ?", billNumber).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds bills matching the filter with pagination
func (r *GormBillRepository) FindAll(ctx context.Context, filter bill.BillFilter) (shared.Paginated[*bill.Bill], error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BillModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*bill.Bill]{}, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := filter.OrderDir
	if orderDir != "asc" {
		orderDir = "desc"
	}

	var rows []models.BillModel
	err := query.
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return shared.Paginated[*bill.Bill]{}, err
	}

	items := make([]*bill.Bill, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, page, pageSize), nil
}

// FindByHolder finds bills currently held by the given address
func (r *GormBillRepository) FindByHolder(ctx context.Context, holderAddress string, filter bill.BillFilter) (shared.Paginated[*bill.Bill], error) {
	filter.HolderAddress = holderAddress
	return r.FindAll(ctx, filter)
}

// ExistsByBillNumber checks whether a bill number is already taken
func (r *GormBillRepository) ExistsByBillNumber(ctx context.Context, billNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("bill_number = ?", billNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByStatus counts bills in the given status
func (r *GormBillRepository) CountByStatus(ctx context.Context, status bill.BillStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// GenerateBillNumber generates a unique bill number.
// Format: BILL-YYYYMMDD-NNNNN (e.g., BILL-20260831-00001)
func (r *GormBillRepository) GenerateBillNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("BILL-%s-", time.Now().Format("20060102"))

	var last models.BillModel
	err := r.db.WithContext(ctx).
		Where("bill_number LIKE ?", prefix+"%").
		Order("bill_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.BillNumber != "" {
		parts := strings.Split(last.BillNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

func (r *GormBillRepository) applyFilter(query *gorm.DB, filter bill.BillFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.HolderAddress != "" {
		query = query.Where("current_holder = ?", filter.HolderAddress)
	}
	if filter.DrawerAddress != "" {
		query = query.Where("drawer_address = ?", filter.DrawerAddress)
	}
	if filter.DraweeAddress != "" {
		query = query.Where("drawee_address = ?", filter.DraweeAddress)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Overdue != nil {
		if *filter.Overdue {
			query = query.Where("due_date < ? AND status NOT IN ?", time.Now(), []string{
				string(bill.BillStatusPaid), string(bill.BillStatusSettled), string(bill.BillStatusCancelled),
			})
		} else {
			query = query.Where("due_date >= ?", time.Now())
		}
	}
	if filter.Search != "" {
		query = query.Where("bill_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}
