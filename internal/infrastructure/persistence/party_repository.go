package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/party"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/scf/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPartyRepository implements party.PartyRepository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// Save persists the party entry
func (r *GormPartyRepository) Save(ctx context.Context, p *party.Party) error {
	model := &models.PartyModel{}
	model.FromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a party by ID. Returns nil when not found.
func (r *GormPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Party, error) {
	var model models.PartyModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAddress finds a party by its network address. Returns nil when not found.
func (r *GormPartyRepository) FindByAddress(ctx context.Context, address string) (*party.Party, error) {
	var model models.PartyModel
	err := r.db.WithContext(ctx).Where("address = ?", address).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds parties matching the filter with pagination
func (r *GormPartyRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*party.Party], error) {
	query := r.db.WithContext(ctx).Model(&models.PartyModel{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ? OR address ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*party.Party]{}, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var rows []models.PartyModel
	err := query.
		Order(fmt.Sprintf("%s %s", "created_at", "desc")).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return shared.Paginated[*party.Party]{}, err
	}

	items := make([]*party.Party, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, page, pageSize), nil
}

// ExistsByAddress checks whether a party address is already registered
func (r *GormPartyRepository) ExistsByAddress(ctx context.Context, address string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PartyModel{}).
		Where("address = ?", address).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PartyRegistry answers activity checks against the local party replica.
// It implements bill.PartyRegistry.
type PartyRegistry struct {
	parties *GormPartyRepository
}

// NewPartyRegistry creates a new PartyRegistry
func NewPartyRegistry(parties *GormPartyRepository) *PartyRegistry {
	return &PartyRegistry{parties: parties}
}

// IsPartyActive returns true when the address belongs to a registered,
// active participant
func (r *PartyRegistry) IsPartyActive(ctx context.Context, address string) (bool, error) {
	p, err := r.parties.FindByAddress(ctx, address)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	return p.IsActive(), nil
}
