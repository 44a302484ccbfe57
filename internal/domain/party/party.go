package party

import (
	"context"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/shared"
)

// PartyType classifies a network participant
type PartyType string

const (
	PartyTypeCoreEnterprise PartyType = "CORE_ENTERPRISE"
	PartyTypeSupplier       PartyType = "SUPPLIER"
	PartyTypeFinancier      PartyType = "FINANCIER"
	PartyTypeBank           PartyType = "BANK"
)

// IsValid checks if the party type is valid
func (t PartyType) IsValid() bool {
	switch t {
	case PartyTypeCoreEnterprise, PartyTypeSupplier, PartyTypeFinancier, PartyTypeBank:
		return true
	}
	return false
}

// PartyStatus represents the registration status of a participant
type PartyStatus string

const (
	PartyStatusActive    PartyStatus = "ACTIVE"
	PartyStatusSuspended PartyStatus = "SUSPENDED"
	PartyStatusRevoked   PartyStatus = "REVOKED"
)

// IsValid checks if the party status is valid
func (s PartyStatus) IsValid() bool {
	switch s {
	case PartyStatusActive, PartyStatusSuspended, PartyStatusRevoked:
		return true
	}
	return false
}

// Party is a locally replicated entry of the network's participant directory.
// The directory itself is maintained elsewhere; this replica exists so
// lifecycle operations can check participant status without a remote call.
type Party struct {
	shared.BaseAggregateRoot
	Address string
	Name    string
	Type    PartyType
	Status  PartyStatus
}

// NewParty creates an active party entry
func NewParty(address, name string, partyType PartyType) (*Party, error) {
	if address == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Party address cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Party name cannot be empty")
	}
	if !partyType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Party type is not valid")
	}
	return &Party{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Address:           address,
		Name:              name,
		Type:              partyType,
		Status:            PartyStatusActive,
	}, nil
}

// IsActive returns true if the party may take part in bill operations
func (p *Party) IsActive() bool {
	return p.Status == PartyStatusActive
}

// Suspend marks the party as temporarily barred from operations
func (p *Party) Suspend() {
	p.Status = PartyStatusSuspended
	p.IncrementVersion()
}

// Reinstate reactivates a suspended party
func (p *Party) Reinstate() error {
	if p.Status == PartyStatusRevoked {
		return shared.NewDomainError(shared.CodeInvalidState, "Revoked parties cannot be reinstated")
	}
	p.Status = PartyStatusActive
	p.IncrementVersion()
	return nil
}

// PartyRepository defines the persistence interface for the party replica
type PartyRepository interface {
	Save(ctx context.Context, p *Party) error
	FindByID(ctx context.Context, id uuid.UUID) (*Party, error)
	FindByAddress(ctx context.Context, address string) (*Party, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Party], error)
	ExistsByAddress(ctx context.Context, address string) (bool, error)
}
