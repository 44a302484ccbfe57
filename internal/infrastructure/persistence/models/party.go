package models

import (
	"github.com/scf/backend/internal/domain/party"
	"github.com/scf/backend/internal/domain/shared"
)

// PartyModel is the persistence model for the locally replicated party
// directory.
type PartyModel struct {
	AggregateModel
	Address string            `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name    string            `gorm:"type:varchar(200);not null"`
	Type    party.PartyType   `gorm:"type:varchar(30);not null"`
	Status  party.PartyStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (PartyModel) TableName() string {
	return "parties"
}

// ToDomain converts the persistence model to a domain Party.
func (m *PartyModel) ToDomain() *party.Party {
	return &party.Party{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
			Version:    m.Version,
		},
		Address: m.Address,
		Name:    m.Name,
		Type:    m.Type,
		Status:  m.Status,
	}
}

// FromDomain populates the persistence model from a domain Party.
func (m *PartyModel) FromDomain(p *party.Party) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Address = p.Address
	m.Name = p.Name
	m.Type = p.Type
	m.Status = p.Status
}
