package party

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/party"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/scf/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PartyService maintains the local replica of the network's participant
// directory. Entries are registered and updated here; the bill lifecycle
// only reads them through the party registry.
type PartyService struct {
	parties party.PartyRepository
	logger  *zap.Logger
}

// NewPartyService creates a new PartyService
func NewPartyService(parties party.PartyRepository, logger *zap.Logger) *PartyService {
	return &PartyService{parties: parties, logger: logger}
}

// RegisterPartyRequest carries the data to register a participant
type RegisterPartyRequest struct {
	Address string `json:"address" binding:"required,ledgeraddr"`
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required"`
}

// PartyResponse is the API representation of a participant
type PartyResponse struct {
	ID        uuid.UUID `json:"id"`
	Address   string    `json:"address"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPartyResponse(p *party.Party) *PartyResponse {
	return &PartyResponse{
		ID:        p.ID,
		Address:   p.Address,
		Name:      p.Name,
		Type:      string(p.Type),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// RegisterParty registers a new participant entry
func (s *PartyService) RegisterParty(ctx context.Context, req RegisterPartyRequest) (*PartyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PartyService", "RegisterParty")
	defer span.End()

	exists, err := s.parties.ExistsByAddress(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "A party with this address is already registered")
	}

	p, err := party.NewParty(req.Address, req.Name, party.PartyType(req.Type))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.parties.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("party registered",
		zap.String("address", p.Address),
		zap.String("type", string(p.Type)))

	return toPartyResponse(p), nil
}

// GetParty gets a party by ID
func (s *PartyService) GetParty(ctx context.Context, id uuid.UUID) (*PartyResponse, error) {
	p, err := s.loadParty(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPartyResponse(p), nil
}

// GetPartyByAddress gets a party by its network address
func (s *PartyService) GetPartyByAddress(ctx context.Context, address string) (*PartyResponse, error) {
	p, err := s.parties.FindByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Party not found")
	}
	return toPartyResponse(p), nil
}

// ListParties lists parties with pagination
func (s *PartyService) ListParties(ctx context.Context, filter shared.Filter) (shared.Paginated[*PartyResponse], error) {
	page, err := s.parties.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[*PartyResponse]{}, err
	}
	responses := make([]*PartyResponse, len(page.Items))
	for i, p := range page.Items {
		responses[i] = toPartyResponse(p)
	}
	return shared.NewPaginated(responses, page.Total, page.Page, page.PageSize), nil
}

// SuspendParty temporarily bars a party from bill operations
func (s *PartyService) SuspendParty(ctx context.Context, id uuid.UUID) (*PartyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PartyService", "SuspendParty")
	defer span.End()

	p, err := s.loadParty(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Suspend()
	if err := s.parties.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("party suspended", zap.String("address", p.Address))
	return toPartyResponse(p), nil
}

// ReinstateParty reactivates a suspended party
func (s *PartyService) ReinstateParty(ctx context.Context, id uuid.UUID) (*PartyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "PartyService", "ReinstateParty")
	defer span.End()

	p, err := s.loadParty(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Reinstate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.parties.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("party reinstated", zap.String("address", p.Address))
	return toPartyResponse(p), nil
}

func (s *PartyService) loadParty(ctx context.Context, id uuid.UUID) (*party.Party, error) {
	p, err := s.parties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Party not found")
	}
	return p, nil
}
