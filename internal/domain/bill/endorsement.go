package bill

import (
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/shared"
)

// EndorsementKind distinguishes why holder rights were transferred
type EndorsementKind string

const (
	EndorsementKindTransfer         EndorsementKind = "TRANSFER"
	EndorsementKindDiscount         EndorsementKind = "DISCOUNT"
	EndorsementKindPledgeCollection EndorsementKind = "PLEDGE_COLLECTION"
)

// IsValid checks if the endorsement kind is valid
func (k EndorsementKind) IsValid() bool {
	switch k {
	case EndorsementKindTransfer, EndorsementKindDiscount, EndorsementKindPledgeCollection:
		return true
	}
	return false
}

// String returns the string representation of EndorsementKind
func (k EndorsementKind) String() string {
	return string(k)
}

// Endorsement is an immutable record of one transfer of holder rights.
// Records are append-only: once written they are never updated or deleted,
// so the full chain of custody can always be reconstructed.
type Endorsement struct {
	shared.BaseEntity
	BillID          uuid.UUID
	SequenceNo      int
	EndorserAddress string
	EndorseeAddress string
	Kind            EndorsementKind
	EndorsedAt      time.Time
	TxHash          string
	Remark          string
}

// NewEndorsement creates an endorsement record at the given position in the
// bill's chain. SequenceNo starts at 1.
func NewEndorsement(billID uuid.UUID, sequenceNo int, endorser, endorsee string, kind EndorsementKind, remark string) (*Endorsement, error) {
	if billID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Bill ID is required")
	}
	if sequenceNo < 1 {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Endorsement sequence number must be at least 1")
	}
	if endorser == "" || endorsee == "" {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Endorser and endorsee addresses are required")
	}
	if endorser == endorsee {
		return nil, shared.NewDomainError(CodeSelfEndorsement, "Endorser and endorsee cannot be the same party")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, "Endorsement kind is not valid")
	}

	return &Endorsement{
		BaseEntity:      shared.NewBaseEntity(),
		BillID:          billID,
		SequenceNo:      sequenceNo,
		EndorserAddress: endorser,
		EndorseeAddress: endorsee,
		Kind:            kind,
		EndorsedAt:      time.Now(),
		Remark:          remark,
	}, nil
}
