package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/bill"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/scf/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BillModel is the persistence model for the Bill aggregate root.
type BillModel struct {
	AuditedAggregateModel
	BillNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type       bill.BillType   `gorm:"type:varchar(30);not null;index"`
	FaceValue  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency   string          `gorm:"type:varchar(3);not null;default:'CNY'"`
	IssueDate  time.Time       `gorm:"not null"`
	DueDate    time.Time       `gorm:"not null;index"`

	DrawerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	DrawerAddress string    `gorm:"type:varchar(64);not null;index"`
	DraweeID      uuid.UUID `gorm:"type:uuid;not null;index"`
	DraweeAddress string    `gorm:"type:varchar(64);not null;index"`
	PayeeID       uuid.UUID `gorm:"type:uuid;not null"`
	PayeeAddress  string    `gorm:"type:varchar(64);not null"`

	CurrentHolder    string                `gorm:"type:varchar(64);not null;index"`
	Status           bill.BillStatus       `gorm:"type:varchar(20);not null;default:'ISSUED';index"`
	PreFreezeStatus  *bill.BillStatus      `gorm:"type:varchar(20)"`
	EndorsementCount int                   `gorm:"not null;default:0"`
	LedgerStatus     bill.LedgerSyncStatus `gorm:"type:varchar(20);not null;default:'NOT_SUBMITTED'"`
	LastTxHash       string                `gorm:"type:varchar(128)"`
	ParentBillID     *uuid.UUID            `gorm:"type:uuid;index"`

	FinancingAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	FinancingRate     decimal.Decimal `gorm:"type:decimal(10,6);not null;default:0"`
	FinancierAddress  string          `gorm:"type:varchar(64)"`
	FinancedAt        *time.Time
	AcceptedAt        *time.Time
	PaidAt            *time.Time
	FrozenAt          *time.Time
	FreezeReason      string `gorm:"type:varchar(500)"`
	FreezeReferenceNo string `gorm:"type:varchar(100)"`
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
	CancelType        string `gorm:"type:varchar(30)"`
	CancelReferenceNo string `gorm:"type:varchar(100)"`
	Remark            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill aggregate.
func (m *BillModel) ToDomain() *bill.Bill {
	return &bill.Bill{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		BillNumber:           m.BillNumber,
		Type:                 m.Type,
		FaceValue:            m.FaceValue,
		Currency:             valueobject.Currency(m.Currency),
		IssueDate:            m.IssueDate,
		DueDate:              m.DueDate,
		DrawerID:             m.DrawerID,
		DrawerAddress:        m.DrawerAddress,
		DraweeID:             m.DraweeID,
		DraweeAddress:        m.DraweeAddress,
		PayeeID:              m.PayeeID,
		PayeeAddress:         m.PayeeAddress,
		CurrentHolder:        m.CurrentHolder,
		Status:               m.Status,
		PreFreezeStatus:      m.PreFreezeStatus,
		EndorsementCount:     m.EndorsementCount,
		LedgerStatus:         m.LedgerStatus,
		LastTxHash:           m.LastTxHash,
		ParentBillID:         m.ParentBillID,
		FinancingAmount:      m.FinancingAmount,
		FinancingRate:        m.FinancingRate,
		FinancierAddress:     m.FinancierAddress,
		FinancedAt:           m.FinancedAt,
		AcceptedAt:           m.AcceptedAt,
		PaidAt:               m.PaidAt,
		FrozenAt:             m.FrozenAt,
		FreezeReason:         m.FreezeReason,
		FreezeReferenceNo:    m.FreezeReferenceNo,
		CancelledAt:          m.CancelledAt,
		CancelReason:         m.CancelReason,
		CancelType:           m.CancelType,
		CancelReferenceNo:    m.CancelReferenceNo,
		Remark:               m.Remark,
	}
}

// FromDomain populates the persistence model from a domain Bill aggregate.
func (m *BillModel) FromDomain(b *bill.Bill) {
	m.FromDomainAuditedAggregateRoot(b.AuditedAggregateRoot)
	m.BillNumber = b.BillNumber
	m.Type = b.Type
	m.FaceValue = b.FaceValue
	m.Currency = string(b.Currency)
	m.IssueDate = b.IssueDate
	m.DueDate = b.DueDate
	m.DrawerID = b.DrawerID
	m.DrawerAddress = b.DrawerAddress
	m.DraweeID = b.DraweeID
	m.DraweeAddress = b.DraweeAddress
	m.PayeeID = b.PayeeID
	m.PayeeAddress = b.PayeeAddress
	m.CurrentHolder = b.CurrentHolder
	m.Status = b.Status
	m.PreFreezeStatus = b.PreFreezeStatus
	m.EndorsementCount = b.EndorsementCount
	m.LedgerStatus = b.LedgerStatus
	m.LastTxHash = b.LastTxHash
	m.ParentBillID = b.ParentBillID
	m.FinancingAmount = b.FinancingAmount
	m.FinancingRate = b.FinancingRate
	m.FinancierAddress = b.FinancierAddress
	m.FinancedAt = b.FinancedAt
	m.AcceptedAt = b.AcceptedAt
	m.PaidAt = b.PaidAt
	m.FrozenAt = b.FrozenAt
	m.FreezeReason = b.FreezeReason
	m.FreezeReferenceNo = b.FreezeReferenceNo
	m.CancelledAt = b.CancelledAt
	m.CancelReason = b.CancelReason
	m.CancelType = b.CancelType
	m.CancelReferenceNo = b.CancelReferenceNo
	m.Remark = b.Remark
}

// BillModelFromDomain creates a new persistence model from a domain Bill.
func BillModelFromDomain(b *bill.Bill) *BillModel {
	m := &BillModel{}
	m.FromDomain(b)
	return m
}

// EndorsementModel is the persistence model for endorsement records.
// Rows are append-only: never updated or deleted.
type EndorsementModel struct {
	BaseModel
	BillID          uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_endorsement_bill_seq,priority:1"`
	SequenceNo      int                  `gorm:"not null;uniqueIndex:idx_endorsement_bill_seq,priority:2"`
	EndorserAddress string               `gorm:"type:varchar(64);not null"`
	EndorseeAddress string               `gorm:"type:varchar(64);not null"`
	Kind            bill.EndorsementKind `gorm:"type:varchar(30);not null"`
	EndorsedAt      time.Time            `gorm:"not null"`
	TxHash          string               `gorm:"type:varchar(128)"`
	Remark          string               `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (EndorsementModel) TableName() string {
	return "endorsements"
}

// ToDomain converts the persistence model to a domain Endorsement.
func (m *EndorsementModel) ToDomain() *bill.Endorsement {
	return &bill.Endorsement{
		BaseEntity:      m.BaseModel.ToDomain(),
		BillID:          m.BillID,
		SequenceNo:      m.SequenceNo,
		EndorserAddress: m.EndorserAddress,
		EndorseeAddress: m.EndorseeAddress,
		Kind:            m.Kind,
		EndorsedAt:      m.EndorsedAt,
		TxHash:          m.TxHash,
		Remark:          m.Remark,
	}
}

// FromDomain populates the persistence model from a domain Endorsement.
func (m *EndorsementModel) FromDomain(e *bill.Endorsement) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.BillID = e.BillID
	m.SequenceNo = e.SequenceNo
	m.EndorserAddress = e.EndorserAddress
	m.EndorseeAddress = e.EndorseeAddress
	m.Kind = e.Kind
	m.EndorsedAt = e.EndorsedAt
	m.TxHash = e.TxHash
	m.Remark = e.Remark
}

// DiscountRecordModel is the persistence model for discount records.
type DiscountRecordModel struct {
	AggregateModel
	BillID             uuid.UUID           `gorm:"type:uuid;not null;index"`
	HolderAddress      string              `gorm:"type:varchar(64);not null"`
	InstitutionAddress string              `gorm:"type:varchar(64);not null;index"`
	DiscountAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	DiscountRate       decimal.Decimal     `gorm:"type:decimal(10,6);not null"`
	DiscountInterest   decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	NetProceeds        decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	DiscountDate       time.Time           `gorm:"not null"`
	MaturityDate       time.Time           `gorm:"not null;index"`
	Status             bill.DiscountStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	RepaidAt           *time.Time
}

// TableName returns the table name for GORM
func (DiscountRecordModel) TableName() string {
	return "discount_records"
}

// ToDomain converts the persistence model to a domain DiscountRecord.
func (m *DiscountRecordModel) ToDomain() *bill.DiscountRecord {
	return &bill.DiscountRecord{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: m.BaseModel.ToDomain(),
			Version:    m.Version,
		},
		BillID:             m.BillID,
		HolderAddress:      m.HolderAddress,
		InstitutionAddress: m.InstitutionAddress,
		DiscountAmount:     m.DiscountAmount,
		DiscountRate:       m.DiscountRate,
		DiscountInterest:   m.DiscountInterest,
		NetProceeds:        m.NetProceeds,
		DiscountDate:       m.DiscountDate,
		MaturityDate:       m.MaturityDate,
		Status:             m.Status,
		RepaidAt:           m.RepaidAt,
	}
}

// FromDomain populates the persistence model from a domain DiscountRecord.
func (m *DiscountRecordModel) FromDomain(r *bill.DiscountRecord) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.BillID = r.BillID
	m.HolderAddress = r.HolderAddress
	m.InstitutionAddress = r.InstitutionAddress
	m.DiscountAmount = r.DiscountAmount
	m.DiscountRate = r.DiscountRate
	m.DiscountInterest = r.DiscountInterest
	m.NetProceeds = r.NetProceeds
	m.DiscountDate = r.DiscountDate
	m.MaturityDate = r.MaturityDate
	m.Status = r.Status
	m.RepaidAt = r.RepaidAt
}

// RepaymentRecordModel is the persistence model for repayment records.
// Rows are append-only.
type RepaymentRecordModel struct {
	BaseModel
	BillID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	DiscountRecordID uuid.UUID        `gorm:"type:uuid;not null;index"`
	PayerAddress     string           `gorm:"type:varchar(64);not null"`
	PayeeAddress     string           `gorm:"type:varchar(64);not null"`
	Principal        decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Interest         decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Penalty          *decimal.Decimal `gorm:"type:decimal(18,2)"`
	TotalAmount      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	OverdueDays      int              `gorm:"not null;default:0"`
	PaymentType      bill.PaymentType `gorm:"type:varchar(20);not null"`
	PaidAt           time.Time        `gorm:"not null"`
	Remark           string           `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (RepaymentRecordModel) TableName() string {
	return "repayment_records"
}

// ToDomain converts the persistence model to a domain RepaymentRecord.
func (m *RepaymentRecordModel) ToDomain() *bill.RepaymentRecord {
	return &bill.RepaymentRecord{
		BaseEntity:       m.BaseModel.ToDomain(),
		BillID:           m.BillID,
		DiscountRecordID: m.DiscountRecordID,
		PayerAddress:     m.PayerAddress,
		PayeeAddress:     m.PayeeAddress,
		Principal:        m.Principal,
		Interest:         m.Interest,
		Penalty:          m.Penalty,
		TotalAmount:      m.TotalAmount,
		OverdueDays:      m.OverdueDays,
		PaymentType:      m.PaymentType,
		PaidAt:           m.PaidAt,
		Remark:           m.Remark,
	}
}

// FromDomain populates the persistence model from a domain RepaymentRecord.
func (m *RepaymentRecordModel) FromDomain(r *bill.RepaymentRecord) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.BillID = r.BillID
	m.DiscountRecordID = r.DiscountRecordID
	m.PayerAddress = r.PayerAddress
	m.PayeeAddress = r.PayeeAddress
	m.Principal = r.Principal
	m.Interest = r.Interest
	m.Penalty = r.Penalty
	m.TotalAmount = r.TotalAmount
	m.OverdueDays = r.OverdueDays
	m.PaymentType = r.PaymentType
	m.PaidAt = r.PaidAt
	m.Remark = r.Remark
}
