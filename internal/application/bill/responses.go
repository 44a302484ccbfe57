package bill

import (
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/bill"
	"github.com/shopspring/decimal"
)

// BillResponse represents a bill in API responses
type BillResponse struct {
	ID               uuid.UUID        `json:"id"`
	BillNumber       string           `json:"bill_number"`
	Type             string           `json:"type"`
	FaceValue        decimal.Decimal  `json:"face_value"`
	Currency         string           `json:"currency"`
	IssueDate        time.Time        `json:"issue_date"`
	DueDate          time.Time        `json:"due_date"`
	DrawerID         uuid.UUID        `json:"drawer_id"`
	DrawerAddress    string           `json:"drawer_address"`
	DraweeID         uuid.UUID        `json:"drawee_id"`
	DraweeAddress    string           `json:"drawee_address"`
	PayeeID          uuid.UUID        `json:"payee_id"`
	PayeeAddress     string           `json:"payee_address"`
	CurrentHolder    string           `json:"current_holder"`
	Status           string           `json:"status"`
	LedgerStatus     string           `json:"ledger_status"`
	LastTxHash       string           `json:"last_tx_hash,omitempty"`
	ParentBillID     *uuid.UUID       `json:"parent_bill_id,omitempty"`
	EndorsementCount int              `json:"endorsement_count"`
	FinancingAmount  *decimal.Decimal `json:"financing_amount,omitempty"`
	FinancingRate    *decimal.Decimal `json:"financing_rate,omitempty"`
	FinancierAddress string           `json:"financier_address,omitempty"`
	FinancedAt       *time.Time       `json:"financed_at,omitempty"`
	AcceptedAt       *time.Time       `json:"accepted_at,omitempty"`
	PaidAt           *time.Time       `json:"paid_at,omitempty"`
	FrozenAt         *time.Time       `json:"frozen_at,omitempty"`
	FreezeReason     string           `json:"freeze_reason,omitempty"`
	CancelledAt      *time.Time       `json:"cancelled_at,omitempty"`
	CancelReason     string           `json:"cancel_reason,omitempty"`
	Remark           string           `json:"remark,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Version          int              `json:"version"`
}

func toBillResponse(b *bill.Bill) *BillResponse {
	resp := &BillResponse{
		ID:               b.ID,
		BillNumber:       b.BillNumber,
		Type:             b.Type.String(),
		FaceValue:        b.FaceValue,
		Currency:         string(b.Currency),
		IssueDate:        b.IssueDate,
		DueDate:          b.DueDate,
		DrawerID:         b.DrawerID,
		DrawerAddress:    b.DrawerAddress,
		DraweeID:         b.DraweeID,
		DraweeAddress:    b.DraweeAddress,
		PayeeID:          b.PayeeID,
		PayeeAddress:     b.PayeeAddress,
		CurrentHolder:    b.CurrentHolder,
		Status:           b.Status.String(),
		LedgerStatus:     string(b.LedgerStatus),
		LastTxHash:       b.LastTxHash,
		ParentBillID:     b.ParentBillID,
		EndorsementCount: b.EndorsementCount,
		FinancierAddress: b.FinancierAddress,
		FinancedAt:       b.FinancedAt,
		AcceptedAt:       b.AcceptedAt,
		PaidAt:           b.PaidAt,
		FrozenAt:         b.FrozenAt,
		FreezeReason:     b.FreezeReason,
		CancelledAt:      b.CancelledAt,
		CancelReason:     b.CancelReason,
		Remark:           b.Remark,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
		Version:          b.GetVersion(),
	}
	if !b.FinancingAmount.IsZero() {
		amount := b.FinancingAmount
		rate := b.FinancingRate
		resp.FinancingAmount = &amount
		resp.FinancingRate = &rate
	}
	return resp
}

// EndorsementResponse represents an endorsement record in API responses
type EndorsementResponse struct {
	ID              uuid.UUID `json:"id"`
	BillID          uuid.UUID `json:"bill_id"`
	SequenceNo      int       `json:"sequence_no"`
	EndorserAddress string    `json:"endorser_address"`
	EndorseeAddress string    `json:"endorsee_address"`
	Kind            string    `json:"kind"`
	EndorsedAt      time.Time `json:"endorsed_at"`
	TxHash          string    `json:"tx_hash,omitempty"`
	Remark          string    `json:"remark,omitempty"`
}

func toEndorsementResponse(e *bill.Endorsement) *EndorsementResponse {
	return &EndorsementResponse{
		ID:              e.ID,
		BillID:          e.BillID,
		SequenceNo:      e.SequenceNo,
		EndorserAddress: e.EndorserAddress,
		EndorseeAddress: e.EndorseeAddress,
		Kind:            e.Kind.String(),
		EndorsedAt:      e.EndorsedAt,
		TxHash:          e.TxHash,
		Remark:          e.Remark,
	}
}

// DiscountRecordResponse represents a discount record in API responses
type DiscountRecordResponse struct {
	ID                 uuid.UUID       `json:"id"`
	BillID             uuid.UUID       `json:"bill_id"`
	HolderAddress      string          `json:"holder_address"`
	InstitutionAddress string          `json:"institution_address"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	DiscountRate       decimal.Decimal `json:"discount_rate"`
	DiscountInterest   decimal.Decimal `json:"discount_interest"`
	NetProceeds        decimal.Decimal `json:"net_proceeds"`
	DiscountDate       time.Time       `json:"discount_date"`
	MaturityDate       time.Time       `json:"maturity_date"`
	Status             string          `json:"status"`
	RepaidAt           *time.Time      `json:"repaid_at,omitempty"`
}

func toDiscountRecordResponse(r *bill.DiscountRecord) *DiscountRecordResponse {
	return &DiscountRecordResponse{
		ID:                 r.ID,
		BillID:             r.BillID,
		HolderAddress:      r.HolderAddress,
		InstitutionAddress: r.InstitutionAddress,
		DiscountAmount:     r.DiscountAmount,
		DiscountRate:       r.DiscountRate,
		DiscountInterest:   r.DiscountInterest,
		NetProceeds:        r.NetProceeds,
		DiscountDate:       r.DiscountDate,
		MaturityDate:       r.MaturityDate,
		Status:             r.Status.String(),
		RepaidAt:           r.RepaidAt,
	}
}

// RepaymentRecordResponse represents a repayment record in API responses
type RepaymentRecordResponse struct {
	ID               uuid.UUID        `json:"id"`
	BillID           uuid.UUID        `json:"bill_id"`
	DiscountRecordID uuid.UUID        `json:"discount_record_id"`
	PayerAddress     string           `json:"payer_address"`
	PayeeAddress     string           `json:"payee_address"`
	Principal        decimal.Decimal  `json:"principal"`
	Interest         decimal.Decimal  `json:"interest"`
	Penalty          *decimal.Decimal `json:"penalty,omitempty"`
	TotalAmount      decimal.Decimal  `json:"total_amount"`
	OverdueDays      int              `json:"overdue_days"`
	PaymentType      string           `json:"payment_type"`
	PaidAt           time.Time        `json:"paid_at"`
	Remark           string           `json:"remark,omitempty"`
}

func toRepaymentRecordResponse(r *bill.RepaymentRecord) *RepaymentRecordResponse {
	return &RepaymentRecordResponse{
		ID:               r.ID,
		BillID:           r.BillID,
		DiscountRecordID: r.DiscountRecordID,
		PayerAddress:     r.PayerAddress,
		PayeeAddress:     r.PayeeAddress,
		Principal:        r.Principal,
		Interest:         r.Interest,
		Penalty:          r.Penalty,
		TotalAmount:      r.TotalAmount,
		OverdueDays:      r.OverdueDays,
		PaymentType:      r.PaymentType.String(),
		PaidAt:           r.PaidAt,
		Remark:           r.Remark,
	}
}

// BillStatusSummary represents bill counts per lifecycle status
type BillStatusSummary struct {
	Issued     int64 `json:"issued"`
	Endorsed   int64 `json:"endorsed"`
	Pledged    int64 `json:"pledged"`
	Discounted int64 `json:"discounted"`
	Frozen     int64 `json:"frozen"`
	Paid       int64 `json:"paid"`
	Settled    int64 `json:"settled"`
	Cancelled  int64 `json:"cancelled"`
	Total      int64 `json:"total"`
}

// ReconciliationResponse represents a chain reconciliation outcome
type ReconciliationResponse struct {
	BillNumber  string             `json:"bill_number"`
	LocalCount  int                `json:"local_count"`
	LedgerCount int                `json:"ledger_count"`
	InSync      bool               `json:"in_sync"`
	Mismatches  []MismatchResponse `json:"mismatches"`
}

// MismatchResponse represents one chain divergence
type MismatchResponse struct {
	SequenceNo int    `json:"sequence_no"`
	Kind       string `json:"kind"`
	Detail     string `json:"detail"`
}

func toReconciliationResponse(report bill.MismatchReport) *ReconciliationResponse {
	resp := &ReconciliationResponse{
		BillNumber:  report.BillNumber,
		LocalCount:  report.LocalCount,
		LedgerCount: report.LedgerCount,
		InSync:      report.InSync(),
		Mismatches:  make([]MismatchResponse, 0, len(report.Mismatches)),
	}
	for _, m := range report.Mismatches {
		resp.Mismatches = append(resp.Mismatches, MismatchResponse{
			SequenceNo: m.SequenceNo,
			Kind:       string(m.Kind),
			Detail:     m.Detail,
		})
	}
	return resp
}
