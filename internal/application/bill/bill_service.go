package bill

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/scf/backend/internal/domain/bill"
	"github.com/scf/backend/internal/domain/shared"
	"github.com/scf/backend/internal/domain/shared/valueobject"
	"github.com/scf/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrLockNotAcquired is returned when another operation on the same bill is
// already in flight
var ErrLockNotAcquired = shared.NewDomainError(shared.CodeConcurrencyConflict, "Another operation on this bill is in progress")

// BillService orchestrates the bill lifecycle. Every mutating operation runs
// under a per-bill lock and follows the same discipline: validate against the
// local store, persist locally inside one transaction, submit to the ledger,
// and persist the transaction reference in the same unit of work. A ledger
// failure rolls the local write back, so callers never observe a local state
// the ledger did not accept.
type BillService struct {
	repos    Repositories
	uow      UnitOfWork
	registry bill.PartyRegistry
	ledger   bill.LedgerGateway
	locker   BillLocker
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewBillService creates a new BillService
func NewBillService(
	repos Repositories,
	uow UnitOfWork,
	registry bill.PartyRegistry,
	ledger bill.LedgerGateway,
	locker BillLocker,
	events shared.EventPublisher,
	logger *zap.Logger,
) *BillService {
	return &BillService{
		repos:    repos,
		uow:      uow,
		registry: registry,
		ledger:   ledger,
		locker:   locker,
		events:   events,
		logger:   logger,
	}
}

// ===================== Requests =====================

// IssueBillRequest carries the data needed to issue a new bill
type IssueBillRequest struct {
	BillNumber    string          `json:"bill_number"`
	Type          string          `json:"type" binding:"required"`
	FaceValue     decimal.Decimal `json:"face_value" binding:"required"`
	Currency      string          `json:"currency"`
	IssueDate     time.Time       `json:"issue_date" binding:"required"`
	DueDate       time.Time       `json:"due_date" binding:"required"`
	DrawerID      uuid.UUID       `json:"drawer_id" binding:"required"`
	DrawerAddress string          `json:"drawer_address" binding:"required,ledgeraddr"`
	DraweeID      uuid.UUID       `json:"drawee_id" binding:"required"`
	DraweeAddress string          `json:"drawee_address" binding:"required,ledgeraddr"`
	PayeeID       uuid.UUID       `json:"payee_id" binding:"required"`
	PayeeAddress  string          `json:"payee_address" binding:"required,ledgeraddr"`
	Remark        string          `json:"remark"`
}

// EndorseBillRequest carries the data for an endorsement
type EndorseBillRequest struct {
	EndorseeAddress string `json:"endorsee_address" binding:"required,ledgeraddr"`
	Kind            string `json:"kind"`
	Remark          string `json:"remark"`
}

// DiscountBillRequest carries the data for a discount financing
type DiscountBillRequest struct {
	InstitutionAddress string          `json:"institution_address" binding:"required,ledgeraddr"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	Rate               decimal.Decimal `json:"rate" binding:"required"`
	Remark             string          `json:"remark"`
}

// RepayBillRequest carries the data for a maturity repayment
type RepayBillRequest struct {
	// AnnualRatePercent is the repayment interest rate in percent (5.5 means
	// 5.5% p.a.). Defaults to the discount rate converted to percent.
	AnnualRatePercent *decimal.Decimal `json:"annual_rate_percent"`
	// DailyPenaltyRate overrides the default 0.05%/day overdue penalty rate.
	DailyPenaltyRate *decimal.Decimal `json:"daily_penalty_rate"`
	PaymentType      string           `json:"payment_type"`
	Remark           string           `json:"remark"`
}

// CancelBillRequest carries the data for a cancellation
type CancelBillRequest struct {
	Reason      string `json:"reason" binding:"required"`
	CancelType  string `json:"cancel_type"`
	ReferenceNo string `json:"reference_no"`
}

// FreezeBillRequest carries the data for an administrative freeze
type FreezeBillRequest struct {
	Reason      string `json:"reason" binding:"required"`
	ReferenceNo string `json:"reference_no"`
	Evidence    string `json:"evidence"`
}

// UnfreezeBillRequest carries the data for lifting a freeze
type UnfreezeBillRequest struct {
	Reason      string `json:"reason" binding:"required"`
	ReferenceNo string `json:"reference_no"`
}

// BillListFilter defines filtering options for bill list queries
type BillListFilter struct {
	Search        string     `form:"search"`
	Status        string     `form:"status"`
	Type          string     `form:"type"`
	HolderAddress string     `form:"holder_address"`
	DrawerAddress string     `form:"drawer_address"`
	DraweeAddress string     `form:"drawee_address"`
	DueFrom       *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueTo         *time.Time `form:"due_to" time_format:"2006-01-02"`
	Overdue       *bool      `form:"overdue"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// ===================== Lifecycle Operations =====================

// IssueBill creates a new bill and records it on the ledger
func (s *BillService) IssueBill(ctx context.Context, req IssueBillRequest) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BillService", "IssueBill")
	defer span.End()

	for _, addr := range []string{req.DrawerAddress, req.DraweeAddress, req.PayeeAddress} {
		if err := s.requireActiveParty(ctx, addr); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	billNumber := req.BillNumber
	if billNumber == "" {
		generated, err := s.repos.Bills.GenerateBillNumber(ctx)
		if err != nil {
			return nil, err
		}
		billNumber = generated
	} else {
		exists, err := s.repos.Bills.ExistsByBillNumber(ctx, billNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "A bill with this number already exists")
		}
	}

	currency := valueobject.Currency(req.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	faceValue, err := valueobject.NewMoney(req.FaceValue, currency)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeValidationFailed, err.Error())
	}

	b, err := bill.NewBill(
		billNumber, bill.BillType(req.Type), faceValue,
		req.IssueDate, req.DueDate,
		req.DrawerID, req.DrawerAddress,
		req.DraweeID, req.DraweeAddress,
		req.PayeeID, req.PayeeAddress,
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	b.Remark = req.Remark

	telemetry.SetAttributes(span, "bill.number", b.BillNumber, "bill.id", b.ID.String())

	err = s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		b.MarkLedgerPending()
		if err := repos.Bills.Save(ctx, b); err != nil {
			return err
		}
		txHash, err := s.ledger.Submit(ctx, bill.LedgerSubmission{
			BillID:     b.ID,
			BillNumber: b.BillNumber,
			Action:     bill.LedgerActionIssue,
			Payload: map[string]any{
				"face_value": b.FaceValue.String(),
				"due_date":   b.DueDate.Format(time.RFC3339),
				"payee":      b.PayeeAddress,
			},
		})
		if err != nil {
			return err
		}
		b.MarkLedgerConfirmed(txHash)
		return repos.Bills.Save(ctx, b)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, b)
	s.logger.Info("bill issued",
		zap.String("bill_number", b.BillNumber),
		zap.String("tx_hash", b.LastTxHash))

	return toBillResponse(b), nil
}

// AcceptBill confirms the drawee's acceptance and re-submits to the ledger
func (s *BillService) AcceptBill(ctx context.Context, caller string, id uuid.UUID) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BillService", "AcceptBill")
	defer span.End()

	return s.mutate(ctx, span, id, func(b *bill.Bill) (bill.LedgerAction, error) {
		if caller != b.DraweeAddress {
			return "", shared.NewDomainError(shared.CodeUnauthorized, "Only the drawee can accept the bill")
		}
		return bill.LedgerActionAccept, b.Accept()
	})
}

// PayBill settles an issued bill directly
func (s *BillService) PayBill(ctx context.Context, caller string, id uuid.UUID) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BillService", "PayBill")
	defer span.End()

	return s.mutate(ctx, span, id, func(b *bill.Bill) (bill.LedgerAction, error) {
		if caller != b.DraweeAddress {
			return "", shared.NewDomainError(shared.CodeUnauthorized, "Only the drawee can pay the bill")
		}
		return bill.LedgerActionPay, b.MarkPaid()
	})
}

// EndorseBill transfers holder rights to the endorsee and appends an
// endorsement record with the next sequence number
func (s *BillService) EndorseBill(ctx context.Context, caller string, id uuid.UUID, req EndorseBillRequest) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BillService", "EndorseBill")
	defer span.End()

	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.loadBill(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.requireActiveParty(ctx, req.EndorseeAddress); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	kind := bill.EndorsementKind(req.Kind)
	if req.Kind == "" {
		kind = bill.EndorsementKindTransfer
	}

	if err := b.Endorse(caller, req.EndorseeAddress, kind); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	endorsement, err := bill.NewEndorsement(b.ID, b.EndorsementCount, caller, req.EndorseeAddress, kind, req.Remark)
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		b.MarkLedgerPending()
		if err := repos.Bills.SaveWithLock(ctx, b); err != nil {
			return err
		}
		txHash, err := s.ledger.Submit(ctx, bill.LedgerSubmission{
			BillID:     b.ID,
			BillNumber: b.BillNumber,
			Action:     bill.LedgerActionEndorse,
			Payload: map[string]any{
				"endorser":    caller,
				"endorsee":    req.EndorseeAddress,
				"kind":        kind.String(),
				"sequence_no": endorsement.SequenceNo,
			},
		})
		if err != nil {
			return err
		}
		b.MarkLedgerConfirmed(txHash)
		endorsement.TxHash = txHash
		if err := repos.Endorsements.Save(ctx, endorsement); err != nil {
			return err
		}
		return repos.Bills.Save(ctx, b)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, b)
	s.logger.Info("bill endorsed",
		zap.String("bill_number", b.BillNumber),
		zap.String("endorsee", req.EndorseeAddress),
		zap.Int("sequence_no", endorsement.SequenceNo))

	return toBillResponse(b), nil
}

// DiscountBill sells the bill to a financial institution before maturity.
// Computes the discount interest, opens a discount record and transfers
// holder rights to the institution.
func (s *BillService) DiscountBill(ctx context.Context, caller string, id uuid.UUID, req DiscountBillRequest) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BillService", "DiscountBill")
	defer span.End()

	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.loadBill(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.requireActiveParty(ctx, req.InstitutionAddress); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	open, err := s.repos.DiscountRecords.FindOpenByBillID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, shared.NewDomainError(shared.CodeDuplicateActiveResource, "Bill already has an active discount record")
	}

	holder := b.CurrentHolder
	if err := b.ApplyDiscount(caller, req.InstitutionAddress, req.Amount, req.Rate); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	record, err := bill.NewDiscountRecord(b.ID, holder, req.InstitutionAddress, req.Amount, req.Rate, time.Now(), b.DueDate)
	if err != nil {
		return nil, err
	}
	endorsement, err := bill.NewEndorsement(b.ID, b.EndorsementCount+1, holder, req.InstitutionAddress, bill.EndorsementKindDiscount, req.Remark)
	if err != nil {
		return nil, err
	}
	b.EndorsementCount++

	err = s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		b.MarkLedgerPending()
		if err := repos.Bills.SaveWithLock(ctx, b); err != nil {
			return err
		}
		if err := repos.DiscountRecords.Save(ctx, record); err != nil {
			return err
		}
		txHash, err := s.ledger.Submit(ctx, bill.LedgerSubmission{
			BillID:     b.ID,
			BillNumber: b.BillNumber,
			Action:     bill.LedgerActionDiscount,
			Payload: map[string]any{
				"holder":       holder,
				"institution":  req.InstitutionAddress,
				"amount":       req.Amount.String(),
				"rate":         req.Rate.String(),
				"net_proceeds": record.NetProceeds.String(),
			},
		})
		if err != nil {
			return err
		}
		b.MarkLedgerConfirmed(txHash)
		endorsement.TxHash = txHash
		if err := repos.Endorsements.Save(ctx, endorsement); err != nil {
			return err
		}
		return repos.Bills.Save(ctx, b)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, b)
	s.logger.Info("bill discounted",
		zap.String("bill_number", b.BillNumber),
		zap.String("institution", req.InstitutionAddress),
		zap.String("net_proceeds", record.NetProceeds.String()))

	return toBillResponse(b), nil
}

// RepayBill settles a discounted bill. Only the drawee may repay. Computes
// the maturity interest and, if past due, the overdue penalty, then closes
// the discount record and marks the bill paid.
func (s *BillService) RepayBill(ctx context.Context, caller string, id uuid.UUID, req RepayBillRequest) (*RepaymentRecordResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BillService", "RepayBill")
	defer span.End()

	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.loadBill(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if caller != b.DraweeAddress {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Only the drawee can repay the bill")
	}

	record, err := s.repos.DiscountRecords.FindOpenByBillID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "No open discount record found for this bill")
	}

	if err := b.MarkRepaid(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := record.MarkRepaid(); err != nil {
		return nil, err
	}

	now := time.Now()
	overdueDays := bill.OverdueDays(record.MaturityDate, now)

	ratePercent := record.DiscountRate.Mul(decimal.NewFromInt(100))
	if req.AnnualRatePercent != nil {
		ratePercent = *req.AnnualRatePercent
	}
	dailyRate := bill.DefaultDailyPenaltyRate
	if req.DailyPenaltyRate != nil {
		dailyRate = *req.DailyPenaltyRate
	}

	principal := record.DiscountAmount
	interest := bill.MaturityInterest(principal, ratePercent, bill.DaysBetween(record.DiscountDate, now))

	var penalty *decimal.Decimal
	paymentType := bill.PaymentType(req.PaymentType)
	if req.PaymentType == "" {
		paymentType = bill.PaymentTypeMaturity
	}
	if overdueDays > 0 {
		p := bill.OverduePenalty(record.NetProceeds, overdueDays, dailyRate)
		penalty = &p
		paymentType = bill.PaymentTypeOverdue
	}

	repayment, err := bill.NewRepaymentRecord(
		b.ID, record.ID,
		caller, record.InstitutionAddress,
		principal, interest, penalty, overdueDays,
		paymentType, now,
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	repayment.Remark = req.Remark

	err = s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		b.MarkLedgerPending()
		if err := repos.Bills.SaveWithLock(ctx, b); err != nil {
			return err
		}
		if err := repos.DiscountRecords.Save(ctx, record); err != nil {
			return err
		}
		if err := repos.RepaymentRecords.Save(ctx, repayment); err != nil {
			return err
		}
		txHash, err := s.ledger.Submit(ctx, bill.LedgerSubmission{
			BillID:     b.ID,
			BillNumber: b.BillNumber,
			Action:     bill.LedgerActionRepay,
			Payload: map[string]any{
				"payer":        caller,
				"payee":        record.InstitutionAddress,
				"total":        repayment.TotalAmount.String(),
				"overdue_days": overdueDays,
			},
		})
		if err != nil {
			return err
		}
		b.MarkLedgerConfirmed(txHash)
		return repos.Bills.Save(ctx, b)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, b)
	s.logger.Info("bill repaid",
		zap.String("bill_number", b.BillNumber),
		zap.String("total", repayment.TotalAmount.String()),
		zap.Int("overdue_days", overdueDays))

	return toRepaymentRecordResponse(repayment), nil
}

// HandleMaturity flags the open discount record of a past-due bill as
// matured. Local bookkeeping only; the bill state does not change.
func (s *BillService) HandleMaturity(ctx context.Context, id uuid.UUID) (*DiscountRecordResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BillService", "HandleMaturity")
	defer span.End()

	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.loadBill(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != bill.BillStatusDiscounted {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Only discounted bills reach maturity handling")
	}

	record, err := s.repos.DiscountRecords.FindOpenByBillID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "No open discount record found for this bill")
	}
	if err := record.MarkMatured(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.repos.DiscountRecords.Save(ctx, record); err != nil {
		return nil, err
	}
	return toDiscountRecordResponse(record), nil
}

// CancelBill voids the bill. The cancellation is recorded locally only; no
// holder transfer happens on the ledger.
func (s *BillService) CancelBill(ctx context.Context, caller string, id uuid.UUID, req CancelBillRequest) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BillService", "CancelBill")
	defer span.End()

	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.loadBill(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := b.Cancel(caller, req.Reason, req.CancelType, req.ReferenceNo); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		return repos.Bills.SaveWithLock(ctx, b)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, b)
	s.logger.Info("bill cancelled",
		zap.String("bill_number", b.BillNumber),
		zap.String("reason", req.Reason))

	return toBillResponse(b), nil
}

// FreezeBill places the bill under an administrative hold
func (s *BillService) FreezeBill(ctx context.Context, caller string, id uuid.UUID, req FreezeBillRequest) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BillService", "FreezeBill")
	defer span.End()

	return s.mutate(ctx, span, id, func(b *bill.Bill) (bill.LedgerAction, error) {
		return bill.LedgerActionFreeze, b.Freeze(caller, req.Reason, req.ReferenceNo)
	})
}

// UnfreezeBill lifts an administrative hold and restores the pre-freeze state
func (s *BillService) UnfreezeBill(ctx context.Context, id uuid.UUID, req UnfreezeBillRequest) (*BillResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BillService", "UnfreezeBill")
	defer span.End()

	return s.mutate(ctx, span, id, func(b *bill.Bill) (bill.LedgerAction, error) {
		return bill.LedgerActionUnfreeze, b.Unfreeze(req.Reason)
	})
}

// ===================== Queries =====================

// GetBill gets a bill by ID
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*BillResponse, error) {
	b, err := s.loadBill(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBillResponse(b), nil
}

// GetBillByNumber gets a bill by its bill number
func (s *BillService) GetBillByNumber(ctx context.Context, billNumber string) (*BillResponse, error) {
	b, err := s.repos.Bills.FindByBillNumber(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Bill not found")
	}
	return toBillResponse(b), nil
}

// ListBills lists bills with filtering
func (s *BillService) ListBills(ctx context.Context, filter BillListFilter) (shared.Paginated[*BillResponse], error) {
	domainFilter := bill.BillFilter{
		HolderAddress: filter.HolderAddress,
		DrawerAddress: filter.DrawerAddress,
		DraweeAddress: filter.DraweeAddress,
		DueFrom:       filter.DueFrom,
		DueTo:         filter.DueTo,
		Overdue:       filter.Overdue,
	}
	domainFilter.Filter = shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		status := bill.BillStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.Type != "" {
		billType := bill.BillType(filter.Type)
		domainFilter.Type = &billType
	}

	page, err := s.repos.Bills.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[*BillResponse]{}, err
	}

	responses := make([]*BillResponse, len(page.Items))
	for i, b := range page.Items {
		responses[i] = toBillResponse(b)
	}
	return shared.NewPaginated(responses, page.Total, page.Page, page.PageSize), nil
}

// GetStatusSummary returns bill counts grouped by lifecycle status
func (s *BillService) GetStatusSummary(ctx context.Context) (*BillStatusSummary, error) {
	summary := &BillStatusSummary{}

	counts := []struct {
		status bill.BillStatus
		dest   *int64
	}{
		{bill.BillStatusIssued, &summary.Issued},
		{bill.BillStatusEndorsed, &summary.Endorsed},
		{bill.BillStatusPledged, &summary.Pledged},
		{bill.BillStatusDiscounted, &summary.Discounted},
		{bill.BillStatusFrozen, &summary.Frozen},
		{bill.BillStatusPaid, &summary.Paid},
		{bill.BillStatusSettled, &summary.Settled},
		{bill.BillStatusCancelled, &summary.Cancelled},
	}
	for _, c := range counts {
		n, err := s.repos.Bills.CountByStatus(ctx, c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = n
		summary.Total += n
	}

	return summary, nil
}

// GetEndorsementChain returns the bill's endorsement records in sequence order
func (s *BillService) GetEndorsementChain(ctx context.Context, id uuid.UUID) ([]*EndorsementResponse, error) {
	if _, err := s.loadBill(ctx, id); err != nil {
		return nil, err
	}
	endorsements, err := s.repos.Endorsements.FindByBillID(ctx, id)
	if err != nil {
		return nil, err
	}
	responses := make([]*EndorsementResponse, len(endorsements))
	for i, e := range endorsements {
		responses[i] = toEndorsementResponse(e)
	}
	return responses, nil
}

// GetDiscountRecords returns all discount records of a bill
func (s *BillService) GetDiscountRecords(ctx context.Context, id uuid.UUID) ([]*DiscountRecordResponse, error) {
	records, err := s.repos.DiscountRecords.FindByBillID(ctx, id)
	if err != nil {
		return nil, err
	}
	responses := make([]*DiscountRecordResponse, len(records))
	for i, r := range records {
		responses[i] = toDiscountRecordResponse(r)
	}
	return responses, nil
}

// GetRepaymentRecords returns all repayment records of a bill
func (s *BillService) GetRepaymentRecords(ctx context.Context, id uuid.UUID) ([]*RepaymentRecordResponse, error) {
	records, err := s.repos.RepaymentRecords.FindByBillID(ctx, id)
	if err != nil {
		return nil, err
	}
	responses := make([]*RepaymentRecordResponse, len(records))
	for i, r := range records {
		responses[i] = toRepaymentRecordResponse(r)
	}
	return responses, nil
}

// ReconcileEndorsements compares the local endorsement chain with the chain
// recorded on the ledger and returns a structured mismatch report. Any
// mismatch is a data-integrity signal, not a transient error.
func (s *BillService) ReconcileEndorsements(ctx context.Context, id uuid.UUID) (*ReconciliationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BillService", "ReconcileEndorsements")
	defer span.End()

	b, err := s.loadBill(ctx, id)
	if err != nil {
		return nil, err
	}

	local, err := s.repos.Endorsements.FindByBillID(ctx, id)
	if err != nil {
		return nil, err
	}
	remote, err := s.ledger.FetchEndorsementHistory(ctx, b.BillNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	report := bill.CompareEndorsementChains(b.BillNumber, local, remote)
	if !report.InSync() {
		s.logger.Warn("endorsement chain mismatch",
			zap.String("bill_number", b.BillNumber),
			zap.Int("local_count", report.LocalCount),
			zap.Int("ledger_count", report.LedgerCount),
			zap.Int("mismatches", len(report.Mismatches)))
	}
	return toReconciliationResponse(report), nil
}

// ===================== Helpers =====================

// mutate runs the common path shared by simple single-aggregate operations:
// lock, load, apply the domain transition, then persist and submit to the
// ledger in one unit of work. An empty ledger action skips the submission.
func (s *BillService) mutate(ctx context.Context, span trace.Span, id uuid.UUID, fn func(*bill.Bill) (bill.LedgerAction, error)) (*BillResponse, error) {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.loadBill(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	action, err := fn(b)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		b.MarkLedgerPending()
		if err := repos.Bills.SaveWithLock(ctx, b); err != nil {
			return err
		}
		txHash, err := s.ledger.Submit(ctx, bill.LedgerSubmission{
			BillID:     b.ID,
			BillNumber: b.BillNumber,
			Action:     action,
			Payload:    map[string]any{"status": b.Status.String()},
		})
		if err != nil {
			return err
		}
		b.MarkLedgerConfirmed(txHash)
		return repos.Bills.Save(ctx, b)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, b)
	s.logger.Info("bill state changed",
		zap.String("bill_number", b.BillNumber),
		zap.String("status", b.Status.String()),
		zap.String("action", string(action)))

	return toBillResponse(b), nil
}

func (s *BillService) loadBill(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	b, err := s.repos.Bills.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Bill not found")
	}
	return b, nil
}

func (s *BillService) requireActiveParty(ctx context.Context, address string) error {
	active, err := s.registry.IsPartyActive(ctx, address)
	if err != nil {
		return err
	}
	if !active {
		return shared.NewDomainError(bill.CodePartyNotActive, "Party "+address+" is not an active participant")
	}
	return nil
}

// publishEvents publishes the aggregate's pending events best-effort; a
// publish failure never fails the operation that produced them
func (s *BillService) publishEvents(ctx context.Context, b *bill.Bill) {
	events := b.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events",
			zap.String("bill_number", b.BillNumber),
			zap.Error(err))
	}
	b.ClearDomainEvents()
}
