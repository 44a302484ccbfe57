package handler

import (
	"github.com/gin-gonic/gin"
	billapp "github.com/scf/backend/internal/application/bill"
)

// BillHandler handles bill lifecycle API endpoints
type BillHandler struct {
	BaseHandler
	billService *billapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *billapp.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// RegisterRoutes registers bill routes on the given router group
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bills := rg.Group("/bills")
	{
		bills.POST("", h.Issue)
		bills.GET("", h.List)
		bills.GET("/stats/summary", h.StatusSummary)
		bills.GET("/number/:number", h.GetByNumber)
		bills.GET("/:id", h.Get)
		bills.POST("/:id/accept", h.Accept)
		bills.POST("/:id/pay", h.Pay)
		bills.POST("/:id/endorse", h.Endorse)
		bills.POST("/:id/discount", h.Discount)
		bills.POST("/:id/repay", h.Repay)
		bills.POST("/:id/mature", h.HandleMaturity)
		bills.POST("/:id/cancel", h.Cancel)
		bills.POST("/:id/freeze", h.Freeze)
		bills.POST("/:id/unfreeze", h.Unfreeze)
		bills.GET("/:id/endorsements", h.EndorsementChain)
		bills.GET("/:id/discounts", h.DiscountRecords)
		bills.GET("/:id/repayments", h.RepaymentRecords)
		bills.GET("/:id/reconciliation", h.Reconcile)
	}
}

// Issue creates a new bill and records it on the ledger
func (h *BillHandler) Issue(c *gin.Context) {
	var req billapp.IssueBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.billService.IssueBill(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists bills with filtering and pagination
func (h *BillHandler) List(c *gin.Context) {
	var filter billapp.BillListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.billService.ListBills(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// StatusSummary returns bill counts grouped by lifecycle status
func (h *BillHandler) StatusSummary(c *gin.Context) {
	resp, err := h.billService.GetStatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get returns a single bill by ID
func (h *BillHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	resp, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber returns a single bill by its bill number
func (h *BillHandler) GetByNumber(c *gin.Context) {
	resp, err := h.billService.GetBillByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Accept records the drawee's acceptance of the bill
func (h *BillHandler) Accept(c *gin.Context) {
	caller, err := getCallerAddress(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	resp, err := h.billService.AcceptBill(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Pay settles an issued bill directly
func (h *BillHandler) Pay(c *gin.Context) {
	caller, err := getCallerAddress(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	resp, err := h.billService.PayBill(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Endorse transfers holder rights to the endorsee
func (h *BillHandler) Endorse(c *gin.Context) {
	caller, err := getCallerAddress(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req billapp.EndorseBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.billService.EndorseBill(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Discount sells the bill to a financial institution before maturity
func (h *BillHandler) Discount(c *gin.Context) {
	caller, err := getCallerAddress(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req billapp.DiscountBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.billService.DiscountBill(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Repay settles a discounted bill at or after maturity
func (h *BillHandler) Repay(c *gin.Context) {
	caller, err := getCallerAddress(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req billapp.RepayBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.billService.RepayBill(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// HandleMaturity flags the bill's open discount record as matured
func (h *BillHandler) HandleMaturity(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	resp, err := h.billService.HandleMaturity(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel voids the bill locally
func (h *BillHandler) Cancel(c *gin.Context) {
	caller, err := getCallerAddress(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req billapp.CancelBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.billService.CancelBill(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Freeze places the bill under an administrative hold
func (h *BillHandler) Freeze(c *gin.Context) {
	caller, err := getCallerAddress(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req billapp.FreezeBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.billService.FreezeBill(c.Request.Context(), caller, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Unfreeze lifts an administrative hold
func (h *BillHandler) Unfreeze(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	var req billapp.UnfreezeBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.billService.UnfreezeBill(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// EndorsementChain returns the bill's endorsement records in sequence order
func (h *BillHandler) EndorsementChain(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	resp, err := h.billService.GetEndorsementChain(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DiscountRecords returns all discount records of the bill
func (h *BillHandler) DiscountRecords(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	resp, err := h.billService.GetDiscountRecords(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RepaymentRecords returns all repayment records of the bill
func (h *BillHandler) RepaymentRecords(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	resp, err := h.billService.GetRepaymentRecords(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reconcile compares the local endorsement chain with the ledger's record
func (h *BillHandler) Reconcile(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid bill ID")
		return
	}

	resp, err := h.billService.ReconcileEndorsements(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
