package handler

import (
	"github.com/gin-gonic/gin"
	partyapp "github.com/scf/backend/internal/application/party"
	"github.com/scf/backend/internal/domain/shared"
)

// PartyHandler handles participant directory API endpoints
type PartyHandler struct {
	BaseHandler
	partyService *partyapp.PartyService
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(partyService *partyapp.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

// RegisterRoutes registers party routes on the given router group
func (h *PartyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	parties := rg.Group("/parties")
	{
		parties.POST("", h.Register)
		parties.GET("", h.List)
		parties.GET("/address/:address", h.GetByAddress)
		parties.GET("/:id", h.Get)
		parties.POST("/:id/suspend", h.Suspend)
		parties.POST("/:id/reinstate", h.Reinstate)
	}
}

// listPartiesRequest defines pagination parameters for party listing
type listPartiesRequest struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Register registers a new participant
func (h *PartyHandler) Register(c *gin.Context) {
	var req partyapp.RegisterPartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.partyService.RegisterParty(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists registered participants
func (h *PartyHandler) List(c *gin.Context) {
	var req listPartiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	filter.Search = req.Search
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	page, err := h.partyService.ListParties(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single party by ID
func (h *PartyHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid party ID")
		return
	}

	resp, err := h.partyService.GetParty(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByAddress returns a single party by its network address
func (h *PartyHandler) GetByAddress(c *gin.Context) {
	resp, err := h.partyService.GetPartyByAddress(c.Request.Context(), c.Param("address"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Suspend temporarily bars a party from bill operations
func (h *PartyHandler) Suspend(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid party ID")
		return
	}

	resp, err := h.partyService.SuspendParty(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reinstate reactivates a suspended party
func (h *PartyHandler) Reinstate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid party ID")
		return
	}

	resp, err := h.partyService.ReinstateParty(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
