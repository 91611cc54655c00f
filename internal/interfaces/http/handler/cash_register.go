package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/menuhub/backend/internal/application/finance"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
)

// RegisterListQuery represents the query string of the cash register list
type RegisterListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=open closed"`
}

// CashRegisterHandler handles cash registers and their movements
type CashRegisterHandler struct {
	BaseHandler
	registerService *financeapp.CashRegisterService
}

// NewCashRegisterHandler creates a new CashRegisterHandler
func NewCashRegisterHandler(registerService *financeapp.CashRegisterService) *CashRegisterHandler {
	return &CashRegisterHandler{registerService: registerService}
}

// Open godoc
// @Summary      Open a cash register
// @Description  A branch holds at most one open register
// @Tags         cash-registers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body financeapp.OpenRegisterInput true "Register"
// @Success      201 {object} dto.Response{data=financeapp.RegisterResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cash-registers [post]
func (h *CashRegisterHandler) Open(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req financeapp.OpenRegisterInput
	if !h.BindJSON(c, &req) {
		return
	}
	req.OpenedBy = userID

	register, err := h.registerService.Open(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, register)
}

// List godoc
// @Summary      List cash registers
// @Description  Newest first
// @Tags         cash-registers
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        branch_id query string false "Branch ID"
// @Param        status query string false "open or closed"
// @Param        from query string false "Opened from"
// @Param        to query string false "Opened until"
// @Success      200 {object} dto.Response{data=[]financeapp.RegisterResponse}
// @Router       /cash-registers [get]
func (h *CashRegisterHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q RegisterListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter := financeapp.RegisterFilter{Page: q.Page, PageSize: q.PageSize, Status: q.Status}
	if filter.BranchID, ok = h.optionalUUIDQuery(c, "branch_id"); !ok {
		return
	}
	if filter.From, ok = h.optionalTimeQuery(c, "from"); !ok {
		return
	}
	if filter.To, ok = h.optionalTimeQuery(c, "to"); !ok {
		return
	}

	page, err := h.registerService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Current godoc
// @Summary      Open register of a branch
// @Tags         cash-registers
// @Produce      json
// @Security     BearerAuth
// @Param        branch_id query string true "Branch ID"
// @Success      200 {object} dto.Response{data=financeapp.RegisterResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cash-registers/current [get]
func (h *CashRegisterHandler) Current(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	branchID, ok := h.optionalUUIDQuery(c, "branch_id")
	if !ok {
		return
	}
	if branchID == nil {
		h.BadRequest(c, "branch_id es obligatorio")
		return
	}
	register, err := h.registerService.Current(c.Request.Context(), tenantID, *branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// GetByID godoc
// @Summary      Get a cash register
// @Tags         cash-registers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Register ID"
// @Success      200 {object} dto.Response{data=financeapp.RegisterResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cash-registers/{id} [get]
func (h *CashRegisterHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	register, err := h.registerService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// Summary godoc
// @Summary      Totals of a cash register
// @Tags         cash-registers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Register ID"
// @Success      200 {object} dto.Response{data=financeapp.SummaryResponse}
// @Router       /cash-registers/{id}/summary [get]
func (h *CashRegisterHandler) Summary(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	summary, err := h.registerService.Summary(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// AddMovement godoc
// @Summary      Record a cash movement
// @Description  Only open registers accept movements
// @Tags         cash-registers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Register ID"
// @Param        request body financeapp.MovementInput true "Movement"
// @Success      201 {object} dto.Response{data=financeapp.RegisterResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cash-registers/{id}/movements [post]
func (h *CashRegisterHandler) AddMovement(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req financeapp.MovementInput
	if !h.BindJSON(c, &req) {
		return
	}
	if userID, ok := middleware.GetUserUUID(c); ok {
		req.CreatedBy = &userID
	}

	register, err := h.registerService.AddMovement(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, register)
}

// RemoveMovement godoc
// @Summary      Remove a cash movement
// @Tags         cash-registers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Register ID"
// @Param        movementId path string true "Movement ID"
// @Success      200 {object} dto.Response{data=financeapp.RegisterResponse}
// @Router       /cash-registers/{id}/movements/{movementId} [delete]
func (h *CashRegisterHandler) RemoveMovement(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	movementID, ok := h.uuidParam(c, "movementId")
	if !ok {
		return
	}
	register, err := h.registerService.RemoveMovement(c.Request.Context(), tenantID, id, movementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// Close godoc
// @Summary      Close a cash register
// @Description  Stores the counted balance and its difference from the expected balance
// @Tags         cash-registers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Register ID"
// @Param        request body financeapp.CloseRegisterInput true "Closing count"
// @Success      200 {object} dto.Response{data=financeapp.RegisterResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cash-registers/{id}/close [post]
func (h *CashRegisterHandler) Close(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req financeapp.CloseRegisterInput
	if !h.BindJSON(c, &req) {
		return
	}
	req.ClosedBy = userID

	register, err := h.registerService.Close(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}
