package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/menuhub/backend/internal/application/finance"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
)

// ExpenseListQuery represents the query string of the expense list
type ExpenseListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Category string `form:"category" binding:"max=100"`
}

// ExpenseHandler handles expenses and the finance totals
type ExpenseHandler struct {
	BaseHandler
	expenseService *financeapp.ExpenseService
	totalsService  *financeapp.TotalsService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *financeapp.ExpenseService, totalsService *financeapp.TotalsService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		totalsService:  totalsService,
	}
}

// Create godoc
// @Summary      Record an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body financeapp.ExpenseInput true "Expense"
// @Success      201 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req financeapp.ExpenseInput
	if !h.BindJSON(c, &req) {
		return
	}
	if userID, ok := middleware.GetUserUUID(c); ok {
		req.CreatedBy = &userID
	}

	expense, err := h.expenseService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// List godoc
// @Summary      List expenses
// @Description  Most recent date first
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        branch_id query string false "Branch ID"
// @Param        category query string false "Category"
// @Param        from query string false "From date"
// @Param        to query string false "To date"
// @Success      200 {object} dto.Response{data=[]financeapp.ExpenseResponse}
// @Router       /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q ExpenseListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter := financeapp.ExpenseFilter{Page: q.Page, PageSize: q.PageSize, Category: q.Category}
	if filter.BranchID, ok = h.optionalUUIDQuery(c, "branch_id"); !ok {
		return
	}
	if filter.From, ok = h.optionalTimeQuery(c, "from"); !ok {
		return
	}
	if filter.To, ok = h.optionalTimeQuery(c, "to"); !ok {
		return
	}

	page, err := h.expenseService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetByID godoc
// @Summary      Get an expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	expense, err := h.expenseService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Update godoc
// @Summary      Update an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Expense ID"
// @Param        request body financeapp.ExpenseInput true "Expense"
// @Success      200 {object} dto.Response{data=financeapp.ExpenseResponse}
// @Router       /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req financeapp.ExpenseInput
	if !h.BindJSON(c, &req) {
		return
	}
	expense, err := h.expenseService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Delete godoc
// @Summary      Delete an expense
// @Description  The receipt image is removed with it
// @Tags         expenses
// @Security     BearerAuth
// @Param        id path string true "Expense ID"
// @Success      204
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.expenseService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Totals godoc
// @Summary      Revenue, expenses and profit of a period
// @Description  Revenue counts paid orders that were not cancelled
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        branch_id query string false "Branch ID"
// @Param        from query string false "From date, defaults to the first day of the month"
// @Param        to query string false "To date, defaults to now"
// @Success      200 {object} dto.Response{data=financeapp.TotalsResponse}
// @Router       /finance/totals [get]
func (h *ExpenseHandler) Totals(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	branchID, ok := h.optionalUUIDQuery(c, "branch_id")
	if !ok {
		return
	}
	from, to, ok := h.periodQuery(c)
	if !ok {
		return
	}
	totals, err := h.totalsService.Totals(c.Request.Context(), tenantID, branchID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}
