package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/menuhub/backend/internal/application/identity"
	"github.com/shopspring/decimal"
)

// BranchRequest contains the editable fields of a branch
type BranchRequest struct {
	Name         string           `json:"name" binding:"required,max=200"`
	Address      string           `json:"address" binding:"max=500"`
	City         string           `json:"city" binding:"max=100"`
	Phone        string           `json:"phone" binding:"max=50"`
	Email        string           `json:"email" binding:"omitempty,email,max=255"`
	OpeningHours string           `json:"opening_hours" binding:"max=500"`
	DeliveryFee  *decimal.Decimal `json:"delivery_fee"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
}

func (r BranchRequest) toInput() identityapp.BranchInput {
	return identityapp.BranchInput{
		Name:         r.Name,
		Address:      r.Address,
		City:         r.City,
		Phone:        r.Phone,
		Email:        r.Email,
		OpeningHours: r.OpeningHours,
		DeliveryFee:  r.DeliveryFee,
		TaxRate:      r.TaxRate,
	}
}

// ToggleRequest switches a flag on or off
type ToggleRequest struct {
	Value *bool `json:"value" binding:"required"`
}

// BranchHandler handles branch-related HTTP requests
type BranchHandler struct {
	BaseHandler
	branchService *identityapp.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(branchService *identityapp.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// Create godoc
// @Summary      Create a branch
// @Description  Fails with LIMIT_REACHED once the plan's branch allowance is used
// @Tags         branches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BranchRequest true "Branch"
// @Success      201 {object} dto.Response{data=identityapp.BranchResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req BranchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	branch, err := h.branchService.Create(c.Request.Context(), tenantID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, branch)
}

// List godoc
// @Summary      List branches
// @Tags         branches
// @Produce      json
// @Security     BearerAuth
// @Param        active query bool false "Only active or inactive branches"
// @Success      200 {object} dto.Response{data=[]identityapp.BranchResponse}
// @Router       /branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	active, ok := h.optionalBoolQuery(c, "active")
	if !ok {
		return
	}
	h.list(c, tenantID, active)
}

// ListPublic godoc
// @Summary      Active branches of the storefront
// @Tags         storefront
// @Produce      json
// @Param        tenantId path string true "Tenant ID or subdomain"
// @Success      200 {object} dto.Response{data=[]identityapp.BranchResponse}
// @Router       /tenant/{tenantId}/branches [get]
func (h *BranchHandler) ListPublic(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	active := true
	h.list(c, tenantID, &active)
}

func (h *BranchHandler) list(c *gin.Context, tenantID uuid.UUID, active *bool) {
	branches, err := h.branchService.List(c.Request.Context(), tenantID, active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branches)
}

// GetByID godoc
// @Summary      Get a branch
// @Tags         branches
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Branch ID"
// @Success      200 {object} dto.Response{data=identityapp.BranchResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /branches/{id} [get]
func (h *BranchHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	branch, err := h.branchService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branch)
}

// Update godoc
// @Summary      Update a branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Branch ID"
// @Param        request body BranchRequest true "Branch"
// @Success      200 {object} dto.Response{data=identityapp.BranchResponse}
// @Router       /branches/{id} [put]
func (h *BranchHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req BranchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	branch, err := h.branchService.Update(c.Request.Context(), tenantID, id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branch)
}

// SetActive godoc
// @Summary      Activate or deactivate a branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Branch ID"
// @Param        request body ToggleRequest true "Active flag"
// @Success      200 {object} dto.Response{data=identityapp.BranchResponse}
// @Router       /branches/{id}/active [patch]
func (h *BranchHandler) SetActive(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ToggleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	branch, err := h.branchService.SetActive(c.Request.Context(), tenantID, id, *req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branch)
}

// SetMain godoc
// @Summary      Make a branch the main one
// @Tags         branches
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Branch ID"
// @Success      200 {object} dto.Response{data=identityapp.BranchResponse}
// @Router       /branches/{id}/main [post]
func (h *BranchHandler) SetMain(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	branch, err := h.branchService.SetMain(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branch)
}

// Delete godoc
// @Summary      Delete a branch
// @Description  Branches with an open cash register cannot be deleted
// @Tags         branches
// @Security     BearerAuth
// @Param        id path string true "Branch ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /branches/{id} [delete]
func (h *BranchHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.branchService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
