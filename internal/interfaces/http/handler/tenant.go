package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/menuhub/backend/internal/application/identity"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
)

// TenantHandler handles tenant management and the configuration wizard
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
	setupService  *identityapp.SetupService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identityapp.TenantService, setupService *identityapp.SetupService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		setupService:  setupService,
	}
}

// Create godoc
// @Summary      Create a tenant
// @Description  Creates a restaurant and, when given, its owner account. Superadmin only.
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTenantRequest true "Tenant"
// @Success      201 {object} dto.Response{data=identityapp.TenantResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input := identityapp.CreateTenantInput{
		Subdomain: req.Subdomain,
		Name:      req.Name,
		Plan:      req.Plan,
		Contact:   req.Contact.toDomain(),
	}
	if req.Owner != nil {
		input.Owner = &identityapp.OwnerInput{
			Email:       req.Owner.Email,
			Password:    req.Owner.Password,
			DisplayName: req.Owner.DisplayName,
		}
	}

	tenant, err := h.tenantService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tenant)
}

// List godoc
// @Summary      List tenants
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Name or subdomain"
// @Param        status query string false "active, inactive or suspended"
// @Param        plan query string false "Plan"
// @Success      200 {object} dto.Response{data=[]identityapp.TenantResponse}
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	var q TenantListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.tenantService.List(c.Request.Context(), identityapp.TenantFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
		Status:   q.Status,
		Plan:     q.Plan,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetByID godoc
// @Summary      Get a tenant
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	tenant, err := h.tenantService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// UpdateInfo godoc
// @Summary      Update name and contact data
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Param        request body UpdateTenantRequest true "Tenant information"
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Router       /tenants/{id} [put]
func (h *TenantHandler) UpdateInfo(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTenantRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.UpdateInfo(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// UpdateBranding godoc
// @Summary      Update logo, banner and colors
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Param        request body BrandingRequest true "Branding"
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Router       /tenants/{id}/branding [put]
func (h *TenantHandler) UpdateBranding(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req BrandingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.UpdateBranding(c.Request.Context(), id, req.toDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// UpdateSettings godoc
// @Summary      Update ordering settings
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Param        request body SettingsRequest true "Settings"
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Router       /tenants/{id}/settings [put]
func (h *TenantHandler) UpdateSettings(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req SettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.UpdateSettings(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// ChangePlan godoc
// @Summary      Change the subscription plan
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Param        request body ChangePlanRequest true "Plan"
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Router       /tenants/{id}/plan [put]
func (h *TenantHandler) ChangePlan(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ChangePlanRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.ChangePlan(c.Request.Context(), id, req.Plan)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Activate godoc
// @Summary      Activate a tenant
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Router       /tenants/{id}/activate [post]
func (h *TenantHandler) Activate(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	tenant, err := h.tenantService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Suspend godoc
// @Summary      Suspend a tenant
// @Description  A suspended tenant keeps its data but its storefront stops answering
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=identityapp.TenantResponse}
// @Router       /tenants/{id}/suspend [post]
func (h *TenantHandler) Suspend(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	tenant, err := h.tenantService.Suspend(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Delete godoc
// @Summary      Delete a tenant
// @Tags         tenants
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Success      204
// @Router       /tenants/{id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.tenantService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetSetup godoc
// @Summary      Configuration wizard state
// @Tags         tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=identityapp.SetupResponse}
// @Router       /tenants/{id}/setup [get]
func (h *TenantHandler) GetSetup(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	setup, err := h.setupService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setup)
}

// AdvanceSetup godoc
// @Summary      Complete a configuration wizard step
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Param        request body AdvanceSetupRequest true "Step data"
// @Success      200 {object} dto.Response{data=identityapp.SetupResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenants/{id}/setup [put]
func (h *TenantHandler) AdvanceSetup(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req AdvanceSetupRequest
	if !h.BindJSON(c, &req) {
		return
	}
	setup, err := h.setupService.Advance(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setup)
}

// Public godoc
// @Summary      Storefront profile of the tenant
// @Tags         storefront
// @Produce      json
// @Param        tenantId path string true "Tenant ID or subdomain"
// @Success      200 {object} dto.Response{data=identityapp.PublicTenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenant/{tenantId} [get]
func (h *TenantHandler) Public(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	if tenant == nil {
		h.tenantID(c)
		return
	}
	h.Success(c, tenant.Public())
}
