package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/menuhub/backend/internal/application/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Create godoc
// @Summary      Create a product
// @Description  Fails with LIMIT_REACHED once the plan's product allowance is used
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input := req.toInput()
	if userID, ok := middleware.GetUserUUID(c); ok {
		input.CreatedBy = &userID
	}
	product, err := h.productService.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// List godoc
// @Summary      List products
// @Description  Sorted by order then name
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        branch_id query string false "Branch ID"
// @Param        category_id query string false "Category ID"
// @Param        subcategory_id query string false "Subcategory ID"
// @Param        available query bool false "Availability"
// @Param        featured query bool false "Featured flag"
// @Param        search query string false "Name"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.BindQuery(c, &q) {
		return
	}
	filter := catalogapp.ProductFilter{Page: q.Page, PageSize: q.PageSize, Search: q.Search}
	if filter.BranchID, ok = h.optionalUUIDQuery(c, "branch_id"); !ok {
		return
	}
	if filter.CategoryID, ok = h.optionalUUIDQuery(c, "category_id"); !ok {
		return
	}
	if filter.SubcategoryID, ok = h.optionalUUIDQuery(c, "subcategory_id"); !ok {
		return
	}
	if filter.Available, ok = h.optionalBoolQuery(c, "available"); !ok {
		return
	}
	if filter.Featured, ok = h.optionalBoolQuery(c, "featured"); !ok {
		return
	}

	page, err := h.productService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetByID godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetPublic godoc
// @Summary      Storefront product detail
// @Description  Unavailable products are not shown
// @Tags         storefront
// @Produce      json
// @Param        tenantId path string true "Tenant ID or subdomain"
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenant/{tenantId}/products/{id} [get]
func (h *ProductHandler) GetPublic(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), tenantID, id)
	if err == nil && !product.Available {
		err = shared.ErrNotFound
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Menu godoc
// @Summary      Storefront menu of a branch
// @Description  Available products grouped by active category and subcategory
// @Tags         storefront
// @Produce      json
// @Param        tenantId path string true "Tenant ID or subdomain"
// @Param        branchId path string true "Branch ID"
// @Success      200 {object} dto.Response{data=catalogapp.MenuResponse}
// @Router       /tenant/{tenantId}/branches/{branchId}/menu [get]
func (h *ProductHandler) Menu(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	branchID, ok := h.uuidParam(c, "branchId")
	if !ok {
		return
	}
	menu, err := h.productService.Menu(c.Request.Context(), tenantID, branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, menu)
}

// Update godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body ProductRequest true "Product"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), tenantID, id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetAvailable godoc
// @Summary      Change product availability
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body ToggleRequest true "Available flag"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Router       /products/{id}/available [patch]
func (h *ProductHandler) SetAvailable(c *gin.Context) {
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
	product, err := h.productService.SetAvailable(c.Request.Context(), tenantID, id, *req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetFeatured godoc
// @Summary      Mark or unmark a product as featured
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body ToggleRequest true "Featured flag"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Router       /products/{id}/featured [patch]
func (h *ProductHandler) SetFeatured(c *gin.Context) {
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
	product, err := h.productService.SetFeatured(c.Request.Context(), tenantID, id, *req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// AddExtra godoc
// @Summary      Add an extra to a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body ExtraRequest true "Extra"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/extras [post]
func (h *ProductHandler) AddExtra(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ExtraRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.productService.AddExtra(c.Request.Context(), tenantID, id, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// UpdateExtra godoc
// @Summary      Update a product extra
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        extraId path string true "Extra ID"
// @Param        request body ExtraRequest true "Extra"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Router       /products/{id}/extras/{extraId} [put]
func (h *ProductHandler) UpdateExtra(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	extraID, ok := h.uuidParam(c, "extraId")
	if !ok {
		return
	}
	var req ExtraRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.productService.UpdateExtra(c.Request.Context(), tenantID, id, extraID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// RemoveExtra godoc
// @Summary      Remove a product extra
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        extraId path string true "Extra ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Router       /products/{id}/extras/{extraId} [delete]
func (h *ProductHandler) RemoveExtra(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	extraID, ok := h.uuidParam(c, "extraId")
	if !ok {
		return
	}
	product, err := h.productService.RemoveExtra(c.Request.Context(), tenantID, id, extraID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      204
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
