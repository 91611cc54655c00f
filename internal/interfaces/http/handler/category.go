package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/menuhub/backend/internal/application/catalog"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
)

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CreateCategoryRequest represents a request to create a new category
// @Description Request body for creating a category or, with parent_id, a subcategory
type CreateCategoryRequest struct {
	BranchID    uuid.UUID  `json:"branch_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	ParentID    *uuid.UUID `json:"parent_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Name        string     `json:"name" binding:"required,min=1,max=100" example:"Pizzas"`
	Description string     `json:"description" binding:"max=1000" example:"A la piedra"`
	ImageURL    string     `json:"image_url" binding:"omitempty,url"`
	Order       *int       `json:"order" binding:"omitempty,min=0" example:"0"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100" example:"Pizzas"`
	Description string `json:"description" binding:"max=1000"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	Active      *bool  `json:"active"`
}

// ReorderCategoriesRequest sets the position of several categories at once
type ReorderCategoriesRequest struct {
	Items []catalogapp.OrderChangeInput `json:"items" binding:"required,min=1,dive"`
}

// Create godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCategoryRequest true "Category"
// @Success      201 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req CreateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input := catalogapp.CreateCategoryInput{
		BranchID:    req.BranchID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Order:       req.Order,
	}
	if userID, ok := middleware.GetUserUUID(c); ok {
		input.CreatedBy = &userID
	}

	category, err := h.categoryService.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// ListByBranch godoc
// @Summary      List the categories of a branch
// @Description  Top-level categories sorted by order then name, each with its subcategories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        branch_id query string true "Branch ID"
// @Param        active_only query bool false "Skip inactive categories"
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Router       /categories [get]
func (h *CategoryHandler) ListByBranch(c *gin.Context) {
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
	activeOnly, ok := h.optionalBoolQuery(c, "active_only")
	if !ok {
		return
	}
	categories, err := h.categoryService.ListByBranch(c.Request.Context(), tenantID, *branchID, activeOnly != nil && *activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetByID godoc
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	category, err := h.categoryService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// ListSubcategories godoc
// @Summary      List the subcategories of a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Parent category ID"
// @Param        active_only query bool false "Skip inactive subcategories"
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Router       /categories/{id}/subcategories [get]
func (h *CategoryHandler) ListSubcategories(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	activeOnly, ok := h.optionalBoolQuery(c, "active_only")
	if !ok {
		return
	}
	subcategories, err := h.categoryService.ListSubcategories(c.Request.Context(), tenantID, id, activeOnly != nil && *activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subcategories)
}

// Update godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Param        request body UpdateCategoryRequest true "Category"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Update(c.Request.Context(), tenantID, id, catalogapp.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Reorder godoc
// @Summary      Reorder categories
// @Tags         categories
// @Accept       json
// @Security     BearerAuth
// @Param        request body ReorderCategoriesRequest true "New positions"
// @Success      204
// @Router       /categories/reorder [put]
func (h *CategoryHandler) Reorder(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req ReorderCategoriesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.categoryService.Reorder(c.Request.Context(), tenantID, req.Items); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @Summary      Delete a category
// @Description  Categories that still hold subcategories or products cannot be deleted
// @Tags         categories
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
