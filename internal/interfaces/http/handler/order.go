package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/menuhub/backend/internal/application/trade"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// TransitionRequest moves an order to another status
type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=new received preparing ready in_transit delivered completed cancelled"`
	Reason string `json:"reason" binding:"max=500"`
}

// CancelOrderRequest represents the request body for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// PaymentStatusRequest represents the request body for a payment status change
type PaymentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid refunded failed"`
}

// DiscountRequest sets the discount of a new order; zero clears it
type DiscountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

// ItemQuantityRequest changes the quantity of an order line
type ItemQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=99"`
}

// OrderListQuery represents the paging part of the order list query
type OrderListQuery struct {
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status        string `form:"status" binding:"omitempty,oneof=new received preparing ready in_transit delivered completed cancelled"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending paid refunded failed"`
}

// OrderHandler handles orders from the storefront and the back office
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Place godoc
// @Summary      Place an order
// @Description  Prices, tax and delivery fee are computed from the catalog and the tenant settings
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        tenantId path string true "Tenant ID or subdomain"
// @Param        request body tradeapp.PlaceOrderInput true "Order"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenant/{tenantId}/orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req tradeapp.PlaceOrderInput
	if !h.BindJSON(c, &req) {
		return
	}
	// orders are linked to the customer only when signed into this tenant
	if claims := middleware.GetClaims(c); claims != nil && claims.TenantID == tenantID.String() {
		if userID, ok := middleware.GetUserUUID(c); ok {
			req.UserID = &userID
		}
	}

	order, err := h.orderService.Place(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Track godoc
// @Summary      Track an order
// @Tags         storefront
// @Produce      json
// @Param        tenantId path string true "Tenant ID or subdomain"
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.OrderTrackingResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenant/{tenantId}/orders/{id} [get]
func (h *OrderHandler) Track(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	tracking, err := h.orderService.Track(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tracking)
}

// MyOrders godoc
// @Summary      Orders of the signed-in customer
// @Tags         storefront
// @Produce      json
// @Security     BearerAuth
// @Param        tenantId path string true "Tenant ID or subdomain"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tenant/{tenantId}/my-orders [get]
func (h *OrderHandler) MyOrders(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c)
		return
	}
	if claims.TenantID != tenantID.String() {
		h.Forbidden(c)
		return
	}
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.orderService.MyOrders(c.Request.Context(), tenantID, userID, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// List godoc
// @Summary      List orders
// @Description  Newest first
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        branch_id query string false "Branch ID"
// @Param        status query string false "Order status"
// @Param        payment_status query string false "Payment status"
// @Param        from query string false "From date (YYYY-MM-DD or RFC 3339)"
// @Param        to query string false "To date (YYYY-MM-DD or RFC 3339)"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q OrderListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter := tradeapp.OrderFilter{
		Page:          q.Page,
		PageSize:      q.PageSize,
		Status:        q.Status,
		PaymentStatus: q.PaymentStatus,
	}
	if filter.BranchID, ok = h.optionalUUIDQuery(c, "branch_id"); !ok {
		return
	}
	if filter.From, ok = h.optionalTimeQuery(c, "from"); !ok {
		return
	}
	if filter.To, ok = h.optionalTimeQuery(c, "to"); !ok {
		return
	}

	page, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetByID godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// NextStatuses godoc
// @Summary      Statuses an order can move to
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=[]tradeapp.StatusOption}
// @Router       /orders/{id}/next-statuses [get]
func (h *OrderHandler) NextStatuses(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	options, err := h.orderService.AllowedNextStatuses(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, options)
}

// Transition godoc
// @Summary      Change the status of an order
// @Description  Only moves allowed by the status table are accepted; concurrent changes answer 409
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body TransitionRequest true "Next status"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) Transition(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req TransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Transition(c.Request.Context(), tenantID, id, req.Status, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel godoc
// @Summary      Cancel an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body CancelOrderRequest true "Reason"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req CancelOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Cancel(c.Request.Context(), tenantID, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdatePayment godoc
// @Summary      Change the payment status of an order
// @Description  A paid order is booked as a sale in the open cash register of its branch
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body PaymentStatusRequest true "Payment status"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Router       /orders/{id}/payment [patch]
func (h *OrderHandler) UpdatePayment(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req PaymentStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), tenantID, id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ApplyDiscount godoc
// @Summary      Set the discount of an order
// @Description  Only orders still in the new status can be edited
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body DiscountRequest true "Discount"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/discount [patch]
func (h *OrderHandler) ApplyDiscount(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req DiscountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.ApplyDiscount(c.Request.Context(), tenantID, id, req.Discount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateItem godoc
// @Summary      Change the quantity of an order line
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        itemId path string true "Order item ID"
// @Param        request body ItemQuantityRequest true "Quantity"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/items/{itemId} [patch]
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "itemId")
	if !ok {
		return
	}
	var req ItemQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateItemQuantity(c.Request.Context(), tenantID, id, itemID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RemoveItem godoc
// @Summary      Remove a line from an order
// @Description  The last line cannot be removed; cancel the order instead
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        itemId path string true "Order item ID"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/items/{itemId} [delete]
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "itemId")
	if !ok {
		return
	}
	order, err := h.orderService.RemoveItem(c.Request.Context(), tenantID, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Stats godoc
// @Summary      Order statistics of a period
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        branch_id query string false "Branch ID"
// @Param        from query string false "From date, defaults to the first day of the month"
// @Param        to query string false "To date, defaults to now"
// @Success      200 {object} dto.Response{data=tradeapp.OrderStatsResponse}
// @Router       /orders/stats [get]
func (h *OrderHandler) Stats(c *gin.Context) {
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
	stats, err := h.orderService.Stats(c.Request.Context(), tenantID, branchID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
