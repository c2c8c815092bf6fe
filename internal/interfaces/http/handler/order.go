package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	orderapp "github.com/floresya/backend/internal/application/order"
	"github.com/floresya/backend/internal/domain/order"
	"github.com/floresya/backend/internal/interfaces/http/dto"
)

// OrderHandler handles order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
	statsService *orderapp.StatsService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService, statsService *orderapp.StatsService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		statsService: statsService,
	}
}

// Create handles POST /orders. Checkout is open to anonymous customers;
// a valid bearer token links the order to the account.
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.Create(c.Request.Context(), getOptionalUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByNumber handles GET /orders/number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	resp, err := h.orderService.GetByOrderNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID handles GET /admin/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List handles GET /admin/orders
func (h *OrderHandler) List(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	items, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListMine handles GET /orders/mine for logged-in customers
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	items, total, err := h.orderService.ListByUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update handles PATCH /admin/orders/:id for delivery detail changes
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// History handles GET /admin/orders/:id/history
func (h *OrderHandler) History(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp.StatusHistory)
}

// UpdateStatus handles PATCH /admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	changedBy := getOptionalUserID(c)
	resp, err := h.orderService.UpdateStatus(c.Request.Context(), id, req, changedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel handles POST /admin/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	changedBy := getOptionalUserID(c)
	resp, err := h.orderService.Cancel(c.Request.Context(), id, req, changedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Stats handles GET /admin/orders/stats. Defaults to the last 30 days
// when no period is given; status, search and delivery_city narrow the
// figures the same way they narrow the order list.
func (h *OrderHandler) Stats(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'from' date, expected RFC3339")
			return
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'to' date, expected RFC3339")
			return
		}
		to = parsed
	}

	filter := orderapp.StatsFilter{
		From:         from,
		To:           to,
		Search:       c.Query("search"),
		DeliveryCity: c.Query("delivery_city"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := order.OrderStatus(statusStr)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown order status: "+statusStr)
			return
		}
		filter.Status = &status
	}

	resp, err := h.statsService.GetStats(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// bindListFilter binds common list query parameters
func (h *OrderHandler) bindListFilter(c *gin.Context) (orderapp.OrderListFilter, bool) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return orderapp.OrderListFilter{}, false
	}
	if listReq.Page <= 0 {
		listReq.Page = 1
	}
	if listReq.PageSize <= 0 {
		listReq.PageSize = 20
	}

	filter := orderapp.OrderListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := order.OrderStatus(statusStr)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown order status: "+statusStr)
			return orderapp.OrderListFilter{}, false
		}
		filter.Status = &status
	}

	if startStr := c.Query("start_date"); startStr != "" {
		parsed, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'start_date', expected RFC3339")
			return orderapp.OrderListFilter{}, false
		}
		filter.StartDate = &parsed
	}
	if endStr := c.Query("end_date"); endStr != "" {
		parsed, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'end_date', expected RFC3339")
			return orderapp.OrderListFilter{}, false
		}
		filter.EndDate = &parsed
	}

	if minStr := c.Query("min_total"); minStr != "" {
		parsed, err := decimal.NewFromString(minStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'min_total', expected a decimal amount")
			return orderapp.OrderListFilter{}, false
		}
		filter.MinTotalUSD = &parsed
	}
	if maxStr := c.Query("max_total"); maxStr != "" {
		parsed, err := decimal.NewFromString(maxStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'max_total', expected a decimal amount")
			return orderapp.OrderListFilter{}, false
		}
		filter.MaxTotalUSD = &parsed
	}

	return filter, true
}
