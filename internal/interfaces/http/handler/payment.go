package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	paymentapp "github.com/floresya/backend/internal/application/payment"
	"github.com/floresya/backend/internal/domain/payment"
	"github.com/floresya/backend/internal/interfaces/http/dto"
)

// PaymentHandler handles payment API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Confirm handles POST /orders/:id/payments. The customer reports a
// payment they made off-platform; an admin verifies it later.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req paymentapp.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.Confirm(c.Request.Context(), orderID, req, getOptionalUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID handles GET /admin/payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	resp, err := h.paymentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListByOrder handles GET /admin/orders/:id/payments
func (h *PaymentHandler) ListByOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.paymentService.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List handles GET /admin/payments
func (h *PaymentHandler) List(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if listReq.Page <= 0 {
		listReq.Page = 1
	}
	if listReq.PageSize <= 0 {
		listReq.PageSize = 20
	}

	filter := paymentapp.PaymentListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := payment.PaymentStatus(statusStr)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown payment status: "+statusStr)
			return
		}
		filter.Status = &status
	}
	if orderStr := c.Query("order_id"); orderStr != "" {
		orderID, err := uuid.Parse(orderStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'order_id' format")
			return
		}
		filter.OrderID = &orderID
	}
	if methodStr := c.Query("method_id"); methodStr != "" {
		methodID, err := uuid.Parse(methodStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'method_id' format")
			return
		}
		filter.MethodID = &methodID
	}
	if startStr := c.Query("start_date"); startStr != "" {
		parsed, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'start_date', expected RFC3339")
			return
		}
		filter.StartDate = &parsed
	}
	if endStr := c.Query("end_date"); endStr != "" {
		parsed, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'end_date', expected RFC3339")
			return
		}
		filter.EndDate = &parsed
	}

	items, total, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Complete handles POST /admin/payments/:id/complete
func (h *PaymentHandler) Complete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req paymentapp.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.Complete(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Fail handles POST /admin/payments/:id/fail
func (h *PaymentHandler) Fail(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req paymentapp.FailPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.Fail(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Refund handles POST /admin/payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req paymentapp.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.Refund(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListActiveMethods handles GET /payment-methods. Public, so the
// storefront can show customers how to pay.
func (h *PaymentHandler) ListActiveMethods(c *gin.Context) {
	resp, err := h.paymentService.ListActiveMethods(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListAllMethods handles GET /admin/payment-methods
func (h *PaymentHandler) ListAllMethods(c *gin.Context) {
	resp, err := h.paymentService.ListAllMethods(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CreateMethod handles POST /admin/payment-methods
func (h *PaymentHandler) CreateMethod(c *gin.Context) {
	var req paymentapp.CreateMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.CreateMethod(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// UpdateMethod handles PUT /admin/payment-methods/:id
func (h *PaymentHandler) UpdateMethod(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	var req paymentapp.UpdateMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.UpdateMethod(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteMethod handles DELETE /admin/payment-methods/:id
func (h *PaymentHandler) DeleteMethod(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment method ID format")
		return
	}

	if err := h.paymentService.DeleteMethod(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
