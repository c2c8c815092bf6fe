package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/floresya/backend/internal/application/catalog"
)

// OccasionHandler handles occasion API endpoints
type OccasionHandler struct {
	BaseHandler
	occasionService *catalogapp.OccasionService
}

// NewOccasionHandler creates a new OccasionHandler
func NewOccasionHandler(occasionService *catalogapp.OccasionService) *OccasionHandler {
	return &OccasionHandler{occasionService: occasionService}
}

// List handles GET /occasions. Admins can ask for deactivated ones too.
func (h *OccasionHandler) List(c *gin.Context) {
	includeDeactivated := c.Query("include_deactivated") == "true"

	resp, err := h.occasionService.List(c.Request.Context(), includeDeactivated)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID handles GET /occasions/:id
func (h *OccasionHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid occasion ID format")
		return
	}

	resp, err := h.occasionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetBySlug handles GET /occasions/slug/:slug
func (h *OccasionHandler) GetBySlug(c *gin.Context) {
	resp, err := h.occasionService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Create handles POST /admin/occasions
func (h *OccasionHandler) Create(c *gin.Context) {
	var req catalogapp.CreateOccasionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.occasionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update handles PUT /admin/occasions/:id
func (h *OccasionHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid occasion ID format")
		return
	}

	var req catalogapp.UpdateOccasionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.occasionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete handles DELETE /admin/occasions/:id
func (h *OccasionHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid occasion ID format")
		return
	}

	if err := h.occasionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Restore handles POST /admin/occasions/:id/restore
func (h *OccasionHandler) Restore(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid occasion ID format")
		return
	}

	resp, err := h.occasionService.Restore(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
