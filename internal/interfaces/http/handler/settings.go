package handler

import (
	"github.com/gin-gonic/gin"

	settingsapp "github.com/floresya/backend/internal/application/settings"
)

// SettingsHandler handles settings API endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingsapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// ListPublic handles GET /settings. Only public settings are exposed
// to the storefront.
func (h *SettingsHandler) ListPublic(c *gin.Context) {
	resp, err := h.settingsService.List(c.Request.Context(), true)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List handles GET /admin/settings
func (h *SettingsHandler) List(c *gin.Context) {
	resp, err := h.settingsService.List(c.Request.Context(), false)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByKey handles GET /admin/settings/:key
func (h *SettingsHandler) GetByKey(c *gin.Context) {
	resp, err := h.settingsService.GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetValue handles GET /admin/settings/:key/value. The value comes back
// converted to its declared type instead of the stored string.
func (h *SettingsHandler) GetValue(c *gin.Context) {
	key := c.Param("key")
	value, err := h.settingsService.GetTypedValue(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"key": key, "value": value})
}

// Create handles POST /admin/settings
func (h *SettingsHandler) Create(c *gin.Context) {
	var req settingsapp.CreateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.settingsService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update handles PUT /admin/settings/:key
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsapp.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.settingsService.Update(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete handles DELETE /admin/settings/:key
func (h *SettingsHandler) Delete(c *gin.Context) {
	if err := h.settingsService.Delete(c.Request.Context(), c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
