package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Settings retrieved successfully", settings)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var request services.UpdateSettingsRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), &request, shared.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "settings", settings.Key)
	utils.SuccessResponse(c, "Settings updated successfully", settings)
}
