package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/models"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type SeoHandler struct {
	seoService services.SeoService
}

func NewSeoHandler(seoService services.SeoService) *SeoHandler {
	return &SeoHandler{
		seoService: seoService,
	}
}

// Create stores metadata for an entity. A retired record for the same entity is restored.
func (h *SeoHandler) Create(c *gin.Context) {
	var request services.CreateSeoRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	record, err := h.seoService.Create(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "seo", record.ID.Hex())
	utils.CreatedResponse(c, "SEO record created successfully", record)
}

func (h *SeoHandler) Get(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	record, err := h.seoService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "SEO record retrieved successfully", record)
}

func (h *SeoHandler) Update(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateSeoRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	record, err := h.seoService.Update(c.Request.Context(), id, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "seo", id.Hex())
	utils.SuccessResponse(c, "SEO record updated successfully", record)
}

func (h *SeoHandler) Remove(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.seoService.Remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "seo", id.Hex())
	utils.SuccessResponse(c, "SEO record removed successfully", nil)
}

func (h *SeoHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	records, total, err := h.seoService.List(c.Request.Context(), models.SeoEntityType(c.Query("entity_type")), params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "SEO records retrieved successfully", records, params, total)
}

// Resolve finds the record for a slug, or for an entity when no slug is given.
func (h *SeoHandler) Resolve(c *gin.Context) {
	var request services.SeoResolveRequest
	if err := shared.BindQuery(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	record, err := h.seoService.Resolve(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "SEO record resolved", record)
}
