package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type BrandHandler struct {
	brandService services.BrandService
}

func NewBrandHandler(brandService services.BrandService) *BrandHandler {
	return &BrandHandler{
		brandService: brandService,
	}
}

// Create adds a brand. Re-creating a retired brand by name restores it.
func (h *BrandHandler) Create(c *gin.Context) {
	var request services.CreateBrandRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	brand, err := h.brandService.Create(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "brand", brand.ID.Hex())
	utils.CreatedResponse(c, "Brand created successfully", brand)
}

func (h *BrandHandler) Get(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	brand, err := h.brandService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Brand retrieved successfully", brand)
}

func (h *BrandHandler) GetBySlug(c *gin.Context) {
	brand, err := h.brandService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Brand retrieved successfully", brand)
}

func (h *BrandHandler) Update(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateBrandRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	brand, err := h.brandService.Update(c.Request.Context(), id, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "brand", id.Hex())
	utils.SuccessResponse(c, "Brand updated successfully", brand)
}

func (h *BrandHandler) Remove(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.brandService.Remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "brand", id.Hex())
	utils.SuccessResponse(c, "Brand removed successfully", nil)
}

func (h *BrandHandler) List(c *gin.Context) {
	status, err := shared.StatusFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	params := utils.GetPaginationParams(c)

	brands, total, err := h.brandService.List(c.Request.Context(), status, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Brands retrieved successfully", brands, params, total)
}
