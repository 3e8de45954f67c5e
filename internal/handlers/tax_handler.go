package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	taxService services.TaxService
}

func NewTaxHandler(taxService services.TaxService) *TaxHandler {
	return &TaxHandler{
		taxService: taxService,
	}
}

func (h *TaxHandler) Create(c *gin.Context) {
	var request services.CreateTaxSlabRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	slab, err := h.taxService.Create(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "tax_slab", slab.ID.Hex())
	utils.CreatedResponse(c, "Tax slab created successfully", slab)
}

func (h *TaxHandler) Get(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	slab, err := h.taxService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Tax slab retrieved successfully", slab)
}

func (h *TaxHandler) Update(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateTaxSlabRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	slab, err := h.taxService.Update(c.Request.Context(), id, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "tax_slab", id.Hex())
	utils.SuccessResponse(c, "Tax slab updated successfully", slab)
}

func (h *TaxHandler) Remove(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.taxService.Remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "tax_slab", id.Hex())
	utils.SuccessResponse(c, "Tax slab removed successfully", nil)
}

func (h *TaxHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	slabs, total, err := h.taxService.List(c.Request.Context(), c.Query("hsn_code"), params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Tax slabs retrieved successfully", slabs, params, total)
}

func (h *TaxHandler) Calculate(c *gin.Context) {
	var request services.TaxCalculationRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.taxService.Calculate(c.Request.Context(), request.HSNCode, request.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Tax calculated", result)
}
