package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type ShippingHandler struct {
	shippingService services.ShippingService
}

func NewShippingHandler(shippingService services.ShippingService) *ShippingHandler {
	return &ShippingHandler{
		shippingService: shippingService,
	}
}

func (h *ShippingHandler) Create(c *gin.Context) {
	var request services.ShippingRuleRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	rule, err := h.shippingService.Create(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "shipping_rule", rule.ID.Hex())
	utils.CreatedResponse(c, "Shipping rule created successfully", rule)
}

func (h *ShippingHandler) Get(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	rule, err := h.shippingService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Shipping rule retrieved successfully", rule)
}

func (h *ShippingHandler) Update(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateShippingRuleRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	rule, err := h.shippingService.Update(c.Request.Context(), id, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "shipping_rule", id.Hex())
	utils.SuccessResponse(c, "Shipping rule updated successfully", rule)
}

func (h *ShippingHandler) Remove(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.shippingService.Remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "shipping_rule", id.Hex())
	utils.SuccessResponse(c, "Shipping rule removed successfully", nil)
}

func (h *ShippingHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	rules, total, err := h.shippingService.List(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Shipping rules retrieved successfully", rules, params, total)
}

func (h *ShippingHandler) Quote(c *gin.Context) {
	var request services.ShippingQuoteRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	quote, err := h.shippingService.Quote(c.Request.Context(), request.Input())
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Shipping quote calculated", quote)
}
