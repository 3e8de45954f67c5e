package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	couponService services.CouponService
}

func NewCouponHandler(couponService services.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

func (h *CouponHandler) Create(c *gin.Context) {
	var request services.CreateCouponRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "create", "coupon", coupon.ID.Hex())
	utils.CreatedResponse(c, "Coupon created successfully", coupon)
}

func (h *CouponHandler) Get(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	coupon, err := h.couponService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Coupon retrieved successfully", coupon)
}

func (h *CouponHandler) Update(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateCouponRequest
	if err := shared.BindPartialJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	coupon, err := h.couponService.Update(c.Request.Context(), id, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update", "coupon", id.Hex())
	utils.SuccessResponse(c, "Coupon updated successfully", coupon)
}

func (h *CouponHandler) Remove(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.couponService.Remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "remove", "coupon", id.Hex())
	utils.SuccessResponse(c, "Coupon removed successfully", nil)
}

func (h *CouponHandler) List(c *gin.Context) {
	status, err := shared.StatusFilter(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	params := utils.GetPaginationParams(c)

	coupons, total, err := h.couponService.List(c.Request.Context(), status, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Coupons retrieved successfully", coupons, params, total)
}

// Preview reports whether a code applies to the supplied cart. Ineligible codes are a
// normal result with a reason. Customer limits apply to the authenticated caller.
func (h *CouponHandler) Preview(c *gin.Context) {
	var request services.CouponPreviewRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	preview, err := h.couponService.Preview(c.Request.Context(), shared.Actor(c).IDPtr(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Coupon evaluated", preview)
}
