package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutService services.CheckoutService
}

func NewCheckoutHandler(checkoutService services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// Quote prices the cart. An unserviceable address is reported in the body, not as an error.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	userID, err := shared.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.CheckoutRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	quote, err := h.checkoutService.Quote(c.Request.Context(), userID, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Checkout quote calculated", quote)
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	userID, err := shared.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.CheckoutRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Logger(c).WithFields(map[string]interface{}{
		"order_id":     order.ID.Hex(),
		"order_number": order.Number,
		"user_id":      userID.Hex(),
	}).Info("Order placed")
	utils.CreatedResponse(c, "Order placed successfully", order)
}
