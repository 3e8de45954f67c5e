package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) Get(c *gin.Context) {
	userID, err := shared.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Cart retrieved successfully", cart)
}

// AddItem merges the quantity into an existing line for the same product.
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := shared.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.AddCartItemRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Item added to cart", cart)
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	userID, err := shared.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	productID, err := shared.ParamID(c, "product_id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.SetCartQuantityRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	cart, err := h.cartService.SetQuantity(c.Request.Context(), userID, productID, request.Quantity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Cart updated", cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := shared.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	productID, err := shared.ParamID(c, "product_id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Item removed from cart", cart)
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID, err := shared.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Cart cleared", nil)
}
