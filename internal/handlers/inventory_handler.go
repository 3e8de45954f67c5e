package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService services.InventoryService
}

func NewInventoryHandler(inventoryService services.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// Adjust applies a manual stock change to the product in the path.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	productID, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.AdjustStockRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	adjustment := services.StockAdjustment{
		ProductID: productID,
		Delta:     request.Delta,
		Reason:    request.Reason,
		Note:      request.Note,
		ActorID:   shared.Actor(c).IDPtr(),
	}

	movement, err := h.inventoryService.Adjust(c.Request.Context(), adjustment)
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "adjust_stock", "product", productID.Hex())
	utils.SuccessResponse(c, "Stock adjusted successfully", movement)
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	productID, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	params := utils.GetPaginationParams(c)

	movements, total, err := h.inventoryService.Movements(c.Request.Context(), productID, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Inventory movements retrieved successfully", movements, params, total)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	products, total, err := h.inventoryService.LowStock(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Low stock products retrieved successfully", products, params, total)
}
