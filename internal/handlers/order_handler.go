package handlers

import (
	"time"

	"marketly/internal/handlers/shared"
	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := shared.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.ListMine(c.Request.Context(), userID, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Orders retrieved successfully", orders, params, total)
}

func (h *OrderHandler) GetMine(c *gin.Context) {
	userID, err := shared.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	orderID, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	order, err := h.orderService.GetMine(c.Request.Context(), userID, orderID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Order retrieved successfully", order)
}

// List filters by status, user_id and an RFC3339 from/to creation window.
func (h *OrderHandler) List(c *gin.Context) {
	userID, err := shared.QueryID(c, "user_id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	filter := interfaces.OrderFilter{
		UserID: userID,
		Status: models.OrderStatus(c.Query("status")),
	}
	if filter.From, err = queryTime(c, "from"); err != nil {
		_ = c.Error(err)
		return
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		_ = c.Error(err)
		return
	}
	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.List(c.Request.Context(), filter, params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.PaginatedResponse(c, "Orders retrieved successfully", orders, params, total)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Order retrieved successfully", order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := shared.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request services.UpdateOrderStatusRequest
	if err := shared.BindJSON(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, &request, shared.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	shared.Audit(c, "update_status:"+string(request.Status), "order", id.Hex())
	utils.SuccessResponse(c, "Order status updated successfully", order)
}

func queryTime(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, utils.NewValidationError("Invalid "+name, map[string]string{name: name + " must be an RFC3339 timestamp"})
	}
	return &value, nil
}
